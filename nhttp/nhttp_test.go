package nhttp_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/muir/nwire"
	"github.com/muir/nwire/nhttp"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func container() *nwire.Container {
	return nwire.New(map[string]nwire.Definition{
		"listen.address": nwire.Value(":8080"),
		"http/address":   nwire.Alias("listen.address"),
		"broken":         nwire.Alias("missing"),
	})
}

func get(t *testing.T, h http.Handler, path string, into any) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	if into != nil {
		require.NoError(t, json.Unmarshal(body, into), string(body))
	}
	return rec.Code
}

func TestDefinitions(t *testing.T) {
	t.Parallel()
	h := nhttp.Handler(container())

	var infos []nhttp.DefinitionInfo
	require.Equal(t, http.StatusOK, get(t, h, "/definitions", &infos))
	keys := make([]string, len(infos))
	for i, info := range infos {
		keys[i] = info.Key
	}
	assert.Equal(t, []string{nwire.ContainerKey, "broken", "http/address", "listen.address"}, keys)

	var info nhttp.DefinitionInfo
	require.Equal(t, http.StatusOK, get(t, h, "/definitions/http/address", &info))
	assert.Equal(t, nhttp.DefinitionInfo{
		Key:        "http/address",
		Kind:       "alias",
		Definition: "alias(listen.address)",
	}, info)

	require.Equal(t, http.StatusOK, get(t, h, "/definitions/listen.address", &info))
	assert.Equal(t, "value(string)", info.Definition)

	var failure map[string]string
	assert.Equal(t, http.StatusNotFound, get(t, h, "/definitions/nope", &failure))
	assert.Equal(t, "'nope' is not bound", failure["error"])
}

func TestResolve(t *testing.T) {
	t.Parallel()
	h := nhttp.Handler(container())

	var res nhttp.Resolution
	require.Equal(t, http.StatusOK, get(t, h, "/resolve/http/address", &res))
	assert.Equal(t, nhttp.Resolution{Key: "http/address", OK: true, Type: "string"}, res)

	res = nhttp.Resolution{}
	require.Equal(t, http.StatusUnprocessableEntity, get(t, h, "/resolve/broken", &res))
	assert.False(t, res.OK)
	assert.Equal(t, []string{
		"could not get 'broken' from the container",
		"no value was bound for key 'missing'",
	}, res.Errors)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/resolve/", nil))
}

func TestGetReturnCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusInternalServerError, nhttp.GetReturnCode(errors.New("x")))
	assert.Equal(t, http.StatusNotFound, nhttp.GetReturnCode(nhttp.NotFound(errors.New("x"))))
	wrapped := errors.Wrap(nhttp.BadRequest(errors.New("x")), "outer")
	assert.Equal(t, http.StatusBadRequest, nhttp.GetReturnCode(wrapped))
	assert.Equal(t, "outer: x", wrapped.Error())
	assert.Equal(t, http.StatusTeapot, nhttp.GetReturnCode(nhttp.ReturnCode(errors.New("x"), http.StatusTeapot)))
}
