package nwire

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type speaker interface {
	Speak(word string) string
}

type loud struct{}

func (loud) Speak(word string) string { return strings.ToUpper(word) }

type counter struct {
	Start int `nwire:"counter.start"`
}

func (c counter) Count(steps ...int) int {
	n := c.Start
	for _, s := range steps {
		n += s
	}
	return n
}

func TestFactoryResultShapes(t *testing.T) {
	t.Parallel()
	c := New(map[string]Definition{
		"nothing":   Factory(func() {}),
		"value":     Factory(func() int { return 1 }),
		"nil error": Factory(func() error { return nil }),
		"error":     Factory(func() error { return errBoom }),
		"pair":      Factory(func() (string, error) { return "ok", nil }),
		"pair fail": Factory(func() (string, error) { return "ignored", errBoom }),
		"nil ptr":   Factory(func() *Plain { return nil }),
	})
	v, err := c.Get("nothing")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = c.Get("value")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = c.Get("nil error")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = c.Get("error")
	assert.ErrorIs(t, err, errBoom)

	v, err = c.Get("pair")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	v, err = c.Get("pair fail")
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, v)

	v, err = c.Get("nil ptr")
	require.NoError(t, err)
	assert.Equal(t, (*Plain)(nil), v)
}

func TestFactoryInvalid(t *testing.T) {
	t.Parallel()
	_, err := NewFactory(func() (int, int) { return 1, 2 })
	assert.ErrorContains(t, err, "must return nothing, a value, an error, or a value and an error")
	_, err = NewFactory(nil)
	assert.ErrorContains(t, err, "callable is nil")
	var f func()
	_, err = NewFactory(f)
	assert.ErrorContains(t, err, "is nil")
	_, err = NewFactory(MethodRef{Type: reflect.TypeOf(loud{}), Name: "Whisper"})
	assert.ErrorContains(t, err, "has no method Whisper")
	assert.Panics(t, func() { Factory(3) })
}

func TestFactoryPanic(t *testing.T) {
	t.Parallel()
	c := New(map[string]Definition{
		"p": Factory(func() int { panic("oops") }),
	})
	_, err := c.Get("p")
	require.Error(t, err)
	assert.Equal(t, "oops", RecoverInterface(err))
	assert.Contains(t, RecoverStack(err), "TestFactoryPanic")
	assert.Contains(t, err.Error(), "panic: oops")
	assert.Nil(t, RecoverInterface(errBoom))
	assert.Equal(t, "", RecoverStack(errBoom))
}

func TestMethodDefinitions(t *testing.T) {
	wrapTest(t, func(t *testing.T) {
		c := New(map[string]Definition{
			"log.prefix":    Value("~"),
			"counter.start": Value(10),
			"greeting":      Method[*greeter]("Greet", Params("name")).WithParameter("name", Value("al")),
			"count":         Method[counter]("Count", Default("arg0", []int{1, 2})),
			"handled":       Invokable[*handler](),
			"handled.value": Invokable[handler](),
			"db.url":        Value("mem"),
		})
		v, err := c.Get("greeting")
		require.NoError(t, err)
		assert.Equal(t, "~hello al", v)

		v, err = c.Get("count")
		require.NoError(t, err)
		assert.Equal(t, 13, v)

		v, err = c.Get("handled")
		require.NoError(t, err)
		assert.Equal(t, "~mem", v)

		v, err = c.Get("handled.value")
		require.NoError(t, err, "Invoke has a pointer receiver")
		assert.Equal(t, "~mem", v)
	})
}

func TestInterfaceMethod(t *testing.T) {
	t.Parallel()
	c := New(map[string]Definition{
		TypeKey[speaker](): Value(loud{}),
		"shout":            Method[speaker]("Speak", Default("arg0", "hi")),
	})
	v, err := c.Get("shout")
	require.NoError(t, err)
	assert.Equal(t, "HI", v)
}

func TestMethodReceiverFailure(t *testing.T) {
	t.Parallel()
	c := New(map[string]Definition{
		"shout": Method[speaker]("Speak", Default("arg0", "hi")),
	})
	_, err := c.Get("shout")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCallableDescriptions(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "io.ReadAll", describeCallable(io.ReadAll))
	assert.Equal(t, "some.key", describeCallable("some.key"))
	m := MethodRef{Type: reflect.TypeOf(loud{}), Name: "Speak"}
	assert.True(t, strings.HasSuffix(describeCallable(m), ".Speak"), describeCallable(m))
	assert.Equal(t, "int is not callable", describeCallable(3))
	d := Factory(fmt.Sprint)
	assert.Equal(t, FactoryKind, d.Kind())
	assert.True(t, strings.HasPrefix(d.String(), "factory(fmt.Sprint)"), d.String())
}
