package nhttp

import (
	"net/http"
	"net/url"
	"reflect"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/muir/nwire"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefinitionInfo describes one binding
type DefinitionInfo struct {
	Key        string `json:"key"`
	Kind       string `json:"kind"`
	Definition string `json:"definition"`
}

// Resolution is the result of resolving a key
type Resolution struct {
	Key    string   `json:"key"`
	OK     bool     `json:"ok"`
	Type   string   `json:"type,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

type options struct {
	log nwire.BasicLogger
}

// Option configures Handler
type Option func(*options)

// WithLogger sets the logger for request failures
func WithLogger(log nwire.BasicLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

type server struct {
	container *nwire.Container
	log       nwire.BasicLogger
}

// Handler serves the definitions of a Container for debugging:
//
//	GET /definitions      every binding, sorted by key
//	GET /definitions/{key} one binding
//	GET /resolve/{key}     resolve a key and report its type or error chain
//
// Keys may contain slashes.
func Handler(c *nwire.Container, opts ...Option) http.Handler {
	o := options{log: nwire.NoLogger()}
	for _, f := range opts {
		f(&o)
	}
	s := &server{container: c, log: o.log}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/definitions", s.list)
	r.Get("/definitions/*", s.definition)
	r.Get("/resolve/*", s.resolve)
	return r
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	defs := s.container.Definitions()
	infos := make([]DefinitionInfo, 0, len(defs))
	for key, def := range defs {
		infos = append(infos, info(key, def))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	s.write(w, http.StatusOK, infos)
}

func (s *server) definition(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	def, ok := s.container.Definitions()[key]
	if !ok {
		s.fail(w, r, NotFound(errors.Errorf("'%s' is not bound", key)))
		return
	}
	s.write(w, http.StatusOK, info(key, def))
}

func (s *server) resolve(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res := Resolution{Key: key}
	v, err := s.container.Get(key)
	if err != nil {
		s.log.Warn("resolve failed", map[string]any{
			"key":   key,
			"error": err.Error(),
		})
		res.Errors = nwire.ChainMessages(err)
		s.write(w, http.StatusUnprocessableEntity, res)
		return
	}
	res.OK = true
	if v != nil {
		res.Type = reflect.TypeOf(v).String()
	}
	s.write(w, http.StatusOK, res)
}

func keyParam(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		return "", BadRequest(errors.Wrap(err, "key"))
	}
	if key == "" {
		return "", BadRequest(errors.New("key is empty"))
	}
	return key, nil
}

func info(key string, def nwire.Definition) DefinitionInfo {
	return DefinitionInfo{
		Key:        key,
		Kind:       def.Kind().String(),
		Definition: def.String(),
	}
}

func (s *server) write(w http.ResponseWriter, code int, body any) {
	enc, err := json.Marshal(body)
	if err != nil {
		s.log.Error("encode response", map[string]any{"error": err.Error()})
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(enc)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := GetReturnCode(err)
	s.log.Debug("request failed", map[string]any{
		"path":  r.URL.Path,
		"code":  code,
		"error": err.Error(),
	})
	s.write(w, code, map[string]string{"error": err.Error()})
}
