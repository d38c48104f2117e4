package nwire

import (
	"github.com/pkg/errors"
)

// ContainerKey is the key under which every Container binds itself
var ContainerKey = TypeKey[*Container]()

// Container resolves keys against a fixed set of definitions.  It is
// safe for concurrent use: every call gets its own resolver.
type Container struct {
	definitions map[string]Definition
	log         BasicLogger
	maxDepth    int
	depth       int // of the resolution that handed out this view
}

// Option configures a Container
type Option func(*Container)

// WithLogger sets the logger used to report failed calls.  The default
// discards everything.
func WithLogger(log BasicLogger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// WithMaxDepth limits how deep a chain of dependencies may be
func WithMaxDepth(depth int) Option {
	return func(c *Container) {
		c.maxDepth = depth
	}
}

// New creates a Container from a map of definitions.  The map is copied.
// ContainerKey is always bound to the Container itself, replacing any
// definition given for it.
func New(definitions map[string]Definition, opts ...Option) *Container {
	c := &Container{
		definitions: copyDefinitions(definitions),
		log:         NoLogger(),
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.definitions[ContainerKey] = Value(c)
	return c
}

func (c *Container) resolver() *resolver {
	r := newResolver(c.definitions, c.maxDepth)
	r.container = c
	r.base = c.depth
	return r
}

// at returns a view of the Container whose resolutions start at depth.
// Factories that take the Container and call Get on it get such a view
// so that a loop through nested calls still reaches the depth limit.
func (c *Container) at(depth int) *Container {
	if depth == c.depth {
		return c
	}
	view := *c
	view.depth = depth
	return &view
}

// Has reports whether key is explicitly bound.  Keys that could be
// auto-wired are not reported.
func (c *Container) Has(key string) bool {
	return c.resolver().has(key)
}

// Get resolves key, auto-wiring it if it is not bound and it is the key
// of a registered struct type.  Every failure is returned as a
// *ContainerError that wraps the underlying cause.
func (c *Container) Get(key string) (any, error) {
	v, err := c.resolver().get(key, true)
	if err != nil {
		c.log.Debug("get failed", map[string]any{
			"key":   key,
			"error": err,
		})
		return nil, &ContainerError{Key: key, Op: "get", Err: err}
	}
	return v, nil
}

// Invoke calls a callable after binding its parameters the same way a
// Factory's parameters are bound.  The callable can be a function, a
// Reflective, a MethodRef, or the key of a registered type that has an
// Invoke method.  Overrides are by parameter name; opts name and describe
// the parameters.
func (c *Container) Invoke(callable any, overrides map[string]Definition, opts ...ParamOption) (any, error) {
	v, err := c.resolver().invoke(callable, overrides, opts...)
	if err != nil {
		desc := describeCallable(callable)
		c.log.Debug("invoke failed", map[string]any{
			"callable": desc,
			"error":    err,
		})
		return nil, &ContainerError{Key: desc, Op: "invoke", Err: err}
	}
	return v, nil
}

// Definitions returns a copy of the bound definitions, including the
// container's own entry.
func (c *Container) Definitions() map[string]Definition {
	return copyDefinitions(c.definitions)
}

func describeCallable(callable any) string {
	if s, ok := callable.(string); ok {
		return s
	}
	cl, err := newCallable(callable)
	if err != nil {
		return errors.Cause(err).Error()
	}
	return cl.String()
}
