package nwire

import (
	"reflect"

	"github.com/pkg/errors"
)

// DefaultMaxDepth limits how deep a chain of dependencies may go before
// resolution gives up with ErrResolutionTooDeep.
const DefaultMaxDepth = 1000

// resolver carries the state of one top-level request.  The trail is the
// stack of keys currently being resolved: a key is pushed when its
// resolution starts and popped when it finishes, so a key that appears
// twice on the trail is a cycle.  A resolver is used by one goroutine.
type resolver struct {
	definitions map[string]Definition
	trail       []string
	onTrail     map[string]struct{}
	maxDepth    int
	base        int
	container   *Container
}

func newResolver(definitions map[string]Definition, maxDepth int) *resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &resolver{
		definitions: definitions,
		onTrail:     make(map[string]struct{}),
		maxDepth:    maxDepth,
	}
}

// has reports whether key is bound.  Auto-wirable keys are not bound.
func (r *resolver) has(key string) bool {
	_, ok := r.definitions[key]
	return ok
}

// get resolves key.  When autowire is true and key is not bound, a
// constructor is synthesized for the registered type of that key.
func (r *resolver) get(key string, autowire bool) (any, error) {
	if _, ok := r.onTrail[key]; ok {
		trail := make([]string, len(r.trail), len(r.trail)+1)
		copy(trail, r.trail)
		return nil, &CircularDependencyError{Trail: append(trail, key)}
	}
	if r.depth() >= r.maxDepth {
		return nil, errors.Wrapf(ErrResolutionTooDeep, "resolving '%s' at depth %d", key, r.depth())
	}
	if key == ContainerKey && r.container != nil {
		return r.container.at(r.depth()), nil
	}
	def, ok := r.definitions[key]
	if !ok {
		if !autowire {
			return nil, &KeyNotFoundError{Key: key}
		}
		var err error
		def, err = r.synthesize(key)
		if err != nil {
			return nil, err
		}
	}

	r.trail = append(r.trail, key)
	r.onTrail[key] = struct{}{}
	defer func() {
		r.trail = r.trail[:len(r.trail)-1]
		delete(r.onTrail, key)
	}()

	debugf("resolving %s with %s (depth %d)", key, def.Kind(), r.depth())
	return r.resolve(def)
}

// depth counts the keys being resolved, including those of the
// resolutions that led to a nested Container call.
func (r *resolver) depth() int {
	return r.base + len(r.trail)
}

// synthesize builds a constructor for an unbound key.  Only keys of
// registered, instantiable types can be auto-wired.
func (r *resolver) synthesize(key string) (Definition, error) {
	t, ok := lookupType(key)
	if !ok || !instantiable(t) {
		return nil, &KeyNotFoundError{Key: key}
	}
	d, err := NewConstructor(t)
	if err != nil {
		return nil, errors.Wrapf(err, "auto-wire '%s'", key)
	}
	debugf("auto-wiring %s", key)
	return d, nil
}

// resolve produces the value of a definition.  This is the only place
// that distinguishes between the kinds of definition.
func (r *resolver) resolve(def Definition) (any, error) {
	switch d := def.(type) {
	case valueDefinition:
		return d.value, nil
	case aliasDefinition:
		return r.get(d.key, false)
	case *ConstructorDefinition:
		return r.construct(d)
	case *FactoryDefinition:
		return r.call(d)
	default:
		return nil, errors.Errorf("unknown definition %T", def)
	}
}

func (r *resolver) construct(d *ConstructorDefinition) (any, error) {
	args, err := r.bind(d.signature, d.overrides)
	if err != nil {
		return nil, err
	}
	t := d.typ
	isPtr := t.Kind() == reflect.Ptr
	if isPtr {
		t = t.Elem()
	}
	v := reflect.New(t)
	for i, p := range d.signature.Params {
		v.Elem().FieldByIndex(p.field).Set(args[i])
	}
	if isPtr {
		return v.Interface(), nil
	}
	return v.Elem().Interface(), nil
}

func (r *resolver) call(d *FactoryDefinition) (any, error) {
	args, err := r.bind(d.signature, d.overrides)
	if err != nil {
		return nil, err
	}
	return d.fn.invoke(r, args)
}

// invoke calls a callable with its parameters bound.  It is like
// resolving an anonymous factory definition.
func (r *resolver) invoke(callable any, overrides map[string]Definition, opts ...ParamOption) (any, error) {
	d, err := NewFactory(callable, opts...)
	if err != nil {
		return nil, err
	}
	return r.call(d.WithParameters(overrides))
}
