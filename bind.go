package nwire

import (
	"reflect"

	"github.com/pkg/errors"
)

// bind produces one argument per parameter of the signature, in order.
//
// Each parameter is bound by the first rule that applies:
//
//  1. an override for its name is resolved and used
//  2. a by-reference parameter is rejected
//  3. an injection key is looked up without auto-wiring
//  4. a structural rejection (no type, nullable, union, builtin, ...)
//     falls back to the default value if there is one
//  5. the type key is resolved, auto-wiring if needed
//
// A failure in rule 5 is not rescued by a default value.
func (r *resolver) bind(sig *Signature, overrides map[string]Definition) ([]reflect.Value, error) {
	if sig == nil {
		return nil, nil
	}
	args := make([]reflect.Value, len(sig.Params))
	for i := range sig.Params {
		v, err := r.bindParam(&sig.Params[i], overrides)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (r *resolver) bindParam(p *Param, overrides map[string]Definition) (reflect.Value, error) {
	if def, ok := overrides[p.Name]; ok {
		debugf("binding %s with an override: %s", p.Name, def)
		return r.bindValue(p, func() (any, error) { return r.resolve(def) })
	}
	if p.Kind == KindByReference {
		return reflect.Value{}, &UnresolvableParameterError{Name: p.Name, Err: ErrByReference}
	}
	if p.InjectKey != "" {
		debugf("binding %s with injected key %s", p.Name, p.InjectKey)
		return r.bindValue(p, func() (any, error) { return r.get(p.InjectKey, false) })
	}
	if err := rejection(p.Kind); err != nil {
		if p.HasDefault {
			debugf("binding %s with its default because it is %s", p.Name, p.Kind)
			return p.Default, nil
		}
		return reflect.Value{}, &UnresolvableParameterError{Name: p.Name, Err: err}
	}
	key := KeyOf(p.Type)
	debugf("binding %s by type %s", p.Name, key)
	return r.bindValue(p, func() (any, error) { return r.get(key, true) })
}

func (r *resolver) bindValue(p *Param, produce func() (any, error)) (reflect.Value, error) {
	x, err := produce()
	if err != nil {
		return reflect.Value{}, &UnresolvableParameterError{Name: p.Name, Err: err}
	}
	v, err := argument(p.Type, x)
	if err != nil {
		return reflect.Value{}, &UnresolvableParameterError{Name: p.Name, Err: err}
	}
	return v, nil
}

// argument converts a resolved value into something that can be passed
// as or assigned to type t.  Basic kinds are converted so that, for
// example, an int from a config file can fill an int64.
func argument(t reflect.Type, x any) (reflect.Value, error) {
	if t == nil {
		t = emptyInterfaceType
	}
	if x == nil {
		// nolint:exhaustive
		switch t.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Errorf("nil is not a valid %s", typeName(t))
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case v.Type().ConvertibleTo(t) && isBasicKind(v.Kind()) && isBasicKind(t.Kind()):
		return v.Convert(t), nil
	default:
		return reflect.Value{}, errors.Errorf("%s is not assignable to %s", typeName(v.Type()), typeName(t))
	}
}
