package nwire

import (
	"reflect"
	"runtime"

	"github.com/pkg/errors"
)

// MethodRef names a method of a type.  As a callable it means: resolve a
// Type from the container (auto-wiring it if needed) and call its method.
type MethodRef struct {
	Type reflect.Type
	Name string
}

func (m MethodRef) String() string {
	return typeName(m.Type) + "." + m.Name
}

// callableType is the subset of reflect.Type needed to call something
type callableType interface {
	signatureType
	NumOut() int
	Out(i int) reflect.Type
	String() string
}

// callable is a normalized function, Reflective, or method.
type callable struct {
	description string
	typ         callableType
	// skip is the number of leading inputs that are not parameters
	skip int
	// receiver is the key of the instance whose method is called
	receiver string
	method   string
	call     func(fn reflect.Value, args []reflect.Value) []reflect.Value
	fn       reflect.Value
	variadic bool
}

func (c *callable) String() string { return c.description }

// newCallable accepts a function, a Reflective, a MethodRef, or the key
// of a registered type that has an Invoke method.
func newCallable(i any) (*callable, error) {
	switch v := i.(type) {
	case nil:
		return nil, errors.New("callable is nil")
	case Reflective:
		c := &callable{
			description: wrappedReflective{v}.String(),
			typ:         wrappedReflective{v},
			call: func(_ reflect.Value, args []reflect.Value) []reflect.Value {
				return v.Call(args)
			},
		}
		return c, c.validate()
	case MethodRef:
		return methodCallable(v)
	case string:
		t, ok := lookupType(v)
		if !ok {
			return nil, errors.Errorf("'%s' is not callable: no type is registered under that key", v)
		}
		if _, ok := t.MethodByName(Invoker); !ok && t.Kind() == reflect.Struct {
			t = reflect.PtrTo(t)
		}
		if _, ok := t.MethodByName(Invoker); !ok {
			return nil, errors.Errorf("'%s' is not callable: %s has no %s method", v, typeName(t), Invoker)
		}
		return methodCallable(MethodRef{Type: t, Name: Invoker})
	}
	fn := reflect.ValueOf(i)
	if fn.Kind() != reflect.Func {
		return nil, errors.Errorf("%s is not callable", typeName(fn.Type()))
	}
	if fn.IsNil() {
		return nil, errors.Errorf("callable %s is nil", typeName(fn.Type()))
	}
	c := &callable{
		description: funcName(fn),
		typ:         fn.Type(),
		fn:          fn,
		variadic:    fn.Type().IsVariadic(),
	}
	return c, c.validate()
}

func methodCallable(m MethodRef) (*callable, error) {
	if m.Type == nil {
		return nil, errors.New("method reference has no type")
	}
	method, ok := m.Type.MethodByName(m.Name)
	if !ok && m.Type.Kind() == reflect.Struct {
		// pointer receivers
		if pm, pok := reflect.PtrTo(m.Type).MethodByName(m.Name); pok {
			m.Type = reflect.PtrTo(m.Type)
			method, ok = pm, true
		}
	}
	if !ok {
		return nil, errors.Errorf("%s has no method %s", typeName(m.Type), m.Name)
	}
	registerType(m.Type)
	c := &callable{
		description: m.String(),
		typ:         method.Type,
		skip:        1,
		receiver:    KeyOf(m.Type),
		method:      m.Name,
		variadic:    method.Type.IsVariadic(),
	}
	if m.Type.Kind() == reflect.Interface {
		// interface method types do not include the receiver
		c.skip = 0
	}
	return c, c.validate()
}

func funcName(fn reflect.Value) string {
	if f := runtime.FuncForPC(fn.Pointer()); f != nil {
		return f.Name()
	}
	return fn.Type().String()
}

func (c *callable) validate() error {
	t := c.typ
	switch t.NumOut() {
	case 0:
		return nil
	case 1:
		return nil
	case 2:
		if t.Out(1) == errorType {
			return nil
		}
	}
	return errors.Errorf("%s must return nothing, a value, an error, or a value and an error", c)
}

// invoke calls the callable with bound arguments.  For methods, the
// receiver is resolved after the arguments.  Panics are returned as
// errors.
func (c *callable) invoke(r *resolver, args []reflect.Value) (result any, err error) {
	fn := c.fn
	if c.receiver != "" {
		recv, err := r.get(c.receiver, true)
		if err != nil {
			return nil, err
		}
		rv := reflect.ValueOf(recv)
		if !rv.IsValid() {
			return nil, errors.Errorf("%s resolved to nil", c.receiver)
		}
		fn = rv.MethodByName(c.method)
		if !fn.IsValid() {
			return nil, errors.Errorf("%s resolved to %s which has no method %s", c.receiver, typeName(rv.Type()), c.method)
		}
	}
	defer setErrorOnPanic(&err, c)
	var out []reflect.Value
	switch {
	case c.call != nil:
		out = c.call(fn, args)
	case c.variadic:
		out = fn.CallSlice(args)
	default:
		out = fn.Call(args)
	}
	return c.results(out)
}

func (c *callable) results(out []reflect.Value) (any, error) {
	if len(out) != c.typ.NumOut() {
		return nil, errors.Errorf("%s returned %d values, expected %d", c, len(out), c.typ.NumOut())
	}
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if c.typ.Out(0) == errorType {
			if e := errorValue(out[0]); e != nil {
				return nil, errors.Wrapf(e, "%s", c)
			}
			return nil, nil
		}
		return out[0].Interface(), nil
	default:
		if e := errorValue(out[1]); e != nil {
			return nil, errors.Wrapf(e, "%s", c)
		}
		return out[0].Interface(), nil
	}
}

func errorValue(v reflect.Value) error {
	if !v.IsValid() || v.IsNil() {
		return nil
	}
	e, ok := v.Interface().(error)
	if !ok {
		return errors.Errorf("%v", v.Interface())
	}
	return e
}
