package nwire

import (
	"reflect"

	"github.com/pkg/errors"
)

// Get resolves key and asserts that the result is a T.  A nil result is
// returned as the zero T.
func Get[T any](c *Container, key string) (T, error) {
	var zero T
	v, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	return as[T]("get", key, v)
}

// MustGet is like Get but panics on error
func MustGet[T any](c *Container, key string) T {
	v, err := Get[T](c, key)
	if err != nil {
		panic(DetailedError(err))
	}
	return v
}

// Resolve resolves the key of T itself: TypeKey[T]().  Struct types
// are auto-wired if they are not bound.
func Resolve[T any](c *Container) (T, error) {
	RegisterType[T]()
	return Get[T](c, TypeKey[T]())
}

// Invoke calls a callable through the Container and asserts that its
// result is a T.
func Invoke[T any](c *Container, callable any, overrides map[string]Definition, opts ...ParamOption) (T, error) {
	var zero T
	v, err := c.Invoke(callable, overrides, opts...)
	if err != nil {
		return zero, err
	}
	return as[T]("invoke", describeCallable(callable), v)
}

func as[T any](op string, key string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, &ContainerError{
			Key: key,
			Op:  op,
			Err: errors.Errorf("resolved to %s, not %s", typeName(reflect.TypeOf(v)), typeName(reflect.TypeOf((*T)(nil)).Elem())),
		}
	}
	return t, nil
}
