package nwire

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Structural rejections.  These are the causes wrapped by an
// UnresolvableParameterError when a parameter cannot be bound by type.
// All but ErrByReference fall back to a declared default value.
var (
	ErrByReference = errors.New("parameters passed by reference are not supported")
	ErrNoTypeHint  = errors.New("no type hint: provide a type, a default value or an injection key")
	ErrNullable    = errors.New("nullable types are not supported")
	ErrUnion       = errors.New("union and intersection types are not supported")
	ErrVariadic    = errors.New("variadic parameters are not supported")
	ErrBuiltin     = errors.New("builtin and enumeration types cannot be auto-wired: provide a default value or an injection key")
)

// ErrResolutionTooDeep is returned when a chain of dependencies is deeper
// than the container's maximum depth.
var ErrResolutionTooDeep = errors.New("maximum resolution depth exceeded")

// ErrNotInstantiable is returned when a constructor is requested for a type
// that is not a struct or a pointer to a struct.
var ErrNotInstantiable = errors.New("type is not instantiable")

// KeyNotFoundError is returned when a key has no definition and could
// not be auto-wired.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("no value was bound for key '%s'", e.Key)
}

// CircularDependencyError reports a key that was requested while it was
// already being resolved.  Trail is the path from the original request
// to the repeated key, which is always the last element.
type CircularDependencyError struct {
	Trail []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Trail, " -> ")
}

// UnresolvableParameterError is returned when a constructor or factory
// parameter could not be bound.
type UnresolvableParameterError struct {
	Name string
	Err  error
}

func (e *UnresolvableParameterError) Error() string {
	return fmt.Sprintf("could not resolve parameter '%s': %s", e.Name, e.Err)
}

func (e *UnresolvableParameterError) Unwrap() error { return e.Err }
func (e *UnresolvableParameterError) Cause() error  { return e.Err }

// ContainerError is the single outer error returned by the Container.
// Key is the key originally requested (or a description of the callable
// for Invoke).
type ContainerError struct {
	Key string
	Op  string
	Err error
}

func (e *ContainerError) Error() string {
	if e.Op == "invoke" {
		return fmt.Sprintf("could not invoke '%s': %s", e.Key, e.Err)
	}
	return fmt.Sprintf("could not get '%s' from the container: %s", e.Key, e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }
func (e *ContainerError) Cause() error  { return e.Err }

// Chain returns the error and each error it wraps, outermost first.
func Chain(err error) []error {
	var chain []error
	for err != nil {
		chain = append(chain, err)
		err = errors.Unwrap(err)
	}
	return chain
}

// IsCircular reports whether err was caused by a circular dependency
func IsCircular(err error) bool {
	var cde *CircularDependencyError
	return errors.As(err, &cde)
}

// IsNotFound reports whether err was caused by a missing key
func IsNotFound(err error) bool {
	var knf *KeyNotFoundError
	return errors.As(err, &knf)
}
