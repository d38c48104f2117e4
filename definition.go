package nwire

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Definition is a recipe for producing a value.  The set of definitions
// is closed: Value, Alias, Constructor, and Factory (which includes
// Method and Invokable).  Definitions are immutable and may be resolved
// concurrently.
type Definition interface {
	Kind() DefinitionKind
	String() string
	definition()
}

type valueDefinition struct {
	value any
}

type aliasDefinition struct {
	key string
}

// ConstructorDefinition builds a struct by binding its tagged fields.
type ConstructorDefinition struct {
	typ       reflect.Type
	signature *Signature
	overrides map[string]Definition
}

// FactoryDefinition produces a value by calling a function, a
// Reflective, or a method of a resolved instance.
type FactoryDefinition struct {
	fn        *callable
	signature *Signature
	overrides map[string]Definition
}

var (
	_ Definition = valueDefinition{}
	_ Definition = aliasDefinition{}
	_ Definition = &ConstructorDefinition{}
	_ Definition = &FactoryDefinition{}
)

func (valueDefinition) definition()        {}
func (aliasDefinition) definition()        {}
func (*ConstructorDefinition) definition() {}
func (*FactoryDefinition) definition()     {}

func (valueDefinition) Kind() DefinitionKind        { return ValueKind }
func (aliasDefinition) Kind() DefinitionKind        { return AliasKind }
func (*ConstructorDefinition) Kind() DefinitionKind { return ConstructorKind }
func (*FactoryDefinition) Kind() DefinitionKind     { return FactoryKind }

func (d valueDefinition) String() string {
	if d.value == nil {
		return "value(nil)"
	}
	return fmt.Sprintf("value(%T)", d.value)
}

func (d aliasDefinition) String() string { return "alias(" + d.key + ")" }

func (d *ConstructorDefinition) String() string {
	return "constructor(" + typeName(d.typ) + ")" + d.signature.String()
}

func (d *FactoryDefinition) String() string {
	return "factory(" + d.fn.String() + ")" + d.signature.String()
}

// Value returns a definition that resolves to v itself
func Value(v any) Definition {
	return valueDefinition{value: v}
}

// Alias returns a definition that resolves to whatever key is bound to.
// The target must be bound: an alias never auto-wires.
func Alias(key string) Definition {
	return aliasDefinition{key: key}
}

// Constructor returns a definition that builds a T.  T must be a struct
// or a pointer to a struct.  The struct's fields that carry an `nwire`
// tag are its parameters.  Constructor panics if T cannot be described;
// use NewConstructor to get an error instead.
func Constructor[T any]() *ConstructorDefinition {
	d, err := NewConstructor(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		panic(err.Error())
	}
	return d
}

// NewConstructor returns a definition that builds values of type t
func NewConstructor(t reflect.Type) (*ConstructorDefinition, error) {
	if t == nil || !instantiable(t) {
		return nil, errors.Wrapf(ErrNotInstantiable, "'%s'", typeName(t))
	}
	sig, err := structSignature(t)
	if err != nil {
		return nil, err
	}
	registerType(t)
	return &ConstructorDefinition{
		typ:       t,
		signature: sig,
	}, nil
}

// Type is the type that the constructor builds
func (d *ConstructorDefinition) Type() reflect.Type { return d.typ }

// Signature describes the constructor's parameters
func (d *ConstructorDefinition) Signature() *Signature { return d.signature }

// WithParameters returns a copy of the definition whose parameters are
// overridden by name.  An override bypasses every other way of binding
// that parameter.
func (d *ConstructorDefinition) WithParameters(overrides map[string]Definition) *ConstructorDefinition {
	n := *d
	n.overrides = copyDefinitions(overrides)
	return &n
}

// WithParameter returns a copy of the definition with one more override
func (d *ConstructorDefinition) WithParameter(name string, def Definition) *ConstructorDefinition {
	n := *d
	n.overrides = copyDefinitions(d.overrides)
	n.overrides[name] = def
	return &n
}

// Factory returns a definition that calls a callable: a function, a
// Reflective, a MethodRef, or the key of a registered type that has an
// Invoke method.  Factory panics if the callable is not valid; use
// NewFactory to get an error instead.
//
// The callable may return nothing, (T), (error), or (T, error).
func Factory(callable any, opts ...ParamOption) *FactoryDefinition {
	d, err := NewFactory(callable, opts...)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// NewFactory is like Factory but returns an error for invalid callables
func NewFactory(callable any, opts ...ParamOption) (*FactoryDefinition, error) {
	c, err := newCallable(callable)
	if err != nil {
		return nil, err
	}
	sig, err := funcSignature(c.typ, c.skip, newParamOptions(opts))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", c)
	}
	return &FactoryDefinition{
		fn:        c,
		signature: sig,
	}, nil
}

// Method returns a definition that resolves a T (auto-wiring it if
// it is not bound) and then calls its method called name.
func Method[T any](name string, opts ...ParamOption) *FactoryDefinition {
	return Factory(MethodRef{Type: reflect.TypeOf((*T)(nil)).Elem(), Name: name}, opts...)
}

// Invokable returns a definition that resolves a T and calls its Invoke
// method.
func Invokable[T any](opts ...ParamOption) *FactoryDefinition {
	return Method[T](Invoker, opts...)
}

// Signature describes the factory's parameters
func (d *FactoryDefinition) Signature() *Signature { return d.signature }

// WithParameters returns a copy of the definition whose parameters are
// overridden by name.
func (d *FactoryDefinition) WithParameters(overrides map[string]Definition) *FactoryDefinition {
	n := *d
	n.overrides = copyDefinitions(overrides)
	return &n
}

// WithParameter returns a copy of the definition with one more override
func (d *FactoryDefinition) WithParameter(name string, def Definition) *FactoryDefinition {
	n := *d
	n.overrides = copyDefinitions(d.overrides)
	n.overrides[name] = def
	return &n
}

func copyDefinitions(m map[string]Definition) map[string]Definition {
	n := make(map[string]Definition, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
