package nwire

// Parameters must be classified before they can be bound.  This file
// defines the kinds a declared parameter type can fall into.

import (
	"reflect"
)

// TypeKind is the classification of a parameter's declared type.  Only
// KindClass parameters are resolved by type; every other kind is a
// structural rejection that can only be satisfied by an override, an
// injection key, or (except for KindByReference) a default value.
type TypeKind int

const (
	KindUnset        TypeKind = iota // unset
	KindByReference                  // by-reference
	KindNone                         // no-type
	KindNullable                     // nullable
	KindUnion                        // union
	KindIntersection                 // intersection
	KindIterable                     // iterable
	KindVariadic                     // variadic
	KindBuiltin                      // builtin
	KindEnum                         // enum
	KindClass                        // class
)

var kindNames = map[TypeKind]string{
	KindUnset:        "unset",
	KindByReference:  "by-reference",
	KindNone:         "no-type",
	KindNullable:     "nullable",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindIterable:     "iterable",
	KindVariadic:     "variadic",
	KindBuiltin:      "builtin",
	KindEnum:         "enum",
	KindClass:        "class",
}

func (k TypeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "TypeKind(?)"
}

// DefinitionKind names the variant of a Definition
type DefinitionKind int

const (
	ValueKind       DefinitionKind = iota // value
	AliasKind                             // alias
	ConstructorKind                       // constructor
	FactoryKind                           // factory
)

func (k DefinitionKind) String() string {
	switch k {
	case ValueKind:
		return "value"
	case AliasKind:
		return "alias"
	case ConstructorKind:
		return "constructor"
	case FactoryKind:
		return "factory"
	default:
		return "DefinitionKind(?)"
	}
}

// Invoker is the designated entry point convention: a type whose
// method of this name can be used as a callable by naming the type.
const Invoker = "Invoke"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

var emptyInterfaceType = reflect.TypeOf((*interface{})(nil)).Elem()
