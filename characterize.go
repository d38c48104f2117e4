package nwire

import (
	"fmt"
	"reflect"
	"strings"
)

type characterization struct {
	name  string
	kind  TypeKind
	tests predicates
}

type paramRegistry []characterization

type predicateType struct {
	message string
	test    func(p *Param) bool
}

type predicates []predicateType

// predicate tests a parameter.  The message is used when the parameter
// fails that test so the message should be the opposite of what the
// parameter is.
func predicate(message string, test func(p *Param) bool) predicateType {
	return predicateType{
		message: message,
		test:    test,
	}
}

func isBasicKind(k reflect.Kind) bool {
	// nolint:exhaustive
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String, reflect.UnsafePointer:
		return true
	}
	return false
}

var (
	hasType            = predicate("has no type", func(p *Param) bool { return p.Type != nil })
	noType             = predicate("has a type", func(p *Param) bool { return p.Type == nil || p.Type == emptyInterfaceType })
	isPointer          = predicate("is not a pointer", func(p *Param) bool { return p.Type.Kind() == reflect.Ptr })
	markedNullable     = predicate("is not marked nullable", func(p *Param) bool { return p.Nullable })
	hasAlternatives    = predicate("has a single type", func(p *Param) bool { return len(p.Alternatives) > 0 })
	markedIntersection = predicate("is not an intersection", func(p *Param) bool { return p.Intersection })
	markedVariadic     = predicate("is not variadic", func(p *Param) bool { return p.Variadic })
	pointsAtNonStruct  = predicate("points at a struct", func(p *Param) bool {
		return p.Type.Elem().Kind() != reflect.Struct
	})
	isIterSeq = predicate("is not an iterator sequence", func(p *Param) bool {
		return p.Type.PkgPath() == "iter" && strings.HasPrefix(p.Type.Name(), "Seq")
	})
	isBuiltin = predicate("is not a builtin type", func(p *Param) bool {
		t := p.Type
		if t == errorType {
			return true
		}
		if t.Name() == "" {
			// nolint:exhaustive
			switch t.Kind() {
			case reflect.Struct, reflect.Interface, reflect.Ptr:
				return false
			}
			return true
		}
		return t.PkgPath() == ""
	})
	isEnum = predicate("is not an enumeration", func(p *Param) bool {
		return p.Type.PkgPath() != "" && isBasicKind(p.Type.Kind())
	})
)

// Order matters: the first characterization whose tests all pass wins.
// By-reference parameters must be found before anything else because
// they may not fall back to a default value.
var parameterRegistry = paramRegistry{
	{
		name: "by reference",
		kind: KindByReference,
		tests: predicates{
			hasType,
			isPointer,
			pointsAtNonStruct,
		},
	},
	{
		name:  "no type",
		kind:  KindNone,
		tests: predicates{noType},
	},
	{
		name:  "nullable",
		kind:  KindNullable,
		tests: predicates{markedNullable},
	},
	{
		name: "intersection",
		kind: KindIntersection,
		tests: predicates{
			hasAlternatives,
			markedIntersection,
		},
	},
	{
		name:  "union",
		kind:  KindUnion,
		tests: predicates{hasAlternatives},
	},
	{
		name:  "variadic",
		kind:  KindVariadic,
		tests: predicates{markedVariadic},
	},
	{
		name:  "iterable",
		kind:  KindIterable,
		tests: predicates{isIterSeq},
	},
	{
		name:  "builtin",
		kind:  KindBuiltin,
		tests: predicates{isBuiltin},
	},
	{
		name:  "enumeration",
		kind:  KindEnum,
		tests: predicates{isEnum},
	},
	{
		name:  "class or interface",
		kind:  KindClass,
		tests: predicates{hasType},
	},
}

// characterize returns the kind of the first matching characterization
func (reg paramRegistry) characterize(p *Param) TypeKind {
	var rejectReasons []string
Match:
	for _, match := range reg {
		for _, predicate := range match.tests {
			if !predicate.test(p) {
				rejectReasons = append(rejectReasons, fmt.Sprintf("%s: %s", match.name, predicate.message))
				continue Match
			}
		}
		debugf("parameter %s (%s) is %s after rejecting: %s",
			p.Name, typeName(p.Type), match.name, strings.Join(rejectReasons, "; "))
		return match.kind
	}
	// unreachable while the registry ends with a type-only test
	return KindNone
}

func characterize(p *Param) TypeKind {
	return parameterRegistry.characterize(p)
}

// rejection returns the structural error for a kind, nil for KindClass
func rejection(kind TypeKind) error {
	// nolint:exhaustive
	switch kind {
	case KindClass:
		return nil
	case KindByReference:
		return ErrByReference
	case KindNullable:
		return ErrNullable
	case KindUnion, KindIntersection, KindIterable:
		return ErrUnion
	case KindVariadic:
		return ErrVariadic
	case KindBuiltin, KindEnum:
		return ErrBuiltin
	default:
		return ErrNoTypeHint
	}
}
