package nwire

import (
	"reflect"
	"sync"

	"github.com/muir/reflectutils"
)

// The type registry maps type keys back to reflect.Type so that a key
// that is not bound can still be auto-wired.  Go cannot find a type by
// name, so types become known when they are registered explicitly or when
// a signature that mentions them is built.

var (
	lock    sync.Mutex
	typeMap = make(map[string]reflect.Type)
)

// TypeKey returns the key under which values of type T are looked up
// when a parameter of type T is auto-wired.
//
//	nwire.TypeKey[*Database]()  // "*example.com/app/db.Database"
func TypeKey[T any]() string {
	return KeyOf(reflect.TypeOf((*T)(nil)).Elem())
}

// KeyOf returns the key for a reflect.Type.  Named types are keyed by
// their full package path and name; unnamed pointers prefix their element
// key with "*"; everything else uses reflect's own string.
func KeyOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() == "" && t.Kind() == reflect.Ptr {
		return "*" + KeyOf(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// RegisterType makes T available for auto-wiring by its key.  Registering
// a pointer type also registers its element and vice versa so that both
// "*pkg.T" and "pkg.T" can be auto-wired.
func RegisterType[T any]() {
	registerType(reflect.TypeOf((*T)(nil)).Elem())
}

func registerType(t reflect.Type) {
	if t == nil {
		return
	}
	lock.Lock()
	defer lock.Unlock()
	typeMap[KeyOf(t)] = t
	switch {
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		typeMap[KeyOf(t.Elem())] = t.Elem()
	case t.Kind() == reflect.Struct:
		p := reflect.PtrTo(t)
		typeMap[KeyOf(p)] = p
	}
}

// LookupType returns the registered type for a key
func LookupType(key string) (reflect.Type, bool) {
	return lookupType(key)
}

func lookupType(key string) (reflect.Type, bool) {
	lock.Lock()
	defer lock.Unlock()
	t, ok := typeMap[key]
	return t, ok
}

// instantiable reports whether a constructor can be synthesized for t
func instantiable(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

// typeName is the short, human-friendly name used in error messages
func typeName(t reflect.Type) string {
	if t == nil {
		return "<untyped>"
	}
	return reflectutils.TypeName(t)
}
