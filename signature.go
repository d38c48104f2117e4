package nwire

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Param describes one parameter of a constructible or callable.  The
// binder works from Params alone and never looks at the underlying
// function or struct.
type Param struct {
	Name string
	// Type is the declared type.  nil means no type was declared.
	Type reflect.Type
	Kind TypeKind
	// InjectKey names a bound key that supplies the value
	InjectKey  string
	HasDefault bool
	Default    reflect.Value
	Nullable   bool
	Variadic   bool
	// Alternatives are the member types of a union or intersection
	Alternatives []reflect.Type
	Intersection bool

	field []int
}

// ByRef reports whether the parameter is passed by reference
func (p Param) ByRef() bool { return p.Kind == KindByReference }

func (p Param) String() string {
	s := p.Name + " " + typeName(p.Type)
	if p.InjectKey != "" {
		s += " (inject " + p.InjectKey + ")"
	}
	if p.HasDefault {
		s += fmt.Sprintf(" = %v", p.Default)
	}
	return s
}

// Signature is the ordered list of parameters of a constructible or
// callable.
type Signature struct {
	Params []Param
}

func (s *Signature) String() string {
	if s == nil {
		return "()"
	}
	p := make([]string, len(s.Params))
	for i, param := range s.Params {
		p[i] = param.String()
	}
	return "(" + strings.Join(p, ", ") + ")"
}

// finish characterizes every parameter and registers the types that may
// later need to be auto-wired.
func (s *Signature) finish() *Signature {
	for i := range s.Params {
		p := &s.Params[i]
		p.Kind = characterize(p)
		if p.Kind == KindClass {
			registerType(p.Type)
		}
	}
	return s
}

var structSignatures sync.Map // reflect.Type -> *Signature

// hasTaggedFields looks through t and the structs it embeds by value
func hasTaggedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if text, ok := f.Tag.Lookup(DefaultTag); ok && text != "-" {
			return true
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct && hasTaggedFields(f.Type) {
			return true
		}
	}
	return false
}

// structSignature describes the tagged fields of a struct.  The result is
// cached per type.
func structSignature(t reflect.Type) (*Signature, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotInstantiable, "%s", typeName(t))
	}
	if s, ok := structSignatures.Load(t); ok {
		return s.(*Signature), nil
	}
	sig := &Signature{}
	var returnError error
	reflectutils.WalkStructElements(t, func(field reflect.StructField) bool {
		if returnError != nil {
			return false
		}
		text, ok := field.Tag.Lookup(DefaultTag)
		if !ok {
			if field.Anonymous && field.Type.Kind() == reflect.Ptr &&
				field.Type.Elem().Kind() == reflect.Struct && hasTaggedFields(field.Type.Elem()) {
				returnError = errors.Errorf("embedded %s of %s has tagged fields but is a pointer (embed it by value or tag it)",
					typeName(field.Type), typeName(t))
				return false
			}
			return field.Anonymous && field.Type.Kind() == reflect.Struct
		}
		if text == "-" {
			return false
		}
		if field.PkgPath != "" {
			returnError = errors.Errorf("field %s of %s is tagged but not exported", field.Name, typeName(t))
			return false
		}
		tag, err := parseTag(text)
		if err != nil {
			returnError = errors.Wrapf(err, "field %s of %s", field.Name, typeName(t))
			return false
		}
		p, err := fieldParam(field, tag)
		if err != nil {
			returnError = errors.Wrapf(err, "%s", typeName(t))
			return false
		}
		sig.Params = append(sig.Params, p)
		return false
	})
	if returnError != nil {
		return nil, returnError
	}
	sig.finish()
	registerType(t)
	actual, _ := structSignatures.LoadOrStore(t, sig)
	return actual.(*Signature), nil
}

// ParamOption describes the parameters of a Factory.  Go does not keep
// parameter names at runtime so names, injection keys, and defaults are
// supplied this way.
type ParamOption func(*paramOptions)

type paramOptions struct {
	names        []string
	inject       map[string]string
	defaults     map[string]any
	nullable     map[string]bool
	alternatives map[string][]reflect.Type
	intersection map[string]bool
}

func newParamOptions(opts []ParamOption) paramOptions {
	o := paramOptions{
		inject:       make(map[string]string),
		defaults:     make(map[string]any),
		nullable:     make(map[string]bool),
		alternatives: make(map[string][]reflect.Type),
		intersection: make(map[string]bool),
	}
	for _, f := range opts {
		f(&o)
	}
	return o
}

// Params names the parameters of a Factory in order.  Parameters that are
// not named are called "arg0", "arg1", and so on.
func Params(names ...string) ParamOption {
	return func(o *paramOptions) {
		o.names = names
	}
}

// Inject marks a factory parameter as supplied by a bound key
func Inject(param string, key string) ParamOption {
	return func(o *paramOptions) {
		o.inject[param] = key
	}
}

// Default gives a factory parameter a default value.  The default is
// used only when the parameter's type cannot be auto-wired.
func Default(param string, value any) ParamOption {
	return func(o *paramOptions) {
		o.defaults[param] = value
	}
}

// Nullable declares that a factory parameter accepts "no value"
func Nullable(param string) ParamOption {
	return func(o *paramOptions) {
		o.nullable[param] = true
	}
}

// Union declares that a factory parameter accepts any one of several types
func Union(param string, types ...reflect.Type) ParamOption {
	return func(o *paramOptions) {
		o.alternatives[param] = types
	}
}

// Intersection declares that a factory parameter must satisfy all of
// several types
func Intersection(param string, types ...reflect.Type) ParamOption {
	return func(o *paramOptions) {
		o.alternatives[param] = types
		o.intersection[param] = true
	}
}

// funcSignature describes the inputs of a function type.  The first skip
// inputs (method receivers) are not parameters.
func funcSignature(t signatureType, skip int, opts paramOptions) (*Signature, error) {
	n := t.NumIn() - skip
	if len(opts.names) > n {
		return nil, errors.Errorf("%d parameter names given for %d parameters", len(opts.names), n)
	}
	sig := &Signature{Params: make([]Param, n)}
	known := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		p := Param{
			Name: fmt.Sprintf("arg%d", i),
			Type: t.In(i + skip),
		}
		if i < len(opts.names) && opts.names[i] != "" {
			p.Name = opts.names[i]
		}
		if _, dup := known[p.Name]; dup {
			return nil, errors.Errorf("parameter name '%s' is used twice", p.Name)
		}
		known[p.Name] = struct{}{}
		p.Variadic = i == n-1 && t.IsVariadic()
		p.InjectKey = opts.inject[p.Name]
		p.Nullable = opts.nullable[p.Name]
		p.Alternatives = opts.alternatives[p.Name]
		p.Intersection = opts.intersection[p.Name]
		if d, ok := opts.defaults[p.Name]; ok {
			v, err := argument(p.Type, d)
			if err != nil {
				return nil, errors.Wrapf(err, "default for parameter '%s'", p.Name)
			}
			p.HasDefault = true
			p.Default = v
		}
		sig.Params[i] = p
	}
	for _, name := range opts.referenced() {
		if _, ok := known[name]; !ok {
			return nil, errors.Errorf("no parameter named '%s'", name)
		}
	}
	return sig.finish(), nil
}

func (o paramOptions) referenced() []string {
	var names []string
	for name := range o.inject {
		names = append(names, name)
	}
	for name := range o.defaults {
		names = append(names, name)
	}
	for name := range o.nullable {
		names = append(names, name)
	}
	for name := range o.alternatives {
		names = append(names, name)
	}
	return names
}

// signatureType is the subset of reflect.Type needed to describe inputs.
// A Reflective can provide it too.
type signatureType interface {
	NumIn() int
	In(i int) reflect.Type
	IsVariadic() bool
}
