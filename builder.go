package nwire

import (
	"fmt"
	"reflect"
)

// Module contributes bindings to a Container.  Modules are configured
// when Build is called, in the order they were added.
type Module interface {
	Configure(b *Binder)
}

// ModuleFunc adapts a function to Module
type ModuleFunc func(b *Binder)

func (f ModuleFunc) Configure(b *Binder) { f(b) }

// Binder collects the bindings of one module
type Binder struct {
	bindings []*Binding
}

// Binding is a key waiting for its definition.  A binding that is
// never completed with To (or one of its shortcuts) is ignored.
type Binding struct {
	binder     *Binder
	key        string
	definition Definition
}

// Bind starts a binding for key
//
//	b.Bind("db.url").ToValue("postgres://localhost/app")
func (b *Binder) Bind(key string) *Binding {
	return &Binding{binder: b, key: key}
}

// BindType starts a binding for the key of T
func BindType[T any](b *Binder) *Binding {
	RegisterType[T]()
	return b.Bind(TypeKey[T]())
}

// To completes the binding.  Within a module, the last binding for a key
// wins.
func (b *Binding) To(def Definition) {
	b.definition = def
	b.binder.bindings = append(b.binder.bindings, b)
}

// ToValue binds to Value(v)
func (b *Binding) ToValue(v any) { b.To(Value(v)) }

// ToAlias binds to Alias(key)
func (b *Binding) ToAlias(key string) { b.To(Alias(key)) }

// ToConstructor binds to a constructor of t
func (b *Binding) ToConstructor(t reflect.Type) error {
	d, err := NewConstructor(t)
	if err != nil {
		return err
	}
	b.To(d)
	return nil
}

// ToFactory binds to a factory of callable
func (b *Binding) ToFactory(callable any, opts ...ParamOption) error {
	d, err := NewFactory(callable, opts...)
	if err != nil {
		return err
	}
	b.To(d)
	return nil
}

// Key is the key being bound
func (b *Binding) Key() string { return b.key }

// Definition is the definition bound, nil until To is called
func (b *Binding) Definition() Definition { return b.definition }

// Builder assembles a Container from modules
type Builder struct {
	modules []Module
	opts    []Option
}

// NewBuilder returns a Builder.  The options are passed to the Container
// it builds.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts}
}

// WithModule adds a module
func (b *Builder) WithModule(m Module) *Builder {
	b.modules = append(b.modules, m)
	return b
}

// WithModules adds modules in order.  It is the same as calling
// WithModule for each.
func (b *Builder) WithModules(modules ...Module) *Builder {
	b.modules = append(b.modules, modules...)
	return b
}

// Build configures every module and creates the Container.  When two
// modules bind the same key, the module added later wins.
func (b *Builder) Build() *Container {
	log := b.logger()
	definitions := make(map[string]Definition)
	owner := make(map[string]int)
	for i, m := range b.modules {
		name := fmt.Sprintf("%T", m)
		binder := &Binder{}
		m.Configure(binder)
		log.Debug("configured module", map[string]any{
			"module":   name,
			"bindings": len(binder.bindings),
		})
		for _, binding := range binder.bindings {
			if prior, ok := owner[binding.key]; ok && prior != i {
				log.Debug("binding replaced by a later module", map[string]any{
					"key":      binding.key,
					"previous": fmt.Sprintf("%T", b.modules[prior]),
					"module":   name,
				})
			}
			definitions[binding.key] = binding.definition
			owner[binding.key] = i
		}
	}
	return New(definitions, b.opts...)
}

func (b *Builder) logger() BasicLogger {
	c := &Container{log: NoLogger()}
	for _, opt := range b.opts {
		opt(c)
	}
	return c.log
}
