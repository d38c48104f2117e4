package nconfig

import (
	"os"
	"sort"

	"github.com/muir/nwire"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is the shape of a YAML definitions file:
//
//	values:
//	  listen.address: ":8080"
//	  retries: 3
//	aliases:
//	  http.address: listen.address
//	constructors:
//	  server: "*example.com/app.Server"
//
// Constructors name registered types by their nwire type key.
type Document struct {
	Values       map[string]any    `yaml:"values"`
	Aliases      map[string]string `yaml:"aliases"`
	Constructors map[string]string `yaml:"constructors"`
}

type yamlModule struct {
	doc          Document
	constructors map[string]*nwire.ConstructorDefinition
}

// YAML parses a definitions document into a Module.  Constructors are
// looked up when YAML is called so the types they name must already be
// registered.
func YAML(data []byte) (nwire.Module, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse definitions")
	}
	return FromDocument(doc)
}

// YAMLFile reads and parses a definitions file
func YAMLFile(path string) (nwire.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	m, err := YAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return m, nil
}

// FromDocument turns a parsed Document into a Module
func FromDocument(doc Document) (nwire.Module, error) {
	m := yamlModule{
		doc:          doc,
		constructors: make(map[string]*nwire.ConstructorDefinition, len(doc.Constructors)),
	}
	for key, typeKey := range doc.Constructors {
		t, ok := nwire.LookupType(typeKey)
		if !ok {
			return nil, errors.Errorf("constructor '%s': no type registered as '%s'", key, typeKey)
		}
		d, err := nwire.NewConstructor(t)
		if err != nil {
			return nil, errors.Wrapf(err, "constructor '%s'", key)
		}
		m.constructors[key] = d
	}
	return m, nil
}

// Configure binds values first, then aliases, then constructors.  A key
// that appears in more than one section is bound by the last of them.
func (m yamlModule) Configure(b *nwire.Binder) {
	for _, key := range sortedKeys(m.doc.Values) {
		b.Bind(key).ToValue(m.doc.Values[key])
	}
	for _, key := range sortedKeys(m.doc.Aliases) {
		b.Bind(key).ToAlias(m.doc.Aliases[key])
	}
	for _, key := range sortedKeys(m.constructors) {
		b.Bind(key).To(m.constructors[key])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
