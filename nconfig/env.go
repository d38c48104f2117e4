package nconfig

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/muir/nwire"
	"github.com/pkg/errors"
)

type envOptions struct {
	prefix string
	lower  bool
}

// EnvOption configures Env
type EnvOption func(*envOptions)

// WithPrefix prepends prefix to every key bound by Env
func WithPrefix(prefix string) EnvOption {
	return func(o *envOptions) {
		o.prefix = prefix
	}
}

// WithDottedKeys binds DB_URL as "db.url"
func WithDottedKeys() EnvOption {
	return func(o *envOptions) {
		o.lower = true
	}
}

type envModule struct {
	vars map[string]string
	opts envOptions
}

// Env reads dotenv files and returns a Module that binds each variable
// to its string value.  With no files, ".env" is read.  When files
// define the same variable, the later file wins.
func Env(files []string, opts ...EnvOption) (nwire.Module, error) {
	var o envOptions
	for _, f := range opts {
		f(&o)
	}
	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, errors.Wrap(err, "read dotenv")
	}
	return envModule{vars: vars, opts: o}, nil
}

// EnvMap is like Env but for variables that have already been read
func EnvMap(vars map[string]string, opts ...EnvOption) nwire.Module {
	var o envOptions
	for _, f := range opts {
		f(&o)
	}
	return envModule{vars: vars, opts: o}
}

func (m envModule) key(name string) string {
	if m.opts.lower {
		name = strings.ToLower(strings.ReplaceAll(name, "_", "."))
	}
	return m.opts.prefix + name
}

func (m envModule) Configure(b *nwire.Binder) {
	for _, name := range sortedKeys(m.vars) {
		b.Bind(m.key(name)).ToValue(m.vars[name])
	}
}
