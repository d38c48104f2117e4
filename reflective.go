package nwire

import (
	"reflect"
	"strings"
)

// Reflective is an alternative to a function for use with Factory and
// Invoke.  When a callable is a Reflective, its methods describe the
// parameters and results and Call is used in place of calling a function.
// This is how callables whose shape is only known at runtime can take
// part in resolution.
type Reflective interface {
	ReflectiveArgs
	Call(in []reflect.Value) []reflect.Value
}

// ReflectiveArgs is the part of a Reflective that defines the inputs
// and outputs.
type ReflectiveArgs interface {
	In(i int) reflect.Type
	NumIn() int
	Out(i int) reflect.Type
	NumOut() int
}

// MakeReflective is a simple utility to create a Reflective
func MakeReflective(
	inputs []reflect.Type,
	outputs []reflect.Type,
	function func([]reflect.Value) []reflect.Value,
) Reflective {
	return thinReflective{
		thinReflectiveArgs: thinReflectiveArgs{
			inputs:  inputs,
			outputs: outputs,
		},
		fun: function,
	}
}

type thinReflectiveArgs struct {
	inputs  []reflect.Type
	outputs []reflect.Type
}

var _ ReflectiveArgs = thinReflectiveArgs{}

func (r thinReflectiveArgs) In(i int) reflect.Type  { return r.inputs[i] }
func (r thinReflectiveArgs) NumIn() int             { return len(r.inputs) }
func (r thinReflectiveArgs) Out(i int) reflect.Type { return r.outputs[i] }
func (r thinReflectiveArgs) NumOut() int            { return len(r.outputs) }

type thinReflective struct {
	thinReflectiveArgs
	fun func([]reflect.Value) []reflect.Value
}

var _ Reflective = thinReflective{}

func (r thinReflective) Call(in []reflect.Value) []reflect.Value { return r.fun(in) }

// wrappedReflective allows Reflective to kinda pretend to be a reflect.Type
type wrappedReflective struct {
	ReflectiveArgs
}

var _ signatureType = wrappedReflective{}
var _ callableType = wrappedReflective{}

func (w wrappedReflective) IsVariadic() bool { return false }

func (w wrappedReflective) String() string {
	in := make([]string, w.NumIn())
	for i := 0; i < w.NumIn(); i++ {
		in[i] = w.In(i).String()
	}
	out := make([]string, w.NumOut())
	for i := 0; i < w.NumOut(); i++ {
		out[i] = w.Out(i).String()
	}
	switch len(out) {
	case 0:
		return "Reflective(" + strings.Join(in, ", ") + ")"
	case 1:
		return "Reflective(" + strings.Join(in, ", ") + ") " + out[0]
	default:
		return "Reflective(" + strings.Join(in, ", ") + ") (" + strings.Join(out, ", ") + ")"
	}
}
