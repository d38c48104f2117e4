package nwire

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func TestCharacterize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		param Param
		want  TypeKind
	}{
		{Param{Name: "none"}, KindNone},
		{Param{Name: "any", Type: emptyInterfaceType}, KindNone},
		{Param{Name: "int ptr", Type: typeOf[*int]()}, KindByReference},
		{Param{Name: "reader ptr", Type: typeOf[*io.Reader]()}, KindByReference},
		{Param{Name: "double ptr", Type: typeOf[**Plain]()}, KindByReference},
		{Param{Name: "int ptr beats nullable", Type: typeOf[*int](), Nullable: true}, KindByReference},
		{Param{Name: "struct ptr", Type: typeOf[*Plain]()}, KindClass},
		{Param{Name: "struct", Type: typeOf[Plain]()}, KindClass},
		{Param{Name: "interface", Type: typeOf[io.Reader]()}, KindClass},
		{Param{Name: "context", Type: typeOf[context.Context]()}, KindClass},
		{Param{Name: "http client", Type: typeOf[*http.Client]()}, KindClass},
		{Param{Name: "named map", Type: typeOf[http.Header]()}, KindClass},
		{Param{Name: "nullable", Type: typeOf[*Plain](), Nullable: true}, KindNullable},
		{Param{Name: "union", Type: typeOf[fmt.Stringer](), Alternatives: []reflect.Type{typeOf[named]()}}, KindUnion},
		{Param{Name: "intersection", Type: typeOf[fmt.Stringer](), Alternatives: []reflect.Type{typeOf[named]()}, Intersection: true}, KindIntersection},
		{Param{Name: "variadic", Type: typeOf[[]*Plain](), Variadic: true}, KindVariadic},
		{Param{Name: "seq", Type: typeOf[iter.Seq[int]]()}, KindIterable},
		{Param{Name: "seq2", Type: typeOf[iter.Seq2[int, string]]()}, KindIterable},
		{Param{Name: "int", Type: typeOf[int]()}, KindBuiltin},
		{Param{Name: "string", Type: typeOf[string]()}, KindBuiltin},
		{Param{Name: "error", Type: errorType}, KindBuiltin},
		{Param{Name: "slice", Type: typeOf[[]string]()}, KindBuiltin},
		{Param{Name: "map", Type: typeOf[map[string]int]()}, KindBuiltin},
		{Param{Name: "func", Type: typeOf[func() int]()}, KindBuiltin},
		{Param{Name: "enum", Type: typeOf[Color]()}, KindEnum},
		{Param{Name: "duration", Type: typeOf[time.Duration]()}, KindEnum},
		{Param{Name: "named string", Type: typeOf[named]()}, KindEnum},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.param.Name, func(t *testing.T) {
			p := tc.param
			assert.Equal(t, tc.want.String(), characterize(&p).String())
		})
	}
}

func TestRejection(t *testing.T) {
	t.Parallel()
	assert.NoError(t, rejection(KindClass))
	assert.Equal(t, ErrByReference, rejection(KindByReference))
	assert.Equal(t, ErrNoTypeHint, rejection(KindNone))
	assert.Equal(t, ErrNullable, rejection(KindNullable))
	assert.Equal(t, ErrUnion, rejection(KindUnion))
	assert.Equal(t, ErrUnion, rejection(KindIntersection))
	assert.Equal(t, ErrUnion, rejection(KindIterable))
	assert.Equal(t, ErrVariadic, rejection(KindVariadic))
	assert.Equal(t, ErrBuiltin, rejection(KindBuiltin))
	assert.Equal(t, ErrBuiltin, rejection(KindEnum))
}

func TestTypeKindString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "by-reference", KindByReference.String())
	assert.Equal(t, "TypeKind(?)", TypeKind(99).String())
	assert.Equal(t, "factory", FactoryKind.String())
}
