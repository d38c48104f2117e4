package nwire

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Embedded struct {
	Log *Logger `nwire:""`
}

type withEmbedded struct {
	Embedded
	Skipped  *Logger `nwire:"-"`
	Untagged *Logger
	Retries  int    `nwire:"retries,name=tries,default=3"`
	Maybe    *Plain `nwire:",nullable"`
}

type badUnexported struct {
	log *Logger `nwire:""` //nolint:unused
}

type badPointerEmbed struct {
	*Embedded
}

type pointerEmbed struct {
	*Plain
	Log *Logger `nwire:""`
}

type badOption struct {
	Log *Logger `nwire:",bogus"`
}

type badDefault struct {
	N int `nwire:",default=seven"`
}

func TestParseTag(t *testing.T) {
	t.Parallel()
	cases := []struct {
		tag     string
		want    fieldTag
		wantErr string
	}{
		{tag: "", want: fieldTag{}},
		{tag: "db.url", want: fieldTag{key: "db.url"}},
		{tag: ",name=url", want: fieldTag{name: "url"}},
		{tag: "k,default=a=b", want: fieldTag{key: "k", defaultText: "a=b", hasDefault: true}},
		{tag: ",default=", want: fieldTag{hasDefault: true}},
		{tag: ",nullable,", want: fieldTag{nullable: true}},
		{tag: ",name=", wantErr: "tag option 'name' requires a value"},
		{tag: ",frob", wantErr: "'frob' is not a valid tag option"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.tag, func(t *testing.T) {
			got, err := parseTag(tc.tag)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStructSignature(t *testing.T) {
	t.Parallel()
	sig, err := structSignature(reflect.TypeOf(&withEmbedded{}))
	require.NoError(t, err)
	require.Len(t, sig.Params, 3)

	assert.Equal(t, "Log", sig.Params[0].Name)
	assert.Equal(t, KindClass, sig.Params[0].Kind)
	assert.Equal(t, []int{0, 0}, sig.Params[0].field)

	assert.Equal(t, "tries", sig.Params[1].Name)
	assert.Equal(t, "retries", sig.Params[1].InjectKey)
	assert.Equal(t, KindBuiltin, sig.Params[1].Kind)
	require.True(t, sig.Params[1].HasDefault)
	assert.Equal(t, 3, sig.Params[1].Default.Interface())

	assert.Equal(t, "Maybe", sig.Params[2].Name)
	assert.Equal(t, KindNullable, sig.Params[2].Kind)

	again, err := structSignature(reflect.TypeOf(withEmbedded{}))
	require.NoError(t, err)
	assert.Same(t, sig, again, "cached per struct type")
}

func TestStructSignatureErrors(t *testing.T) {
	t.Parallel()
	_, err := structSignature(reflect.TypeOf(badUnexported{}))
	assert.ErrorContains(t, err, "tagged but not exported")
	_, err = structSignature(reflect.TypeOf(badOption{}))
	assert.ErrorContains(t, err, "'bogus' is not a valid tag option")
	_, err = structSignature(reflect.TypeOf(badDefault{}))
	assert.ErrorContains(t, err, "default for field N")
	_, err = structSignature(reflect.TypeOf(3))
	assert.ErrorIs(t, err, ErrNotInstantiable)
	_, err = structSignature(reflect.TypeOf(badPointerEmbed{}))
	assert.ErrorContains(t, err, "has tagged fields but is a pointer")

	sig, err := structSignature(reflect.TypeOf(pointerEmbed{}))
	require.NoError(t, err, "embedded pointers without tags are left alone")
	assert.Len(t, sig.Params, 1)
}

func TestNewConstructorErrors(t *testing.T) {
	t.Parallel()
	_, err := NewConstructor(reflect.TypeOf(""))
	assert.ErrorIs(t, err, ErrNotInstantiable)
	_, err = NewConstructor(nil)
	assert.ErrorIs(t, err, ErrNotInstantiable)
	assert.Panics(t, func() { Constructor[int]() })
}

func TestConstructorEmbeddedAndNullable(t *testing.T) {
	wrapTest(t, func(t *testing.T) {
		c := New(map[string]Definition{
			"log.prefix": Value("# "),
			"retries":    Value(5),
			"subject":    Constructor[*withEmbedded](),
		})
		_, err := c.Get("subject")
		require.Error(t, err, "nullable field without default")
		assert.ErrorIs(t, err, ErrNullable)

		v, err := Get[*withEmbedded](withDefinition(c, "subject",
			Constructor[*withEmbedded]().WithParameter("Maybe", Value(nil))), "subject")
		require.NoError(t, err)
		assert.Equal(t, "# ", v.Log.Prefix)
		assert.Equal(t, 5, v.Retries)
		assert.Nil(t, v.Skipped)
		assert.Nil(t, v.Untagged)
		assert.Nil(t, v.Maybe)
	})
}

// withDefinition is a copy of c with one more definition
func withDefinition(c *Container, key string, def Definition) *Container {
	defs := c.Definitions()
	defs[key] = def
	return New(defs)
}

func TestFuncSignature(t *testing.T) {
	t.Parallel()
	f := func(a string, b *Plain, c ...int) {}
	sig, err := funcSignature(reflect.TypeOf(f), 0, newParamOptions([]ParamOption{
		Params("a", "b"),
		Default("a", "x"),
		Inject("b", "plain"),
	}))
	require.NoError(t, err)
	require.Len(t, sig.Params, 3)
	assert.Equal(t, "a", sig.Params[0].Name)
	assert.Equal(t, "x", sig.Params[0].Default.Interface())
	assert.Equal(t, "plain", sig.Params[1].InjectKey)
	assert.Equal(t, "arg2", sig.Params[2].Name)
	assert.True(t, sig.Params[2].Variadic)
	assert.Equal(t, KindVariadic, sig.Params[2].Kind)
}

func TestFuncSignatureErrors(t *testing.T) {
	t.Parallel()
	f := func(a, b int) {}
	cases := []struct {
		opts []ParamOption
		want string
	}{
		{[]ParamOption{Params("a", "b", "c")}, "3 parameter names given for 2 parameters"},
		{[]ParamOption{Params("a", "a")}, "parameter name 'a' is used twice"},
		{[]ParamOption{Params("", "arg0")}, "parameter name 'arg0' is used twice"},
		{[]ParamOption{Default("z", 1)}, "no parameter named 'z'"},
		{[]ParamOption{Inject("z", "k")}, "no parameter named 'z'"},
		{[]ParamOption{Default("arg0", "one")}, "string is not assignable to int"},
		{[]ParamOption{Default("arg0", nil)}, "nil is not a valid int"},
	}
	for _, tc := range cases {
		_, err := funcSignature(reflect.TypeOf(f), 0, newParamOptions(tc.opts))
		assert.ErrorContains(t, err, tc.want)
	}
}
