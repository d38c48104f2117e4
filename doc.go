/*

Package nwire is a dependency resolution container.  Values are bound to
string keys with definitions and the container builds complete object
graphs on demand, resolving each dependency by key or by type.

Definitions

There are four kinds of definition:

	nwire.Value(v)              // v itself
	nwire.Alias("other.key")    // whatever "other.key" resolves to
	nwire.Constructor[*Server]() // a *Server with its tagged fields filled
	nwire.Factory(NewClient)     // the result of calling NewClient

Method[T](name) and Invokable[T]() are factories that first resolve a T and
then call one of its methods.

Constructors

A constructor builds a struct.  The fields that are marked with an nwire
struct tag are its parameters:

	type Server struct {
		DB     *Database `nwire:""`
		Listen string    `nwire:"listen.address"`
		Limit  int       `nwire:",default=10"`
	}

A tag with a key injects whatever that key is bound to.  A tag without a
key resolves the field by its type.  Types are keyed by TypeKey, so
the DB field above is resolved by looking up TypeKey[*Database]().  If that
key is not bound and *Database is a struct type, a constructor for it is
made on the spot.  This is auto-wiring.

Tagged fields of structs embedded by value are parameters too.  A struct
embedded by pointer is not walked: tag the embedded field to inject it,
or embed it by value.  Embedding a pointer to a struct that has tagged
fields without tagging it is an error.

Only struct types (and pointers to them) are auto-wired.  Fields of
builtin types and enumerations (named types over basic kinds) cannot be
resolved by type.  Such fields need a key or a default value.  A default
is only used when the type cannot be resolved; if resolution by type is
attempted and fails, the error is returned.  Pointers to non-struct types are never resolved.

Factories

Go does not keep parameter names so factories are described with
options:

	nwire.Factory(NewClient,
		nwire.Params("url", "timeout"),
		nwire.Inject("url", "client.url"),
		nwire.Default("timeout", time.Second))

A factory may return nothing, a value, an error, or a value and an
error.

Overrides

Any parameter of a constructor or factory can be overridden by name:

	nwire.Constructor[*Server]().WithParameters(map[string]nwire.Definition{
		"Listen": nwire.Value(":8080"),
	})

Errors

Every error returned by the Container is a *ContainerError that wraps the
cause.  Circular dependencies are reported with the chain of keys that
led to them.  DetailedError renders the whole chain.

Modules

Definitions can be grouped into modules and assembled with a Builder.
When two modules bind the same key, the one added later wins.

*/
package nwire
