package foo

type Bar struct {
	Name string `nwire:"foo.name"`
}
