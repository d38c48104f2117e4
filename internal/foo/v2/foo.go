package foo

type Bar struct {
	Version int `nwire:",default=2"`
}
