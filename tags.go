package nwire

import (
	"reflect"
	"strings"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// DefaultTag is the struct tag that marks the fields a Constructor fills.
const DefaultTag = "nwire"

// fieldTag is a parsed struct tag.  The grammar is:
//
//	`nwire:"[key][,name=param][,default=text][,nullable]"`
//
// An empty key means the field is resolved by its type.  A tag of "-"
// excludes the field.
type fieldTag struct {
	key         string
	name        string
	defaultText string
	hasDefault  bool
	nullable    bool
}

func parseTag(s string) (fieldTag, error) {
	a := strings.Split(s, ",")
	var tag fieldTag
	tag.key = strings.TrimSpace(a[0])
	for _, v := range a[1:] {
		kvs := strings.SplitN(v, "=", 2)
		k := strings.TrimSpace(kvs[0])
		var val string
		if len(kvs) == 2 {
			val = kvs[1]
		}
		switch k {
		case "name":
			if val == "" {
				return tag, errors.Errorf("tag option 'name' requires a value")
			}
			tag.name = val
		case "default":
			tag.defaultText = val
			tag.hasDefault = true
		case "nullable":
			tag.nullable = true
		case "":
		default:
			return tag, errors.Errorf("'%s' is not a valid tag option (use 'name', 'default', or 'nullable')", k)
		}
	}
	return tag, nil
}

// fieldParam turns a tagged struct field into a Param
func fieldParam(field reflect.StructField, tag fieldTag) (Param, error) {
	p := Param{
		Name:      field.Name,
		Type:      field.Type,
		InjectKey: tag.key,
		Nullable:  tag.nullable,
		field:     field.Index,
	}
	if tag.name != "" {
		p.Name = tag.name
	}
	if tag.hasDefault {
		setter, err := reflectutils.MakeStringSetter(field.Type)
		if err != nil {
			return p, errors.Wrapf(err, "default for field %s", field.Name)
		}
		v := reflect.New(field.Type).Elem()
		if err := setter(v, tag.defaultText); err != nil {
			return p, errors.Wrapf(err, "default for field %s", field.Name)
		}
		p.HasDefault = true
		p.Default = v
	}
	return p, nil
}
