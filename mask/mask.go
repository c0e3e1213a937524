// Package mask turns request and config structs into ordered maps that are safe to log.
//
// Fields tagged `mask:"true"` have non-zero values replaced by a placeholder, and uploaded
// files are summarized by name and size instead of being dumped.
package mask

import (
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// nameTags are consulted in order when naming a field.
//
//nolint:gochecknoglobals // read-only lookup table
var nameTags = []string{"json", "form", "yaml"}

//nolint:gochecknoglobals // reflected once
var (
	fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))
	formType       = reflect.TypeOf((*multipart.Form)(nil))
)

// StructToOrdMap returns an ordered map of fields with sensitive values masked.
// Field names follow the first of the json, form and yaml tags that is set, else the
// Go field name. Fields tagged "-" are left out. Nested structs are flattened with
// dotted keys.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}
	return toOrdMap(reflect.ValueOf(v), "")
}

func toOrdMap(val reflect.Value, prefix string) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()

	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return om
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		om.Set(prefix, val.Interface())
		return om
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, skip := fieldName(sf)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case strings.EqualFold(sf.Tag.Get(tagName), "true"):
			om.Set(name, maskValue(field))
		case isUpload(field.Type()):
			om.Set(name, describeUpload(field))
		case isExpandable(field):
			nested := toOrdMap(field, name)
			for pair := nested.Oldest(); pair != nil; pair = pair.Next() {
				om.Set(pair.Key, pair.Value)
			}
		default:
			om.Set(name, field.Interface())
		}
	}

	return om
}

func isExpandable(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		return !val.IsNil() && val.Elem().Kind() == reflect.Struct
	}
	return val.Kind() == reflect.Struct
}

func isUpload(t reflect.Type) bool {
	if t == fileHeaderType || t == formType {
		return true
	}
	return t.Kind() == reflect.Slice && t.Elem() == fileHeaderType
}

// describeUpload renders files as "name (size bytes)" and forms as field name to files.
func describeUpload(val reflect.Value) any {
	if val.IsNil() {
		return nil
	}

	switch v := val.Interface().(type) {
	case *multipart.FileHeader:
		return describeFile(v)
	case []*multipart.FileHeader:
		out := make([]string, 0, len(v))
		for _, fh := range v {
			out = append(out, describeFile(fh))
		}
		return out
	case *multipart.Form:
		out := make(map[string][]string, len(v.File))
		for field, files := range v.File {
			for _, fh := range files {
				out[field] = append(out[field], describeFile(fh))
			}
		}
		return out
	default:
		return nil
	}
}

func describeFile(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return fmt.Sprintf("%s (%d bytes)", fh.Filename, fh.Size)
}

// maskValue hides a non-zero value behind a placeholder naming its kind family.
func maskValue(val reflect.Value) any {
	if val.Kind() == reflect.Pointer && !val.IsNil() {
		val = val.Elem()
	}
	if isNilable(val.Kind()) && val.IsNil() {
		return nil
	}
	if val.IsZero() {
		return val.Interface()
	}
	return "***masked-" + kindFamily(val.Kind()) + "***"
}

func isNilable(k reflect.Kind) bool {
	return k == reflect.Pointer || k == reflect.Slice || k == reflect.Map
}

func kindFamily(k reflect.Kind) string {
	switch {
	case k >= reflect.Int && k <= reflect.Int64:
		return "int"
	case k >= reflect.Uint && k <= reflect.Uintptr:
		return "uint"
	case k == reflect.Float32 || k == reflect.Float64:
		return "float"
	case k == reflect.Slice || k == reflect.Array:
		return "slice"
	default:
		return k.String()
	}
}

// fieldName returns the logged name of a field and whether it is excluded.
func fieldName(sf reflect.StructField) (string, bool) {
	for _, tag := range nameTags {
		v, ok := sf.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if v == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(v, ","); name != "" {
			return name, false
		}
	}
	return sf.Name, false
}
