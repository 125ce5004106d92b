package uri

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Param is a named parameter value.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered parameter list, the most direct way to control the
// order of query or segment parameters.
type Params []Param

// Property is an enumerated parameter with its rendered value.
type Property struct {
	Name  string
	Value string
}

// Properties enumerates the named values of v in a stable order:
//
//   - Params in slice order
//   - url.Values by sorted key, one property per value
//   - maps with string keys by sorted key
//   - structs (or pointers to structs) by exported field in declaration
//     order; a `url:"name"` tag renames a field and `url:"-"` skips it;
//     embedded structs are flattened
//
// Nil values are skipped. Any other input yields no properties.
func Properties(v any) []Property {
	return enumerate(v, false)
}

// AllProperties is Properties with nil values kept as empty strings, the
// rendering form bodies use.
func AllProperties(v any) []Property {
	return enumerate(v, true)
}

func enumerate(v any, keepNil bool) []Property {
	switch t := v.(type) {
	case nil:
		return nil
	case Params:
		out := make([]Property, 0, len(t))
		for _, p := range t {
			if s, ok := Stringify(p.Value); ok || keepNil {
				out = append(out, Property{Name: p.Name, Value: s})
			}
		}
		return out
	case url.Values:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		var out []Property
		for _, k := range keys {
			for _, s := range t[k] {
				out = append(out, Property{Name: k, Value: s})
			}
		}
		return out
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		return mapProperties(rv, keepNil)
	case reflect.Struct:
		if _, isTime := rv.Interface().(time.Time); isTime {
			return nil
		}
		return structProperties(rv, keepNil, nil)
	}
	return nil
}

func mapProperties(rv reflect.Value, keepNil bool) []Property {
	if rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	keys := make([]string, 0, rv.Len())
	values := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().String()
		keys = append(keys, k)
		values[k] = iter.Value()
	}
	slices.Sort(keys)

	out := make([]Property, 0, len(keys))
	for _, k := range keys {
		if s, ok := Stringify(values[k].Interface()); ok || keepNil {
			out = append(out, Property{Name: k, Value: s})
		}
	}
	return out
}

func structProperties(rv reflect.Value, keepNil bool, out []Property) []Property {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)

		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag, ok := field.Tag.Lookup("url"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		} else if field.Anonymous {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				out = structProperties(inner, keepNil, out)
				continue
			}
		}

		if s, ok := Stringify(fv.Interface()); ok || keepNil {
			out = append(out, Property{Name: name, Value: s})
		}
	}
	return out
}

// Stringify renders a parameter value. It reports false for nil values,
// nil pointers and nil collections. Pointers are dereferenced, fmt.Stringer
// wins over the default rendering, times use RFC 3339.
func Stringify(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
		v = rv.Interface()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return "", false
		}
	}

	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339), true
	case fmt.Stringer:
		return t.String(), true
	case []byte:
		return string(t), true
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s, true
	}
	return fmt.Sprint(v), true
}
