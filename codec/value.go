package codec

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/jmespath/go-jmespath"

	"github.com/kbukum/fluenthttp/errors"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a dynamically typed document node produced by
// Decoder.DecodeDynamic. Objects are map[string]any, arrays are []any.
// Accessors never return nil: a missing member is a null Value.
type Value struct {
	raw any
}

var null = &Value{}

// NewValue wraps a decoded tree. Maps with non-string keys are converted
// to map[string]any and typed slices to []any.
func NewValue(raw any) *Value {
	return &Value{raw: normalize(raw)}
}

func normalize(raw any) any {
	switch v := raw.(type) {
	case nil, bool, string, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return v
	case map[string]any:
		for k, item := range v {
			v[k] = normalize(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[fmt.Sprint(iter.Key().Interface())] = normalize(iter.Value().Interface())
		}
		return out
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	}
	return raw
}

// Raw returns the underlying tree.
func (v *Value) Raw() any {
	return v.raw
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind {
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	if _, ok := toFloat(v.raw); ok {
		return KindNumber
	}
	// Scalars such as time.Time from TOML documents.
	return KindString
}

// IsNull reports whether v is null or missing.
func (v *Value) IsNull() bool {
	return v.raw == nil
}

// Get returns the member name of an object.
func (v *Value) Get(name string) *Value {
	if m, ok := v.raw.(map[string]any); ok {
		if item, ok := m[name]; ok {
			return &Value{raw: item}
		}
	}
	return null
}

// Index returns element i of an array.
func (v *Value) Index(i int) *Value {
	if a, ok := v.raw.([]any); ok && i >= 0 && i < len(a) {
		return &Value{raw: a[i]}
	}
	return null
}

// Len returns the number of elements of an array or members of an object.
func (v *Value) Len() int {
	switch t := v.raw.(type) {
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	}
	return 0
}

// Keys returns the member names of an object, sorted.
func (v *Value) Keys() []string {
	m, ok := v.raw.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Str returns the string held by v.
func (v *Value) Str() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Bool returns the boolean held by v.
func (v *Value) Bool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// Float returns the number held by v.
func (v *Value) Float() (float64, bool) {
	return toFloat(v.raw)
}

// Int returns the number held by v if it is integral.
func (v *Value) Int() (int64, bool) {
	switch n := v.raw.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
		return 0, false
	}
	f, ok := toFloat(v.raw)
	if !ok || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// String renders scalars as text and composites as JSON.
func (v *Value) String() string {
	switch t := v.raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []any, map[string]any:
		b, err := sonic.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
	return fmt.Sprint(v.raw)
}

// MarshalJSON encodes the tree.
func (v *Value) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(v.raw)
}

// Decode converts the tree into the value pointed to by out.
func (v *Value) Decode(out any) error {
	b, err := sonic.Marshal(v.raw)
	if err != nil {
		return errors.InvalidArgument("value", err.Error())
	}
	return sonic.Unmarshal(b, out)
}

// Search evaluates a JMESPath expression against the tree.
//
//	names, _ := v.Search("items[?active].name")
func (v *Value) Search(expr string) (*Value, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, errors.InvalidArgument("expression", err.Error()).WithDetail("expression", expr)
	}
	res, err := jp.Search(searchable(v.raw))
	if err != nil {
		return nil, errors.InvalidArgument("expression", err.Error()).WithDetail("expression", expr)
	}
	return NewValue(res), nil
}

// searchable copies the tree with every number as float64, the only
// numeric type JMESPath comparisons understand.
func searchable(raw any) any {
	switch t := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = searchable(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = searchable(item)
		}
		return out
	}
	if f, ok := toFloat(raw); ok {
		return f
	}
	return raw
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
