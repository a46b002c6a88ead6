package remote

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Wire type tags for SQL values.
const (
	TypeNull    = "null"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeText    = "text"
	TypeBlob    = "blob"
)

// ErrNotInteger is returned by the strict integer accessor when a value does
// not hold a well-formed integer.
var ErrNotInteger = errors.New("value is not an integer")

// Value is a tagged SQL value as it appears on the wire. Integers travel as
// decimal strings because they may exceed the JSON safe-integer range, floats
// as JSON numbers, text as JSON strings, and blobs as base64 in a separate
// field.
type Value struct {
	Type   string          `json:"type"`
	Value  json.RawMessage `json:"value,omitempty"`
	Base64 string          `json:"base64,omitempty"`
}

// Null returns the null value.
func Null() Value {
	return Value{Type: TypeNull}
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Type: TypeInteger, Value: quote(strconv.FormatInt(n, 10))}
}

// Float returns a float value. Non-finite floats have no JSON form and are
// sent as text.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return Value{Type: TypeFloat, Value: json.RawMessage(strconv.FormatFloat(f, 'g', -1, 64))}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{Type: TypeText, Value: quote(s)}
}

// Blob returns a blob value.
func Blob(b []byte) Value {
	return Value{Type: TypeBlob, Base64: base64.RawStdEncoding.EncodeToString(b)}
}

// Encode converts a Go value into its wire representation. Booleans become
// integers 0/1, integer kinds become integers, float kinds become floats,
// byte slices become blobs, nil and nil pointers become null, and anything
// else is sent as text using its string form.
func Encode(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		if x {
			return Integer(1)
		}
		return Integer(0)
	case int:
		return Integer(int64(x))
	case int8:
		return Integer(int64(x))
	case int16:
		return Integer(int64(x))
	case int32:
		return Integer(int64(x))
	case int64:
		return Integer(x)
	case uint8:
		return Integer(int64(x))
	case uint16:
		return Integer(int64(x))
	case uint32:
		return Integer(int64(x))
	case uint:
		return Value{Type: TypeInteger, Value: quote(strconv.FormatUint(uint64(x), 10))}
	case uint64:
		return Value{Type: TypeInteger, Value: quote(strconv.FormatUint(x, 10))}
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []byte:
		if x == nil {
			return Null()
		}
		return Blob(x)
	case string:
		return Text(x)
	case fmt.Stringer:
		return Text(x.String())
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null()
		}
		return Encode(rv.Elem().Interface())
	}
	return Text(fmt.Sprint(v))
}

// EncodeArgs encodes statement parameters in placeholder order.
func EncodeArgs(args []any) []Value {
	if len(args) == 0 {
		return nil
	}
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = Encode(a)
	}
	return out
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool {
	return v.Type == TypeNull || v.Type == ""
}

// String returns the value in string form. Null decodes to "", floats to
// their shortest decimal form, and blobs to their base64 payload.
func (v Value) String() string {
	switch v.Type {
	case TypeText, TypeInteger:
		return v.raw()
	case TypeFloat:
		f, _ := v.number()
		return strconv.FormatFloat(f, 'f', -1, 64)
	case TypeBlob:
		return v.Base64
	default:
		return ""
	}
}

// Int64 returns the value as an integer. Unparsable integer text decodes to
// 0 rather than failing, to tolerate server-side representation differences.
// Floats are truncated. Other types decode to 0.
func (v Value) Int64() int64 {
	switch v.Type {
	case TypeInteger:
		n, err := strconv.ParseInt(v.raw(), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case TypeFloat:
		f, _ := v.number()
		return int64(f)
	default:
		return 0
	}
}

// Int32 returns the value as a 32-bit integer with the same leniency as
// Int64. Integers outside the 32-bit range decode to 0.
func (v Value) Int32() int32 {
	switch v.Type {
	case TypeInteger:
		n, err := strconv.ParseInt(v.raw(), 10, 32)
		if err != nil {
			return 0
		}
		return int32(n)
	case TypeFloat:
		f, _ := v.number()
		return int32(f)
	default:
		return 0
	}
}

// ParseInt64 is the strict counterpart of Int64: it fails on null, on
// non-integer types, and on malformed integer text.
func (v Value) ParseInt64() (int64, error) {
	if v.Type != TypeInteger {
		return 0, fmt.Errorf("%w: type %q", ErrNotInteger, v.Type)
	}
	n, err := strconv.ParseInt(v.raw(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, v.raw())
	}
	return n, nil
}

// Bool reports whether the value is the integer 1.
func (v Value) Bool() bool {
	return v.Type == TypeInteger && v.raw() == "1"
}

// NullableInt64 returns nil for null and the lenient integer otherwise.
func (v Value) NullableInt64() *int64 {
	if v.IsNull() {
		return nil
	}
	n := v.Int64()
	return &n
}

// ParseNullableInt64 is the strict counterpart of NullableInt64.
func (v Value) ParseNullableInt64() (*int64, error) {
	if v.IsNull() {
		return nil, nil
	}
	n, err := v.ParseInt64()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Float64 returns the numeric value of a float or integer; other types
// decode to 0.
func (v Value) Float64() float64 {
	switch v.Type {
	case TypeFloat:
		f, _ := v.number()
		return f
	case TypeInteger:
		f, err := strconv.ParseFloat(v.raw(), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bytes decodes a blob payload. Padded and unpadded base64 are accepted.
func (v Value) Bytes() ([]byte, error) {
	if v.Type != TypeBlob {
		return nil, fmt.Errorf("value of type %q is not a blob", v.Type)
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(v.Base64, "="))
}

// Native converts the value to the Go type a database/sql driver accepts:
// nil, int64, float64, string, or []byte.
func (v Value) Native() (any, error) {
	switch v.Type {
	case TypeNull, "":
		return nil, nil
	case TypeInteger:
		return v.ParseInt64()
	case TypeFloat:
		return v.number()
	case TypeText:
		return v.raw(), nil
	case TypeBlob:
		return v.Bytes()
	default:
		return nil, fmt.Errorf("unknown value type %q", v.Type)
	}
}

// raw returns the JSON payload unquoted when it is a string and verbatim
// when it is a bare literal. Some servers send integers as numbers.
func (v Value) raw() string {
	if len(v.Value) == 0 {
		return ""
	}
	if v.Value[0] == '"' {
		var s string
		if err := json.Unmarshal(v.Value, &s); err != nil {
			return ""
		}
		return s
	}
	return string(v.Value)
}

func (v Value) number() (float64, error) {
	if len(v.Value) == 0 {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(v.Value, &f); err == nil {
		return f, nil
	}
	return strconv.ParseFloat(v.raw(), 64)
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
