package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	NullKind Kind = iota
	BoolKind
	NumberKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case NumberKind:
		return "number"
	case BoolKind:
		return "boolean"
	default:
		return "null"
	}
}

// Value is a scalar cell. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func String(s string) Value {
	return Value{kind: StringKind, str: s}
}

func Number(n float64) Value {
	return Value{kind: NumberKind, num: n}
}

func Bool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

func Null() Value {
	return Value{}
}

// FromAny converts a plain Go value into a Value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case fmt.Stringer:
		return String(x.String()), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", v)
	}
}

// MustValue is like FromAny but panics on unsupported types.
func MustValue(v any) Value {
	value, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return value
}

func (v Value) Kind() Kind {
	return v.kind
}

// TypeOf returns the runtime type tag of v.
func TypeOf(v Value) Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == NullKind
}

func (v Value) IsNumber() bool {
	return v.kind == NumberKind
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == StringKind
}

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == NumberKind
}

// Boolean returns the boolean payload and whether v is a boolean.
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == BoolKind
}

// Any returns v as a plain Go value (string, float64, bool or nil).
func (v Value) Any() any {
	switch v.kind {
	case StringKind:
		return v.str
	case NumberKind:
		return v.num
	case BoolKind:
		return v.b
	default:
		return nil
	}
}

// String renders v the way it is used for mode keys and display.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.str
	case NumberKind:
		return FormatNumber(v.num)
	case BoolKind:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

// FormatNumber renders n in its shortest round-trip form.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	if abs := math.Abs(n); abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(n, 'g', -1, 64))
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// trimExponent drops the zero padding strconv puts on one-digit exponents,
// so 1.5e-07 renders as 1.5e-7.
func trimExponent(s string) string {
	e := strings.IndexByte(s, 'e')
	if e < 0 || e+3 >= len(s) || s[e+2] != '0' {
		return s
	}
	return s[:e+2] + s[e+3:]
}

// Equal reports strict equality: same kind and same payload. NaN is never
// equal to anything.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case StringKind:
		return a.str == b.str
	case NumberKind:
		return a.num == b.num
	case BoolKind:
		return a.b == b.b
	default:
		return true
	}
}

// Compare orders two values. Values of the same kind compare naturally;
// values of different kinds order by kind: null < boolean < number < string.
// NaN compares equal to every number.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case StringKind:
		return strings.Compare(a.str, b.str)
	case NumberKind:
		if a.num < b.num {
			return -1
		} else if a.num > b.num {
			return 1
		}
		return 0
	case BoolKind:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// HashKey is a comparable form of a Value for use in maps. All NaN values
// share one key and -0 folds into 0.
type HashKey struct {
	kind Kind
	str  string
	num  float64
	b    bool
	nan  bool
}

func (v Value) HashKey() HashKey {
	if v.kind == NumberKind && math.IsNaN(v.num) {
		return HashKey{kind: NumberKind, nan: true}
	}
	if v.kind == NumberKind && v.num == 0 {
		// fold -0 into 0
		return HashKey{kind: NumberKind}
	}
	return HashKey{kind: v.kind, str: v.str, num: v.num, b: v.b}
}

// IsNaN reports whether v is the number NaN.
func (v Value) IsNaN() bool {
	return v.kind == NumberKind && math.IsNaN(v.num)
}

// Encode appends an unambiguous encoding of v to buf. Distinct values never
// share an encoding, so encoded tuples can be used as composite map keys.
func (v Value) Encode(buf []byte) []byte {
	buf = append(buf, byte('0'+v.kind))
	switch v.kind {
	case StringKind:
		buf = strconv.AppendInt(buf, int64(len(v.str)), 10)
		buf = append(buf, ':')
		buf = append(buf, v.str...)
	case NumberKind:
		k := v.HashKey()
		if k.nan {
			buf = append(buf, "NaN"...)
		} else {
			buf = strconv.AppendUint(buf, math.Float64bits(k.num), 16)
		}
		buf = append(buf, ';')
	case BoolKind:
		if v.b {
			buf = append(buf, '1')
		} else {
			buf = append(buf, '0')
		}
	}
	return buf
}
