package template

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	// KindUndefined marks a reference that did not resolve.
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSeq
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is a node of the data tree a template is rendered against.
//
// The zero Value is undefined. Numbers keep track of whether they were
// integral so they stringify the way they were supplied.
type Value struct {
	kind Kind
	data any // bool, int64, uint64, float64, string, []Value or map[string]Value
}

// Undefined returns the value produced by a reference that could not be resolved.
func Undefined() Value { return Value{} }

// Null returns the explicit null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, data: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, data: i} }

// Uint wraps an unsigned integer. Values that fit in an int64 are stored
// as Int.
func Uint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Value{kind: KindNumber, data: u}
}

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindNumber, data: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, data: s} }

// Seq wraps an ordered sequence. The slice is used as-is.
func Seq(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSeq, data: items}
}

// Map wraps a mapping. The map is used as-is.
func Map(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: KindMap, data: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the result of an unresolved reference.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsTrue applies the conditional truthiness rules: undefined, null, false,
// zero, the empty string and the empty sequence are falsy. Everything else,
// including mappings and the strings "false" and "0", is truthy.
func (v Value) IsTrue() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.data.(bool)
	case KindNumber:
		switch n := v.data.(type) {
		case int64:
			return n != 0
		case uint64:
			return n != 0
		case float64:
			return n != 0 && !math.IsNaN(n)
		}
		return false
	case KindString:
		return v.data.(string) != ""
	case KindSeq:
		return len(v.data.([]Value)) > 0
	case KindMap:
		return true
	default:
		return false
	}
}

// String returns the interpolation form of v. Undefined and null render as
// the empty string. Sequences and mappings have no textual form and also
// render empty.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.data.(bool))
	case KindNumber:
		switch n := v.data.(type) {
		case int64:
			return strconv.FormatInt(n, 10)
		case uint64:
			return strconv.FormatUint(n, 10)
		case float64:
			return formatFloat(n)
		}
		return ""
	case KindString:
		return v.data.(string)
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		return formatExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatExponent strips the zero padding strconv puts on exponents:
// 1.5e-07 becomes 1.5e-7.
func formatExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || len(s) < i+3 {
		return s
	}
	digits := strings.TrimLeft(s[i+2:], "0")
	if digits == "" {
		digits = "0"
	}
	return s[:i+2] + digits
}

// AsSeq returns the elements of a sequence value.
func (v Value) AsSeq() ([]Value, bool) {
	if v.kind != KindSeq {
		return nil, false
	}
	return v.data.([]Value), true
}

// AsMap returns the entries of a mapping value.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.data.(map[string]Value), true
}

// AsString returns the string held by a string value.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.data.(string), true
}

// Len returns the number of elements of a sequence or mapping, or the byte
// length of a string.
func (v Value) Len() (int, bool) {
	switch v.kind {
	case KindSeq:
		return len(v.data.([]Value)), true
	case KindMap:
		return len(v.data.(map[string]Value)), true
	case KindString:
		return len(v.data.(string)), true
	default:
		return 0, false
	}
}

// Get walks one path segment into v. Mappings are indexed by key and
// sequences by a non-negative decimal index without leading zeros. Anything
// else yields Undefined.
func (v Value) Get(segment string) Value {
	switch v.kind {
	case KindMap:
		if child, ok := v.data.(map[string]Value)[segment]; ok {
			return child
		}
	case KindSeq:
		idx, ok := parseIndex(segment)
		if !ok {
			return Undefined()
		}
		items := v.data.([]Value)
		if idx < len(items) {
			return items[idx]
		}
	}
	return Undefined()
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
