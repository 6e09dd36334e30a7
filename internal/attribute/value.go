// Package attribute provides the typed key/value tags stored on an item's
// metadata. Values form a closed set of kinds so no runtime type tokens are
// needed to read or write them.
package attribute

import (
	"bytes"
	"fmt"
	"strconv"
)

// Kind enumerates the value kinds an attribute may hold.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := KindString; k <= KindBytes; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Value is one attribute value. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	raw  []byte
}

func String(s string) Value  { return Value{kind: KindString, str: s} }
func Byte(v int8) Value      { return Value{kind: KindByte, num: int64(v)} }
func Short(v int16) Value    { return Value{kind: KindShort, num: int64(v)} }
func Int(v int32) Value      { return Value{kind: KindInt, num: int64(v)} }
func Long(v int64) Value     { return Value{kind: KindLong, num: v} }
func Float(v float32) Value  { return Value{kind: KindFloat, flt: float64(v)} }
func Double(v float64) Value { return Value{kind: KindDouble, flt: v} }
func Bytes(v []byte) Value   { return Value{kind: KindBytes, raw: bytes.Clone(v)} }
func Bool(v bool) Value {
	if v {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsString returns the string payload; ok is false for other kinds.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsBool returns the bool payload; ok is false for other kinds.
func (v Value) AsBool() (bool, bool) { return v.num != 0, v.kind == KindBool }

// AsInt64 returns any integral payload widened to int64.
func (v Value) AsInt64() (int64, bool) {
	switch v.kind {
	case KindByte, KindShort, KindInt, KindLong:
		return v.num, true
	}
	return 0, false
}

// AsFloat64 returns a float or double payload widened to float64.
func (v Value) AsFloat64() (float64, bool) {
	switch v.kind {
	case KindFloat, KindDouble:
		return v.flt, true
	}
	return 0, false
}

// AsBytes returns a copy of the bytes payload.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return bytes.Clone(v.raw), true
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindFloat, KindDouble:
		return v.flt == o.flt
	case KindBytes:
		return bytes.Equal(v.raw, o.raw)
	default:
		return v.num == o.num
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindByte, KindShort, KindInt, KindLong:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBytes:
		return fmt.Sprintf("%x", v.raw)
	default:
		return "<invalid>"
	}
}

// Of converts a Go value of a supported type into a Value.
func Of(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int8:
		return Byte(t), nil
	case int16:
		return Short(t), nil
	case int32:
		return Int(t), nil
	case int:
		return Long(int64(t)), nil
	case int64:
		return Long(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Double(t), nil
	case []byte:
		return Bytes(t), nil
	}
	return Value{}, fmt.Errorf("%w: %T", ErrInvalidKind, x)
}

// Interface returns the payload as the natural Go type for the kind.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.num != 0
	case KindByte:
		return int8(v.num)
	case KindShort:
		return int16(v.num)
	case KindInt:
		return int32(v.num)
	case KindLong:
		return v.num
	case KindFloat:
		return float32(v.flt)
	case KindDouble:
		return v.flt
	case KindBytes:
		return bytes.Clone(v.raw)
	}
	return nil
}
