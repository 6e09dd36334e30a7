package sqlite

import (
	"fmt"
	"math"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

// AttributeModel represents one row of the attributes table. Exactly one
// of the value columns is set, chosen by Kind.
type AttributeModel struct {
	ItemID    string
	Namespace string
	Name      string
	Kind      string
	Text      *string  // nullable, string kind
	Int       *int64   // nullable, bool and integral kinds
	Real      *float64 // nullable, float and double kinds
	Blob      []byte   // nullable, bytes kind
	UpdatedAt int64    // Unix timestamp
}

// toAttributeModel converts a key/value pair to its row form.
func toAttributeModel(itemID string, key attribute.Key, v attribute.Value) (*AttributeModel, error) {
	m := &AttributeModel{
		ItemID:    itemID,
		Namespace: key.Namespace,
		Name:      key.Name,
		Kind:      v.Kind().String(),
	}
	switch v.Kind() {
	case attribute.KindString:
		s, _ := v.AsString()
		m.Text = &s
	case attribute.KindBool:
		b, _ := v.AsBool()
		var n int64
		if b {
			n = 1
		}
		m.Int = &n
	case attribute.KindByte, attribute.KindShort, attribute.KindInt, attribute.KindLong:
		n, _ := v.AsInt64()
		m.Int = &n
	case attribute.KindFloat, attribute.KindDouble:
		f, _ := v.AsFloat64()
		m.Real = &f
	case attribute.KindBytes:
		raw, _ := v.AsBytes()
		if raw == nil {
			raw = []byte{}
		}
		m.Blob = raw
	default:
		return nil, fmt.Errorf("%w: zero value for %s", attribute.ErrInvalidKind, key)
	}
	return m, nil
}

// key returns the attribute key of the row.
func (m *AttributeModel) key() attribute.Key {
	return attribute.Key{Namespace: m.Namespace, Name: m.Name}
}

// toValue converts the row back to a typed value.
func (m *AttributeModel) toValue() (attribute.Value, error) {
	kind, err := attribute.ParseKind(m.Kind)
	if err != nil {
		return attribute.Value{}, err
	}
	missing := fmt.Errorf("%w: %s row for %s has no value", attribute.ErrInvalidKind, m.Kind, m.key())

	switch kind {
	case attribute.KindString:
		if m.Text == nil {
			return attribute.Value{}, missing
		}
		return attribute.String(*m.Text), nil
	case attribute.KindFloat, attribute.KindDouble:
		if m.Real == nil {
			return attribute.Value{}, missing
		}
		if kind == attribute.KindFloat {
			return attribute.Float(float32(*m.Real)), nil
		}
		return attribute.Double(*m.Real), nil
	case attribute.KindBytes:
		// zero-length blobs scan back as nil
		return attribute.Bytes(m.Blob), nil
	}

	if m.Int == nil {
		return attribute.Value{}, missing
	}
	n := *m.Int
	switch kind {
	case attribute.KindBool:
		return attribute.Bool(n != 0), nil
	case attribute.KindByte:
		if n < math.MinInt8 || n > math.MaxInt8 {
			return attribute.Value{}, fmt.Errorf("%w: %d overflows byte", attribute.ErrInvalidKind, n)
		}
		return attribute.Byte(int8(n)), nil
	case attribute.KindShort:
		if n < math.MinInt16 || n > math.MaxInt16 {
			return attribute.Value{}, fmt.Errorf("%w: %d overflows short", attribute.ErrInvalidKind, n)
		}
		return attribute.Short(int16(n)), nil
	case attribute.KindInt:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return attribute.Value{}, fmt.Errorf("%w: %d overflows int", attribute.ErrInvalidKind, n)
		}
		return attribute.Int(int32(n)), nil
	default:
		return attribute.Long(n), nil
	}
}
