package models

import (
	"bytes"
	"encoding/json"
)

// MetaKind tags the JSON shape of an arbitrary metadata value.
type MetaKind int

const (
	MetaNull MetaKind = iota
	MetaString
	MetaNumber
	MetaBool
	MetaArray
	MetaObject
)

// MetaValue is an arbitrary metadata value of unconstrained shape, decoded
// into a tagged variant so each shape gets exactly one formatting rule.
type MetaValue struct {
	Kind MetaKind
	Str  string
	Num  float64
	Bool bool
	Raw  json.RawMessage
}

// MetaValueFromRaw classifies a raw JSON value.
func MetaValueFromRaw(raw json.RawMessage) MetaValue {
	v := MetaValue{Raw: raw}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return v
	}

	switch trimmed[0] {
	case 'n':
		v.Kind = MetaNull
	case '"':
		v.Kind = MetaString
		_ = json.Unmarshal(trimmed, &v.Str)
	case 't', 'f':
		v.Kind = MetaBool
		_ = json.Unmarshal(trimmed, &v.Bool)
	case '[':
		v.Kind = MetaArray
	case '{':
		v.Kind = MetaObject
	default:
		v.Kind = MetaNumber
		_ = json.Unmarshal(trimmed, &v.Num)
	}
	return v
}

// UnmarshalJSON decodes a value of any JSON shape.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	*v = MetaValueFromRaw(append(json.RawMessage(nil), data...))
	return nil
}

// MarshalJSON re-emits the original value untouched.
func (v MetaValue) MarshalJSON() ([]byte, error) {
	if len(v.Raw) == 0 {
		return []byte("null"), nil
	}
	return v.Raw, nil
}
