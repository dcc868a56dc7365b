// Package document provides a protocol-neutral, dynamic value tree usable as
// both a serializer source and a deserializer target when a shape's exact
// structure is not known until inspected (the Smithy "document" shape).
//
// Adapted from the JSON-only document representation in the prior runtime
// (document/value.go, document/json.go) generalized to carry any shape kind
// a Schema can describe, and to support the CBOR "__type" discriminator
// convention for structure-shaped documents.
package document

import (
	"fmt"
	"math/big"
	"time"

	"github.com/modulert/smithy-go"
)

// Kind identifies which shape kind a Value currently holds. It is a subset
// of smithy.ShapeType restricted to the kinds a document can represent.
type Kind = smithy.ShapeType

// Field is a single named entry of a Map or Structure-kind Value. Fields
// preserve insertion order, unlike a Go map, so a discriminator can always
// be emitted first.
type Field struct {
	Name  string
	Value Value
}

// Value is a dynamically typed document value.
//
// The zero Value is not null (its kind is the zero ShapeType, blob); the
// null value comes from Null. Values are immutable once constructed; the
// constructors (NewXxx) are the only way to build one.
type Value struct {
	kind Kind

	b    bool
	i64  int64
	f64  float64
	bi   *big.Int
	bd   *big.Float
	str  string
	blob []byte
	ts   time.Time
	list []Value

	// fields backs both Map and Structure kinds.
	fields []Field
	// typeID is set only for Structure-kind values: the resolved or
	// yet-to-be-resolved shape ID of the "__type" discriminator.
	typeID string
}

// Null returns the null document value.
func Null() Value { return Value{kind: smithy.ShapeTypeDocument} }

// NewBool returns a boolean document value.
func NewBool(v bool) Value { return Value{kind: smithy.ShapeTypeBoolean, b: v} }

// NewByte returns a byte (int8) document value.
func NewByte(v int8) Value { return Value{kind: smithy.ShapeTypeByte, i64: int64(v)} }

// NewShort returns a short (int16) document value.
func NewShort(v int16) Value { return Value{kind: smithy.ShapeTypeShort, i64: int64(v)} }

// NewInteger returns an integer (int32) document value.
func NewInteger(v int32) Value { return Value{kind: smithy.ShapeTypeInteger, i64: int64(v)} }

// NewLong returns a long (int64) document value.
func NewLong(v int64) Value { return Value{kind: smithy.ShapeTypeLong, i64: v} }

// NewFloat returns a float (float32) document value.
func NewFloat(v float32) Value { return Value{kind: smithy.ShapeTypeFloat, f64: float64(v)} }

// NewDouble returns a double (float64) document value.
func NewDouble(v float64) Value { return Value{kind: smithy.ShapeTypeDouble, f64: v} }

// NewBigInteger returns a big-integer document value.
func NewBigInteger(v *big.Int) Value { return Value{kind: smithy.ShapeTypeBigInteger, bi: v} }

// NewBigDecimal returns a big-decimal document value.
func NewBigDecimal(v *big.Float) Value { return Value{kind: smithy.ShapeTypeBigDecimal, bd: v} }

// NewString returns a string document value.
func NewString(v string) Value { return Value{kind: smithy.ShapeTypeString, str: v} }

// NewBlob returns a blob document value.
func NewBlob(v []byte) Value { return Value{kind: smithy.ShapeTypeBlob, blob: v} }

// NewTimestamp returns a timestamp document value.
func NewTimestamp(v time.Time) Value { return Value{kind: smithy.ShapeTypeTimestamp, ts: v} }

// NewList returns a list document value.
func NewList(items []Value) Value { return Value{kind: smithy.ShapeTypeList, list: items} }

// NewMap returns a map document value with string keys, preserving the
// given field order.
func NewMap(fields []Field) Value { return Value{kind: smithy.ShapeTypeMap, fields: fields} }

// NewStruct returns a structure-kind document value. typeID is the relative
// or absolute shape ID written as the "__type" discriminator ahead of
// fields when the value is serialized.
func NewStruct(typeID string, fields []Field) Value {
	return Value{kind: smithy.ShapeTypeStructure, fields: fields, typeID: typeID}
}

// Type returns the shape kind this value holds. Per the discriminator
// invariant, Type() accurately predicts which ShapeSerializer/
// ShapeDeserializer method processing this value will invoke.
func (v Value) Type() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == smithy.ShapeTypeDocument && v.fields == nil && v.list == nil }

// Discriminator returns the "__type" shape ID for a Structure-kind value.
func (v Value) Discriminator() (string, bool) {
	if v.kind != smithy.ShapeTypeStructure {
		return "", false
	}
	return v.typeID, true
}

// Bool returns the boolean value, and whether the value was boolean-kinded.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == smithy.ShapeTypeBoolean }

// Long returns the value widened to int64, and whether the value was one of
// the integral kinds (byte/short/integer/long).
func (v Value) Long() (int64, bool) {
	switch v.kind {
	case smithy.ShapeTypeByte, smithy.ShapeTypeShort, smithy.ShapeTypeInteger, smithy.ShapeTypeLong:
		return v.i64, true
	}
	return 0, false
}

// Double returns the value widened to float64, and whether the value was a
// float or double kind.
func (v Value) Double() (float64, bool) {
	switch v.kind {
	case smithy.ShapeTypeFloat, smithy.ShapeTypeDouble:
		return v.f64, true
	}
	return 0, false
}

// BigInteger returns the big-integer value, if this value is one.
func (v Value) BigInteger() (*big.Int, bool) {
	if v.kind != smithy.ShapeTypeBigInteger {
		return nil, false
	}
	return v.bi, true
}

// BigDecimal returns the big-decimal value, if this value is one.
func (v Value) BigDecimal() (*big.Float, bool) {
	if v.kind != smithy.ShapeTypeBigDecimal {
		return nil, false
	}
	return v.bd, true
}

// String returns the string value, if this value is one.
func (v Value) String() (string, bool) {
	if v.kind != smithy.ShapeTypeString {
		return "", false
	}
	return v.str, true
}

// Blob returns the blob value, if this value is one.
func (v Value) Blob() ([]byte, bool) {
	if v.kind != smithy.ShapeTypeBlob {
		return nil, false
	}
	return v.blob, true
}

// Timestamp returns the timestamp value, if this value is one.
func (v Value) Timestamp() (time.Time, bool) {
	if v.kind != smithy.ShapeTypeTimestamp {
		return time.Time{}, false
	}
	return v.ts, true
}

// List returns the element values, if this value is a list.
func (v Value) List() ([]Value, bool) {
	if v.kind != smithy.ShapeTypeList {
		return nil, false
	}
	return v.list, true
}

// Fields returns the ordered fields, if this value is a map or structure.
func (v Value) Fields() ([]Field, bool) {
	if v.kind != smithy.ShapeTypeMap && v.kind != smithy.ShapeTypeStructure {
		return nil, false
	}
	return v.fields, true
}

// Field looks up a single named field of a map or structure value.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// ResolveDiscriminator resolves a structure value's "__type" discriminator
// against a default namespace, returning the fully-qualified shape ID.
//
// A discriminator with no "#" is a relative ID resolved against
// defaultNamespace; one already containing "#" is returned unchanged.
func (v Value) ResolveDiscriminator(defaultNamespace string) (smithy.ShapeID, error) {
	typeID, ok := v.Discriminator()
	if !ok {
		return smithy.ShapeID{}, fmt.Errorf("document is not a structure, has no discriminator")
	}
	id := smithy.ParseShapeID(typeID)
	if id.Namespace == "" {
		id.Namespace = defaultNamespace
	}
	return id, nil
}
