// Package visitor provides ShapeSerializer/ShapeDeserializer implementations
// that are useful independent of any wire format: a sink that discards
// everything, one that renders a human-readable form, one that asserts a
// required member was actually written, one that routes each write through
// a caller-supplied delegate, and one that rejects every shape kind but one.
//
// Grounded on the prior runtime's shape_serializer.go and httpbinding
// serializer.go (aws-protocols/internal/{json,httpbinding}), generalized
// into format-agnostic utility visitors usable by any codec.
package visitor

import (
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
)

// Null is a ShapeSerializer that accepts every call and writes nothing. It
// still recurses into structures, lists, and maps so that side-effecting
// consumers (counters, validators layered via Intercepting) still run.
type Null struct{}

var _ smithy.ShapeSerializer = Null{}

func (Null) WriteBoolean(*smithy.Schema, bool)          {}
func (Null) WriteByte(*smithy.Schema, int8)             {}
func (Null) WriteShort(*smithy.Schema, int16)           {}
func (Null) WriteInteger(*smithy.Schema, int32)         {}
func (Null) WriteLong(*smithy.Schema, int64)            {}
func (Null) WriteFloat(*smithy.Schema, float32)         {}
func (Null) WriteDouble(*smithy.Schema, float64)        {}
func (Null) WriteBigInteger(*smithy.Schema, *big.Int)   {}
func (Null) WriteBigDecimal(*smithy.Schema, *big.Float) {}
func (Null) WriteString(*smithy.Schema, string)         {}
func (Null) WriteBlob(*smithy.Schema, []byte)           {}
func (Null) WriteTimestamp(*smithy.Schema, time.Time)   {}
func (Null) WriteNull(*smithy.Schema)                   {}
func (Null) WriteKey(*smithy.Schema, string)            {}

func (n Null) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	if v != nil {
		v.Serialize(n)
	}
}

func (n Null) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	fn(state, n)
}

func (n Null) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	fn(state, n)
}

func (n Null) WriteDocument(schema *smithy.Schema, v smithy.Document2) {}
