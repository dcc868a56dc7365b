package visitor

import (
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
)

// Intercepting routes every write through a delegate chosen per-call by
// Before, and optionally finalized by After. This is how a struct
// serializer emits per-member framing without every concrete codec
// reimplementing member iteration: CBOR's member-name key, an HTTP
// binding's per-location routing, and a validating wrapper are all
// expressible as an Intercepting visitor's Before/After pair.
//
// Before is called once per write, with the member schema the write was
// made for; it must return a non-nil ShapeSerializer. After, if set, is
// called once the delegate call returns.
type Intercepting struct {
	Before func(schema *smithy.Schema) smithy.ShapeSerializer
	After  func(schema *smithy.Schema)
}

var _ smithy.ShapeSerializer = Intercepting{}

func (i Intercepting) delegate(schema *smithy.Schema) smithy.ShapeSerializer {
	return i.Before(schema)
}

func (i Intercepting) done(schema *smithy.Schema) {
	if i.After != nil {
		i.After(schema)
	}
}

func (i Intercepting) WriteBoolean(schema *smithy.Schema, v bool) {
	i.delegate(schema).WriteBoolean(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteByte(schema *smithy.Schema, v int8) {
	i.delegate(schema).WriteByte(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteShort(schema *smithy.Schema, v int16) {
	i.delegate(schema).WriteShort(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteInteger(schema *smithy.Schema, v int32) {
	i.delegate(schema).WriteInteger(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteLong(schema *smithy.Schema, v int64) {
	i.delegate(schema).WriteLong(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteFloat(schema *smithy.Schema, v float32) {
	i.delegate(schema).WriteFloat(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteDouble(schema *smithy.Schema, v float64) {
	i.delegate(schema).WriteDouble(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	i.delegate(schema).WriteBigInteger(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	i.delegate(schema).WriteBigDecimal(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteString(schema *smithy.Schema, v string) {
	i.delegate(schema).WriteString(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteBlob(schema *smithy.Schema, v []byte) {
	i.delegate(schema).WriteBlob(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	i.delegate(schema).WriteTimestamp(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	i.delegate(schema).WriteStruct(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	i.delegate(schema).WriteList(schema, state, size, fn)
	i.done(schema)
}

func (i Intercepting) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	i.delegate(schema).WriteMap(schema, state, size, fn)
	i.done(schema)
}

func (i Intercepting) WriteKey(schema *smithy.Schema, key string) {
	i.delegate(schema).WriteKey(schema, key)
	i.done(schema)
}

func (i Intercepting) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	i.delegate(schema).WriteDocument(schema, v)
	i.done(schema)
}

func (i Intercepting) WriteNull(schema *smithy.Schema) {
	i.delegate(schema).WriteNull(schema)
	i.done(schema)
}
