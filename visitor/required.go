package visitor

import (
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
)

// RequiredWrite wraps a delegate ShapeSerializer and tracks whether any
// write call reached it, so a caller can assert that a member documented
// as required actually produced output (catching, e.g., a generated
// Serialize method that silently skips a field).
type RequiredWrite struct {
	Delegate smithy.ShapeSerializer
	written  bool
}

var _ smithy.ShapeSerializer = (*RequiredWrite)(nil)

// Written reports whether any write reached the delegate.
func (r *RequiredWrite) Written() bool { return r.written }

// Assert returns a SchemaMismatchError if no write occurred for schema.
func (r *RequiredWrite) Assert(schema *smithy.Schema) error {
	if r.written {
		return nil
	}
	return &smithy.SchemaMismatchError{Schema: schema, Path: "required member was never written"}
}

func (r *RequiredWrite) WriteBoolean(schema *smithy.Schema, v bool) {
	r.written = true
	r.Delegate.WriteBoolean(schema, v)
}

func (r *RequiredWrite) WriteByte(schema *smithy.Schema, v int8) {
	r.written = true
	r.Delegate.WriteByte(schema, v)
}

func (r *RequiredWrite) WriteShort(schema *smithy.Schema, v int16) {
	r.written = true
	r.Delegate.WriteShort(schema, v)
}

func (r *RequiredWrite) WriteInteger(schema *smithy.Schema, v int32) {
	r.written = true
	r.Delegate.WriteInteger(schema, v)
}

func (r *RequiredWrite) WriteLong(schema *smithy.Schema, v int64) {
	r.written = true
	r.Delegate.WriteLong(schema, v)
}

func (r *RequiredWrite) WriteFloat(schema *smithy.Schema, v float32) {
	r.written = true
	r.Delegate.WriteFloat(schema, v)
}

func (r *RequiredWrite) WriteDouble(schema *smithy.Schema, v float64) {
	r.written = true
	r.Delegate.WriteDouble(schema, v)
}

func (r *RequiredWrite) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	r.written = true
	r.Delegate.WriteBigInteger(schema, v)
}

func (r *RequiredWrite) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	r.written = true
	r.Delegate.WriteBigDecimal(schema, v)
}

func (r *RequiredWrite) WriteString(schema *smithy.Schema, v string) {
	r.written = true
	r.Delegate.WriteString(schema, v)
}

func (r *RequiredWrite) WriteBlob(schema *smithy.Schema, v []byte) {
	r.written = true
	r.Delegate.WriteBlob(schema, v)
}

func (r *RequiredWrite) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	r.written = true
	r.Delegate.WriteTimestamp(schema, v)
}

func (r *RequiredWrite) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	r.written = true
	r.Delegate.WriteStruct(schema, v)
}

func (r *RequiredWrite) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	r.written = true
	r.Delegate.WriteList(schema, state, size, fn)
}

func (r *RequiredWrite) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	r.written = true
	r.Delegate.WriteMap(schema, state, size, fn)
}

func (r *RequiredWrite) WriteKey(schema *smithy.Schema, key string) {
	r.Delegate.WriteKey(schema, key)
}

func (r *RequiredWrite) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	r.written = true
	r.Delegate.WriteDocument(schema, v)
}

func (r *RequiredWrite) WriteNull(schema *smithy.Schema) {
	r.written = true
	r.Delegate.WriteNull(schema)
}
