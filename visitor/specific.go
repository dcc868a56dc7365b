package visitor

import (
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
)

// Specific is embedded by a location-specific HTTP binding visitor (one
// that only ever expects, say, a string or numeric scalar) to get a
// default-reject implementation of every ShapeSerializer method for free.
// The embedding type overrides only the methods its location actually
// supports; any call that reaches Specific signals a SchemaMismatch, except
// WriteKey and WriteNull, which Specific accepts as no-ops.
//
// Err accumulates the first mismatch encountered; callers check it once
// the walk completes, since ShapeSerializer methods do not themselves
// return an error.
type Specific struct {
	Kind smithy.ShapeType
	Err  error
}

var _ smithy.ShapeSerializer = (*Specific)(nil)

func (s *Specific) reject(schema *smithy.Schema, actual smithy.ShapeType) {
	if s.Err == nil {
		s.Err = &smithy.SchemaMismatchError{Schema: schema, Expected: s.Kind, Actual: actual}
	}
}

func (s *Specific) WriteBoolean(schema *smithy.Schema, v bool) { s.reject(schema, smithy.ShapeTypeBoolean) }
func (s *Specific) WriteByte(schema *smithy.Schema, v int8)    { s.reject(schema, smithy.ShapeTypeByte) }
func (s *Specific) WriteShort(schema *smithy.Schema, v int16)  { s.reject(schema, smithy.ShapeTypeShort) }
func (s *Specific) WriteInteger(schema *smithy.Schema, v int32) {
	s.reject(schema, smithy.ShapeTypeInteger)
}
func (s *Specific) WriteLong(schema *smithy.Schema, v int64) { s.reject(schema, smithy.ShapeTypeLong) }
func (s *Specific) WriteFloat(schema *smithy.Schema, v float32) {
	s.reject(schema, smithy.ShapeTypeFloat)
}
func (s *Specific) WriteDouble(schema *smithy.Schema, v float64) {
	s.reject(schema, smithy.ShapeTypeDouble)
}
func (s *Specific) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	s.reject(schema, smithy.ShapeTypeBigInteger)
}
func (s *Specific) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	s.reject(schema, smithy.ShapeTypeBigDecimal)
}
func (s *Specific) WriteString(schema *smithy.Schema, v string) {
	s.reject(schema, smithy.ShapeTypeString)
}
func (s *Specific) WriteBlob(schema *smithy.Schema, v []byte) { s.reject(schema, smithy.ShapeTypeBlob) }
func (s *Specific) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	s.reject(schema, smithy.ShapeTypeTimestamp)
}
func (s *Specific) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	s.reject(schema, smithy.ShapeTypeStructure)
}
func (s *Specific) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	s.reject(schema, smithy.ShapeTypeList)
}
func (s *Specific) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	s.reject(schema, smithy.ShapeTypeMap)
}
func (s *Specific) WriteKey(schema *smithy.Schema, key string) {}
func (s *Specific) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	s.reject(schema, smithy.ShapeTypeDocument)
}
func (s *Specific) WriteNull(schema *smithy.Schema) {}
