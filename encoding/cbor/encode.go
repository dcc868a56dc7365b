package cbor

import (
	"encoding/binary"
	"math"
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/document"
	"github.com/modulert/smithy-go/encoding/sink"
	"github.com/modulert/smithy-go/smithytime"
)

// frame tracks the kind of aggregate currently open, so scalar/aggregate
// writes know whether to inject a struct member-name key ahead of
// themselves. List and (explicit, non-struct) map frames do not trigger key
// injection: list elements are positional, and map entries get their key
// from an explicit WriteKey call.
type frame int

const (
	frameTop frame = iota
	frameStruct
	frameList
	frameMap
)

// Serializer implements smithy.ShapeSerializer, emitting CBOR directly to a
// sink.Sink as each visitor method is called.
type Serializer struct {
	sink  sink.Sink
	stack []frame
}

var _ smithy.ShapeSerializer = (*Serializer)(nil)

// NewSerializer returns a CBOR serializer writing to s.
func NewSerializer(s sink.Sink) *Serializer {
	return &Serializer{sink: s}
}

// Bytes returns the bytes accumulated so far, for callers using an
// in-memory sink (sink.Resizing). A streaming or discarding sink returns
// nil, matching sink.Sink.Bytes.
func (s *Serializer) Bytes() []byte { return s.sink.Bytes() }

func (s *Serializer) top() frame {
	if len(s.stack) == 0 {
		return frameTop
	}
	return s.stack[len(s.stack)-1]
}

func (s *Serializer) push(f frame) { s.stack = append(s.stack, f) }
func (s *Serializer) pop()         { s.stack = s.stack[:len(s.stack)-1] }

// beforeValue injects the member-name key for the current struct frame.
// Every Write* method calls this first; it is a no-op outside struct
// bodies.
func (s *Serializer) beforeValue(schema *smithy.Schema) {
	if s.top() == frameStruct {
		s.writeTextStringValue(schema.MemberName())
	}
}

func (s *Serializer) writeByte(b byte) {
	s.sink.Write([]byte{b})
}

// writeHead writes a major-type/argument header using the smallest length
// class that fits arg.
func (s *Serializer) writeHead(major majorType, arg uint64) {
	switch {
	case arg < 24:
		s.writeByte(byte(major)<<5 | byte(arg))
	case arg < 0x100:
		s.writeByte(compose(major, minorArg1))
		s.writeByte(byte(arg))
	case arg < 0x10000:
		s.writeByte(compose(major, minorArg2))
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(arg))
		s.sink.Write(b[:])
	case arg < 0x100000000:
		s.writeByte(compose(major, minorArg4))
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(arg))
		s.sink.Write(b[:])
	default:
		s.writeByte(compose(major, minorArg8))
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], arg)
		s.sink.Write(b[:])
	}
}

func (s *Serializer) writeIndefiniteHead(major majorType) {
	s.writeByte(compose(major, minorIndefinite))
}

func (s *Serializer) writeTextStringValue(v string) {
	s.writeHead(majorString, uint64(len(v)))
	s.sink.Write([]byte(v))
}

func (s *Serializer) writeByteStringValue(v []byte) {
	s.writeHead(majorSlice, uint64(len(v)))
	s.sink.Write(v)
}

func (s *Serializer) writeTag(id uint64) {
	s.writeHead(majorTag, id)
}

func (s *Serializer) writeFloat64Value(v float64) {
	s.writeByte(compose(major7, simpleFloat64))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	s.sink.Write(b[:])
}

func (s *Serializer) writeFloat32Value(v float32) {
	s.writeByte(compose(major7, simpleFloat32))
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	s.sink.Write(b[:])
}

func (s *Serializer) writeIntValue(v int64) {
	if v >= 0 {
		s.writeHead(majorUint, uint64(v))
	} else {
		s.writeHead(majorNegInt, uint64(-v-1))
	}
}

// WriteBoolean writes a boolean scalar.
func (s *Serializer) WriteBoolean(schema *smithy.Schema, v bool) {
	s.beforeValue(schema)
	if v {
		s.writeByte(compose(major7, simpleTrue))
	} else {
		s.writeByte(compose(major7, simpleFalse))
	}
}

// WriteByte writes an int8 scalar.
func (s *Serializer) WriteByte(schema *smithy.Schema, v int8) {
	s.beforeValue(schema)
	s.writeIntValue(int64(v))
}

// WriteShort writes an int16 scalar.
func (s *Serializer) WriteShort(schema *smithy.Schema, v int16) {
	s.beforeValue(schema)
	s.writeIntValue(int64(v))
}

// WriteInteger writes an int32 scalar.
func (s *Serializer) WriteInteger(schema *smithy.Schema, v int32) {
	s.beforeValue(schema)
	s.writeIntValue(int64(v))
}

// WriteLong writes an int64 scalar.
func (s *Serializer) WriteLong(schema *smithy.Schema, v int64) {
	s.beforeValue(schema)
	s.writeIntValue(v)
}

// WriteFloat writes a float32 scalar.
func (s *Serializer) WriteFloat(schema *smithy.Schema, v float32) {
	s.beforeValue(schema)
	s.writeFloat32Value(v)
}

// WriteDouble writes a float64 scalar.
func (s *Serializer) WriteDouble(schema *smithy.Schema, v float64) {
	s.beforeValue(schema)
	s.writeFloat64Value(v)
}

// WriteBigInteger writes an arbitrary-precision integer, choosing between a
// plain int (major type 0/1), an 8-byte int, or a tagged bignum byte
// string, per the bit-length thresholds in the wire format spec.
func (s *Serializer) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	s.beforeValue(schema)
	s.writeBigIntegerValue(v)
}

func (s *Serializer) writeBigIntegerValue(v *big.Int) {
	bitLen := v.BitLen()
	if bitLen <= 64 {
		if v.Sign() < 0 {
			n := new(big.Int).Add(new(big.Int).Neg(v), big.NewInt(-1))
			s.writeHead(majorNegInt, n.Uint64())
		} else {
			s.writeHead(majorUint, v.Uint64())
		}
		return
	}

	if v.Sign() < 0 {
		// wire value n = |v| - 1, per the two's-complement-shift
		// convention (value = -1 - n).
		n := new(big.Int).Sub(new(big.Int).Neg(v), big.NewInt(1))
		s.writeTag(tagNegBignum)
		s.writeByteStringValue(n.Bytes())
	} else {
		s.writeTag(tagPosBignum)
		s.writeByteStringValue(v.Bytes())
	}
}

// WriteBigDecimal writes an arbitrary-precision decimal as a tag-4
// [exponent, mantissa] pair, where exponent = -scale.
func (s *Serializer) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	s.beforeValue(schema)
	s.writeBigDecimalValue(v)
}

func (s *Serializer) writeBigDecimalValue(v *big.Float) {
	mantissa, exp := bigFloatToDecimal(v)
	s.writeTag(tagBigDecimal)
	s.writeHead(majorList, 2)
	s.writeIntValue(int64(exp))
	s.writeBigIntegerValue(mantissa)
}

// WriteString writes a text-string scalar.
func (s *Serializer) WriteString(schema *smithy.Schema, v string) {
	s.beforeValue(schema)
	s.writeTextStringValue(v)
}

// WriteBlob writes a byte-string scalar.
func (s *Serializer) WriteBlob(schema *smithy.Schema, v []byte) {
	s.beforeValue(schema)
	s.writeByteStringValue(v)
}

// WriteTimestamp writes a tag-1 epoch-seconds double.
func (s *Serializer) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	s.beforeValue(schema)
	s.writeTag(tagEpochTime)
	s.writeFloat64Value(smithytime.EpochSecondsValue(v))
}

// WriteStruct emits an indefinite-length map (0xBF ... 0xFF), deferring to
// v.Serialize to emit one member-name key + value pair per populated
// member, in schema member order.
func (s *Serializer) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	s.beforeValue(schema)
	s.writeIndefiniteHead(majorMap)
	s.push(frameStruct)
	if v != nil {
		v.Serialize(s)
	}
	s.pop()
	s.writeByte(breakByte)
}

// WriteList writes size elements (or an indefinite-length array if size is
// -1), invoking fn exactly once with the opaque state.
func (s *Serializer) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	s.beforeValue(schema)
	if size < 0 {
		s.writeIndefiniteHead(majorList)
		s.push(frameList)
		fn(state, s)
		s.pop()
		s.writeByte(breakByte)
		return
	}
	s.writeHead(majorList, uint64(size))
	s.push(frameList)
	fn(state, s)
	s.pop()
}

// WriteMap writes size string-keyed entries (or indefinite if size is -1).
// The callback must call WriteKey immediately before writing each entry's
// value.
func (s *Serializer) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	s.beforeValue(schema)
	if size < 0 {
		s.writeIndefiniteHead(majorMap)
		s.push(frameMap)
		fn(state, s)
		s.pop()
		s.writeByte(breakByte)
		return
	}
	s.writeHead(majorMap, uint64(size))
	s.push(frameMap)
	fn(state, s)
	s.pop()
}

// WriteKey writes a map entry's text-string key. Must be called
// immediately before the corresponding value write, inside a WriteMap
// callback.
func (s *Serializer) WriteKey(schema *smithy.Schema, key string) {
	s.writeTextStringValue(key)
}

// WriteDocument writes an arbitrary document.Value, recursively, embedding
// a "__type" discriminator as the first map entry for structure-kind
// documents.
func (s *Serializer) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	s.beforeValue(schema)
	s.writeDocumentValue(v)
}

func (s *Serializer) writeDocumentValue(v smithy.Document2) {
	if v == nil {
		s.writeByte(compose(major7, simpleNull))
		return
	}
	dv, ok := v.(document.Value)
	if !ok {
		s.writeByte(compose(major7, simpleNull))
		return
	}

	switch dv.Type() {
	case smithy.ShapeTypeBoolean:
		b, _ := dv.Bool()
		if b {
			s.writeByte(compose(major7, simpleTrue))
		} else {
			s.writeByte(compose(major7, simpleFalse))
		}
	case smithy.ShapeTypeByte, smithy.ShapeTypeShort, smithy.ShapeTypeInteger, smithy.ShapeTypeLong:
		n, _ := dv.Long()
		s.writeIntValue(n)
	case smithy.ShapeTypeFloat:
		f, _ := dv.Double()
		s.writeFloat32Value(float32(f))
	case smithy.ShapeTypeDouble:
		f, _ := dv.Double()
		s.writeFloat64Value(f)
	case smithy.ShapeTypeBigInteger:
		bi, _ := dv.BigInteger()
		s.writeBigIntegerValue(bi)
	case smithy.ShapeTypeBigDecimal:
		bd, _ := dv.BigDecimal()
		s.writeBigDecimalValue(bd)
	case smithy.ShapeTypeString:
		str, _ := dv.String()
		s.writeTextStringValue(str)
	case smithy.ShapeTypeBlob:
		b, _ := dv.Blob()
		s.writeByteStringValue(b)
	case smithy.ShapeTypeTimestamp:
		ts, _ := dv.Timestamp()
		s.writeTag(tagEpochTime)
		s.writeFloat64Value(smithytime.EpochSecondsValue(ts))
	case smithy.ShapeTypeList:
		items, _ := dv.List()
		s.writeHead(majorList, uint64(len(items)))
		for _, item := range items {
			s.writeDocumentValue(item)
		}
	case smithy.ShapeTypeMap:
		fields, _ := dv.Fields()
		s.writeHead(majorMap, uint64(len(fields)))
		for _, f := range fields {
			s.writeTextStringValue(f.Name)
			s.writeDocumentValue(f.Value)
		}
	case smithy.ShapeTypeStructure:
		fields, _ := dv.Fields()
		typeID, _ := dv.Discriminator()
		s.writeIndefiniteHead(majorMap)
		s.writeTextStringValue("__type")
		s.writeTextStringValue(typeID)
		for _, f := range fields {
			s.writeTextStringValue(f.Name)
			s.writeDocumentValue(f.Value)
		}
		s.writeByte(breakByte)
	default:
		s.writeByte(compose(major7, simpleNull))
	}
}

// WriteNull writes the CBOR null literal.
func (s *Serializer) WriteNull(schema *smithy.Schema) {
	s.beforeValue(schema)
	s.writeByte(compose(major7, simpleNull))
}
