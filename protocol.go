package smithy

import (
	"context"
	"math/big"
	"time"
)

// ClientProtocol defines the interface through which client-side operation
// request/responses are (de)serialized across the wire.
//
// TRequest and TResponse represent the input and output transport types for
// the protocol. In most cases this corresponds to *smithyhttp.Request and
// *smithyhttp.Response.
type ClientProtocol[TRequest, TResponse any] interface {
	ID() string
	SerializeRequest(context.Context, Serializable, TRequest) error
	DeserializeResponse(ctx context.Context, types *TypeRegistry, resp TResponse, out Deserializable) error
}

// Codec provides implementations of ShapeSerializer and ShapeDeserializer
// for a concrete wire format, to be used by a Protocol.
type Codec interface {
	// MediaType is the codec's advertised media/content type (e.g.
	// "application/cbor").
	MediaType() string
	Serializer() ShapeSerializer
	Deserializer([]byte) ShapeDeserializer
}

// ListEncodeState is opaque state threaded through a WriteList call into its
// element consumer, letting the consumer avoid capturing its environment in
// a closure.
type ListEncodeState any

// MapEncodeState is opaque state threaded through a WriteMap call into its
// entry consumer.
type MapEncodeState any

// ShapeSerializer implements the marshaling of an in-code representation of
// a shape to an unspecified data format, determined by the implementation.
//
// Implementations must not retain an aggregate consumer (the fn passed to
// WriteList/WriteMap) beyond the call that receives it; they must invoke it
// exactly once, and must emit any wire framing for the aggregate before and
// after that single invocation.
type ShapeSerializer interface {
	WriteBoolean(schema *Schema, v bool)
	WriteByte(schema *Schema, v int8)
	WriteShort(schema *Schema, v int16)
	WriteInteger(schema *Schema, v int32)
	WriteLong(schema *Schema, v int64)
	WriteFloat(schema *Schema, v float32)
	WriteDouble(schema *Schema, v float64)
	WriteBigInteger(schema *Schema, v *big.Int)
	WriteBigDecimal(schema *Schema, v *big.Float)
	WriteString(schema *Schema, v string)
	WriteBlob(schema *Schema, v []byte)
	WriteTimestamp(schema *Schema, v time.Time)

	// WriteStruct delegates to v.Serialize so the struct can emit one
	// "before" call per populated member, in schema member order, followed
	// by at most one value call per member.
	WriteStruct(schema *Schema, v Serializable)

	// WriteList writes an aggregate of size elements (or -1 for an
	// indefinite-length encoding, CBOR only), calling fn exactly once with
	// the opaque state and a per-element callback.
	WriteList(schema *Schema, state ListEncodeState, size int, fn func(state ListEncodeState, ser ShapeSerializer))

	// WriteMap writes a string-keyed aggregate of size entries (or -1),
	// calling fn exactly once with the opaque state and a per-entry
	// callback. The callback is responsible for calling WriteKey before
	// writing the corresponding value.
	WriteMap(schema *Schema, state MapEncodeState, size int, fn func(state MapEncodeState, ser ShapeSerializer))
	WriteKey(schema *Schema, key string)

	WriteDocument(schema *Schema, v Document2)
	WriteNull(schema *Schema)
}

// ShapeDeserializer implements the unmarshaling from some unspecified data
// format to an encoded shape.
type ShapeDeserializer interface {
	ReadBoolean(schema *Schema) (bool, error)
	ReadByte(schema *Schema) (int8, error)
	ReadShort(schema *Schema) (int16, error)
	ReadInteger(schema *Schema) (int32, error)
	ReadLong(schema *Schema) (int64, error)
	ReadFloat(schema *Schema) (float32, error)
	ReadDouble(schema *Schema) (float64, error)
	ReadBigInteger(schema *Schema) (*big.Int, error)
	ReadBigDecimal(schema *Schema) (*big.Float, error)
	ReadString(schema *Schema) (string, error)
	ReadBlob(schema *Schema) ([]byte, error)
	ReadTimestamp(schema *Schema) (time.Time, error)

	// ReadStruct invokes fn once per present member, in wire order, with
	// the opaque state, the member's schema, and a sub-deserializer
	// positioned at that member's value. Unrecognized member names invoke
	// fn with a nil schema; callers should treat this as "unknownMember"
	// and call Skip on the sub-deserializer.
	ReadStruct(schema *Schema, state any, fn func(state any, member *Schema, d ShapeDeserializer) error) error

	// ReadList invokes fn once per element, in wire order, with the opaque
	// state and a sub-deserializer positioned at that element.
	ReadList(schema *Schema, state any, fn func(state any, d ShapeDeserializer) error) error

	// ReadStringMap invokes fn once per entry, in wire order, with the
	// opaque state, the entry key, and a sub-deserializer positioned at
	// that entry's value.
	ReadStringMap(schema *Schema, state any, fn func(state any, key string, d ShapeDeserializer) error) error

	ReadDocument(schema *Schema) (Document2, error)

	// ContainerSize returns the known element/member count of the
	// aggregate at the current position, or -1 if it is not known ahead of
	// iteration (e.g. a CBOR indefinite-length container).
	ContainerSize() int

	// IsNull reports whether the value at the current position is null,
	// without consuming it. Used for sparse collections.
	IsNull() bool

	// Skip discards the value at the current position without invoking any
	// Read method, advancing past it.
	Skip() error
}

// Document2 is the type a ShapeSerializer/ShapeDeserializer uses to carry a
// Smithy "document" shape value. See package document for the concrete
// implementation.
type Document2 interface {
	Type() ShapeType
}

// Serializable is an entity that can describe itself to a ShapeSerializer to
// be encoded to some format.
type Serializable interface {
	Serialize(ShapeSerializer)
}

// Deserializable is an entity that can unmarshal itself from a
// ShapeDeserializer.
type Deserializable interface {
	Deserialize(ShapeDeserializer) error
}

// DeserializableError is implemented by modeled error types for a service.
type DeserializableError interface {
	Deserializable
	error
}
