package cbor

import (
	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/encoding/sink"
)

// Codec adapts the CBOR Serializer/Deserializer pair to smithy.Codec, so a
// protocol (such as httpbinding) can treat CBOR as an interchangeable
// payload codec for body and httpPayload members.
type Codec struct {
	// InitialCapacity sizes the in-memory sink each Serializer call starts
	// with. Zero uses a small default.
	InitialCapacity int
}

var _ smithy.Codec = Codec{}

// NewCodec returns the default CBOR codec.
func NewCodec() Codec { return Codec{} }

// MediaType is the IANA media type this codec serializes to and
// deserializes from.
func (Codec) MediaType() string { return "application/cbor" }

// Serializer returns a fresh Serializer over a new in-memory sink. Use the
// returned value's Bytes method (or the sink.Sink it wraps) to retrieve the
// encoded output once the caller's WriteStruct/WriteList/... call returns.
func (c Codec) Serializer() smithy.ShapeSerializer {
	capHint := c.InitialCapacity
	if capHint == 0 {
		capHint = 256
	}
	return NewSerializer(sink.NewResizing(capHint))
}

// Deserializer returns a Deserializer reading from buf.
func (Codec) Deserializer(buf []byte) smithy.ShapeDeserializer {
	return NewDeserializer(buf)
}
