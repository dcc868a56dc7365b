package httpbinding

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/smithytime"
	"github.com/modulert/smithy-go/traits"
)

// scalarTextDeserializer implements smithy.ShapeDeserializer over a single
// wire-format string value, as produced by a header, query, label, or
// status-code binding. It never holds an aggregate.
type scalarTextDeserializer struct {
	text string
	b    Binding
}

var _ smithy.ShapeDeserializer = (*scalarTextDeserializer)(nil)

func newScalarText(b Binding, text string) *scalarTextDeserializer {
	return &scalarTextDeserializer{b: b, text: text}
}

func (d *scalarTextDeserializer) fault(msg string) error {
	return &smithy.ProtocolFaultError{Message: msg}
}

func (d *scalarTextDeserializer) ReadBoolean(schema *smithy.Schema) (bool, error) {
	return strconv.ParseBool(d.text)
}
func (d *scalarTextDeserializer) ReadByte(schema *smithy.Schema) (int8, error) {
	v, err := strconv.ParseInt(d.text, 10, 8)
	return int8(v), err
}
func (d *scalarTextDeserializer) ReadShort(schema *smithy.Schema) (int16, error) {
	v, err := strconv.ParseInt(d.text, 10, 16)
	return int16(v), err
}
func (d *scalarTextDeserializer) ReadInteger(schema *smithy.Schema) (int32, error) {
	v, err := strconv.ParseInt(d.text, 10, 32)
	return int32(v), err
}
func (d *scalarTextDeserializer) ReadLong(schema *smithy.Schema) (int64, error) {
	return strconv.ParseInt(d.text, 10, 64)
}
func (d *scalarTextDeserializer) ReadFloat(schema *smithy.Schema) (float32, error) {
	v, err := strconv.ParseFloat(d.text, 32)
	return float32(v), err
}
func (d *scalarTextDeserializer) ReadDouble(schema *smithy.Schema) (float64, error) {
	return strconv.ParseFloat(d.text, 64)
}
func (d *scalarTextDeserializer) ReadBigInteger(schema *smithy.Schema) (*big.Int, error) {
	v, ok := new(big.Int).SetString(d.text, 10)
	if !ok {
		return nil, d.fault("malformed big integer: " + d.text)
	}
	return v, nil
}
func (d *scalarTextDeserializer) ReadBigDecimal(schema *smithy.Schema) (*big.Float, error) {
	v, _, err := big.ParseFloat(d.text, 10, 200, big.ToNearestEven)
	return v, err
}
func (d *scalarTextDeserializer) ReadString(schema *smithy.Schema) (string, error) {
	return mediaTypeDecodeIfNeeded(schema, d.b, d.text)
}
func (d *scalarTextDeserializer) ReadBlob(schema *smithy.Schema) ([]byte, error) {
	return base64Decode(d.text)
}
func (d *scalarTextDeserializer) ReadTimestamp(schema *smithy.Schema) (time.Time, error) {
	return smithytime.ParseFor(d.text, timestampFormatFor(schema, d.b), timestampFormatFor(schema, d.b))
}
func (d *scalarTextDeserializer) ReadStruct(schema *smithy.Schema, state any, fn func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	return d.fault("cannot read a structure from a scalar HTTP binding")
}

// ReadList splits a comma-joined header/query value into elements, per the
// HTTP binding list convention (each element re-parsed by fn against its
// own scalarTextDeserializer).
func (d *scalarTextDeserializer) ReadList(schema *smithy.Schema, state any, fn func(any, smithy.ShapeDeserializer) error) error {
	if d.text == "" {
		return nil
	}
	for _, part := range strings.Split(d.text, ",") {
		if err := fn(state, newScalarText(d.b, strings.TrimSpace(part))); err != nil {
			return err
		}
	}
	return nil
}
func (d *scalarTextDeserializer) ReadStringMap(schema *smithy.Schema, state any, fn func(any, string, smithy.ShapeDeserializer) error) error {
	return d.fault("cannot read a map from a scalar HTTP binding")
}
func (d *scalarTextDeserializer) ReadDocument(schema *smithy.Schema) (smithy.Document2, error) {
	return nil, d.fault("cannot read a document from a scalar HTTP binding")
}
func (d *scalarTextDeserializer) ContainerSize() int { return -1 }
func (d *scalarTextDeserializer) IsNull() bool       { return d.text == "" }
func (d *scalarTextDeserializer) Skip() error         { return nil }

// mediaTypeDecodeIfNeeded reverses mediaTypeEncodeIfNeeded: a header-bound
// string carrying a mediaType trait arrives base64-encoded.
func mediaTypeDecodeIfNeeded(schema *smithy.Schema, b Binding, v string) (string, error) {
	if b != HEADER {
		return v, nil
	}
	if _, ok := smithy.SchemaTrait[*traits.MediaType](schema); !ok {
		return v, nil
	}
	raw, err := base64Decode(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
