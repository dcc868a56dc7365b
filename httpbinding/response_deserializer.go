package httpbinding

import (
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
)

// prefixHeaderMapDeserializer exposes every request or response header whose
// name starts with prefix (hop-by-hop headers excluded) as a string-keyed
// map, stripping the prefix from each key.
type prefixHeaderMapDeserializer struct {
	header http.Header
	prefix string
}

var _ smithy.ShapeDeserializer = (*prefixHeaderMapDeserializer)(nil)

func (d *prefixHeaderMapDeserializer) fault(msg string) error {
	return &smithy.ProtocolFaultError{Message: msg}
}
func (d *prefixHeaderMapDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, d.fault("not scalar") }
func (d *prefixHeaderMapDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, d.fault("not scalar") }
func (d *prefixHeaderMapDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, d.fault("not scalar") }
func (d *prefixHeaderMapDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, d.fault("not scalar") }
func (d *prefixHeaderMapDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadBigInteger(*smithy.Schema) (*big.Int, error) {
	return nil, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadBigDecimal(*smithy.Schema) (*big.Float, error) {
	return nil, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadString(*smithy.Schema) (string, error) {
	return "", d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadBlob(*smithy.Schema) ([]byte, error) { return nil, d.fault("not scalar") }
func (d *prefixHeaderMapDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, d.fault("not scalar")
}
func (d *prefixHeaderMapDeserializer) ReadStruct(*smithy.Schema, any, func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	return d.fault("not a structure")
}
func (d *prefixHeaderMapDeserializer) ReadList(*smithy.Schema, any, func(any, smithy.ShapeDeserializer) error) error {
	return d.fault("not a list")
}
func (d *prefixHeaderMapDeserializer) ReadStringMap(schema *smithy.Schema, state any, fn func(any, string, smithy.ShapeDeserializer) error) error {
	lowerPrefix := strings.ToLower(d.prefix)
	for name, vals := range d.header {
		lname := strings.ToLower(name)
		if !strings.HasPrefix(lname, lowerPrefix) || hopByHopHeaders[lname] {
			continue
		}
		key := name[len(d.prefix):]
		if err := fn(state, key, newScalarText(PREFIX_HEADERS, strings.Join(vals, ", "))); err != nil {
			return err
		}
	}
	return nil
}
func (d *prefixHeaderMapDeserializer) ReadDocument(*smithy.Schema) (smithy.Document2, error) {
	return nil, d.fault("not a document")
}
func (d *prefixHeaderMapDeserializer) ContainerSize() int { return -1 }
func (d *prefixHeaderMapDeserializer) IsNull() bool       { return false }
func (d *prefixHeaderMapDeserializer) Skip() error        { return nil }

// payloadDeserializer reads the raw request or response body as a single httpPayload
// member: a structure/union target delegates to the payload codec, a blob
// or string target reads the raw bytes directly.
type payloadDeserializer struct {
	body  []byte
	codec smithy.Codec
}

var _ smithy.ShapeDeserializer = (*payloadDeserializer)(nil)

func (d *payloadDeserializer) fault(msg string) error { return &smithy.ProtocolFaultError{Message: msg} }
func (d *payloadDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, d.fault("not scalar") }
func (d *payloadDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, d.fault("not scalar") }
func (d *payloadDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, d.fault("not scalar") }
func (d *payloadDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, d.fault("not scalar") }
func (d *payloadDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadBigInteger(*smithy.Schema) (*big.Int, error) {
	return nil, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadBigDecimal(*smithy.Schema) (*big.Float, error) {
	return nil, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadString(*smithy.Schema) (string, error) { return string(d.body), nil }
func (d *payloadDeserializer) ReadBlob(*smithy.Schema) ([]byte, error)   { return d.body, nil }
func (d *payloadDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, d.fault("not scalar")
}
func (d *payloadDeserializer) ReadStruct(schema *smithy.Schema, state any, fn func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	return d.codec.Deserializer(d.body).ReadStruct(schema, state, fn)
}
func (d *payloadDeserializer) ReadList(*smithy.Schema, any, func(any, smithy.ShapeDeserializer) error) error {
	return d.fault("not a list")
}
func (d *payloadDeserializer) ReadStringMap(*smithy.Schema, any, func(any, string, smithy.ShapeDeserializer) error) error {
	return d.fault("not a map")
}
func (d *payloadDeserializer) ReadDocument(schema *smithy.Schema) (smithy.Document2, error) {
	return d.codec.Deserializer(d.body).ReadDocument(schema)
}
func (d *payloadDeserializer) ContainerSize() int { return -1 }
func (d *payloadDeserializer) IsNull() bool       { return len(d.body) == 0 }
func (d *payloadDeserializer) Skip() error        { return nil }

// ResponseDeserializer implements smithy.ShapeDeserializer over an HTTP
// response, routing each member of the output structure to the header,
// prefix-headers, status, or payload/body sub-deserializer computed by the
// Matcher. Grounded on the request-side RequestSerializer's member routing,
// mirrored for the read direction.
type ResponseDeserializer struct {
	Codec smithy.Codec

	resp *smithyhttp.Response
	body []byte
}

var _ smithy.ShapeDeserializer = (*ResponseDeserializer)(nil)

// NewResponseDeserializer buffers resp's body (closing it) and returns a
// deserializer ready to read a single output structure from resp.
//
// maxInMemoryPayload bounds how many bytes are materialized from resp.Body;
// a non-positive value falls back to DefaultMaxInMemoryPayload. A body
// exceeding the cap faults with ProtocolFaultError rather than being read
// in full.
func NewResponseDeserializer(resp *smithyhttp.Response, codec smithy.Codec, maxInMemoryPayload int64) (*ResponseDeserializer, error) {
	capBytes := maxInMemoryPayload
	if capBytes <= 0 {
		capBytes = DefaultMaxInMemoryPayload
	}

	var body []byte
	if resp.Body != nil {
		b, err := io.ReadAll(io.LimitReader(resp.Body, capBytes+1))
		resp.Body.Close()
		if err != nil {
			return nil, &smithy.IoFaultError{Cause: err}
		}
		if int64(len(b)) > capBytes {
			return nil, &smithy.ProtocolFaultError{Message: "body exceeds cap"}
		}
		body = b
	}
	return &ResponseDeserializer{Codec: codec, resp: resp, body: body}, nil
}

func (d *ResponseDeserializer) fault(msg string) error { return &smithy.ProtocolFaultError{Message: msg} }

func (d *ResponseDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, d.fault("top-level response is a structure") }
func (d *ResponseDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, d.fault("not scalar") }
func (d *ResponseDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, d.fault("not scalar") }
func (d *ResponseDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, d.fault("not scalar")
}
func (d *ResponseDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, d.fault("not scalar") }
func (d *ResponseDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, d.fault("not scalar")
}
func (d *ResponseDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, d.fault("not scalar")
}
func (d *ResponseDeserializer) ReadBigInteger(*smithy.Schema) (*big.Int, error) {
	return nil, d.fault("not scalar")
}
func (d *ResponseDeserializer) ReadBigDecimal(*smithy.Schema) (*big.Float, error) {
	return nil, d.fault("not scalar")
}
func (d *ResponseDeserializer) ReadString(*smithy.Schema) (string, error) { return "", d.fault("not scalar") }
func (d *ResponseDeserializer) ReadBlob(*smithy.Schema) ([]byte, error)   { return nil, d.fault("not scalar") }
func (d *ResponseDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, d.fault("not scalar")
}

// ReadStruct routes schema's members to their computed Binding, invoking fn
// for each one present: headers, prefix-headers, and status code directly
// from the response, then any body-bound members by decoding the buffered
// body through the payload codec (or, for an httpPayload member, handing it
// the whole body raw).
func (d *ResponseDeserializer) ReadStruct(schema *smithy.Schema, state any, fn func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	matcher := MatcherFor(schema, Response)
	hasPayload := false
	hasBody := false

	for _, member := range schema.Members {
		switch matcher.BindingFor(member) {
		case HEADER:
			name := ""
			if h, ok := smithy.SchemaTrait[*traits.HTTPHeader](member); ok {
				name = h.Name
			}
			vals := d.resp.Header.Values(name)
			if len(vals) == 0 {
				continue
			}
			if err := fn(state, member, newScalarText(HEADER, strings.Join(vals, ", "))); err != nil {
				return err
			}
		case PREFIX_HEADERS:
			prefix := ""
			if h, ok := smithy.SchemaTrait[*traits.HTTPPrefixHeaders](member); ok {
				prefix = h.Prefix
			}
			if err := fn(state, member, &prefixHeaderMapDeserializer{header: d.resp.Header, prefix: prefix}); err != nil {
				return err
			}
		case STATUS:
			if err := fn(state, member, newScalarText(STATUS, strconv.Itoa(d.resp.StatusCode))); err != nil {
				return err
			}
		case PAYLOAD:
			hasPayload = true
			if err := fn(state, member, &payloadDeserializer{body: d.body, codec: d.Codec}); err != nil {
				return err
			}
		default:
			hasBody = true
		}
	}

	if hasPayload || !hasBody || len(d.body) == 0 {
		return nil
	}
	if ct := mediaType(d.resp.Header.Get("Content-Type")); ct != "" && ct != d.Codec.MediaType() {
		return d.fault("response Content-Type " + ct + " does not match payload codec " + d.Codec.MediaType())
	}
	return d.Codec.Deserializer(d.body).ReadStruct(schema, state, fn)
}

func (d *ResponseDeserializer) ReadList(*smithy.Schema, any, func(any, smithy.ShapeDeserializer) error) error {
	return d.fault("top-level response is a structure")
}
func (d *ResponseDeserializer) ReadStringMap(*smithy.Schema, any, func(any, string, smithy.ShapeDeserializer) error) error {
	return d.fault("top-level response is a structure")
}
func (d *ResponseDeserializer) ReadDocument(*smithy.Schema) (smithy.Document2, error) {
	return nil, d.fault("top-level response is a structure")
}
func (d *ResponseDeserializer) ContainerSize() int { return -1 }
func (d *ResponseDeserializer) IsNull() bool       { return false }
func (d *ResponseDeserializer) Skip() error        { return nil }
