package httpbinding

import (
	"io"
	"math/big"
	"strings"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
)

// RequestDeserializer implements smithy.ShapeDeserializer over an incoming
// HTTP request, routing each member of the operation input to the label,
// query, header, prefix-headers, or payload/body sub-deserializer computed
// by the Matcher. Server-side mirror of ResponseDeserializer.
//
// Label values are recovered by re-matching the request's URL path against
// the operation's smithy.api#http URI pattern, since this runtime has no
// separate router component that would otherwise hand them in already
// extracted.
type RequestDeserializer struct {
	Codec smithy.Codec

	req    *smithyhttp.Request
	body   []byte
	labels map[string]string
}

var _ smithy.ShapeDeserializer = (*RequestDeserializer)(nil)

// NewRequestDeserializer buffers req's body (closing it) and resolves path
// labels against pattern (the operation's smithy.api#http URI), returning
// an error if the request's path doesn't match the pattern's shape.
//
// maxInMemoryPayload bounds how many bytes are materialized from req.Body;
// a non-positive value falls back to DefaultMaxInMemoryPayload. A body
// exceeding the cap faults with ProtocolFaultError rather than being read
// in full.
func NewRequestDeserializer(req *smithyhttp.Request, pattern string, codec smithy.Codec, maxInMemoryPayload int64) (*RequestDeserializer, error) {
	capBytes := maxInMemoryPayload
	if capBytes <= 0 {
		capBytes = DefaultMaxInMemoryPayload
	}

	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(io.LimitReader(req.Body, capBytes+1))
		req.Body.Close()
		if err != nil {
			return nil, &smithy.IoFaultError{Cause: err}
		}
		if int64(len(b)) > capBytes {
			return nil, &smithy.ProtocolFaultError{Message: "body exceeds cap"}
		}
		body = b
	}
	labels, ok := matchURI(parseURIPattern(pattern), req.URL.Path)
	if !ok {
		return nil, &smithy.ProtocolFaultError{Message: "request path " + req.URL.Path + " does not match pattern " + pattern}
	}
	return &RequestDeserializer{Codec: codec, req: req, body: body, labels: labels}, nil
}

func (d *RequestDeserializer) fault(msg string) error { return &smithy.ProtocolFaultError{Message: msg} }

func (d *RequestDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, d.fault("not scalar") }
func (d *RequestDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, d.fault("not scalar") }
func (d *RequestDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, d.fault("not scalar") }
func (d *RequestDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, d.fault("not scalar")
}
func (d *RequestDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, d.fault("not scalar") }
func (d *RequestDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, d.fault("not scalar")
}
func (d *RequestDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, d.fault("not scalar")
}
func (d *RequestDeserializer) ReadBigInteger(*smithy.Schema) (*big.Int, error) {
	return nil, d.fault("not scalar")
}
func (d *RequestDeserializer) ReadBigDecimal(*smithy.Schema) (*big.Float, error) {
	return nil, d.fault("not scalar")
}
func (d *RequestDeserializer) ReadString(*smithy.Schema) (string, error) { return "", d.fault("not scalar") }
func (d *RequestDeserializer) ReadBlob(*smithy.Schema) ([]byte, error)   { return nil, d.fault("not scalar") }
func (d *RequestDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, d.fault("not scalar")
}

// ReadStruct routes schema's members to their computed Binding (Request
// direction), invoking fn for each one present, then decodes any body-bound
// members from the buffered request body through the payload codec.
func (d *RequestDeserializer) ReadStruct(schema *smithy.Schema, state any, fn func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	matcher := MatcherFor(schema, Request)
	hasPayload := false
	hasBody := false

	for _, member := range schema.Members {
		switch matcher.BindingFor(member) {
		case LABEL:
			val, ok := d.labels[member.MemberName()]
			if !ok {
				continue
			}
			if err := fn(state, member, newScalarText(LABEL, val)); err != nil {
				return err
			}
		case QUERY:
			name := ""
			if q, ok := smithy.SchemaTrait[*traits.HTTPQuery](member); ok {
				name = q.Name
			}
			vals := d.req.URL.Query()[name]
			if len(vals) == 0 {
				continue
			}
			if err := fn(state, member, newScalarText(QUERY, strings.Join(vals, ","))); err != nil {
				return err
			}
		case QUERY_PARAMS:
			if err := fn(state, member, &queryParamsMapDeserializer{values: d.req.URL.Query()}); err != nil {
				return err
			}
		case HEADER:
			name := ""
			if h, ok := smithy.SchemaTrait[*traits.HTTPHeader](member); ok {
				name = h.Name
			}
			vals := d.req.Header.Values(name)
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
			if err := fn(state, member, &prefixHeaderMapDeserializer{header: d.req.Header, prefix: prefix}); err != nil {
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
	if ct := mediaType(d.req.Header.Get("Content-Type")); ct != "" && ct != d.Codec.MediaType() {
		return d.fault("request Content-Type " + ct + " does not match payload codec " + d.Codec.MediaType())
	}
	return d.Codec.Deserializer(d.body).ReadStruct(schema, state, fn)
}

func (d *RequestDeserializer) ReadList(*smithy.Schema, any, func(any, smithy.ShapeDeserializer) error) error {
	return d.fault("top-level request is a structure")
}
func (d *RequestDeserializer) ReadStringMap(*smithy.Schema, any, func(any, string, smithy.ShapeDeserializer) error) error {
	return d.fault("top-level request is a structure")
}
func (d *RequestDeserializer) ReadDocument(*smithy.Schema) (smithy.Document2, error) {
	return nil, d.fault("top-level request is a structure")
}
func (d *RequestDeserializer) ContainerSize() int { return -1 }
func (d *RequestDeserializer) IsNull() bool       { return false }
func (d *RequestDeserializer) Skip() error        { return nil }

// queryParamsMapDeserializer exposes url.Values as a string- or
// string-list-valued map for an httpQueryParams member, skipping any key
// already consumed by an explicit httpQuery member is the caller's
// responsibility at the model level; this type surfaces every query key.
type queryParamsMapDeserializer struct {
	values map[string][]string
}

var _ smithy.ShapeDeserializer = (*queryParamsMapDeserializer)(nil)

func (d *queryParamsMapDeserializer) fault(msg string) error {
	return &smithy.ProtocolFaultError{Message: msg}
}
func (d *queryParamsMapDeserializer) ReadBoolean(*smithy.Schema) (bool, error) { return false, d.fault("not scalar") }
func (d *queryParamsMapDeserializer) ReadByte(*smithy.Schema) (int8, error)    { return 0, d.fault("not scalar") }
func (d *queryParamsMapDeserializer) ReadShort(*smithy.Schema) (int16, error)  { return 0, d.fault("not scalar") }
func (d *queryParamsMapDeserializer) ReadInteger(*smithy.Schema) (int32, error) {
	return 0, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadLong(*smithy.Schema) (int64, error) { return 0, d.fault("not scalar") }
func (d *queryParamsMapDeserializer) ReadFloat(*smithy.Schema) (float32, error) {
	return 0, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadDouble(*smithy.Schema) (float64, error) {
	return 0, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadBigInteger(*smithy.Schema) (*big.Int, error) {
	return nil, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadBigDecimal(*smithy.Schema) (*big.Float, error) {
	return nil, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadString(*smithy.Schema) (string, error) {
	return "", d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadBlob(*smithy.Schema) ([]byte, error) {
	return nil, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadTimestamp(*smithy.Schema) (time.Time, error) {
	return time.Time{}, d.fault("not scalar")
}
func (d *queryParamsMapDeserializer) ReadStruct(*smithy.Schema, any, func(any, *smithy.Schema, smithy.ShapeDeserializer) error) error {
	return d.fault("not a structure")
}
func (d *queryParamsMapDeserializer) ReadList(*smithy.Schema, any, func(any, smithy.ShapeDeserializer) error) error {
	return d.fault("not a list")
}
func (d *queryParamsMapDeserializer) ReadStringMap(schema *smithy.Schema, state any, fn func(any, string, smithy.ShapeDeserializer) error) error {
	for key, vals := range d.values {
		if err := fn(state, key, newScalarText(QUERY_PARAMS, strings.Join(vals, ","))); err != nil {
			return err
		}
	}
	return nil
}
func (d *queryParamsMapDeserializer) ReadDocument(*smithy.Schema) (smithy.Document2, error) {
	return nil, d.fault("not a document")
}
func (d *queryParamsMapDeserializer) ContainerSize() int { return -1 }
func (d *queryParamsMapDeserializer) IsNull() bool       { return false }
func (d *queryParamsMapDeserializer) Skip() error        { return nil }
