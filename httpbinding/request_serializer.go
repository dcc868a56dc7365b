package httpbinding

import (
	"bytes"
	"net/http"
	"net/url"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/logging"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
	"github.com/modulert/smithy-go/visitor"
)

// memberRouter is the ShapeSerializer an operation input's Serialize method
// actually sees: every member write is redirected, via an embedded
// visitor.Intercepting, to the location-specific delegate (header, query,
// label, payload, ...) computed by the Matcher, in schema member order.
// Scalar values never need a persistent delegate, so one is constructed
// fresh per call; the accumulating delegates (query, labels, the
// payload/body collectors) are shared across the whole walk.
type memberRouter struct {
	visitor.Intercepting

	matcher *Matcher
	header  http.Header
	labels  map[string]string
	query   *orderedQuery
	body    *bodyCollector
	codec   smithy.Codec

	payloadBuf         []byte
	payloadContentType string
	sawPayload         bool

	statusCode *int

	err error
}

var _ smithy.ShapeSerializer = (*memberRouter)(nil)

// newMemberRouter returns a router with its Intercepting.Before wired to
// its own location dispatch.
func newMemberRouter(matcher *Matcher, header http.Header, codec smithy.Codec) *memberRouter {
	r := &memberRouter{
		matcher: matcher,
		header:  header,
		labels:  map[string]string{},
		query:   newOrderedQuery(),
		body:    &bodyCollector{},
		codec:   codec,
	}
	r.Intercepting = visitor.Intercepting{Before: r.delegate}
	return r
}

func (r *memberRouter) note(err error) {
	if r.err == nil {
		r.err = err
	}
}

// payloadDelegate returns the single ShapeSerializer used for whichever
// member carries httpPayload, capturing its bytes and content type onto the
// router itself.
func (r *memberRouter) payloadDelegate() *payloadWriter {
	r.sawPayload = true
	return newPayloadWriter(r.codec, func(b []byte) { r.payloadBuf = b }, &r.payloadContentType)
}

// delegate is the Before callback driving the embedded Intercepting: it
// picks the location-specific sub-visitor for schema's computed Binding.
func (r *memberRouter) delegate(schema *smithy.Schema) smithy.ShapeSerializer {
	switch r.matcher.BindingFor(schema) {
	case HEADER:
		name := ""
		if h, ok := smithy.SchemaTrait[*traits.HTTPHeader](schema); ok {
			name = h.Name
		}
		return newHeaderWriter(r.header, name)
	case PREFIX_HEADERS:
		prefix := ""
		if h, ok := smithy.SchemaTrait[*traits.HTTPPrefixHeaders](schema); ok {
			prefix = h.Prefix
		}
		return newPrefixHeaderWriter(r.header, prefix)
	case QUERY:
		name := ""
		if q, ok := smithy.SchemaTrait[*traits.HTTPQuery](schema); ok {
			name = q.Name
		}
		return newQueryWriter(r.query, name)
	case QUERY_PARAMS:
		return newQueryParamsWriter(r.query)
	case LABEL:
		return newLabelWriter(r.labels, schema.MemberName())
	case STATUS:
		if r.statusCode == nil {
			r.statusCode = new(int)
		}
		return newStatusWriter(func(v int) { *r.statusCode = v })
	case PAYLOAD:
		return r.payloadDelegate()
	default: // BODY
		return r.body
	}
}

// WriteKey and WriteDocument diverge from the generic per-member dispatch
// Intercepting otherwise provides: a top-level key never occurs here (the
// router only ever sees struct members, not map entries), and a
// document-shaped top-level value always belongs to the body regardless of
// the (nonexistent) member binding, so both bypass delegate() entirely.
func (r *memberRouter) WriteKey(schema *smithy.Schema, key string) {}
func (r *memberRouter) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	r.body.WriteDocument(schema, v)
}

// RequestSerializer implements smithy.ShapeSerializer for a single
// operation input, projecting its members onto an HTTP request per the
// operation's smithy.api#http trait and each member's computed Binding.
//
// A RequestSerializer is single-use: WriteStruct may be called exactly
// once, for the operation's top-level input structure. Grounded on the
// prior runtime's httpbinding/encode.go request-building shape, rebuilt
// against the visitor ShapeSerializer model and the eight-location
// binding table in matcher.go.
type RequestSerializer struct {
	visitor.Specific

	Codec smithy.Codec

	// PayloadMediaType, if set, overrides Codec.MediaType() as the
	// Content-Type advertised for a codec-serialized (BODY-member) request
	// body. Threads registry.Config's payload_media_type setting.
	PayloadMediaType string

	// ValidationCap bounds how many required-member violations Validate
	// accumulates before WriteStruct aborts early with a
	// DepthExceededError. 0 means visitor.DefaultValidationCap.
	ValidationCap int

	// Logger receives a Debug entry once the request is built, and a Warn
	// entry if WriteStruct faults. Defaults to logging.Noop.
	Logger logging.Logger

	req  *smithyhttp.Request
	done bool
}

var _ smithy.ShapeSerializer = (*RequestSerializer)(nil)

// NewRequestSerializer returns a serializer that builds onto req (typically
// from smithyhttp.NewStackRequest), using codec to encode BODY members and
// any httpPayload structure/union member.
func NewRequestSerializer(req *smithyhttp.Request, codec smithy.Codec) *RequestSerializer {
	s := &RequestSerializer{Codec: codec, Logger: logging.Noop{}, req: req}
	s.Kind = smithy.ShapeTypeStructure
	return s
}

// WriteStruct resolves the operation's http trait, routes each member of
// schema to its computed Binding, and assembles the finished request.
func (s *RequestSerializer) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Noop{}
	}

	if s.done {
		s.Err = &smithy.ProtocolFaultError{Message: "RequestSerializer.WriteStruct called more than once"}
		logger.Logf(logging.Warn, "RequestSerializer.WriteStruct called more than once for %s", schema.ID)
		return
	}
	s.done = true

	if verr := visitor.Validate(schema, v, s.ValidationCap); verr != nil {
		s.Err = verr
		logger.Logf(logging.Warn, "httpbinding: %s failed validation: %v", schema.ID, verr)
		return
	}

	method, pattern := "POST", "/"
	if h, ok := smithy.SchemaTrait[*traits.HTTP](schema); ok {
		method, pattern = h.Method, h.URI
	}
	s.req.Method = method

	router := newMemberRouter(MatcherFor(schema, Request), s.req.Header, s.Codec)
	v.Serialize(router)
	if router.err != nil {
		s.Err = router.err
		logger.Logf(logging.Warn, "httpbinding: %s member routing failed: %v", schema.ID, router.err)
		return
	}

	segs := parseURIPattern(pattern)
	path := buildURI(segs, router.labels)
	s.req.URL = &url.URL{Path: path, RawQuery: router.query.Encode()}

	var body []byte
	switch {
	case router.sawPayload:
		body = router.payloadBuf
		if s.req.Header.Get("Content-Type") == "" && router.payloadContentType != "" {
			s.req.Header.Set("Content-Type", router.payloadContentType)
		}
	case len(router.body.recorded) > 0:
		bodySer := s.Codec.Serializer()
		bodySer.WriteStruct(schema, replaySerializable{router.body.recorded})
		body = bytesOf(bodySer)
		if s.req.Header.Get("Content-Type") == "" {
			ct := s.PayloadMediaType
			if ct == "" {
				ct = s.Codec.MediaType()
			}
			s.req.Header.Set("Content-Type", ct)
		}
	}

	if body != nil {
		rc, err := s.req.SetStream(bytes.NewReader(body))
		if err != nil {
			s.Err = err
			logger.Logf(logging.Warn, "httpbinding: %s failed to set request stream: %v", schema.ID, err)
			return
		}
		*s.req = *rc
	}

	logger.Logf(logging.Debug, "httpbinding: built %s %s for %s: %s", method, path, schema.ID, renderDebug(logger, schema, v))
}

// renderDebug stringifies v through visitor.Render for a Debug log line,
// skipped against a Noop logger so a silent caller never pays for the walk.
func renderDebug(logger logging.Logger, schema *smithy.Schema, v smithy.Serializable) string {
	if _, ok := logger.(logging.Noop); ok || v == nil {
		return ""
	}
	r := visitor.NewRender()
	r.WriteStruct(schema, v)
	return r.String()
}
