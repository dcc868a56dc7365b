package httpbinding

import (
	"bytes"
	"io"
	"net/http"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/logging"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
	"github.com/modulert/smithy-go/visitor"
)

// ResponseSerializer implements smithy.ShapeSerializer for a single
// operation output (or modeled error), projecting its members onto an HTTP
// response per each member's computed Binding. The status code is any
// httpResponseCode member actually written, else the schema's non-zero
// smithy.api#http code, else an error shape's smithy.api#httpError code or
// smithy.api#error-derived default, else DefaultCode, else 200.
//
// Server-side mirror of RequestSerializer; single-use like its counterpart.
type ResponseSerializer struct {
	visitor.Specific

	Codec       smithy.Codec
	DefaultCode int

	// PayloadMediaType, if set, overrides Codec.MediaType() as the
	// Content-Type advertised for a codec-serialized (BODY-member) response
	// body. Threads registry.Config's payload_media_type setting.
	PayloadMediaType string

	// ValidationCap bounds how many required-member violations Validate
	// accumulates before WriteStruct aborts early with a
	// DepthExceededError. 0 means visitor.DefaultValidationCap.
	ValidationCap int

	// Logger receives a Debug entry once the response is built, and a Warn
	// entry if WriteStruct faults. Defaults to logging.Noop.
	Logger logging.Logger

	resp *smithyhttp.Response
	done bool
}

var _ smithy.ShapeSerializer = (*ResponseSerializer)(nil)

// NewResponseSerializer returns a serializer that builds onto resp
// (Header/StatusCode/Body all populated by WriteStruct), defaulting the
// status to defaultCode when neither an httpResponseCode member nor the
// schema's http/httpError/error traits supply one.
func NewResponseSerializer(resp *smithyhttp.Response, codec smithy.Codec, defaultCode int) *ResponseSerializer {
	if resp.Response == nil {
		resp.Response = &http.Response{Header: http.Header{}}
	}
	s := &ResponseSerializer{Codec: codec, DefaultCode: defaultCode, Logger: logging.Noop{}, resp: resp}
	s.Kind = smithy.ShapeTypeStructure
	return s
}

// WriteStruct routes each member of schema to its computed Binding and
// assembles the finished response.
func (s *ResponseSerializer) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Noop{}
	}

	if s.done {
		s.Err = &smithy.ProtocolFaultError{Message: "ResponseSerializer.WriteStruct called more than once"}
		logger.Logf(logging.Warn, "ResponseSerializer.WriteStruct called more than once for %s", schema.ID)
		return
	}
	s.done = true

	if verr := visitor.Validate(schema, v, s.ValidationCap); verr != nil {
		s.Err = verr
		logger.Logf(logging.Warn, "httpbinding: %s failed validation: %v", schema.ID, verr)
		return
	}

	if s.resp.Header == nil {
		s.resp.Header = http.Header{}
	}

	router := newMemberRouter(MatcherFor(schema, Response), s.resp.Header, s.Codec)
	v.Serialize(router)
	if router.err != nil {
		s.Err = router.err
		logger.Logf(logging.Warn, "httpbinding: %s member routing failed: %v", schema.ID, router.err)
		return
	}

	code := s.DefaultCode
	if httpTrait, ok := smithy.SchemaTrait[*traits.HTTP](schema); ok && httpTrait.Code != 0 {
		code = httpTrait.Code
	} else if he, ok := smithy.SchemaTrait[*traits.HTTPError](schema); ok {
		code = he.Code
	} else if e, ok := smithy.SchemaTrait[*traits.Error](schema); ok {
		code = e.DefaultCode()
	}
	if router.statusCode != nil {
		code = *router.statusCode
	}
	if code == 0 {
		code = http.StatusOK
	}
	s.resp.StatusCode = code

	var body []byte
	switch {
	case router.sawPayload:
		body = router.payloadBuf
		if s.resp.Header.Get("Content-Type") == "" && router.payloadContentType != "" {
			s.resp.Header.Set("Content-Type", router.payloadContentType)
		}
	case len(router.body.recorded) > 0:
		bodySer := s.Codec.Serializer()
		bodySer.WriteStruct(schema, replaySerializable{router.body.recorded})
		body = bytesOf(bodySer)
		if s.resp.Header.Get("Content-Type") == "" {
			ct := s.PayloadMediaType
			if ct == "" {
				ct = s.Codec.MediaType()
			}
			s.resp.Header.Set("Content-Type", ct)
		}
	}
	if body != nil {
		s.resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	logger.Logf(logging.Debug, "httpbinding: built response %d for %s: %s", code, schema.ID, renderDebug(logger, schema, v))
}

// DefaultCodeFor resolves the default status code for an operation output
// (from its http trait) or a modeled error (from httpError, else the error
// trait's client/server fault default).
func DefaultCodeFor(schema *smithy.Schema) int {
	if h, ok := smithy.SchemaTrait[*traits.HTTP](schema); ok && h.Code != 0 {
		return h.Code
	}
	if he, ok := smithy.SchemaTrait[*traits.HTTPError](schema); ok {
		return he.Code
	}
	if e, ok := smithy.SchemaTrait[*traits.Error](schema); ok {
		return e.DefaultCode()
	}
	return http.StatusOK
}
