package httpbinding

import (
	"bytes"
	"io"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/encoding/cbor"
	"github.com/modulert/smithy-go/registry"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
)

// requiredNoteInput exercises a smithy.api#required member the caller's
// Serialize method may skip, for the Validate wiring in WriteStruct.
type requiredNoteInput struct {
	ID       string
	Note     string
	skipNote bool
}

var requiredNoteSchema = smithy.NewSchema(
	smithy.ShapeID{Namespace: "test", Name: "RequiredNoteInput"},
	smithy.ShapeTypeStructure,
	[]*smithy.Schema{
		smithy.NewMember("id", 0, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPLabel{}),
		smithy.NewMember("note", 1, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.Required{}),
	},
	&traits.HTTP{Method: "POST", URI: "/required/{id}"},
)

func (in requiredNoteInput) Serialize(s smithy.ShapeSerializer) {
	idM, _ := requiredNoteSchema.Member("id")
	s.WriteString(idM, in.ID)
	if !in.skipNote {
		noteM, _ := requiredNoteSchema.Member("note")
		s.WriteString(noteM, in.Note)
	}
}

func TestRequestSerializerFailsValidationOnMissingRequiredMember(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}

	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(requiredNoteSchema, requiredNoteInput{ID: "a", skipNote: true})

	require.Error(t, ser.Err)
	var failure *smithy.ValidationFailureError
	require.ErrorAs(t, ser.Err, &failure)
	require.Len(t, failure.Errors, 1)
	require.Equal(t, "/note", failure.Errors[0].Path)
}

func TestRequestSerializerPassesValidationWhenRequiredMemberWritten(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}

	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(requiredNoteSchema, requiredNoteInput{ID: "a", Note: "hi"})
	require.NoError(t, ser.Err)
}

func TestRequestSerializerHonorsPayloadMediaTypeOverride(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}

	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.PayloadMediaType = "application/vnd.example+cbor"
	ser.WriteStruct(getThingSchema, getThingInput{ID: "abc", Filter: "active", Trace: "t-1", Note: "hello"})
	require.NoError(t, ser.Err)
	require.Equal(t, "application/vnd.example+cbor", req.Header.Get("Content-Type"))
}

func TestRequestDeserializerFailsOnBodyExceedingCap(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{Path: "/things/abc"}
	req.Body = io.NopCloser(bytes.NewReader(make([]byte, 16)))

	_, err := NewRequestDeserializer(req, "/things/{id}", cbor.NewCodec(), 8)
	require.Error(t, err)
	var fault *smithy.ProtocolFaultError
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "body exceeds cap", fault.Message)
}

func TestRequestDeserializerHonorsRegistryConfiguredCap(t *testing.T) {
	cfg := registry.Config{MaxInMemoryPayload: 8}

	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{Path: "/things/abc"}
	req.Body = io.NopCloser(bytes.NewReader(make([]byte, 16)))

	_, err := NewRequestDeserializer(req, "/things/{id}", cbor.NewCodec(), cfg.MaxPayloadBytes(DefaultMaxInMemoryPayload))
	require.Error(t, err)
}

func TestRequestDeserializerAllowsBodyUnderDefaultCap(t *testing.T) {
	var cfg registry.Config // zero value: no override configured

	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{Path: "/things/abc"}
	req.Body = io.NopCloser(bytes.NewReader(make([]byte, 16)))

	_, err := NewRequestDeserializer(req, "/things/{id}", cbor.NewCodec(), cfg.MaxPayloadBytes(DefaultMaxInMemoryPayload))
	require.NoError(t, err)
}

func TestRequestDeserializerFailsOnContentTypeMismatch(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}
	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(getThingSchema, getThingInput{ID: "xyz", Filter: "recent", Trace: "t-2", Note: "world"})
	require.NoError(t, ser.Err)
	body, _ := io.ReadAll(req.GetStream())
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	httpTrait, _ := smithy.SchemaTrait[*traits.HTTP](getThingSchema)
	deser, err := NewRequestDeserializer(req, httpTrait.URI, cbor.NewCodec(), 0)
	require.NoError(t, err)

	err = deser.ReadStruct(getThingSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		_, err := sub.ReadString(member)
		return err
	})
	require.Error(t, err)
	var fault *smithy.ProtocolFaultError
	require.ErrorAs(t, err, &fault)
}

func TestRequestDeserializerAllowsMatchingContentType(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}
	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(getThingSchema, getThingInput{ID: "xyz", Filter: "recent", Trace: "t-2", Note: "world"})
	require.NoError(t, ser.Err)
	body, _ := io.ReadAll(req.GetStream())
	req.Body = io.NopCloser(bytes.NewReader(body))

	httpTrait, _ := smithy.SchemaTrait[*traits.HTTP](getThingSchema)
	deser, err := NewRequestDeserializer(req, httpTrait.URI, cbor.NewCodec(), 0)
	require.NoError(t, err)

	err = deser.ReadStruct(getThingSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		_, err := sub.ReadString(member)
		return err
	})
	require.NoError(t, err)
}
