package httpbinding

import (
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/encoding/cbor"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
)

// innerPayload is a small structure used as an httpPayload member's value.
type innerPayload struct{ V int32 }

var innerPayloadSchema = smithy.NewSchema(
	smithy.ShapeID{Namespace: "test", Name: "Inner"},
	smithy.ShapeTypeStructure,
	[]*smithy.Schema{
		smithy.NewMember("v", 0, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "Integer"}, smithy.ShapeTypeInteger, nil)),
	},
)

func (p innerPayload) Serialize(s smithy.ShapeSerializer) {
	vM, _ := innerPayloadSchema.Member("v")
	s.WriteInteger(vM, p.V)
}

// extrasInput exercises httpPayload (a nested structure), httpQueryParams,
// httpPrefixHeaders, and a header-bound timestamp with an explicit
// timestampFormat override.
type extrasInput struct {
	ID      string
	Extra   map[string]string
	Meta    map[string]string
	Payload innerPayload
	When    time.Time
}

var extrasSchema = smithy.NewSchema(
	smithy.ShapeID{Namespace: "test", Name: "ExtrasInput"},
	smithy.ShapeTypeStructure,
	[]*smithy.Schema{
		smithy.NewMember("id", 0, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPLabel{}),
		smithy.NewMember("extra", 1, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "StringMap"}, smithy.ShapeTypeMap, nil), &traits.HTTPQueryParams{}),
		smithy.NewMember("meta", 2, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "StringMap"}, smithy.ShapeTypeMap, nil), &traits.HTTPPrefixHeaders{Prefix: "x-meta-"}),
		smithy.NewMember("payload", 3, innerPayloadSchema, &traits.HTTPPayload{}),
		smithy.NewMember("when", 4, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "Timestamp"}, smithy.ShapeTypeTimestamp, nil),
			&traits.HTTPHeader{Name: "x-when"}, &traits.TimestampFormat{Format: "epoch-seconds"}),
	},
	&traits.HTTP{Method: "PUT", URI: "/extras/{id}"},
)

func (in extrasInput) Serialize(s smithy.ShapeSerializer) {
	idM, _ := extrasSchema.Member("id")
	extraM, _ := extrasSchema.Member("extra")
	metaM, _ := extrasSchema.Member("meta")
	payloadM, _ := extrasSchema.Member("payload")
	whenM, _ := extrasSchema.Member("when")

	s.WriteString(idM, in.ID)
	s.WriteMap(extraM, nil, len(in.Extra), func(state smithy.MapEncodeState, sub smithy.ShapeSerializer) {
		for k, v := range in.Extra {
			sub.WriteKey(extraM, k)
			sub.WriteString(extraM, v)
		}
	})
	s.WriteMap(metaM, nil, len(in.Meta), func(state smithy.MapEncodeState, sub smithy.ShapeSerializer) {
		for k, v := range in.Meta {
			sub.WriteKey(metaM, k)
			sub.WriteString(metaM, v)
		}
	})
	s.WriteStruct(payloadM, in.Payload)
	s.WriteTimestamp(whenM, in.When)
}

func TestRequestSerializerPayloadQueryParamsPrefixHeadersTimestamp(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}

	when := time.Unix(1700000000, 0).UTC()
	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(extrasSchema, extrasInput{
		ID:      "a/b",
		Extra:   map[string]string{"q1": "v1"},
		Meta:    map[string]string{"Foo": "bar"},
		Payload: innerPayload{V: 42},
		When:    when,
	})
	require.NoError(t, ser.Err)

	require.Equal(t, "PUT", req.Method)
	require.Equal(t, "/extras/a%2Fb", req.URL.Path)
	require.Equal(t, "v1", req.URL.Query().Get("q1"))
	require.Equal(t, "bar", req.Header.Get("x-meta-Foo"))
	require.Equal(t, "1700000000.000", req.Header.Get("x-when"))
	require.Equal(t, "application/cbor", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.GetStream())
	require.NoError(t, err)

	var gotV int32
	err = cbor.NewCodec().Deserializer(body).ReadStruct(innerPayloadSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		v, err := sub.ReadInteger(member)
		if err != nil {
			return err
		}
		gotV = v
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(42), gotV)
}

// thingOutput exercises httpResponseCode and a plain header on a response.
type thingOutput struct {
	Code int32
	ETag string
	Name string
}

var thingOutputSchema = smithy.NewSchema(
	smithy.ShapeID{Namespace: "test", Name: "ThingOutput"},
	smithy.ShapeTypeStructure,
	[]*smithy.Schema{
		smithy.NewMember("code", 0, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "Integer"}, smithy.ShapeTypeInteger, nil), &traits.HTTPResponseCode{}),
		smithy.NewMember("etag", 1, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPHeader{Name: "ETag"}),
		smithy.NewMember("name", 2, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil)),
	},
)

func (out thingOutput) Serialize(s smithy.ShapeSerializer) {
	codeM, _ := thingOutputSchema.Member("code")
	etagM, _ := thingOutputSchema.Member("etag")
	nameM, _ := thingOutputSchema.Member("name")
	s.WriteInteger(codeM, out.Code)
	s.WriteString(etagM, out.ETag)
	s.WriteString(nameM, out.Name)
}

func TestResponseSerializerDeserializerRoundTrip(t *testing.T) {
	resp := &smithyhttp.Response{Response: &http.Response{Header: http.Header{}}}

	ser := NewResponseSerializer(resp, cbor.NewCodec(), http.StatusOK)
	ser.WriteStruct(thingOutputSchema, thingOutput{Code: 201, ETag: "v1", Name: "widget"})
	require.NoError(t, ser.Err)

	require.Equal(t, 201, resp.StatusCode)
	require.Equal(t, "v1", resp.Header.Get("ETag"))
	require.Equal(t, "application/cbor", resp.Header.Get("Content-Type"))

	deser, err := NewResponseDeserializer(resp, cbor.NewCodec(), 0)
	require.NoError(t, err)

	got := map[string]string{}
	var gotCode int32
	err = deser.ReadStruct(thingOutputSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		if member.MemberName() == "code" {
			v, err := sub.ReadInteger(member)
			if err != nil {
				return err
			}
			gotCode = v
			return nil
		}
		v, err := sub.ReadString(member)
		if err != nil {
			return err
		}
		got[member.MemberName()] = v
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(201), gotCode)
	require.Equal(t, "v1", got["etag"])
	require.Equal(t, "widget", got["name"])
}

func TestDefaultCodeForPrecedence(t *testing.T) {
	httpOnly := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "A"}, smithy.ShapeTypeStructure, nil, &traits.HTTP{Method: "GET", URI: "/a", Code: 202})
	require.Equal(t, 202, DefaultCodeFor(httpOnly))

	httpErrOnly := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "B"}, smithy.ShapeTypeStructure, nil, &traits.HTTPError{Code: 404})
	require.Equal(t, 404, DefaultCodeFor(httpErrOnly))

	clientErr := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "C"}, smithy.ShapeTypeStructure, nil, &traits.Error{Fault: "client"})
	require.Equal(t, 400, DefaultCodeFor(clientErr))

	serverErr := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "D"}, smithy.ShapeTypeStructure, nil, &traits.Error{Fault: "server"})
	require.Equal(t, 500, DefaultCodeFor(serverErr))

	plain := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "E"}, smithy.ShapeTypeStructure, nil)
	require.Equal(t, http.StatusOK, DefaultCodeFor(plain))
}
