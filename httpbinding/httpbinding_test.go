package httpbinding

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/encoding/cbor"
	"github.com/modulert/smithy-go/traits"
	smithyhttp "github.com/modulert/smithy-go/transport/http"
)

// getThingInput models an operation with one label, one query, one header,
// and one body member, exercising four of the eight binding locations.
type getThingInput struct {
	ID     string
	Filter string
	Trace  string
	Note   string
}

var getThingSchema = smithy.NewSchema(
	smithy.ShapeID{Namespace: "test", Name: "GetThingInput"},
	smithy.ShapeTypeStructure,
	[]*smithy.Schema{
		smithy.NewMember("id", 0, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPLabel{}),
		smithy.NewMember("filter", 1, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPQuery{Name: "filter"}),
		smithy.NewMember("trace", 2, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil), &traits.HTTPHeader{Name: "X-Trace-Id"}),
		smithy.NewMember("note", 3, smithy.NewSchema(smithy.ShapeID{Namespace: "smithy.api", Name: "String"}, smithy.ShapeTypeString, nil)),
	},
	&traits.HTTP{Method: "POST", URI: "/things/{id}"},
)

func (in getThingInput) Serialize(s smithy.ShapeSerializer) {
	idM, _ := getThingSchema.Member("id")
	filterM, _ := getThingSchema.Member("filter")
	traceM, _ := getThingSchema.Member("trace")
	noteM, _ := getThingSchema.Member("note")
	s.WriteString(idM, in.ID)
	s.WriteString(filterM, in.Filter)
	s.WriteString(traceM, in.Trace)
	s.WriteString(noteM, in.Note)
}

func TestMatcherClassifiesAllLocations(t *testing.T) {
	m := MatcherFor(getThingSchema, Request)
	idM, _ := getThingSchema.Member("id")
	filterM, _ := getThingSchema.Member("filter")
	traceM, _ := getThingSchema.Member("trace")
	noteM, _ := getThingSchema.Member("note")

	cases := []struct {
		member *smithy.Schema
		want   Binding
	}{
		{idM, LABEL},
		{filterM, QUERY},
		{traceM, HEADER},
		{noteM, BODY},
	}
	for _, c := range cases {
		if got := m.BindingFor(c.member); got != c.want {
			t.Errorf("member %q: got %v, want %v", c.member.MemberName(), got, c.want)
		}
	}
}

func TestRequestSerializerBuildsRequest(t *testing.T) {
	req := smithyhttp.NewStackRequest().(*smithyhttp.Request)
	req.URL = &url.URL{}

	ser := NewRequestSerializer(req, cbor.NewCodec())
	ser.WriteStruct(getThingSchema, getThingInput{ID: "abc", Filter: "active", Trace: "t-1", Note: "hello"})
	require.NoError(t, ser.Err)

	require.Equal(t, "POST", req.Method)
	require.Equal(t, "/things/abc", req.URL.Path)
	require.Equal(t, "active", req.URL.Query().Get("filter"))
	require.Equal(t, "t-1", req.Header.Get("X-Trace-Id"))
	require.Equal(t, "application/cbor", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.GetStream())
	require.NoError(t, err)
	d := cbor.NewCodec().Deserializer(body)
	var gotNote string
	err = d.ReadStruct(getThingSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		if member.MemberName() == "note" {
			v, err := sub.ReadString(member)
			if err != nil {
				return err
			}
			gotNote = v
			return nil
		}
		return sub.Skip()
	})
	require.NoError(t, err)
	require.Equal(t, "hello", gotNote)
}

func TestRequestDeserializerRoundTrip(t *testing.T) {
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

	got := map[string]string{}
	err = deser.ReadStruct(getThingSchema, nil, func(_ any, member *smithy.Schema, sub smithy.ShapeDeserializer) error {
		if member == nil {
			return sub.Skip()
		}
		v, err := sub.ReadString(member)
		if err != nil {
			return err
		}
		got[member.MemberName()] = v
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, map[string]string{"id": "xyz", "filter": "recent", "trace": "t-2", "note": "world"}, got)
}

func TestURILabelSubstitutionGreedyVsNonGreedy(t *testing.T) {
	segs := parseURIPattern("/a/{x}/b/{rest+}")
	got := buildURI(segs, map[string]string{"x": "needs space", "rest": "c/d e"})
	require.Equal(t, "/a/needs%20space/b/c/d%20e", got)
}

func TestOrderedQueryPreservesInsertionOrder(t *testing.T) {
	q := newOrderedQuery()
	q.Add("z", "1")
	q.Add("a", "2")
	q.Add("z", "3")
	require.Equal(t, "z=1&z=3&a=2", q.Encode())
}

func TestPrefixHeadersExcludesHopByHop(t *testing.T) {
	h := http.Header{}
	h.Set("X-Meta-Foo", "1")
	h.Set("Authorization", "secret")
	d := &prefixHeaderMapDeserializer{header: h, prefix: "X-Meta-"}
	seen := map[string]string{}
	err := d.ReadStringMap(nil, nil, func(_ any, key string, sub smithy.ShapeDeserializer) error {
		v, err := sub.ReadString(nil)
		if err != nil {
			return err
		}
		seen[key] = v
		return nil
	})
	require.NoError(t, err)
	_, leaked := seen["Authorization"]
	require.False(t, leaked, "Authorization must not leak through prefix-headers")
	require.Equal(t, "1", seen["Foo"])
}
