// Package httpbinding projects shape values onto HTTP request/response
// components (path labels, query, headers, prefix headers, status, payload,
// body) per the member traits attached to a top-level structure schema.
//
// Grounded on the prior runtime's httpbinding/encode.go (the path/query/
// header encoder shape) and aws-protocols/internal/httpbinding/serializer.go
// (trait-directed per-member routing), generalized from that package's
// fixed JSON-tunnel design into the visitor-based ShapeSerializer/
// ShapeDeserializer model and the full eight-location binding table.
package httpbinding

import (
	"sync"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/traits"
)

// Binding names one of the eight transport locations a structure member can
// be routed to.
type Binding int

// The eight transport locations.
const (
	BODY Binding = iota
	HEADER
	PREFIX_HEADERS
	PAYLOAD
	LABEL
	QUERY
	QUERY_PARAMS
	STATUS
)

func (b Binding) String() string {
	switch b {
	case HEADER:
		return "HEADER"
	case PREFIX_HEADERS:
		return "PREFIX_HEADERS"
	case PAYLOAD:
		return "PAYLOAD"
	case LABEL:
		return "LABEL"
	case QUERY:
		return "QUERY"
	case QUERY_PARAMS:
		return "QUERY_PARAMS"
	case STATUS:
		return "STATUS"
	default:
		return "BODY"
	}
}

// Direction distinguishes request-only bindings (LABEL, QUERY,
// QUERY_PARAMS) from response-only ones (STATUS); HEADER,
// PREFIX_HEADERS, and PAYLOAD apply to both.
type Direction int

// The two binding directions.
const (
	Request Direction = iota
	Response
)

// Matcher is the dense binding[memberIndex] table for one top-level
// structure schema in one direction.
type Matcher struct {
	Bindings []Binding
}

// BindingFor returns the member's computed binding.
func (m *Matcher) BindingFor(member *smithy.Schema) Binding {
	if member.Index < 0 || member.Index >= len(m.Bindings) {
		return BODY
	}
	return m.Bindings[member.Index]
}

type cacheKey struct {
	schema *smithy.Schema
	dir    Direction
}

var matcherCache sync.Map // cacheKey -> *Matcher

// MatcherFor returns the cached Matcher for schema and dir, computing and
// inserting it on first use. Matchers are cached by schema identity (the
// pointer), since schemas are process-wide and immutable once constructed.
func MatcherFor(schema *smithy.Schema, dir Direction) *Matcher {
	key := cacheKey{schema, dir}
	if v, ok := matcherCache.Load(key); ok {
		return v.(*Matcher)
	}
	m := computeMatcher(schema, dir)
	actual, _ := matcherCache.LoadOrStore(key, m)
	return actual.(*Matcher)
}

func computeMatcher(schema *smithy.Schema, dir Direction) *Matcher {
	bindings := make([]Binding, len(schema.Members))
	for i, member := range schema.Members {
		bindings[i] = classify(member, dir)
	}
	return &Matcher{Bindings: bindings}
}

// classify applies the routing table in priority order.
func classify(member *smithy.Schema, dir Direction) Binding {
	if dir == Request {
		if member.HasTrait((&traits.HTTPLabel{}).TraitID()) {
			return LABEL
		}
		if member.HasTrait((&traits.HTTPQuery{}).TraitID()) {
			return QUERY
		}
		if member.HasTrait((&traits.HTTPQueryParams{}).TraitID()) {
			return QUERY_PARAMS
		}
	}
	if member.HasTrait((&traits.HTTPHeader{}).TraitID()) {
		return HEADER
	}
	if member.HasTrait((&traits.HTTPPrefixHeaders{}).TraitID()) {
		return PREFIX_HEADERS
	}
	if member.HasTrait((&traits.HTTPPayload{}).TraitID()) {
		return PAYLOAD
	}
	if dir == Response && member.HasTrait((&traits.HTTPResponseCode{}).TraitID()) {
		return STATUS
	}
	return BODY
}
