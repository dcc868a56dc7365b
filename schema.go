package smithy

import (
	"fmt"
	"maps"
	"math/big"
	"strings"
)

// ShapeType is a type of Smithy shape.
// See https://smithy.io/2.0/spec/idl.html#defining-shapes.
type ShapeType int

// Enumerates ShapeType per the Smithy IDL.
const (
	ShapeTypeBlob ShapeType = iota
	ShapeTypeBoolean
	ShapeTypeString
	ShapeTypeTimestamp
	ShapeTypeByte
	ShapeTypeShort
	ShapeTypeInteger
	ShapeTypeLong
	ShapeTypeFloat
	ShapeTypeDocument
	ShapeTypeDouble
	ShapeTypeBigDecimal
	ShapeTypeBigInteger
	ShapeTypeEnum
	ShapeTypeIntEnum
	ShapeTypeList
	ShapeTypeSet
	ShapeTypeMap
	ShapeTypeStructure
	ShapeTypeUnion
	ShapeTypeMember
	ShapeTypeService
	ShapeTypeResource
	ShapeTypeOperation
)

// ShapeID fields of a Smithy shape ID.
type ShapeID struct {
	Namespace, Name, Member string
}

// String returns the IDL microformat for the shape ID.
func (s *ShapeID) String() string {
	if s.Member == "" {
		return fmt.Sprintf("%s#%s", s.Namespace, s.Name)
	}
	return fmt.Sprintf("%s#%s$%s", s.Namespace, s.Name, s.Member)
}

// ParseShapeID parses the IDL microformat into a ShapeID.
//
// Accepts both absolute ("ns#Name") and relative ("Name") forms; a relative
// ID is returned with an empty Namespace, to be resolved by a caller against
// a default namespace (e.g. a document discriminator).
func ParseShapeID(s string) ShapeID {
	return stoid(s)
}

func stoid(s string) ShapeID {
	ns, n, hasNs := strings.Cut(s, "#")
	if !hasNs {
		n = ns
		ns = ""
	}
	n, m, _ := strings.Cut(n, "$")
	return ShapeID{ns, n, m}
}

// Schema encodes information about a shape from a Smithy model.
//
// Generated clients use schemas at runtime to dynamically (de)serialize
// request/responses. Schemas are process-wide, immutable after construction,
// and safe to share and compare by identity across goroutines.
type Schema struct {
	ID   ShapeID
	Type ShapeType

	// Index is the member's memberIndex: dense, zero-based within its
	// container, used as an array index for per-member caches (e.g. the HTTP
	// binding matcher). -1 for a schema that is not itself a member.
	Index int

	// Members lists member schemas in declaration order for structures and
	// unions, [key, value] for maps, and a single "member" schema for lists.
	Members []*Schema

	Traits map[string]Trait

	// Pre-extracted constraints. Nil means "not constrained".
	MinLength *int64
	MaxLength *int64
	MinLong   *int64
	MaxLong   *int64
	MinDouble *float64
	MaxDouble *float64
	MinRange  *big.Int
	MaxRange  *big.Int

	IntEnumValues []int32

	byName map[string]*Schema
}

// NewSchema creates a top-level (non-member) shape schema.
func NewSchema(id ShapeID, typ ShapeType, members []*Schema, traits ...Trait) *Schema {
	s := &Schema{
		ID:     id,
		Type:   typ,
		Index:  -1,
		Traits: traitMap(traits),
	}
	s.setMembers(members)
	return s
}

// NewMember creates a member schema from a target schema, overriding traits.
//
// Traits provided for the member override any traits on the target if there
// is collision. index is the member's dense position within its container.
func NewMember(name string, index int, target *Schema, traits ...Trait) *Schema {
	m := &Schema{
		ID:      ShapeID{Namespace: target.ID.Namespace, Name: target.ID.Name, Member: name},
		Type:    target.Type,
		Index:   index,
		Members: target.Members,
		byName:  target.byName,
		Traits:  maps.Clone(target.Traits),
	}

	if len(m.Traits) == 0 && len(traits) != 0 {
		m.Traits = map[string]Trait{}
	}
	for _, t := range traits {
		m.Traits[t.TraitID()] = t
	}

	return m
}

func (s *Schema) setMembers(members []*Schema) {
	s.Members = members
	if len(members) == 0 {
		return
	}
	s.byName = make(map[string]*Schema, len(members))
	for _, m := range members {
		s.byName[m.ID.Member] = m
	}
}

// Member returns the named member schema, if this schema has one by that
// name.
func (s *Schema) Member(name string) (*Schema, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// MemberName returns the member's own name (the trailing "$member" segment
// of its ID).
func (s *Schema) MemberName() string {
	return s.ID.Member
}

func traitMap(traits []Trait) map[string]Trait {
	if len(traits) == 0 {
		return nil
	}
	m := make(map[string]Trait, len(traits))
	for _, t := range traits {
		m[t.TraitID()] = t
	}
	return m
}

// HasTrait reports whether the schema carries a trait with the given ID.
func (s *Schema) HasTrait(id string) bool {
	_, ok := s.Traits[id]
	return ok
}

// SchemaTrait returns the target trait on the schema if it exists.
func SchemaTrait[T Trait](s *Schema) (T, bool) {
	var trait T

	opaque, ok := s.Traits[trait.TraitID()]
	if !ok {
		return trait, false
	}

	tt, ok := opaque.(T)
	return tt, ok
}
