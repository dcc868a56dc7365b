package visitor

import (
	"testing"

	smithy "github.com/modulert/smithy-go"
)

func testSchema(typ smithy.ShapeType) *smithy.Schema {
	return smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "Value"}, typ, nil)
}

func TestNullAcceptsEverything(t *testing.T) {
	n := Null{}
	n.WriteInteger(testSchema(smithy.ShapeTypeInteger), 5)
	n.WriteString(testSchema(smithy.ShapeTypeString), "hi")
	n.WriteNull(testSchema(smithy.ShapeTypeDocument))
}

func TestSpecificRejectsWrongKind(t *testing.T) {
	s := &Specific{Kind: smithy.ShapeTypeString}
	s.WriteInteger(testSchema(smithy.ShapeTypeInteger), 5)
	if s.Err == nil {
		t.Fatal("expected SchemaMismatchError")
	}
	if _, ok := s.Err.(*smithy.SchemaMismatchError); !ok {
		t.Fatalf("got %T", s.Err)
	}
}

func TestRequiredWriteTracksCalls(t *testing.T) {
	rw := &RequiredWrite{Delegate: Null{}}
	schema := testSchema(smithy.ShapeTypeInteger)
	if err := rw.Assert(schema); err == nil {
		t.Fatal("expected assertion failure before any write")
	}
	rw.WriteInteger(schema, 1)
	if err := rw.Assert(schema); err != nil {
		t.Fatalf("expected no error after write, got %v", err)
	}
}

func TestInterceptingRoutesToDelegate(t *testing.T) {
	render := NewRender()
	ic := Intercepting{
		Before: func(schema *smithy.Schema) smithy.ShapeSerializer { return render },
	}
	ic.WriteInteger(testSchema(smithy.ShapeTypeInteger), 42)
	if got, want := render.String(), "42"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderBlobUsesUnsignedHex(t *testing.T) {
	r := NewRender()
	r.WriteBlob(testSchema(smithy.ShapeTypeBlob), []byte{0x00, 0xFF, 0x80})
	if got, want := r.String(), "0x00FF80"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderStructJoinsMembersWithComma(t *testing.T) {
	nameM := smithy.NewMember("name", 0, testSchema(smithy.ShapeTypeString))
	ageM := smithy.NewMember("age", 1, testSchema(smithy.ShapeTypeInteger))
	structSchema := smithy.NewSchema(smithy.ShapeID{Namespace: "test", Name: "Person"}, smithy.ShapeTypeStructure, []*smithy.Schema{nameM, ageM})

	r := NewRender()
	r.WriteStruct(structSchema, serializeFunc(func(s smithy.ShapeSerializer) {
		m, _ := structSchema.Member("name")
		s.WriteString(m, "Ada")
		m, _ = structSchema.Member("age")
		s.WriteInteger(m, 36)
	}))

	if got, want := r.String(), `{name="Ada", age=36}`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type serializeFunc func(smithy.ShapeSerializer)

func (f serializeFunc) Serialize(s smithy.ShapeSerializer) { f(s) }
