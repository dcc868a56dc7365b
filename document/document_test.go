package document

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	smithy "github.com/modulert/smithy-go"
)

func TestScalarConstructorsRoundTripThroughAccessors(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want Kind
	}{
		{"bool", NewBool(true), smithy.ShapeTypeBoolean},
		{"byte", NewByte(5), smithy.ShapeTypeByte},
		{"long", NewLong(42), smithy.ShapeTypeLong},
		{"double", NewDouble(3.5), smithy.ShapeTypeDouble},
		{"string", NewString("hi"), smithy.ShapeTypeString},
		{"blob", NewBlob([]byte("hi")), smithy.ShapeTypeBlob},
		{"null", Null(), smithy.ShapeTypeDocument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Type(); got != c.want {
				t.Errorf("Type() = %v, want %v", got, c.want)
			}
		})
	}

	if b, ok := NewBool(true).Bool(); !ok || !b {
		t.Errorf("Bool() = %v, %v", b, ok)
	}
	if s, ok := NewString("hi").String(); !ok || s != "hi" {
		t.Errorf("String() = %q, %v", s, ok)
	}
	if n := Null(); !n.IsNull() {
		t.Error("Null() value should report IsNull")
	}
	if v := NewBool(false); v.IsNull() {
		t.Error("a constructed non-document value must not report IsNull")
	}
}

func TestLongWidensIntegralKinds(t *testing.T) {
	for _, v := range []Value{NewByte(1), NewShort(1), NewInteger(1), NewLong(1)} {
		got, ok := v.Long()
		if !ok || got != 1 {
			t.Errorf("Long() on %v = %v, %v", v.Type(), got, ok)
		}
	}
	if _, ok := NewString("x").Long(); ok {
		t.Error("Long() should fail for a non-integral kind")
	}
}

func TestBigIntegerAndBigDecimal(t *testing.T) {
	bi := big.NewInt(123456789012345)
	v := NewBigInteger(bi)
	got, ok := v.BigInteger()
	if !ok || got.Cmp(bi) != 0 {
		t.Errorf("BigInteger() = %v, %v", got, ok)
	}

	bd := big.NewFloat(1.5)
	vd := NewBigDecimal(bd)
	gotd, ok := vd.BigDecimal()
	if !ok || gotd.Cmp(bd) != 0 {
		t.Errorf("BigDecimal() = %v, %v", gotd, ok)
	}
}

func TestFieldLookupPreservesOrder(t *testing.T) {
	fields := []Field{
		{Name: "b", Value: NewInteger(2)},
		{Name: "a", Value: NewInteger(1)},
	}
	m := NewMap(fields)

	got, ok := m.Fields()
	if !ok {
		t.Fatal("expected Fields() to succeed for a map value")
	}
	if diff := cmp.Diff(fields, got, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("fields mismatch, preserved order required (-want +got):\n%s", diff)
	}

	v, ok := m.Field("a")
	if !ok {
		t.Fatal("expected field \"a\" to be found")
	}
	if got, _ := v.Long(); got != 1 {
		t.Errorf("field a = %v, want 1", got)
	}

	if _, ok := m.Field("missing"); ok {
		t.Error("lookup of an absent field must fail")
	}
}

func TestStructDiscriminatorResolution(t *testing.T) {
	s := NewStruct("Widget", []Field{{Name: "name", Value: NewString("gadget")}})

	disc, ok := s.Discriminator()
	if !ok || disc != "Widget" {
		t.Fatalf("Discriminator() = %q, %v", disc, ok)
	}

	id, err := s.ResolveDiscriminator("com.example")
	if err != nil {
		t.Fatalf("ResolveDiscriminator: %v", err)
	}
	want := smithy.ShapeID{Namespace: "com.example", Name: "Widget"}
	if diff := cmp.Diff(want, id); diff != "" {
		t.Errorf("resolved shape ID mismatch (-want +got):\n%s", diff)
	}

	// an already-qualified discriminator is left untouched.
	qualified := NewStruct("other.ns#Thing", nil)
	id2, err := qualified.ResolveDiscriminator("com.example")
	if err != nil {
		t.Fatalf("ResolveDiscriminator: %v", err)
	}
	if id2.Namespace != "other.ns" || id2.Name != "Thing" {
		t.Errorf("got %+v", id2)
	}

	if _, err := NewString("x").ResolveDiscriminator("com.example"); err == nil {
		t.Error("expected an error resolving a discriminator on a non-structure value")
	}
}

func TestListAndTimestamp(t *testing.T) {
	items := []Value{NewInteger(1), NewInteger(2), NewInteger(3)}
	l := NewList(items)
	got, ok := l.List()
	if !ok {
		t.Fatal("expected List() to succeed")
	}
	if diff := cmp.Diff(items, got, cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ts := NewTimestamp(now)
	gotTS, ok := ts.Timestamp()
	if !ok || !gotTS.Equal(now) {
		t.Errorf("Timestamp() = %v, %v", gotTS, ok)
	}
}
