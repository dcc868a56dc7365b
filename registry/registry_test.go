package registry

import (
	"os"
	"testing"

	smithy "github.com/modulert/smithy-go"
)

type fakeCodec struct{ name string }

func (f fakeCodec) MediaType() string                                { return f.name }
func (f fakeCodec) Serializer() smithy.ShapeSerializer                { return nil }
func (f fakeCodec) Deserializer(buf []byte) smithy.ShapeDeserializer { return nil }

func TestSelectPicksHighestPriority(t *testing.T) {
	r := NewCodecRegistry()
	r.Register(Provider{Name: "low", Priority: 1, New: func() smithy.Codec { return fakeCodec{"low"} }})
	r.Register(Provider{Name: "high", Priority: 5, New: func() smithy.Codec { return fakeCodec{"high"} }})

	got := r.Select(fakeCodec{"default"})
	if got.MediaType() != "high" {
		t.Errorf("got %q, want %q", got.MediaType(), "high")
	}
}

func TestSelectFallsBackToDefaultWhenEmpty(t *testing.T) {
	r := NewCodecRegistry()
	got := r.Select(fakeCodec{"default"})
	if got.MediaType() != "default" {
		t.Errorf("got %q, want %q", got.MediaType(), "default")
	}
}

func TestSelectHonorsEnvOverride(t *testing.T) {
	r := NewCodecRegistry()
	r.Register(Provider{Name: "low", Priority: 1, New: func() smithy.Codec { return fakeCodec{"low"} }})
	r.Register(Provider{Name: "high", Priority: 5, New: func() smithy.Codec { return fakeCodec{"high"} }})

	os.Setenv(EnvOverride, "low")
	defer os.Unsetenv(EnvOverride)

	got := r.Select(fakeCodec{"default"})
	if got.MediaType() != "low" {
		t.Errorf("got %q, want %q", got.MediaType(), "low")
	}
}

func TestSelectEnvOverrideUnknownProviderFallsBackToPriority(t *testing.T) {
	r := NewCodecRegistry()
	r.Register(Provider{Name: "high", Priority: 5, New: func() smithy.Codec { return fakeCodec{"high"} }})

	os.Setenv(EnvOverride, "missing")
	defer os.Unsetenv(EnvOverride)

	got := r.Select(fakeCodec{"default"})
	if got.MediaType() != "high" {
		t.Errorf("got %q, want %q", got.MediaType(), "high")
	}
}

func TestSelectNamed(t *testing.T) {
	r := NewCodecRegistry()
	r.Register(Provider{Name: "cbor", Priority: 0, New: func() smithy.Codec { return fakeCodec{"cbor"} }})

	got, ok := r.SelectNamed("cbor")
	if !ok || got.MediaType() != "cbor" {
		t.Fatalf("got %v, %v", got, ok)
	}
	if _, ok := r.SelectNamed("nope"); ok {
		t.Error("expected lookup of unregistered name to fail")
	}
}

func TestDefaultRegistryHasBuiltinCBOR(t *testing.T) {
	c, ok := Default.SelectNamed(builtinCBOR)
	if !ok {
		t.Fatal("expected builtin cbor provider to be registered")
	}
	if c.MediaType() != "application/cbor" {
		t.Errorf("got %q", c.MediaType())
	}
}

func TestConfigApplyCBORProviderFallsBackWhenUnset(t *testing.T) {
	r := NewCodecRegistry()
	var cfg Config
	got := cfg.ApplyCBORProvider(r, fakeCodec{"default"})
	if got.MediaType() != "default" {
		t.Errorf("got %q", got.MediaType())
	}
}

func TestConfigApplyCBORProviderSelectsNamed(t *testing.T) {
	r := NewCodecRegistry()
	r.Register(Provider{Name: "custom", Priority: 0, New: func() smithy.Codec { return fakeCodec{"custom"} }})
	cfg := Config{CBORProvider: "custom"}
	got := cfg.ApplyCBORProvider(r, fakeCodec{"default"})
	if got.MediaType() != "custom" {
		t.Errorf("got %q", got.MediaType())
	}
}

func TestConfigMaxPayloadBytesFallsBackWhenUnset(t *testing.T) {
	var cfg Config
	if got := cfg.MaxPayloadBytes(128 << 20); got != 128<<20 {
		t.Errorf("got %d, want default", got)
	}

	cfg = Config{MaxInMemoryPayload: -1}
	if got := cfg.MaxPayloadBytes(128 << 20); got != 128<<20 {
		t.Errorf("a non-positive override should also fall back, got %d", got)
	}
}

func TestConfigMaxPayloadBytesHonorsOverride(t *testing.T) {
	cfg := Config{MaxInMemoryPayload: 4096}
	if got := cfg.MaxPayloadBytes(128 << 20); got != 4096 {
		t.Errorf("got %d, want 4096", got)
	}
}
