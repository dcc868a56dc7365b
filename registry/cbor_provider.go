package registry

import (
	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/encoding/cbor"
)

// builtinCBOR is the built-in default named provider, registered at the
// lowest priority so any application-registered provider (or the
// cbor-provider environment override) naturally takes precedence.
const builtinCBOR = "cbor"

func init() {
	Default.Register(Provider{
		Name:     builtinCBOR,
		Priority: 0,
		New:      func() smithy.Codec { return cbor.NewCodec() },
	})
}

// DefaultCBOR returns the built-in CBOR codec directly, bypassing
// registration lookup. Default.Select(DefaultCBOR()) is the common call shape for a
// generated client that wants the process default with overrides honored.
func DefaultCBOR() smithy.Codec {
	return cbor.NewCodec()
}
