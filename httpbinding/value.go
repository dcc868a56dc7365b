package httpbinding

import (
	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/smithytime"
	"github.com/modulert/smithy-go/traits"
)

// defaultTimestampFormat returns the format a location uses absent an
// explicit timestampFormat trait.
func defaultTimestampFormat(b Binding) smithytime.Format {
	switch b {
	case HEADER:
		return smithytime.HTTPDate
	case LABEL, QUERY:
		return smithytime.DateTime
	default:
		return smithytime.DateTime
	}
}

func timestampFormatFor(schema *smithy.Schema, b Binding) smithytime.Format {
	if tf, ok := smithy.SchemaTrait[*traits.TimestampFormat](schema); ok {
		return smithytime.Format(tf.Format)
	}
	return defaultTimestampFormat(b)
}

// contentTypeFor resolves the Content-Type of a blob/string payload member:
// the mediaType trait if present, else application/octet-stream for blobs
// and text/plain otherwise.
func contentTypeFor(schema *smithy.Schema, kind smithy.ShapeType) string {
	if mt, ok := smithy.SchemaTrait[*traits.MediaType](schema); ok {
		return mt.Type
	}
	if kind == smithy.ShapeTypeBlob {
		return "application/octet-stream"
	}
	return "text/plain"
}

// hopByHopHeaders is excluded from prefix-header matching (hop-by-hop and
// sensitive names).
var hopByHopHeaders = map[string]bool{
	"authorization":     true,
	"connection":        true,
	"content-length":    true,
	"expect":            true,
	"host":              true,
	"max-forwards":      true,
	"proxy-authenticate": true,
	"server":            true,
	"te":                true,
	"trailer":           true,
	"transfer-encoding": true,
	"upgrade":           true,
	"user-agent":        true,
	"www-authenticate":  true,
	"x-forwarded-for":   true,
}
