package httpbinding

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/smithytime"
	"github.com/modulert/smithy-go/traits"
)

func formatInt(v int64) string { return strconv.FormatInt(v, 10) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func base64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

func base64Decode(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

func joinStrings(vals []string, sep string) string { return strings.Join(vals, sep) }

// mediaTypeEncodeIfNeeded base64-encodes a header-bound string carrying a
// mediaType trait, since headers cannot safely carry arbitrary bytes (e.g.
// newlines). Other locations pass the string through unchanged.
func mediaTypeEncodeIfNeeded(schema *smithy.Schema, b Binding, v string) string {
	if b != HEADER {
		return v
	}
	if _, ok := smithy.SchemaTrait[*traits.MediaType](schema); ok {
		return base64.StdEncoding.EncodeToString([]byte(v))
	}
	return v
}

// smithytimeFormat renders a timestamp per the member's resolved format.
func smithytimeFormat(schema *smithy.Schema, b Binding, v time.Time) string {
	return smithytime.FormatFor(v, timestampFormatFor(schema, b), timestampFormatFor(schema, b))
}
