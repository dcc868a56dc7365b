package httpbinding

import "strings"

// DefaultMaxInMemoryPayload is the body-materialization ceiling a
// deserializer enforces absent an explicit override: spec's configured
// maxInMemoryPayload option defaults here. Threads registry.Config's
// max_in_memory_payload setting.
const DefaultMaxInMemoryPayload int64 = 128 * 1024 * 1024

// mediaType strips any ";charset=..."-style parameters from a Content-Type
// header value, leaving the bare type/subtype for comparison against a
// codec's MediaType().
func mediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}
