package httpbinding

import (
	"net/url"
	"strings"
)

// uriSegment is one parsed component of an operation's http trait URI
// pattern: a literal path segment, or a label (greedy or not) to be
// substituted at serialize time.
type uriSegment struct {
	literal string
	label   string
	greedy  bool
}

// parseURIPattern splits a Smithy URI pattern ("/things/{id}/{rest+}") into
// literal and label segments.
func parseURIPattern(pattern string) []uriSegment {
	var segs []uriSegment
	for _, part := range strings.Split(pattern, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			greedy := strings.HasSuffix(name, "+")
			if greedy {
				name = name[:len(name)-1]
			}
			segs = append(segs, uriSegment{label: name, greedy: greedy})
			continue
		}
		segs = append(segs, uriSegment{literal: part})
	}
	return segs
}

// buildURI substitutes label values into the parsed pattern, percent-
// encoding non-greedy labels fully (every reserved byte) and greedy labels
// while preserving literal "/" separators.
func buildURI(segs []uriSegment, labels map[string]string) string {
	var sb strings.Builder
	for _, seg := range segs {
		sb.WriteByte('/')
		if seg.label == "" {
			sb.WriteString(pathEscape(seg.literal))
			continue
		}
		val := labels[seg.label]
		if seg.greedy {
			sb.WriteString(escapeGreedyLabel(val))
		} else {
			sb.WriteString(pathEscape(val))
		}
	}
	if sb.Len() == 0 {
		return "/"
	}
	return sb.String()
}

// matchURI matches an incoming request path against a parsed pattern,
// extracting label values. It fails if the literal segments don't align or
// the path has too few segments; a greedy label consumes every remaining
// path segment, joined with "/".
func matchURI(segs []uriSegment, path string) (map[string]string, bool) {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p == "" {
			continue
		}
		if up, err := url.PathUnescape(p); err == nil {
			p = up
		}
		parts = append(parts, p)
	}
	labels := map[string]string{}
	for i, seg := range segs {
		if seg.label == "" {
			if i >= len(parts) || parts[i] != seg.literal {
				return nil, false
			}
			continue
		}
		if i >= len(parts) {
			return nil, false
		}
		if seg.greedy {
			labels[seg.label] = strings.Join(parts[i:], "/")
			return labels, true
		}
		labels[seg.label] = parts[i]
	}
	if len(parts) != len(segs) {
		return nil, false
	}
	return labels, true
}

const upperhex = "0123456789ABCDEF"

// isUnreserved reports whether b is an RFC 3986 unreserved character,
// never percent-encoded.
func isUnreserved(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	}
	return false
}

// pathEscape percent-encodes every byte outside the unreserved set,
// including "/".
func pathEscape(s string) string {
	return escape(s, nil)
}

// escapeGreedyLabel percent-encodes a greedy label's value, preserving any
// literal "/" characters the matched path segments actually contained.
func escapeGreedyLabel(s string) string {
	return escape(s, func(b byte) bool { return b == '/' })
}

func escape(s string, preserve func(byte) bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isUnreserved(b) || (preserve != nil && preserve(b)) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[b>>4])
		sb.WriteByte(upperhex[b&0xF])
	}
	return sb.String()
}
