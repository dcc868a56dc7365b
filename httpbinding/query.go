package httpbinding

import "strings"

// queryEntry is one key with its accumulated values, in encounter order.
type queryEntry struct {
	key    string
	values []string
}

// orderedQuery is an insertion-ordered multimap: parameter order follows
// member encounter order, and a list member's elements all land under one
// key in list order.
type orderedQuery struct {
	entries []*queryEntry
	index   map[string]*queryEntry
}

func newOrderedQuery() *orderedQuery {
	return &orderedQuery{index: make(map[string]*queryEntry)}
}

// Add appends a value under key, creating the entry if key is new.
func (q *orderedQuery) Add(key, value string) {
	e, ok := q.index[key]
	if !ok {
		e = &queryEntry{key: key}
		q.index[key] = e
		q.entries = append(q.entries, e)
	}
	e.values = append(e.values, value)
}

// Has reports whether key already has at least one explicit value.
func (q *orderedQuery) Has(key string) bool {
	_, ok := q.index[key]
	return ok
}

// Encode renders the multimap as a query string, preserving insertion
// order (unlike url.Values.Encode, which sorts by key).
func (q *orderedQuery) Encode() string {
	var sb strings.Builder
	for _, e := range q.entries {
		for _, v := range e.values {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(queryEscape(e.key))
			sb.WriteByte('=')
			sb.WriteString(queryEscape(v))
		}
	}
	return sb.String()
}

func queryEscape(s string) string {
	return escape(s, nil)
}
