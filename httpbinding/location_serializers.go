package httpbinding

import (
	"math/big"
	"net/http"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/visitor"
)

// scalarOnly embeds visitor.Specific to reject any non-scalar write, and
// adds the shared scalar-to-string rendering every location-specific
// serializer needs.
type scalarOnly struct {
	visitor.Specific
	binding Binding
}

func (s *scalarOnly) render(schema *smithy.Schema, kind smithy.ShapeType, bval bool, ival int64, fval float64, bi *big.Int, bd *big.Float, str string, blob []byte, ts time.Time) string {
	switch kind {
	case smithy.ShapeTypeBoolean:
		if bval {
			return "true"
		}
		return "false"
	case smithy.ShapeTypeByte, smithy.ShapeTypeShort, smithy.ShapeTypeInteger, smithy.ShapeTypeLong:
		return formatInt(ival)
	case smithy.ShapeTypeFloat, smithy.ShapeTypeDouble:
		return formatFloat(fval)
	case smithy.ShapeTypeBigInteger:
		return bi.String()
	case smithy.ShapeTypeBigDecimal:
		return bd.Text('g', -1)
	case smithy.ShapeTypeBlob:
		return base64Encode(blob)
	case smithy.ShapeTypeString:
		return mediaTypeEncodeIfNeeded(schema, s.binding, str)
	case smithy.ShapeTypeTimestamp:
		return smithytimeFormat(schema, s.binding, ts)
	default:
		return ""
	}
}

// statusWriter captures a response's httpResponseCode member as the HTTP
// status line code.
type statusWriter struct {
	visitor.Specific
	set func(int)
}

func newStatusWriter(set func(int)) *statusWriter {
	w := &statusWriter{set: set}
	w.Kind = smithy.ShapeTypeInteger
	return w
}

func (w *statusWriter) WriteByte(schema *smithy.Schema, v int8)     { w.set(int(v)) }
func (w *statusWriter) WriteShort(schema *smithy.Schema, v int16)   { w.set(int(v)) }
func (w *statusWriter) WriteInteger(schema *smithy.Schema, v int32) { w.set(int(v)) }
func (w *statusWriter) WriteLong(schema *smithy.Schema, v int64)    { w.set(int(v)) }

// headerWriter writes a single scalar (or list-of-scalar, joined with
// ", ") member as one HTTP header.
type headerWriter struct {
	scalarOnly
	header http.Header
	name   string
	// pending accumulates list element renderings before being joined and
	// flushed as a single header value.
	pending []string
	isList  bool
}

func newHeaderWriter(h http.Header, name string) *headerWriter {
	w := &headerWriter{header: h, name: name}
	w.binding = HEADER
	w.Kind = smithy.ShapeTypeString
	return w
}

func (w *headerWriter) flush(value string) {
	if w.isList {
		w.pending = append(w.pending, value)
		return
	}
	w.header.Set(w.name, value)
}

// FlushList joins accumulated list elements into a single header value.
func (w *headerWriter) FlushList() {
	if len(w.pending) > 0 {
		w.header.Set(w.name, joinStrings(w.pending, ", "))
	}
}

func (w *headerWriter) WriteBoolean(schema *smithy.Schema, v bool) {
	w.flush(w.render(schema, smithy.ShapeTypeBoolean, v, 0, 0, nil, nil, "", nil, time.Time{}))
}
func (w *headerWriter) WriteByte(schema *smithy.Schema, v int8) { w.writeInt(schema, int64(v)) }
func (w *headerWriter) WriteShort(schema *smithy.Schema, v int16) { w.writeInt(schema, int64(v)) }
func (w *headerWriter) WriteInteger(schema *smithy.Schema, v int32) { w.writeInt(schema, int64(v)) }
func (w *headerWriter) WriteLong(schema *smithy.Schema, v int64) { w.writeInt(schema, v) }
func (w *headerWriter) writeInt(schema *smithy.Schema, v int64) {
	w.flush(w.render(schema, smithy.ShapeTypeLong, false, v, 0, nil, nil, "", nil, time.Time{}))
}
func (w *headerWriter) WriteFloat(schema *smithy.Schema, v float32) { w.writeFloat(schema, float64(v)) }
func (w *headerWriter) WriteDouble(schema *smithy.Schema, v float64) { w.writeFloat(schema, v) }
func (w *headerWriter) writeFloat(schema *smithy.Schema, v float64) {
	w.flush(w.render(schema, smithy.ShapeTypeDouble, false, 0, v, nil, nil, "", nil, time.Time{}))
}
func (w *headerWriter) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	w.flush(w.render(schema, smithy.ShapeTypeBigInteger, false, 0, 0, v, nil, "", nil, time.Time{}))
}
func (w *headerWriter) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	w.flush(w.render(schema, smithy.ShapeTypeBigDecimal, false, 0, 0, nil, v, "", nil, time.Time{}))
}
func (w *headerWriter) WriteString(schema *smithy.Schema, v string) {
	w.flush(w.render(schema, smithy.ShapeTypeString, false, 0, 0, nil, nil, v, nil, time.Time{}))
}
func (w *headerWriter) WriteBlob(schema *smithy.Schema, v []byte) {
	w.flush(w.render(schema, smithy.ShapeTypeBlob, false, 0, 0, nil, nil, "", v, time.Time{}))
}
func (w *headerWriter) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	w.flush(w.render(schema, smithy.ShapeTypeTimestamp, false, 0, 0, nil, nil, "", nil, v))
}

// WriteList renders each element as a joined header value.
func (w *headerWriter) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	elem := &headerWriter{header: w.header, name: w.name, isList: true}
	elem.binding = HEADER
	fn(state, elem)
	elem.FlushList()
}

// queryWriter writes a single scalar or list-of-scalar member as one or
// more entries under one query key.
type queryWriter struct {
	scalarOnly
	q   *orderedQuery
	key string
}

func newQueryWriter(q *orderedQuery, key string) *queryWriter {
	w := &queryWriter{q: q, key: key}
	w.binding = QUERY
	return w
}

func (w *queryWriter) WriteBoolean(schema *smithy.Schema, v bool) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeBoolean, v, 0, 0, nil, nil, "", nil, time.Time{}))
}
func (w *queryWriter) WriteByte(schema *smithy.Schema, v int8)   { w.writeInt(schema, int64(v)) }
func (w *queryWriter) WriteShort(schema *smithy.Schema, v int16) { w.writeInt(schema, int64(v)) }
func (w *queryWriter) WriteInteger(schema *smithy.Schema, v int32) { w.writeInt(schema, int64(v)) }
func (w *queryWriter) WriteLong(schema *smithy.Schema, v int64)  { w.writeInt(schema, v) }
func (w *queryWriter) writeInt(schema *smithy.Schema, v int64) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeLong, false, v, 0, nil, nil, "", nil, time.Time{}))
}
func (w *queryWriter) WriteFloat(schema *smithy.Schema, v float32)  { w.writeFloat(schema, float64(v)) }
func (w *queryWriter) WriteDouble(schema *smithy.Schema, v float64) { w.writeFloat(schema, v) }
func (w *queryWriter) writeFloat(schema *smithy.Schema, v float64) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeDouble, false, 0, v, nil, nil, "", nil, time.Time{}))
}
func (w *queryWriter) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeBigInteger, false, 0, 0, v, nil, "", nil, time.Time{}))
}
func (w *queryWriter) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeBigDecimal, false, 0, 0, nil, v, "", nil, time.Time{}))
}
func (w *queryWriter) WriteString(schema *smithy.Schema, v string) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeString, false, 0, 0, nil, nil, v, nil, time.Time{}))
}
func (w *queryWriter) WriteBlob(schema *smithy.Schema, v []byte) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeBlob, false, 0, 0, nil, nil, "", v, time.Time{}))
}
func (w *queryWriter) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	w.q.Add(w.key, w.render(schema, smithy.ShapeTypeTimestamp, false, 0, 0, nil, nil, "", nil, v))
}
func (w *queryWriter) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	fn(state, w)
}

// labelWriter captures a single label's string rendering into the caller's
// label map, keyed by the label name (not the member name, though they are
// typically identical).
type labelWriter struct {
	scalarOnly
	labels map[string]string
	name   string
}

func newLabelWriter(labels map[string]string, name string) *labelWriter {
	w := &labelWriter{labels: labels, name: name}
	w.binding = LABEL
	return w
}

func (w *labelWriter) set(schema *smithy.Schema, kind smithy.ShapeType, bval bool, ival int64, fval float64, bi *big.Int, bd *big.Float, str string, blob []byte, ts time.Time) {
	w.labels[w.name] = w.render(schema, kind, bval, ival, fval, bi, bd, str, blob, ts)
}

func (w *labelWriter) WriteBoolean(schema *smithy.Schema, v bool) {
	w.set(schema, smithy.ShapeTypeBoolean, v, 0, 0, nil, nil, "", nil, time.Time{})
}
func (w *labelWriter) WriteByte(schema *smithy.Schema, v int8)     { w.set(schema, smithy.ShapeTypeLong, false, int64(v), 0, nil, nil, "", nil, time.Time{}) }
func (w *labelWriter) WriteShort(schema *smithy.Schema, v int16)   { w.set(schema, smithy.ShapeTypeLong, false, int64(v), 0, nil, nil, "", nil, time.Time{}) }
func (w *labelWriter) WriteInteger(schema *smithy.Schema, v int32) { w.set(schema, smithy.ShapeTypeLong, false, int64(v), 0, nil, nil, "", nil, time.Time{}) }
func (w *labelWriter) WriteLong(schema *smithy.Schema, v int64)    { w.set(schema, smithy.ShapeTypeLong, false, v, 0, nil, nil, "", nil, time.Time{}) }
func (w *labelWriter) WriteFloat(schema *smithy.Schema, v float32) {
	w.set(schema, smithy.ShapeTypeDouble, false, 0, float64(v), nil, nil, "", nil, time.Time{})
}
func (w *labelWriter) WriteDouble(schema *smithy.Schema, v float64) {
	w.set(schema, smithy.ShapeTypeDouble, false, 0, v, nil, nil, "", nil, time.Time{})
}
func (w *labelWriter) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	w.set(schema, smithy.ShapeTypeBigInteger, false, 0, 0, v, nil, "", nil, time.Time{})
}
func (w *labelWriter) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	w.set(schema, smithy.ShapeTypeBigDecimal, false, 0, 0, nil, v, "", nil, time.Time{})
}
func (w *labelWriter) WriteString(schema *smithy.Schema, v string) {
	w.set(schema, smithy.ShapeTypeString, false, 0, 0, nil, nil, v, nil, time.Time{})
}
func (w *labelWriter) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	w.set(schema, smithy.ShapeTypeTimestamp, false, 0, 0, nil, nil, "", nil, v)
}

// prefixHeaderWriter accepts a string-to-string map member and emits each
// entry as "<prefix><key>: <value>".
type prefixHeaderWriter struct {
	visitor.Specific
	header http.Header
	prefix string
	curKey string
}

func newPrefixHeaderWriter(h http.Header, prefix string) *prefixHeaderWriter {
	w := &prefixHeaderWriter{header: h, prefix: prefix}
	w.Kind = smithy.ShapeTypeMap
	return w
}

func (w *prefixHeaderWriter) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	fn(state, w)
}
func (w *prefixHeaderWriter) WriteKey(schema *smithy.Schema, key string) { w.curKey = key }
func (w *prefixHeaderWriter) WriteString(schema *smithy.Schema, v string) {
	w.header.Set(w.prefix+w.curKey, v)
}

// queryParamsWriter accepts a string-to-string or string-to-string-list map
// member and merges it into the shared query multimap. Explicit QUERY
// bindings already present win on key conflict.
type queryParamsWriter struct {
	visitor.Specific
	q      *orderedQuery
	curKey string
	// skip is set when curKey was already present before this entry began,
	// so every element of that entry (including list elements) is dropped.
	skip bool
}

func newQueryParamsWriter(q *orderedQuery) *queryParamsWriter {
	w := &queryParamsWriter{q: q}
	w.Kind = smithy.ShapeTypeMap
	return w
}

func (w *queryParamsWriter) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	fn(state, w)
}
func (w *queryParamsWriter) WriteKey(schema *smithy.Schema, key string) {
	w.curKey = key
	w.skip = w.q.Has(key)
}
func (w *queryParamsWriter) WriteString(schema *smithy.Schema, v string) {
	if !w.skip {
		w.q.Add(w.curKey, v)
	}
}
func (w *queryParamsWriter) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	fn(state, w)
}

// payloadWriter handles a single httpPayload member: a structure/union
// delegates to the inner payload codec over the member alone; a blob or
// string sets the body directly and records the Content-Type to apply.
type payloadWriter struct {
	codec       smithy.Codec
	setBody     func([]byte)
	contentType *string
}

var _ smithy.ShapeSerializer = (*payloadWriter)(nil)

func newPayloadWriter(codec smithy.Codec, setBody func([]byte), contentType *string) *payloadWriter {
	return &payloadWriter{codec: codec, setBody: setBody, contentType: contentType}
}

func (w *payloadWriter) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	*w.contentType = w.codec.MediaType()
	ser := w.codec.Serializer()
	ser.WriteStruct(schema, v)
	w.setBody(bytesOf(ser))
}
func (w *payloadWriter) WriteString(schema *smithy.Schema, v string) {
	*w.contentType = contentTypeFor(schema, smithy.ShapeTypeString)
	w.setBody([]byte(v))
}
func (w *payloadWriter) WriteBlob(schema *smithy.Schema, v []byte) {
	*w.contentType = contentTypeFor(schema, smithy.ShapeTypeBlob)
	w.setBody(v)
}
func (w *payloadWriter) WriteBoolean(*smithy.Schema, bool)          {}
func (w *payloadWriter) WriteByte(*smithy.Schema, int8)             {}
func (w *payloadWriter) WriteShort(*smithy.Schema, int16)           {}
func (w *payloadWriter) WriteInteger(*smithy.Schema, int32)         {}
func (w *payloadWriter) WriteLong(*smithy.Schema, int64)            {}
func (w *payloadWriter) WriteFloat(*smithy.Schema, float32)         {}
func (w *payloadWriter) WriteDouble(*smithy.Schema, float64)        {}
func (w *payloadWriter) WriteBigInteger(*smithy.Schema, *big.Int)   {}
func (w *payloadWriter) WriteBigDecimal(*smithy.Schema, *big.Float) {}
func (w *payloadWriter) WriteTimestamp(*smithy.Schema, time.Time)   {}
func (w *payloadWriter) WriteList(*smithy.Schema, smithy.ListEncodeState, int, func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
}
func (w *payloadWriter) WriteMap(*smithy.Schema, smithy.MapEncodeState, int, func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
}
func (w *payloadWriter) WriteKey(*smithy.Schema, string)             {}
func (w *payloadWriter) WriteDocument(*smithy.Schema, smithy.Document2) {}
func (w *payloadWriter) WriteNull(*smithy.Schema)                    {}

// bodyCollector records each top-level write call made against a BODY-
// bound member as a replay closure, so all BODY members can later be fed
// through a single WriteStruct call into the payload codec (giving the
// codec its own framing, e.g. CBOR's member-name keys and indefinite-map
// wrapper, exactly as if they were the codec's only structure).
type bodyCollector struct {
	recorded []func(smithy.ShapeSerializer)
}

var _ smithy.ShapeSerializer = (*bodyCollector)(nil)

func (c *bodyCollector) record(fn func(smithy.ShapeSerializer)) { c.recorded = append(c.recorded, fn) }

func (c *bodyCollector) WriteBoolean(schema *smithy.Schema, v bool) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteBoolean(schema, v) })
}
func (c *bodyCollector) WriteByte(schema *smithy.Schema, v int8) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteByte(schema, v) })
}
func (c *bodyCollector) WriteShort(schema *smithy.Schema, v int16) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteShort(schema, v) })
}
func (c *bodyCollector) WriteInteger(schema *smithy.Schema, v int32) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteInteger(schema, v) })
}
func (c *bodyCollector) WriteLong(schema *smithy.Schema, v int64) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteLong(schema, v) })
}
func (c *bodyCollector) WriteFloat(schema *smithy.Schema, v float32) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteFloat(schema, v) })
}
func (c *bodyCollector) WriteDouble(schema *smithy.Schema, v float64) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteDouble(schema, v) })
}
func (c *bodyCollector) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteBigInteger(schema, v) })
}
func (c *bodyCollector) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteBigDecimal(schema, v) })
}
func (c *bodyCollector) WriteString(schema *smithy.Schema, v string) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteString(schema, v) })
}
func (c *bodyCollector) WriteBlob(schema *smithy.Schema, v []byte) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteBlob(schema, v) })
}
func (c *bodyCollector) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteTimestamp(schema, v) })
}
func (c *bodyCollector) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteStruct(schema, v) })
}
func (c *bodyCollector) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteList(schema, state, size, fn) })
}
func (c *bodyCollector) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteMap(schema, state, size, fn) })
}
func (c *bodyCollector) WriteKey(schema *smithy.Schema, key string) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteKey(schema, key) })
}
func (c *bodyCollector) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteDocument(schema, v) })
}
func (c *bodyCollector) WriteNull(schema *smithy.Schema) {
	c.record(func(s smithy.ShapeSerializer) { s.WriteNull(schema) })
}

// replaySerializable replays a bodyCollector's recorded calls, in capture
// order, against whatever ShapeSerializer is handed to it by WriteStruct.
type replaySerializable struct {
	recorded []func(smithy.ShapeSerializer)
}

func (r replaySerializable) Serialize(s smithy.ShapeSerializer) {
	for _, fn := range r.recorded {
		fn(s)
	}
}

// bytesOf extracts the accumulated bytes from a ShapeSerializer that
// supports it (every in-memory codec serializer, e.g. cbor.Serializer).
func bytesOf(ser smithy.ShapeSerializer) []byte {
	if b, ok := ser.(interface{ Bytes() []byte }); ok {
		return b.Bytes()
	}
	return nil
}
