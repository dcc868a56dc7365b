package visitor

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/smithytime"
)

// Render is a ShapeSerializer that accumulates a human-readable rendering
// of the shape it walks, for logging and debugging (never for wire
// output). Blobs render as unsigned two-digit hex per byte; this
// deliberately departs from the prior runtime's toString, which iterated
// bytes with signed semantics and produced negative hex for bytes >= 0x80.
type Render struct {
	sb strings.Builder

	// needComma tracks whether the next member/element in the current
	// aggregate needs a leading ", " separator.
	needComma []bool
}

var _ smithy.ShapeSerializer = (*Render)(nil)

// NewRender returns a Render visitor with an empty buffer.
func NewRender() *Render { return &Render{} }

// String returns the accumulated rendering.
func (r *Render) String() string { return r.sb.String() }

func (r *Render) separator() {
	n := len(r.needComma)
	if n == 0 {
		return
	}
	if r.needComma[n-1] {
		r.sb.WriteString(", ")
	}
	r.needComma[n-1] = true
}

func (r *Render) pushFrame() { r.needComma = append(r.needComma, false) }
func (r *Render) popFrame()  { r.needComma = r.needComma[:len(r.needComma)-1] }

func (r *Render) memberPrefix(schema *smithy.Schema) {
	r.separator()
	if name := schema.MemberName(); name != "" {
		r.sb.WriteString(name)
		r.sb.WriteString("=")
	}
}

func (r *Render) WriteBoolean(schema *smithy.Schema, v bool) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatBool(v))
}

func (r *Render) WriteByte(schema *smithy.Schema, v int8) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatInt(int64(v), 10))
}

func (r *Render) WriteShort(schema *smithy.Schema, v int16) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatInt(int64(v), 10))
}

func (r *Render) WriteInteger(schema *smithy.Schema, v int32) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatInt(int64(v), 10))
}

func (r *Render) WriteLong(schema *smithy.Schema, v int64) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatInt(v, 10))
}

func (r *Render) WriteFloat(schema *smithy.Schema, v float32) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
}

func (r *Render) WriteDouble(schema *smithy.Schema, v float64) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
}

func (r *Render) WriteBigInteger(schema *smithy.Schema, v *big.Int) {
	r.memberPrefix(schema)
	r.sb.WriteString(v.String())
}

func (r *Render) WriteBigDecimal(schema *smithy.Schema, v *big.Float) {
	r.memberPrefix(schema)
	r.sb.WriteString(v.Text('g', -1))
}

func (r *Render) WriteString(schema *smithy.Schema, v string) {
	r.memberPrefix(schema)
	r.sb.WriteString(strconv.Quote(v))
}

// WriteBlob renders each byte as unsigned two-digit hex.
func (r *Render) WriteBlob(schema *smithy.Schema, v []byte) {
	r.memberPrefix(schema)
	r.sb.WriteString("0x")
	for _, b := range v {
		fmt.Fprintf(&r.sb, "%02X", b)
	}
}

func (r *Render) WriteTimestamp(schema *smithy.Schema, v time.Time) {
	r.memberPrefix(schema)
	r.sb.WriteString(smithytime.FormatDateTime(v))
}

func (r *Render) WriteStruct(schema *smithy.Schema, v smithy.Serializable) {
	r.memberPrefix(schema)
	r.sb.WriteString("{")
	r.pushFrame()
	if v != nil {
		v.Serialize(r)
	}
	r.popFrame()
	r.sb.WriteString("}")
}

func (r *Render) WriteList(schema *smithy.Schema, state smithy.ListEncodeState, size int, fn func(smithy.ListEncodeState, smithy.ShapeSerializer)) {
	r.memberPrefix(schema)
	r.sb.WriteString("[")
	r.pushFrame()
	fn(state, r)
	r.popFrame()
	r.sb.WriteString("]")
}

func (r *Render) WriteMap(schema *smithy.Schema, state smithy.MapEncodeState, size int, fn func(smithy.MapEncodeState, smithy.ShapeSerializer)) {
	r.memberPrefix(schema)
	r.sb.WriteString("{")
	r.pushFrame()
	fn(state, r)
	r.popFrame()
	r.sb.WriteString("}")
}

func (r *Render) WriteKey(schema *smithy.Schema, key string) {
	r.separator()
	r.needComma[len(r.needComma)-1] = false
	r.sb.WriteString(strconv.Quote(key))
	r.sb.WriteString(": ")
}

func (r *Render) WriteDocument(schema *smithy.Schema, v smithy.Document2) {
	r.memberPrefix(schema)
	r.sb.WriteString(fmt.Sprintf("<document:%v>", v.Type()))
}

func (r *Render) WriteNull(schema *smithy.Schema) {
	r.memberPrefix(schema)
	r.sb.WriteString("null")
}
