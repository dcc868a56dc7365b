package cbor

import (
	"fmt"
	"math"
	"math/big"
	"time"

	smithy "github.com/modulert/smithy-go"
	"github.com/modulert/smithy-go/document"
	"github.com/modulert/smithy-go/smithytime"
)

// Deserializer implements smithy.ShapeDeserializer over an in-memory CBOR
// byte slice, advancing a read cursor as each visitor method consumes a
// data item.
type Deserializer struct {
	buf []byte
	pos int
}

var _ smithy.ShapeDeserializer = (*Deserializer)(nil)

// NewDeserializer returns a CBOR deserializer positioned at the start of
// buf.
func NewDeserializer(buf []byte) *Deserializer {
	return &Deserializer{buf: buf}
}

func (d *Deserializer) fault(msg string, args ...any) error {
	return &smithy.ProtocolFaultError{Message: fmt.Sprintf(msg, args...)}
}

func (d *Deserializer) peekByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, d.fault("unexpected end of CBOR input")
	}
	return d.buf[d.pos], nil
}

func (d *Deserializer) readByte() (byte, error) {
	b, err := d.peekByte()
	if err != nil {
		return 0, err
	}
	d.pos++
	return b, nil
}

func (d *Deserializer) readN(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, d.fault("unexpected end of CBOR input, need %d bytes", n)
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// readHead reads the next data item's initial byte and argument, returning
// the major type, the decoded argument, and whether the item is an
// indefinite-length aggregate (major types 2-5 with minor 31).
func (d *Deserializer) readHead() (majorType, uint64, bool, error) {
	ib, err := d.readByte()
	if err != nil {
		return 0, 0, false, err
	}
	major := peekMajor(ib)
	minor := peekMinor(ib)

	switch minor {
	case minorIndefinite:
		return major, 0, true, nil
	case minorArg1:
		b, err := d.readByte()
		return major, uint64(b), false, err
	case minorArg2:
		b, err := d.readN(2)
		if err != nil {
			return 0, 0, false, err
		}
		return major, uint64(b[0])<<8 | uint64(b[1]), false, nil
	case minorArg4:
		b, err := d.readN(4)
		if err != nil {
			return 0, 0, false, err
		}
		var v uint64
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return major, v, false, nil
	case minorArg8:
		b, err := d.readN(8)
		if err != nil {
			return 0, 0, false, err
		}
		var v uint64
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return major, v, false, nil
	default:
		return major, uint64(minor), false, nil
	}
}

func (d *Deserializer) expectMajor(want majorType) (uint64, bool, error) {
	major, arg, indef, err := d.readHead()
	if err != nil {
		return 0, false, err
	}
	if major != want {
		return 0, false, d.fault("expected major type %d, got %d", want, major)
	}
	return arg, indef, nil
}

func (d *Deserializer) readTextString() (string, error) {
	arg, indef, err := d.expectMajor(majorString)
	if err != nil {
		return "", err
	}
	if indef {
		return d.readIndefiniteText()
	}
	b, err := d.readN(int(arg))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Deserializer) readIndefiniteText() (string, error) {
	var out []byte
	for {
		b, err := d.peekByte()
		if err != nil {
			return "", err
		}
		if b == breakByte {
			d.pos++
			return string(out), nil
		}
		arg, _, err := d.expectMajor(majorString)
		if err != nil {
			return "", err
		}
		chunk, err := d.readN(int(arg))
		if err != nil {
			return "", err
		}
		out = append(out, chunk...)
	}
}

func (d *Deserializer) readByteString() ([]byte, error) {
	arg, indef, err := d.expectMajor(majorSlice)
	if err != nil {
		return nil, err
	}
	if indef {
		var out []byte
		for {
			b, err := d.peekByte()
			if err != nil {
				return nil, err
			}
			if b == breakByte {
				d.pos++
				return out, nil
			}
			chunkArg, _, err := d.expectMajor(majorSlice)
			if err != nil {
				return nil, err
			}
			chunk, err := d.readN(int(chunkArg))
			if err != nil {
				return nil, err
			}
			out = append(out, chunk...)
		}
	}
	return d.readN(int(arg))
}

func (d *Deserializer) readIntValue() (int64, error) {
	major, arg, _, err := d.readHead()
	if err != nil {
		return 0, err
	}
	switch major {
	case majorUint:
		return int64(arg), nil
	case majorNegInt:
		return -1 - int64(arg), nil
	default:
		return 0, d.fault("expected integer, got major type %d", major)
	}
}

func (d *Deserializer) readFloatValue() (float64, error) {
	ib, err := d.readByte()
	if err != nil {
		return 0, err
	}
	if peekMajor(ib) != major7 {
		return 0, d.fault("expected float, got major type %d", peekMajor(ib))
	}
	switch peekMinor(ib) {
	case simpleFloat32:
		b, err := d.readN(4)
		if err != nil {
			return 0, err
		}
		var bits uint32
		for _, c := range b {
			bits = bits<<8 | uint32(c)
		}
		return float64(math.Float32frombits(bits)), nil
	case simpleFloat64:
		b, err := d.readN(8)
		if err != nil {
			return 0, err
		}
		var bits uint64
		for _, c := range b {
			bits = bits<<8 | uint64(c)
		}
		return math.Float64frombits(bits), nil
	default:
		return 0, d.fault("unsupported float minor value %d", peekMinor(ib))
	}
}

// ReadBoolean reads a boolean scalar.
func (d *Deserializer) ReadBoolean(schema *smithy.Schema) (bool, error) {
	ib, err := d.readByte()
	if err != nil {
		return false, err
	}
	if peekMajor(ib) != major7 {
		return false, d.fault("expected boolean, got major type %d", peekMajor(ib))
	}
	switch peekMinor(ib) {
	case simpleTrue:
		return true, nil
	case simpleFalse:
		return false, nil
	default:
		return false, d.fault("expected boolean simple value, got %d", peekMinor(ib))
	}
}

// ReadByte reads an int8 scalar.
func (d *Deserializer) ReadByte(schema *smithy.Schema) (int8, error) {
	v, err := d.readIntValue()
	return int8(v), err
}

// ReadShort reads an int16 scalar.
func (d *Deserializer) ReadShort(schema *smithy.Schema) (int16, error) {
	v, err := d.readIntValue()
	return int16(v), err
}

// ReadInteger reads an int32 scalar.
func (d *Deserializer) ReadInteger(schema *smithy.Schema) (int32, error) {
	v, err := d.readIntValue()
	return int32(v), err
}

// ReadLong reads an int64 scalar.
func (d *Deserializer) ReadLong(schema *smithy.Schema) (int64, error) {
	return d.readIntValue()
}

// ReadFloat reads a float32 scalar.
func (d *Deserializer) ReadFloat(schema *smithy.Schema) (float32, error) {
	v, err := d.readFloatValue()
	return float32(v), err
}

// ReadDouble reads a float64 scalar.
func (d *Deserializer) ReadDouble(schema *smithy.Schema) (float64, error) {
	return d.readFloatValue()
}

// ReadBigInteger reads either a plain integer or a tagged bignum byte
// string, per RFC 8949's tag-2/3 convention.
func (d *Deserializer) ReadBigInteger(schema *smithy.Schema) (*big.Int, error) {
	ib, err := d.peekByte()
	if err != nil {
		return nil, err
	}
	if peekMajor(ib) == majorTag {
		_, _, _, err := d.readHead()
		if err != nil {
			return nil, err
		}
		b, err := d.readByteString()
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(b)
		switch peekMinor(ib) {
		case tagNegBignum:
			n.Add(n, big.NewInt(1))
			n.Neg(n)
			return n, nil
		default:
			return n, nil
		}
	}

	v, err := d.readIntValue()
	if err != nil {
		return nil, err
	}
	return big.NewInt(v), nil
}

// ReadBigDecimal reads a tag-4 [exponent, mantissa] pair.
func (d *Deserializer) ReadBigDecimal(schema *smithy.Schema) (*big.Float, error) {
	_, _, err := d.expectMajor(majorTag)
	if err != nil {
		return nil, err
	}
	arg, _, err := d.expectMajor(majorList)
	if err != nil {
		return nil, err
	}
	if arg != 2 {
		return nil, d.fault("bigdecimal tag content must have 2 elements, got %d", arg)
	}
	exp, err := d.readIntValue()
	if err != nil {
		return nil, err
	}
	mantissa, err := d.ReadBigInteger(schema)
	if err != nil {
		return nil, err
	}

	f := new(big.Float).SetInt(mantissa)
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(absInt(exp)), nil))
	if exp >= 0 {
		f.Mul(f, scale)
	} else {
		f.Quo(f, scale)
	}
	return f, nil
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// ReadString reads a text-string scalar.
func (d *Deserializer) ReadString(schema *smithy.Schema) (string, error) {
	return d.readTextString()
}

// ReadBlob reads a byte-string scalar.
func (d *Deserializer) ReadBlob(schema *smithy.Schema) ([]byte, error) {
	return d.readByteString()
}

// ReadTimestamp reads a tag-1 epoch-seconds double.
func (d *Deserializer) ReadTimestamp(schema *smithy.Schema) (time.Time, error) {
	_, _, err := d.expectMajor(majorTag)
	if err != nil {
		return time.Time{}, err
	}
	v, err := d.readFloatValue()
	if err != nil {
		return time.Time{}, err
	}
	return smithytime.ParseEpochSeconds(v), nil
}

// ReadStruct reads a map (definite or indefinite), invoking fn once per
// entry with the matching member schema, or nil if the key names no
// member (unknownMember).
func (d *Deserializer) ReadStruct(schema *smithy.Schema, state any, fn func(state any, member *smithy.Schema, d smithy.ShapeDeserializer) error) error {
	arg, indef, err := d.expectMajor(majorMap)
	if err != nil {
		return err
	}
	return d.iterateMap(arg, indef, func() error {
		key, err := d.readTextString()
		if err != nil {
			return err
		}
		var member *smithy.Schema
		if schema != nil {
			member, _ = schema.Member(key)
		}
		return fn(state, member, d)
	})
}

// ReadList reads a list (definite or indefinite), invoking fn once per
// element.
func (d *Deserializer) ReadList(schema *smithy.Schema, state any, fn func(state any, d smithy.ShapeDeserializer) error) error {
	arg, indef, err := d.expectMajor(majorList)
	if err != nil {
		return err
	}
	return d.iterateList(arg, indef, func() error {
		return fn(state, d)
	})
}

// ReadStringMap reads a string-keyed map, invoking fn once per entry.
func (d *Deserializer) ReadStringMap(schema *smithy.Schema, state any, fn func(state any, key string, d smithy.ShapeDeserializer) error) error {
	arg, indef, err := d.expectMajor(majorMap)
	if err != nil {
		return err
	}
	return d.iterateMap(arg, indef, func() error {
		key, err := d.readTextString()
		if err != nil {
			return err
		}
		return fn(state, key, d)
	})
}

func (d *Deserializer) iterateMap(count uint64, indef bool, entry func() error) error {
	if indef {
		for {
			b, err := d.peekByte()
			if err != nil {
				return err
			}
			if b == breakByte {
				d.pos++
				return nil
			}
			if err := entry(); err != nil {
				return err
			}
		}
	}
	for i := uint64(0); i < count; i++ {
		if err := entry(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Deserializer) iterateList(count uint64, indef bool, elem func() error) error {
	if indef {
		for {
			b, err := d.peekByte()
			if err != nil {
				return err
			}
			if b == breakByte {
				d.pos++
				return nil
			}
			if err := elem(); err != nil {
				return err
			}
		}
	}
	for i := uint64(0); i < count; i++ {
		if err := elem(); err != nil {
			return err
		}
	}
	return nil
}

// ReadDocument recursively decodes an arbitrary CBOR value into a
// document.Value, resolving the "__type" discriminator for structures
// (the first key, named "__type", of an indefinite-length map).
func (d *Deserializer) ReadDocument(schema *smithy.Schema) (smithy.Document2, error) {
	v, err := d.readDocumentValue()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Deserializer) readDocumentValue() (document.Value, error) {
	ib, err := d.peekByte()
	if err != nil {
		return document.Value{}, err
	}
	major := peekMajor(ib)
	minor := peekMinor(ib)

	switch major {
	case majorUint, majorNegInt:
		v, err := d.readIntValue()
		if err != nil {
			return document.Value{}, err
		}
		return document.NewLong(v), nil
	case majorSlice:
		b, err := d.readByteString()
		if err != nil {
			return document.Value{}, err
		}
		return document.NewBlob(b), nil
	case majorString:
		s, err := d.readTextString()
		if err != nil {
			return document.Value{}, err
		}
		return document.NewString(s), nil
	case majorList:
		arg, indef, err := d.expectMajor(majorList)
		if err != nil {
			return document.Value{}, err
		}
		var items []document.Value
		err = d.iterateList(arg, indef, func() error {
			item, err := d.readDocumentValue()
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return document.Value{}, err
		}
		return document.NewList(items), nil
	case majorMap:
		return d.readDocumentMap()
	case majorTag:
		return d.readDocumentTagged(minor)
	case major7:
		return d.readDocumentSimple(minor)
	default:
		return document.Value{}, d.fault("unsupported CBOR major type %d in document", major)
	}
}

func (d *Deserializer) readDocumentMap() (document.Value, error) {
	arg, indef, err := d.expectMajor(majorMap)
	if err != nil {
		return document.Value{}, err
	}

	var fields []document.Field
	readEntry := func() error {
		key, err := d.readTextString()
		if err != nil {
			return err
		}
		val, err := d.readDocumentValue()
		if err != nil {
			return err
		}
		fields = append(fields, document.Field{Name: key, Value: val})
		return nil
	}

	if err := d.iterateMap(arg, indef, readEntry); err != nil {
		return document.Value{}, err
	}

	if len(fields) > 0 && fields[0].Name == "__type" {
		typeID, _ := fields[0].Value.String()
		return document.NewStruct(typeID, fields[1:]), nil
	}
	return document.NewMap(fields), nil
}

func (d *Deserializer) readDocumentTagged(tag byte) (document.Value, error) {
	switch uint64(tag) {
	case tagEpochTime:
		_, _, _, err := d.readHead()
		if err != nil {
			return document.Value{}, err
		}
		v, err := d.readFloatValue()
		if err != nil {
			return document.Value{}, err
		}
		return document.NewTimestamp(smithytime.ParseEpochSeconds(v)), nil
	case tagPosBignum, tagNegBignum:
		schema := smithy.NewSchema(smithy.ShapeID{}, smithy.ShapeTypeBigInteger, nil)
		bi, err := d.ReadBigInteger(schema)
		if err != nil {
			return document.Value{}, err
		}
		return document.NewBigInteger(bi), nil
	case tagBigDecimal:
		schema := smithy.NewSchema(smithy.ShapeID{}, smithy.ShapeTypeBigDecimal, nil)
		bd, err := d.ReadBigDecimal(schema)
		if err != nil {
			return document.Value{}, err
		}
		return document.NewBigDecimal(bd), nil
	default:
		// Unknown tag: skip the tag header and transparently decode the
		// tagged content itself.
		_, _, _, err := d.readHead()
		if err != nil {
			return document.Value{}, err
		}
		return d.readDocumentValue()
	}
}

func (d *Deserializer) readDocumentSimple(minor byte) (document.Value, error) {
	switch minor {
	case simpleTrue:
		d.pos++
		return document.NewBool(true), nil
	case simpleFalse:
		d.pos++
		return document.NewBool(false), nil
	case simpleNull, simpleUndefined:
		d.pos++
		return document.Null(), nil
	case simpleFloat32, simpleFloat64:
		v, err := d.readFloatValue()
		if err != nil {
			return document.Value{}, err
		}
		return document.NewDouble(v), nil
	default:
		return document.Value{}, d.fault("unsupported simple value minor %d in document", minor)
	}
}

// ContainerSize reports the element/member count of the aggregate at the
// current position, or -1 for an indefinite-length container.
func (d *Deserializer) ContainerSize() int {
	ib, err := d.peekByte()
	if err != nil {
		return -1
	}
	if peekMinor(ib) == minorIndefinite {
		return -1
	}
	save := d.pos
	_, arg, _, err := d.readHead()
	d.pos = save
	if err != nil {
		return -1
	}
	return int(arg)
}

// IsNull reports whether the value at the current position is null,
// without consuming it.
func (d *Deserializer) IsNull() bool {
	ib, err := d.peekByte()
	if err != nil {
		return false
	}
	return peekMajor(ib) == major7 && (peekMinor(ib) == simpleNull || peekMinor(ib) == simpleUndefined)
}

// Skip discards the value at the current position, advancing past it.
func (d *Deserializer) Skip() error {
	_, err := d.readDocumentValue()
	return err
}
