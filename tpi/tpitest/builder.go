// Package tpitest assembles type information streams for tests.
package tpitest

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	versionV80 = 20040203
	headerLen  = 56

	leafFieldList = 0x1203
	leafIndex     = 0x1404
	leafEnumerate = 0x1502
	leafEnum      = 0x1507

	leafChar      = 0x8000
	leafShort     = 0x8001
	leafUShort    = 0x8002
	leafLong      = 0x8003
	leafULong     = 0x8004
	leafQuadword  = 0x8009
	leafUQuadword = 0x800a

	propForwardRef = 0x80
)

// FirstID is the conventional first type id.
const FirstID = 0x1000

// Builder appends records and produces a complete stream. Record ids are
// assigned in append order starting at the first id.
type Builder struct {
	records [][]byte
	version uint32
	first   uint32
	end     *uint32
}

// New returns a builder for a version 8.0 stream starting at FirstID.
func New() *Builder {
	return &Builder{version: versionV80, first: FirstID}
}

// Version overrides the header version.
func (b *Builder) Version(v uint32) *Builder {
	b.version = v
	return b
}

// First sets the first type id.
func (b *Builder) First(id uint32) *Builder {
	b.first = id
	return b
}

// End overrides the header's one-past-last id.
func (b *Builder) End(id uint32) *Builder {
	b.end = &id
	return b
}

// Next returns the id the next appended record will get.
func (b *Builder) Next() uint32 {
	return b.first + uint32(len(b.records))
}

// Raw appends a record with the given kind and payload.
func (b *Builder) Raw(kind uint16, payload []byte) uint32 {
	rec := binary.LittleEndian.AppendUint16(nil, uint16(len(payload)+2))
	rec = binary.LittleEndian.AppendUint16(rec, kind)
	rec = append(rec, payload...)
	return b.RawBytes(rec)
}

// RawBytes appends a record verbatim, length field included.
func (b *Builder) RawBytes(rec []byte) uint32 {
	id := b.Next()
	b.records = append(b.records, rec)
	return id
}

// FieldList appends an LF_FIELDLIST record made of the given sub-records.
func (b *Builder) FieldList(subs ...[]byte) uint32 {
	return b.Raw(leafFieldList, bytes.Join(subs, nil))
}

// Enum appends an LF_ENUM record.
func (b *Builder) Enum(name string, underlying, fieldList uint32) uint32 {
	return b.EnumProps(name, underlying, fieldList, 0, 0)
}

// ForwardEnum appends an LF_ENUM forward reference.
func (b *Builder) ForwardEnum(name string) uint32 {
	return b.EnumProps(name, 0, 0, propForwardRef, 0)
}

// EnumProps appends an LF_ENUM record with explicit properties and count.
func (b *Builder) EnumProps(name string, underlying, fieldList uint32, props, count uint16) uint32 {
	p := binary.LittleEndian.AppendUint16(nil, count)
	p = binary.LittleEndian.AppendUint16(p, props)
	p = binary.LittleEndian.AppendUint32(p, underlying)
	p = binary.LittleEndian.AppendUint32(p, fieldList)
	p = append(p, name...)
	p = append(p, 0)
	return b.Raw(leafEnum, pad(p, 4))
}

// Bytes returns the encoded stream.
func (b *Builder) Bytes() []byte {
	end := b.Next()
	if b.end != nil {
		end = *b.end
	}

	out := make([]byte, 0, headerLen)
	out = binary.LittleEndian.AppendUint32(out, b.version)
	out = binary.LittleEndian.AppendUint32(out, headerLen)
	out = binary.LittleEndian.AppendUint32(out, b.first)
	out = binary.LittleEndian.AppendUint32(out, end)

	var body []byte
	for _, r := range b.records {
		body = append(body, r...)
	}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = append(out, make([]byte, headerLen-len(out))...)
	return append(out, body...)
}

// Reader returns the encoded stream as a *bytes.Reader.
func (b *Builder) Reader() *bytes.Reader {
	return bytes.NewReader(b.Bytes())
}

// Enumerate encodes an LF_ENUMERATE sub-record, padded to 4 bytes.
func Enumerate(name string, value int64) []byte {
	p := binary.LittleEndian.AppendUint16(nil, leafEnumerate)
	p = binary.LittleEndian.AppendUint16(p, 3) // public
	p = append(p, Value(value)...)
	p = append(p, name...)
	p = append(p, 0)
	return pad(p, 4)
}

// EnumerateRaw encodes an LF_ENUMERATE sub-record around an already encoded
// value, without terminator or padding.
func EnumerateRaw(value []byte, name []byte) []byte {
	p := binary.LittleEndian.AppendUint16(nil, leafEnumerate)
	p = binary.LittleEndian.AppendUint16(p, 3)
	p = append(p, value...)
	return append(p, name...)
}

// Index encodes an LF_INDEX continuation sub-record.
func Index(target uint32) []byte {
	p := binary.LittleEndian.AppendUint16(nil, leafIndex)
	p = binary.LittleEndian.AppendUint16(p, 0)
	return binary.LittleEndian.AppendUint32(p, target)
}

// Value encodes v as a numeric leaf using the smallest encoding that holds
// it: the 16-bit slot followed by any extended bytes.
func Value(v int64) []byte {
	var p []byte
	switch {
	case v >= 0 && v < 0x8000:
		return binary.LittleEndian.AppendUint16(p, uint16(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		p = binary.LittleEndian.AppendUint16(p, leafChar)
		return append(p, byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		p = binary.LittleEndian.AppendUint16(p, leafShort)
		return binary.LittleEndian.AppendUint16(p, uint16(int16(v)))
	case v >= 0 && v <= math.MaxUint16:
		p = binary.LittleEndian.AppendUint16(p, leafUShort)
		return binary.LittleEndian.AppendUint16(p, uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		p = binary.LittleEndian.AppendUint16(p, leafLong)
		return binary.LittleEndian.AppendUint32(p, uint32(int32(v)))
	case v >= 0 && v <= math.MaxUint32:
		p = binary.LittleEndian.AppendUint16(p, leafULong)
		return binary.LittleEndian.AppendUint32(p, uint32(v))
	default:
		p = binary.LittleEndian.AppendUint16(p, leafQuadword)
		return binary.LittleEndian.AppendUint64(p, uint64(v))
	}
}

// UValue encodes v as an LF_UQUADWORD numeric leaf.
func UValue(v uint64) []byte {
	p := binary.LittleEndian.AppendUint16(nil, leafUQuadword)
	return binary.LittleEndian.AppendUint64(p, v)
}

// pad appends LF_PADn bytes until len(p) is a multiple of n.
func pad(p []byte, n int) []byte {
	for len(p)%n != 0 {
		p = append(p, 0xf0|byte(n-len(p)%n))
	}
	return p
}
