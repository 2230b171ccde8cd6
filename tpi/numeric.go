package tpi

import (
	"encoding/binary"

	"github.com/wippyai/pdbtypes/errors"
)

// DecodeExtended decodes a numeric leaf. A tag below 0x8000 is the value
// itself and consumes nothing; otherwise the tag selects the width and
// signedness of the little-endian integer at the start of b. It returns the
// value and the number of bytes of b consumed.
//
// LF_UQUADWORD values above math.MaxInt64 wrap to negative.
func DecodeExtended(tag uint16, b []byte) (int64, int, error) {
	if tag < extendedMin {
		return int64(tag), 0, nil
	}

	width := 0
	switch LeafKind(tag) {
	case LeafChar:
		width = 1
	case LeafShort, LeafUShort:
		width = 2
	case LeafLong, LeafULong:
		width = 4
	case LeafQuadword, LeafUQuadword:
		width = 8
	default:
		return 0, 0, errors.UnknownTag(errors.PhaseMaterialize, nil, tag)
	}
	if len(b) < width {
		return 0, 0, errors.New(errors.PhaseMaterialize, errors.KindTruncated).
			Value(tag).
			Detail("%s needs %d bytes, %d left", LeafKind(tag), width, len(b)).
			Build()
	}

	var v int64
	switch LeafKind(tag) {
	case LeafChar:
		v = int64(int8(b[0]))
	case LeafShort:
		v = int64(int16(binary.LittleEndian.Uint16(b)))
	case LeafUShort:
		v = int64(binary.LittleEndian.Uint16(b))
	case LeafLong:
		v = int64(int32(binary.LittleEndian.Uint32(b)))
	case LeafULong:
		v = int64(binary.LittleEndian.Uint32(b))
	case LeafQuadword, LeafUQuadword:
		v = int64(binary.LittleEndian.Uint64(b))
	}
	return v, width, nil
}
