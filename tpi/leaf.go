package tpi

import "fmt"

// StreamIndex is the fixed stream number of the type information stream
// inside a PDB container.
const StreamIndex = 2

// VersionV80 is the only supported stream header version.
const VersionV80 = 20040203

// TypeID identifies a type record. Ids are dense and contiguous in a stream.
type TypeID uint32

func (id TypeID) String() string {
	return fmt.Sprintf("0x%04x", uint32(id))
}

// LeafKind is the 16-bit tag at the start of every type record and
// field-list sub-record.
type LeafKind uint16

// Record, sub-record and numeric leaf tags.
const (
	LeafFieldList LeafKind = 0x1203
	LeafIndex     LeafKind = 0x1404
	LeafEnumerate LeafKind = 0x1502
	LeafEnum      LeafKind = 0x1507

	LeafChar      LeafKind = 0x8000
	LeafShort     LeafKind = 0x8001
	LeafUShort    LeafKind = 0x8002
	LeafLong      LeafKind = 0x8003
	LeafULong     LeafKind = 0x8004
	LeafQuadword  LeafKind = 0x8009
	LeafUQuadword LeafKind = 0x800a
)

func (k LeafKind) String() string {
	switch k {
	case LeafFieldList:
		return "LF_FIELDLIST"
	case LeafIndex:
		return "LF_INDEX"
	case LeafEnumerate:
		return "LF_ENUMERATE"
	case LeafEnum:
		return "LF_ENUM"
	case LeafChar:
		return "LF_CHAR"
	case LeafShort:
		return "LF_SHORT"
	case LeafUShort:
		return "LF_USHORT"
	case LeafLong:
		return "LF_LONG"
	case LeafULong:
		return "LF_ULONG"
	case LeafQuadword:
		return "LF_QUADWORD"
	case LeafUQuadword:
		return "LF_UQUADWORD"
	default:
		return fmt.Sprintf("LF_0x%04x", uint16(k))
	}
}

// Enum property bits (CV_prop_t).
const (
	PropForwardRef    uint16 = 0x0080
	PropHasUniqueName uint16 = 0x0200
)

// extendedMin is the smallest raw 16-bit value that is a numeric leaf tag
// rather than a literal.
const extendedMin = 0x8000
