package tpi

import (
	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi/internal/binary"
)

// Stream is a random-access view of the type information stream. Opening it
// inside the container is the caller's job; *bytes.Reader and
// *io.SectionReader satisfy it.
type Stream = binary.Stream

// headerLen is the encoded size of Header.
const headerLen = 56

// BufferSpan locates a side buffer inside the hash stream.
type BufferSpan struct {
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

// Header is the fixed stream header. Only the first four fields drive
// decoding; the hash stream fields are kept for diagnostics.
type Header struct {
	Version            uint32     `json:"version"`
	HeaderSize         uint32     `json:"header_size"`
	TypeIndexBegin     TypeID     `json:"type_index_begin"`
	TypeIndexEnd       TypeID     `json:"type_index_end"`
	TypeRecordBytes    uint32     `json:"type_record_bytes"`
	HashStreamIndex    uint16     `json:"hash_stream_index"`
	HashAuxStreamIndex uint16     `json:"hash_aux_stream_index"`
	HashKeySize        uint32     `json:"hash_key_size"`
	NumHashBuckets     uint32     `json:"num_hash_buckets"`
	HashValues         BufferSpan `json:"hash_values"`
	IndexOffsets       BufferSpan `json:"index_offsets"`
	HashAdjusters      BufferSpan `json:"hash_adjusters"`
}

// Range returns the inclusive id range of the stream. TypeIndexEnd is stored
// one past the last id. ok is false when last <= first, which is a valid,
// empty stream.
func (h *Header) Range() (first, last TypeID, ok bool) {
	first = h.TypeIndexBegin
	if h.TypeIndexEnd <= first {
		return first, first, false
	}
	last = h.TypeIndexEnd - 1
	return first, last, last > first
}

// ReadHeader reads and validates the stream header.
func ReadHeader(s Stream) (*Header, error) {
	return readHeader(binary.NewReader(s))
}

// readHeader validates the header and leaves r at the first record.
func readHeader(r *binary.Reader) (*Header, error) {
	if err := r.Seek(0); err != nil {
		return nil, errors.Truncated(errors.PhaseHeader, 0, headerLen, err)
	}
	buf, err := r.ReadBytes(headerLen)
	if err != nil {
		return nil, errors.Truncated(errors.PhaseHeader, 0, headerLen, r.WrapError("header", err))
	}

	c := binary.NewCursor(buf)
	u32 := func() uint32 { v, _ := c.ReadU32(); return v }
	u16 := func() uint16 { v, _ := c.ReadU16(); return v }

	h := &Header{}
	h.Version = u32()
	h.HeaderSize = u32()
	h.TypeIndexBegin = TypeID(u32())
	h.TypeIndexEnd = TypeID(u32())
	h.TypeRecordBytes = u32()
	h.HashStreamIndex = u16()
	h.HashAuxStreamIndex = u16()
	h.HashKeySize = u32()
	h.NumHashBuckets = u32()
	h.HashValues = BufferSpan{Offset: u32(), Length: u32()}
	h.IndexOffsets = BufferSpan{Offset: u32(), Length: u32()}
	h.HashAdjusters = BufferSpan{Offset: u32(), Length: u32()}

	if h.Version != VersionV80 {
		return nil, errors.BadVersion(h.Version, VersionV80)
	}
	if err := r.Seek(int64(h.HeaderSize)); err != nil {
		return nil, errors.Truncated(errors.PhaseHeader, int64(h.HeaderSize), 0, err)
	}
	return h, nil
}
