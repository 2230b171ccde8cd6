package tpi

import (
	"iter"

	"github.com/wippyai/pdbtypes/errors"
	"github.com/wippyai/pdbtypes/tpi/internal/binary"
)

// minRecordLen is the smallest declared record length: the kind tag.
const minRecordLen = 2

// Entry locates one type record.
type Entry struct {
	// Offset of the record's length field from the start of the stream.
	Offset int64
	Kind   LeafKind
}

// Index maps every id in [First, Last] to its record. It is built by a
// single forward pass and never modified afterwards.
type Index struct {
	entries []Entry
	first   TypeID
	last    TypeID
}

func (x *Index) First() TypeID { return x.first }
func (x *Index) Last() TypeID  { return x.last }
func (x *Index) Len() int      { return len(x.entries) }

// Contains reports whether id lies in [First, Last].
func (x *Index) Contains(id TypeID) bool {
	return id >= x.first && id <= x.last && len(x.entries) > 0
}

// Lookup returns the entry for id.
func (x *Index) Lookup(id TypeID) (Entry, bool) {
	if !x.Contains(id) {
		return Entry{}, false
	}
	return x.entries[id-x.first], true
}

// KindOf returns the record kind of id, or 0 if id is out of range.
func (x *Index) KindOf(id TypeID) LeafKind {
	e, _ := x.Lookup(id)
	return e.Kind
}

// IsFieldList reports whether id is in range and indexed as LF_FIELDLIST.
func (x *Index) IsFieldList(id TypeID) bool {
	e, ok := x.Lookup(id)
	return ok && e.Kind == LeafFieldList
}

// All iterates over the entries in ascending id order.
func (x *Index) All() iter.Seq2[TypeID, Entry] {
	return func(yield func(TypeID, Entry) bool) {
		for i, e := range x.entries {
			if !yield(x.first+TypeID(i), e) {
				return
			}
		}
	}
}

// IndexRecords reads the header of s and indexes its type records.
func IndexRecords(s Stream) (*Index, error) {
	r := binary.NewReader(s)
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	first, last, ok := h.Range()
	if !ok {
		return &Index{first: first, last: first}, nil
	}
	return indexRecords(r, first, last)
}

// indexRecords walks records from the reader's position, one per id in
// [first, last]. Only offsets and kinds are kept. Any failure discards the
// whole table.
func indexRecords(r *binary.Reader, first, last TypeID) (*Index, error) {
	n := uint64(last) - uint64(first) + 1

	// every record takes at least its length and kind fields
	if need := n * 4; need > uint64(r.Remaining()) {
		return nil, errors.New(errors.PhaseIndex, errors.KindTruncated).
			Value(n).
			Detail("%d records need at least %d bytes, %d left", n, need, r.Remaining()).
			Build()
	}

	entries := make([]Entry, n)
	for i := range entries {
		id := first + TypeID(i)
		off := r.Position()

		length, err := r.ReadU16()
		if err != nil {
			return nil, indexTruncated(r, id, off, err)
		}
		if length < minRecordLen {
			return nil, errors.Corrupt(errors.PhaseIndex, uint32(id), off, length)
		}
		kind, err := r.ReadU16()
		if err != nil {
			return nil, indexTruncated(r, id, off, err)
		}
		if err := r.Skip(int64(length) - minRecordLen); err != nil {
			return nil, indexTruncated(r, id, off, err)
		}

		entries[i] = Entry{Offset: off, Kind: LeafKind(kind)}
	}

	return &Index{entries: entries, first: first, last: last}, nil
}

func indexTruncated(r *binary.Reader, id TypeID, off int64, err error) error {
	e := errors.Truncated(errors.PhaseIndex, off, minRecordLen, r.WrapError("record", err))
	e.Path = []string{id.String()}
	return e
}
