package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned when fewer bytes remain than a read needs.
var ErrTruncated = errors.New("truncated read")

// Stream is a random-access byte stream of known length.
// *bytes.Reader and *io.SectionReader both satisfy it.
type Stream interface {
	io.ReaderAt
	Size() int64
}

// Reader is a bounds-checked little-endian reader over [0, Size) of a Stream.
// It keeps its own cursor; the stream's read position is never used.
type Reader struct {
	s    Stream
	size int64
	pos  int64
}

// NewReader creates a new Reader positioned at offset 0.
func NewReader(s Stream) *Reader {
	return &Reader{s: s, size: s.Size()}
}

// Position returns the current byte position.
func (r *Reader) Position() int64 {
	return r.pos
}

// Len returns the stream length.
func (r *Reader) Len() int64 {
	return r.size
}

// Remaining returns the number of bytes between the cursor and the end.
func (r *Reader) Remaining() int64 {
	return r.size - r.pos
}

// Seek moves the cursor to an absolute offset. Seeking to the end is allowed,
// past it is not.
func (r *Reader) Seek(off int64) error {
	if off < 0 || off > r.size {
		return r.wrapError(fmt.Errorf("seek to %d of %d: %w", off, r.size, ErrTruncated))
	}
	r.pos = off
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int64) error {
	return r.Seek(r.pos + n)
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || int64(n) > r.size-r.pos {
		return nil, r.wrapError(fmt.Errorf("read %d bytes with %d left: %w", n, r.size-r.pos, ErrTruncated))
	}
	buf := make([]byte, n)
	got, err := r.s.ReadAt(buf, r.pos)
	if got < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrTruncated
		}
		return nil, r.wrapError(err)
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

// ParseError represents an error during stream parsing with position information.
type ParseError struct {
	Err      error
	Section  string
	Position int64
}

func (e *ParseError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("tpi: %s at position %d: %v", e.Section, e.Position, e.Err)
	}
	return fmt.Sprintf("tpi: at position %d: %v", e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WrapError creates a ParseError with the current position.
func (r *Reader) WrapError(section string, err error) error {
	return &ParseError{
		Position: r.pos,
		Section:  section,
		Err:      err,
	}
}
