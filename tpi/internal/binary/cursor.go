package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrUnterminated is returned by CString when no zero byte remains.
var ErrUnterminated = errors.New("missing string terminator")

// Cursor reads from one in-memory record body. Every read is checked against
// the remaining bytes, so nothing can be read past the declared record length.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a cursor at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the position relative to the start of the buffer.
func (c *Cursor) Offset() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Rest returns the unread bytes without consuming them.
func (c *Cursor) Rest() []byte { return c.buf[c.off:] }

// Skip consumes n bytes.
func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return ErrTruncated
	}
	c.off += n
	return nil
}

// ReadBytes consumes and returns n bytes. The result aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrTruncated
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// CString consumes a zero-terminated string and its terminator. The returned
// bytes exclude the terminator and alias the buffer. If no zero byte remains
// the cursor is left unchanged.
func (c *Cursor) CString() ([]byte, error) {
	rest := c.Rest()
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return nil, ErrUnterminated
	}
	c.off += n + 1
	return rest[:n], nil
}

// AlignFrom pads the cursor so that its distance from base, an earlier
// buffer offset, is a multiple of align.
func (c *Cursor) AlignFrom(base, align int) error {
	if rem := (c.off - base) % align; rem != 0 {
		return c.Skip(align - rem)
	}
	return nil
}
