package container

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Cursor is a bounds-checked reader over an in-memory buffer. Every read
// verifies that it fits within the remaining bytes before touching the buffer
// and advances only on success, so a decode routine written against it can
// never index past the declared length. All multi-byte reads are
// little-endian.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the total buffer length.
func (c *Cursor) Len() int { return len(c.buf) }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.off }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// ReadN returns the next n bytes without copying. The slice aliases the
// backing buffer and is only valid while the buffer is.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, ErrUnexpectedEOF
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *Cursor) Skip(n int) error {
	if n < 0 || n > c.Remaining() {
		return ErrUnexpectedEOF
	}
	c.off += n
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.ReadN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadF32() (float32, error) {
	u, err := c.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// ReadString reads a fixed-width name field of n bytes and returns the text
// up to the first NUL. Bytes after the terminator are ignored; a field with
// no terminator uses all n bytes.
func (c *Cursor) ReadString(n int) (string, error) {
	b, err := c.ReadN(n)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

// Window returns a sub-cursor over [off, off+size) of the full buffer,
// independent of the current position. Used for payload regions addressed by
// explicit offset/size fields.
func (c *Cursor) Window(off, size uint32) (*Cursor, error) {
	end := uint64(off) + uint64(size)
	if end > uint64(len(c.buf)) {
		return nil, ErrUnexpectedEOF
	}
	return &Cursor{buf: c.buf[off:end]}, nil
}
