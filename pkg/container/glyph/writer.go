package glyph

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Writer builds a canonical glyph container with the same invariants the
// decoder enforces.
type Writer struct {
	oversample uint8
	names      []string
	blocks     []Block
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) SetOversample(code uint8) error {
	if code > MaxOversample {
		return fmt.Errorf("oversample code %d out of range", code)
	}
	w.oversample = code
	return nil
}

func (w *Writer) Add(name string, b Block) error {
	if name == "" || len(name) > nameLen {
		return fmt.Errorf("entry name %q must be 1..%d bytes", name, nameLen)
	}
	if len(b.Name) > nameLen || len(b.Face) > nameLen {
		return fmt.Errorf("glyph/face name longer than %d bytes", nameLen)
	}
	if b.Width > maxGlyphDim || b.Height > maxGlyphDim {
		return fmt.Errorf("glyph bitmap %dx%d exceeds %d", b.Width, b.Height, maxGlyphDim)
	}
	if len(b.Pixels) != int(b.Width)*int(b.Height) {
		return fmt.Errorf("pixel payload %d bytes, want %d", len(b.Pixels), int(b.Width)*int(b.Height))
	}
	if !(b.BearingX >= -maxMetricAbs && b.BearingX <= maxMetricAbs) ||
		!(b.BearingY >= -maxMetricAbs && b.BearingY <= maxMetricAbs) {
		return fmt.Errorf("bearing out of range")
	}
	if !(b.Advance >= 0 && b.Advance <= maxAdvance) {
		return fmt.Errorf("advance %v out of range", b.Advance)
	}
	for _, v := range b.Quad {
		if !(v >= -maxMetricAbs && v <= maxMetricAbs) {
			return fmt.Errorf("quad vertex %v out of range", v)
		}
	}
	w.names = append(w.names, name)
	w.blocks = append(w.blocks, b)
	return nil
}

func (w *Writer) Encode() ([]byte, error) {
	if len(w.blocks) == 0 {
		return nil, fmt.Errorf("container must hold at least one glyph")
	}

	tableBytes := uint32(len(w.blocks)) * TableEntrySize
	var blockBytes uint32
	sizes := make([]uint32, len(w.blocks))
	for i, b := range w.blocks {
		sizes[i] = BlockFixedSize + uint32(len(b.Pixels))
		blockBytes += sizes[i]
	}

	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(w.oversample)
	putU32(&buf, uint32(len(w.blocks)))
	putU32(&buf, tableBytes)
	putU32(&buf, blockBytes)

	offset := uint32(buf.Len()) + tableBytes
	for i, name := range w.names {
		putFixed(&buf, name, nameLen)
		putU32(&buf, offset)
		putU32(&buf, sizes[i])
		offset += sizes[i]
	}

	for _, b := range w.blocks {
		putFixed(&buf, b.Name, nameLen)
		putFixed(&buf, b.Face, nameLen)
		putU32(&buf, uint32(b.Rune))
		putU16(&buf, b.Width)
		putU16(&buf, b.Height)
		putF32(&buf, b.BearingX)
		putF32(&buf, b.BearingY)
		putF32(&buf, b.Advance)
		for _, v := range b.Quad {
			putF32(&buf, v)
		}
		putU32(&buf, BlockFixedSize)
		putU32(&buf, uint32(len(b.Pixels)))
		buf.Write(b.Pixels)
	}
	return buf.Bytes(), nil
}

func (w *Writer) WriteFile(path string) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func putU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func putU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func putF32(buf *bytes.Buffer, v float32) {
	putU32(buf, math.Float32bits(v))
}

func putFixed(buf *bytes.Buffer, s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	buf.Write(b)
}
