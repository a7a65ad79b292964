package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Writer builds a canonical model container: header, then the table, then
// every block in insertion order. It enforces the same invariants the decoder
// checks, so a written file always round-trips.
type Writer struct {
	scaleCode uint8
	names     []string
	blocks    []Block
}

func NewWriter() *Writer {
	return &Writer{}
}

// SetScaleCode sets the global scale-factor code (0..8).
func (w *Writer) SetScaleCode(code uint8) error {
	if code > MaxScaleCode {
		return fmt.Errorf("scale code %d out of range", code)
	}
	w.scaleCode = code
	return nil
}

// Add appends one asset. The entry name and all block fields are validated
// up front; a rejected block leaves the writer unchanged.
func (w *Writer) Add(name string, b Block) error {
	if name == "" || len(name) > nameLen {
		return fmt.Errorf("entry name %q must be 1..%d bytes", name, nameLen)
	}
	if err := validateBlock(b); err != nil {
		return err
	}
	w.names = append(w.names, name)
	w.blocks = append(w.blocks, b)
	return nil
}

// Encode serializes the container.
func (w *Writer) Encode() ([]byte, error) {
	if len(w.blocks) == 0 {
		return nil, fmt.Errorf("container must hold at least one asset")
	}

	tableBytes := uint32(len(w.blocks)) * TableEntrySize
	var blockBytes uint32
	sizes := make([]uint32, len(w.blocks))
	for i, b := range w.blocks {
		sizes[i] = blockSize(b)
		blockBytes += sizes[i]
	}

	var buf bytes.Buffer
	buf.WriteString(Magic)
	buf.WriteByte(FormatVersion)
	buf.WriteByte(w.scaleCode)
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
		writeBlock(&buf, b)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the container and writes it to path.
func (w *Writer) WriteFile(path string) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func blockSize(b Block) uint32 {
	return BlockFixedSize +
		uint32(len(b.Vertices))*VertexSize +
		uint32(len(b.Indices))*IndexSize
}

func validateBlock(b Block) error {
	if len(b.Node) > nameLen || len(b.Mesh) > nameLen {
		return fmt.Errorf("node/mesh name longer than %d bytes", nameLen)
	}
	if len(b.Path) > pathLen {
		return fmt.Errorf("path longer than %d bytes", pathLen)
	}
	if b.Flags&^flagsMask != 0 {
		return fmt.Errorf("data flags %#02x outside low five bits", uint8(b.Flags))
	}
	if b.Render > RenderTransparent {
		return fmt.Errorf("render type %d out of range", uint8(b.Render))
	}
	for _, v := range b.Position {
		if !(v >= -maxPositionAbs && v <= maxPositionAbs) {
			return fmt.Errorf("position component %v out of range", v)
		}
	}
	for _, v := range b.Rotation {
		if !(v >= -1 && v <= 1) {
			return fmt.Errorf("rotation component %v out of range", v)
		}
	}
	for _, v := range b.Size {
		if !(v >= minSizeDim && v <= maxSizeDim) {
			return fmt.Errorf("size component %v out of range", v)
		}
	}
	return nil
}

func writeBlock(buf *bytes.Buffer, b Block) {
	putFixed(buf, b.Node, nameLen)
	putFixed(buf, b.Mesh, nameLen)
	putFixed(buf, b.Path, pathLen)
	buf.WriteByte(uint8(b.Flags))
	buf.WriteByte(uint8(b.Render))
	for _, v := range b.Position {
		putF32(buf, v)
	}
	for _, v := range b.Rotation {
		putF32(buf, v)
	}
	for _, v := range b.Size {
		putF32(buf, v)
	}

	vertSize := uint32(len(b.Vertices)) * VertexSize
	idxSize := uint32(len(b.Indices)) * IndexSize
	putU32(buf, BlockFixedSize)
	putU32(buf, vertSize)
	putU32(buf, BlockFixedSize+vertSize)
	putU32(buf, idxSize)

	for _, v := range b.Vertices {
		for _, f := range v.Position {
			putF32(buf, f)
		}
		for _, f := range v.Normal {
			putF32(buf, f)
		}
		for _, f := range v.TexCoord {
			putF32(buf, f)
		}
		for _, f := range v.Tangent {
			putF32(buf, f)
		}
	}
	for _, i := range b.Indices {
		putU32(buf, i)
	}
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
