// Package glyph implements the font glyph container (.fgly), the sibling of
// the model container: the same 18-byte header and 28-byte directory entries,
// with per-entry payloads carrying glyph metrics and a raw 8-bit pixel
// bitmap instead of mesh geometry. It shares the model codec's error family
// and bounds-checked decode discipline.
package glyph

import "github.com/forma3d/forma/pkg/container"

const (
	Magic                 = "FGLY"
	FormatVersion   uint8 = 1
	Extension             = ".fgly"
	TableEntrySize        = 28
	BlockFixedSize        = 100

	nameLen = 20

	// MaxOversample mirrors the model container's scale-code quirk: codes
	// above it decode as 0 instead of failing.
	MaxOversample uint8 = 8

	maxGlyphDim  = 4096
	maxMetricAbs = 4096.0
	maxAdvance   = 4096.0
)

type Header struct {
	Oversample uint8
	EntryCount uint32
	TableBytes uint32
	BlockBytes uint32
}

type TableEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Block is one decoded glyph: metrics, the screen-space quadrilateral it is
// drawn onto, and the raw 8-bit coverage bitmap (Width*Height bytes).
type Block struct {
	Name     string
	Face     string
	Rune     rune
	Width    uint16
	Height   uint16
	BearingX float32
	BearingY float32
	Advance  float32
	Quad     [8]float32
	Pixels   []byte
}

type File struct {
	Header  Header
	Entries []TableEntry
	Blocks  []Block
}

type Codec struct {
	Limits container.Limits
}

func Default() Codec {
	return Codec{Limits: container.DefaultLimits(TableEntrySize, BlockFixedSize)}
}

func (c Codec) validator() container.Validator {
	return container.Validator{Extension: Extension, Limits: c.Limits}
}
