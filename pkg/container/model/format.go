// Package model implements the chunked binary container used to persist and
// stream mesh data (.fmdl files).
//
// A container is a fixed 18-byte header, a directory of fixed-size table
// entries (one per asset) and a block section holding one variable-length
// payload per entry. Decoding is a pure pipeline: every call either returns a
// fully validated value or the first violated invariant as an error from the
// closed family in package container. Nothing is cached and no partial result
// is ever exposed.
package model

import (
	"fmt"

	"github.com/forma3d/forma/pkg/container"
)

const (
	// Magic is the 4-byte constant opening every model container.
	Magic = "FMDL"

	// FormatVersion is the only version this codec accepts.
	FormatVersion uint8 = 1

	// Extension is the registered file suffix.
	Extension = ".fmdl"

	// TableEntrySize is the fixed on-disk size of one directory entry.
	TableEntrySize = 28

	// BlockFixedSize is the byte count of a block's fixed metadata prefix,
	// up to and including the four array offset/size fields.
	BlockFixedSize = 148

	// VertexSize is the on-disk stride of one vertex record.
	VertexSize = 48

	// IndexSize is the on-disk size of one index value.
	IndexSize = 4

	nameLen = 20
	pathLen = 50

	// MaxScaleCode is the last valid scale-factor code. Codes above it are
	// silently normalized to 0 on decode; this asymmetry with every other
	// range check is a documented quirk of the format, not an oversight.
	MaxScaleCode uint8 = 8

	maxPositionAbs = 10000.0
	minSizeDim     = 1e-6
	maxSizeDim     = 10000.0
)

// DataFlags marks which optional data families a block's payload carries.
// The semantics are opaque to this layer; only the low five bits may be set.
type DataFlags uint8

const (
	FlagMaterials DataFlags = 1 << 0
	FlagBones     DataFlags = 1 << 1
	FlagCameras   DataFlags = 1 << 2
	FlagLights    DataFlags = 1 << 3
	FlagAnimation DataFlags = 1 << 4

	flagsMask = FlagMaterials | FlagBones | FlagCameras | FlagLights | FlagAnimation
)

// RenderType selects how the consumer draws the asset.
type RenderType uint8

const (
	RenderStatic      RenderType = 0
	RenderDynamic     RenderType = 1
	RenderTransparent RenderType = 2
)

func (t RenderType) String() string {
	switch t {
	case RenderStatic:
		return "static"
	case RenderDynamic:
		return "dynamic"
	case RenderTransparent:
		return "transparent"
	default:
		return fmt.Sprintf("render(%d)", uint8(t))
	}
}

// Header is the decoded fixed top header.
type Header struct {
	ScaleCode  uint8
	EntryCount uint32
	TableBytes uint32
	BlockBytes uint32
}

// TableEntry locates one block inside the file.
type TableEntry struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Vertex is one decoded 48-byte vertex record.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Tangent  [4]float32
}

// Block is one decoded asset payload.
type Block struct {
	Node     string
	Mesh     string
	Path     string
	Flags    DataFlags
	Render   RenderType
	Position [3]float32
	Rotation [4]float32
	Size     [3]float32
	Vertices []Vertex
	Indices  []uint32
}

// File is the result of a bulk import.
type File struct {
	Header  Header
	Entries []TableEntry
	Blocks  []Block
}

// Codec decodes model containers under a set of structural limits.
type Codec struct {
	Limits container.Limits
}

// Default returns a codec with the stock limits.
func Default() Codec {
	return Codec{Limits: container.DefaultLimits(TableEntrySize, BlockFixedSize)}
}

func (c Codec) validator() container.Validator {
	return container.Validator{Extension: Extension, Limits: c.Limits}
}
