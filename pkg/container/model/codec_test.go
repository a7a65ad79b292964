package model

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/forma3d/forma/pkg/container"
)

// Offsets into a single-entry container, used by the corruption tests.
const (
	offVersion    = 4
	offScale      = 5
	offEntryCount = 6
	blockStart    = container.HeaderSize + TableEntrySize
	offFlags      = blockStart + 90
	offRender     = blockStart + 91
	offPosition   = blockStart + 92
	offRotation   = blockStart + 104
	offSizeVec    = blockStart + 120
	offVertSize   = blockStart + 136
	offIdxSize    = blockStart + 144
	offEntrySize  = container.HeaderSize + 24
)

func testVertex(i int) Vertex {
	f := float32(i)
	return Vertex{
		Position: [3]float32{f, f + 0.25, f + 0.5},
		Normal:   [3]float32{0, 1, 0},
		TexCoord: [2]float32{0.5, f / 8},
		Tangent:  [4]float32{1, 0, 0, 1},
	}
}

func testBlock(nVerts, nIdx int) Block {
	b := Block{
		Node:     "node",
		Mesh:     "mesh",
		Path:     "assets/meshes/cube.obj",
		Flags:    FlagMaterials | FlagBones,
		Render:   RenderStatic,
		Position: [3]float32{1, 2, 3},
		Rotation: [4]float32{0, 0, 0, 1},
		Size:     [3]float32{1, 1, 1},
	}
	for i := 0; i < nVerts; i++ {
		b.Vertices = append(b.Vertices, testVertex(i))
	}
	for i := 0; i < nIdx; i++ {
		b.Indices = append(b.Indices, uint32(i))
	}
	return b
}

func encodeContainer(t *testing.T, blocks map[string]Block, names []string) []byte {
	t.Helper()
	w := NewWriter()
	for _, name := range names {
		if err := w.Add(name, blocks[name]); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	data, err := w.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.fmdl")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func putF32At(data []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	blocks := map[string]Block{
		"crate":  testBlock(4, 6),
		"barrel": testBlock(2, 3),
	}
	blocks["barrel"] = func(b Block) Block {
		b.Node = "barrel_root"
		b.Render = RenderTransparent
		b.Flags = FlagLights
		return b
	}(blocks["barrel"])

	path := writeTemp(t, encodeContainer(t, blocks, []string{"crate", "barrel"}))
	f, err := ImportAll(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if f.Header.EntryCount != 2 || f.Header.TableBytes != 2*TableEntrySize {
		t.Fatalf("header: %+v", f.Header)
	}
	if len(f.Entries) != 2 || f.Entries[0].Name != "crate" || f.Entries[1].Name != "barrel" {
		t.Fatalf("entries: %+v", f.Entries)
	}
	if !reflect.DeepEqual(f.Blocks[0], blocks["crate"]) {
		t.Fatalf("crate mismatch:\n got %+v\nwant %+v", f.Blocks[0], blocks["crate"])
	}
	if !reflect.DeepEqual(f.Blocks[1], blocks["barrel"]) {
		t.Fatalf("barrel mismatch:\n got %+v\nwant %+v", f.Blocks[1], blocks["barrel"])
	}
}

func TestStreamMatchesImport(t *testing.T) {
	t.Parallel()

	blocks := map[string]Block{
		"a": testBlock(3, 3),
		"b": testBlock(1, 3),
		"c": testBlock(8, 12),
	}
	path := writeTemp(t, encodeContainer(t, blocks, []string{"a", "b", "c"}))

	imported, err := ImportAll(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	entries, err := ReadTable(path, false)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	streamed, err := StreamBlocks(path, entries, true)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !reflect.DeepEqual(streamed, imported.Blocks) {
		t.Fatalf("stream/import divergence:\n got %+v\nwant %+v", streamed, imported.Blocks)
	}

	// An arbitrary subset decodes without touching the rest of the file.
	subset, err := StreamBlocks(path, []TableEntry{entries[2]}, true)
	if err != nil {
		t.Fatalf("subset: %v", err)
	}
	if len(subset) != 1 || !reflect.DeepEqual(subset[0], imported.Blocks[2]) {
		t.Fatalf("subset mismatch")
	}
}

func TestEmptyGeometryRoundTrip(t *testing.T) {
	t.Parallel()

	// A placeholder asset with no vertex or index payload must compare equal
	// after decoding, in both modes.
	blocks := map[string]Block{"anchor": testBlock(0, 0)}
	path := writeTemp(t, encodeContainer(t, blocks, []string{"anchor"}))

	f, err := ImportAll(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !reflect.DeepEqual(f.Blocks[0], blocks["anchor"]) {
		t.Fatalf("bulk mismatch:\n got %+v\nwant %+v", f.Blocks[0], blocks["anchor"])
	}

	streamed, err := StreamBlocks(path, f.Entries, true)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if !reflect.DeepEqual(streamed[0], blocks["anchor"]) {
		t.Fatalf("streamed mismatch:\n got %+v\nwant %+v", streamed[0], blocks["anchor"])
	}
}

func TestMinimalContainer(t *testing.T) {
	t.Parallel()

	data := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})

	wantBlock := uint32(BlockFixedSize + 3*VertexSize + 3*IndexSize)
	if got := binary.LittleEndian.Uint32(data[14:]); got != wantBlock {
		t.Fatalf("block section size: got %d, want %d", got, wantBlock)
	}

	f, err := ImportAll(writeTemp(t, data))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if f.Header.EntryCount != 1 || f.Header.TableBytes != TableEntrySize {
		t.Fatalf("header: %+v", f.Header)
	}
	if f.Header.BlockBytes != wantBlock {
		t.Fatalf("block bytes: got %d, want %d", f.Header.BlockBytes, wantBlock)
	}
	if len(f.Blocks[0].Vertices) != 3 || len(f.Blocks[0].Indices) != 3 {
		t.Fatalf("geometry: %d vertices, %d indices",
			len(f.Blocks[0].Vertices), len(f.Blocks[0].Indices))
	}
}

func TestTruncatedFile(t *testing.T) {
	t.Parallel()

	data := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})
	path := writeTemp(t, data[:len(data)-1])

	if _, err := ImportAll(path); !errors.Is(err, container.ErrUnexpectedEOF) {
		t.Fatalf("bulk truncated: got %v", err)
	}

	entries, err := ReadTable(path, true)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if _, err := StreamBlocks(path, entries, true); !errors.Is(err, container.ErrUnexpectedEOF) {
		t.Fatalf("streamed truncated: got %v", err)
	}
}

func TestCorruptHeader(t *testing.T) {
	t.Parallel()

	base := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})

	for i := 0; i < 4; i++ {
		data := append([]byte(nil), base...)
		data[i] ^= 0xff
		if _, err := ImportAll(writeTemp(t, data)); !errors.Is(err, container.ErrInvalidMagic) {
			t.Fatalf("magic byte %d flipped: got %v", i, err)
		}
	}

	data := append([]byte(nil), base...)
	data[offVersion] = FormatVersion + 1
	if _, err := ImportAll(writeTemp(t, data)); !errors.Is(err, container.ErrInvalidVersion) {
		t.Fatalf("bad version: got %v", err)
	}

	data = append([]byte(nil), base...)
	binary.LittleEndian.PutUint32(data[offEntryCount:], Default().Limits.MaxEntryCount+1)
	if _, err := ImportAll(writeTemp(t, data)); !errors.Is(err, container.ErrInvalidEntryCount) {
		t.Fatalf("oversized entry count: got %v", err)
	}

	// Count/table mismatch with both fields individually in range.
	data = append([]byte(nil), base...)
	binary.LittleEndian.PutUint32(data[offEntryCount:], 2)
	if _, err := ImportAll(writeTemp(t, data)); !errors.Is(err, container.ErrInvalidTableSize) {
		t.Fatalf("count/table mismatch: got %v", err)
	}
}

func TestScaleCodeClamped(t *testing.T) {
	t.Parallel()

	base := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})

	data := append([]byte(nil), base...)
	data[offScale] = 8
	h, err := ReadHeader(writeTemp(t, data), false)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.ScaleCode != 8 {
		t.Fatalf("scale 8: got %d", h.ScaleCode)
	}

	// Out-of-range codes decode as 0 instead of failing. Format quirk.
	data = append([]byte(nil), base...)
	data[offScale] = 9
	h, err = ReadHeader(writeTemp(t, data), false)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.ScaleCode != 0 {
		t.Fatalf("scale 9: got %d, want clamp to 0", h.ScaleCode)
	}
}

func TestEntryBeyondEOF(t *testing.T) {
	t.Parallel()

	data := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})
	binary.LittleEndian.PutUint32(data[offEntrySize:], uint32(len(data))+1)
	path := writeTemp(t, data)

	entries, err := ReadTable(path, true)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if _, err := StreamBlocks(path, entries, true); !errors.Is(err, container.ErrUnexpectedEOF) {
		t.Fatalf("streamed: got %v", err)
	}
	if _, err := ImportAll(path); !errors.Is(err, container.ErrUnexpectedEOF) {
		t.Fatalf("bulk: got %v", err)
	}
}

func TestCorruptBlockFields(t *testing.T) {
	t.Parallel()

	base := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})

	cases := []struct {
		name  string
		patch func(data []byte)
		want  error
	}{
		{"flags", func(d []byte) { d[offFlags] = 0xff }, container.ErrInvalidDataFlags},
		{"render", func(d []byte) { d[offRender] = 3 }, container.ErrInvalidRenderType},
		{"position", func(d []byte) { putF32At(d, offPosition, 10001) }, container.ErrInvalidPosition},
		{"position-nan", func(d []byte) { putF32At(d, offPosition, float32(math.NaN())) }, container.ErrInvalidPosition},
		{"rotation", func(d []byte) { putF32At(d, offRotation, 1.5) }, container.ErrInvalidRotation},
		{"size-zero", func(d []byte) { putF32At(d, offSizeVec, 0) }, container.ErrInvalidSize},
		{"size-huge", func(d []byte) { putF32At(d, offSizeVec, 20000) }, container.ErrInvalidSize},
		{"vertex-stride", func(d []byte) {
			binary.LittleEndian.PutUint32(d[offVertSize:], 3*VertexSize-1)
		}, container.ErrInvalidBlockSize},
		{"index-stride", func(d []byte) {
			binary.LittleEndian.PutUint32(d[offIdxSize:], 10)
		}, container.ErrInvalidBlockSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			data := append([]byte(nil), base...)
			tc.patch(data)
			path := writeTemp(t, data)

			if _, err := ImportAll(path); !errors.Is(err, tc.want) {
				t.Fatalf("bulk: got %v, want %v", err, tc.want)
			}
			entries, err := ReadTable(path, true)
			if err != nil {
				t.Fatalf("table: %v", err)
			}
			if _, err := StreamBlocks(path, entries, true); !errors.Is(err, tc.want) {
				t.Fatalf("streamed: got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSkipChecks(t *testing.T) {
	t.Parallel()

	data := encodeContainer(t, map[string]Block{"tri": testBlock(3, 3)}, []string{"tri"})
	path := filepath.Join(t.TempDir(), "scene.dat")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ReadHeader(path, false); !errors.Is(err, container.ErrInvalidExtension) {
		t.Fatalf("checked read: got %v", err)
	}
	if _, err := ReadHeader(path, true); err != nil {
		t.Fatalf("unchecked read: %v", err)
	}
}

func TestWriterRejectsInvalidBlocks(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	b := testBlock(1, 3)
	b.Rotation[0] = 2
	if err := w.Add("bad", b); err == nil {
		t.Fatalf("out-of-range rotation accepted")
	}

	b = testBlock(1, 3)
	b.Flags = 0xE0
	if err := w.Add("bad", b); err == nil {
		t.Fatalf("high flag bits accepted")
	}

	if err := w.Add("", testBlock(1, 3)); err == nil {
		t.Fatalf("empty entry name accepted")
	}
	if err := w.SetScaleCode(9); err == nil {
		t.Fatalf("scale code 9 accepted")
	}
}
