package main

import (
	"path/filepath"
	"testing"

	"github.com/forma3d/forma/pkg/container/glyph"
	"github.com/forma3d/forma/pkg/container/model"
)

func TestPackModelManifest(t *testing.T) {
	t.Parallel()

	manifest := []byte(`{
		"scale_code": 1,
		"assets": [{
			"name": "tri",
			"node": "root",
			"mesh": "triangle",
			"path": "assets/tri.obj",
			"flags": 1,
			"render": 0,
			"position": [0, 0, 0],
			"rotation": [0, 0, 0, 1],
			"size": [1, 1, 1],
			"vertices": [
				{"position": [0,0,0], "normal": [0,1,0], "texcoord": [0,0], "tangent": [1,0,0,1]},
				{"position": [1,0,0], "normal": [0,1,0], "texcoord": [1,0], "tangent": [1,0,0,1]},
				{"position": [0,1,0], "normal": [0,1,0], "texcoord": [0,1], "tangent": [1,0,0,1]}
			],
			"indices": [0, 1, 2]
		}]
	}`)

	out := filepath.Join(t.TempDir(), "scene.fmdl")
	if err := packModels(manifest, out); err != nil {
		t.Fatalf("pack: %v", err)
	}

	f, err := model.ImportAll(out)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if f.Header.ScaleCode != 1 || f.Header.EntryCount != 1 {
		t.Fatalf("header: %+v", f.Header)
	}
	b := f.Blocks[0]
	if b.Mesh != "triangle" || len(b.Vertices) != 3 || len(b.Indices) != 3 {
		t.Fatalf("block: %+v", b)
	}
	if b.Vertices[1].Position != [3]float32{1, 0, 0} {
		t.Fatalf("vertex 1: %+v", b.Vertices[1])
	}
}

func TestPackGlyphManifest(t *testing.T) {
	t.Parallel()

	// "pixels" is base64 of 4 bytes (2x2 bitmap).
	manifest := []byte(`{
		"oversample": 2,
		"glyphs": [{
			"name": "A",
			"face": "mono-12",
			"rune": "A",
			"width": 2,
			"height": 2,
			"bearing_x": 0.5,
			"bearing_y": -1,
			"advance": 3,
			"quad": [0, 0, 2, 0, 2, 2, 0, 2],
			"pixels": "AAECAw=="
		}]
	}`)

	out := filepath.Join(t.TempDir(), "atlas.fgly")
	if err := packGlyphs(manifest, out); err != nil {
		t.Fatalf("pack: %v", err)
	}

	f, err := glyph.ImportAll(out)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	b := f.Blocks[0]
	if b.Rune != 'A' || b.Width != 2 || b.Height != 2 {
		t.Fatalf("glyph: %+v", b)
	}
	if len(b.Pixels) != 4 || b.Pixels[3] != 3 {
		t.Fatalf("pixels: %v", b.Pixels)
	}
}

func TestPackRejectsBadManifest(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "scene.fmdl")
	if err := packModels([]byte(`{"assets": [{"name": "x", "size": [0,0,0]}]}`), out); err == nil {
		t.Fatal("zero size vector accepted")
	}
	if err := packModels([]byte(`not json`), out); err == nil {
		t.Fatal("malformed manifest accepted")
	}
}

func TestConfigLimitOverrides(t *testing.T) {
	t.Parallel()

	maxEntries := uint32(7)
	maxFile := int64(1 << 16)
	cfg := Config{MaxEntryCount: &maxEntries, MaxFileBytes: &maxFile}

	codec := cfg.modelCodec()
	if codec.Limits.MaxEntryCount != 7 || codec.Limits.MaxFileBytes != 1<<16 {
		t.Fatalf("limits: %+v", codec.Limits)
	}
	// Unset fields keep the stock defaults.
	stock := model.Default()
	if codec.Limits.MaxBlockBytes != stock.Limits.MaxBlockBytes {
		t.Fatalf("block limit changed: %d", codec.Limits.MaxBlockBytes)
	}
}

func TestGlyphPathDetection(t *testing.T) {
	t.Parallel()

	if !isGlyphPath("fonts/mono.fgly") || !isGlyphPath("FONTS/MONO.FGLY") {
		t.Fatal("glyph extensions not recognized")
	}
	if isGlyphPath("scene.fmdl") || isGlyphPath("scene") {
		t.Fatal("model paths misclassified")
	}
}
