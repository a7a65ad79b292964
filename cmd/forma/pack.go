package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/forma3d/forma/pkg/container/glyph"
	"github.com/forma3d/forma/pkg/container/model"
)

// Manifest formats consumed by `forma pack`. Pixel payloads are standard
// base64 per encoding/json conventions.

type modelManifest struct {
	ScaleCode uint8 `json:"scale_code"`
	Assets    []struct {
		Name     string     `json:"name"`
		Node     string     `json:"node"`
		Mesh     string     `json:"mesh"`
		Path     string     `json:"path"`
		Flags    uint8      `json:"flags"`
		Render   uint8      `json:"render"`
		Position [3]float32 `json:"position"`
		Rotation [4]float32 `json:"rotation"`
		Size     [3]float32 `json:"size"`
		Vertices []struct {
			Position [3]float32 `json:"position"`
			Normal   [3]float32 `json:"normal"`
			TexCoord [2]float32 `json:"texcoord"`
			Tangent  [4]float32 `json:"tangent"`
		} `json:"vertices"`
		Indices []uint32 `json:"indices"`
	} `json:"assets"`
}

type glyphManifest struct {
	Oversample uint8 `json:"oversample"`
	Glyphs     []struct {
		Name     string     `json:"name"`
		Face     string     `json:"face"`
		Rune     string     `json:"rune"`
		Width    uint16     `json:"width"`
		Height   uint16     `json:"height"`
		BearingX float32    `json:"bearing_x"`
		BearingY float32    `json:"bearing_y"`
		Advance  float32    `json:"advance"`
		Quad     [8]float32 `json:"quad"`
		Pixels   []byte     `json:"pixels"`
	} `json:"glyphs"`
}

func packCmd() *cli.Command {
	var (
		input  string
		output string
	)

	return &cli.Command{
		Name:  "pack",
		Usage: "Build a container from a JSON manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"in"},
				Usage:       "manifest JSON path",
				Destination: &input,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"out"},
				Usage:       "output container path (.fmdl or .fgly)",
				Destination: &output,
				Required:    true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			if isGlyphPath(output) {
				return packGlyphs(data, output)
			}
			return packModels(data, output)
		},
	}
}

func packModels(data []byte, output string) error {
	var m modelManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	w := model.NewWriter()
	if err := w.SetScaleCode(m.ScaleCode); err != nil {
		return err
	}
	for _, a := range m.Assets {
		b := model.Block{
			Node:     a.Node,
			Mesh:     a.Mesh,
			Path:     a.Path,
			Flags:    model.DataFlags(a.Flags),
			Render:   model.RenderType(a.Render),
			Position: a.Position,
			Rotation: a.Rotation,
			Size:     a.Size,
			Indices:  a.Indices,
		}
		for _, v := range a.Vertices {
			b.Vertices = append(b.Vertices, model.Vertex{
				Position: v.Position,
				Normal:   v.Normal,
				TexCoord: v.TexCoord,
				Tangent:  v.Tangent,
			})
		}
		if err := w.Add(a.Name, b); err != nil {
			return fmt.Errorf("asset %q: %w", a.Name, err)
		}
	}
	if err := w.WriteFile(output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

func packGlyphs(data []byte, output string) error {
	var m glyphManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}

	w := glyph.NewWriter()
	if err := w.SetOversample(m.Oversample); err != nil {
		return err
	}
	for _, g := range m.Glyphs {
		r := rune(0)
		for _, c := range g.Rune {
			r = c
			break
		}
		b := glyph.Block{
			Name:     g.Name,
			Face:     g.Face,
			Rune:     r,
			Width:    g.Width,
			Height:   g.Height,
			BearingX: g.BearingX,
			BearingY: g.BearingY,
			Advance:  g.Advance,
			Quad:     g.Quad,
			Pixels:   g.Pixels,
		}
		if err := w.Add(g.Name, b); err != nil {
			return fmt.Errorf("glyph %q: %w", g.Name, err)
		}
	}
	if err := w.WriteFile(output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
