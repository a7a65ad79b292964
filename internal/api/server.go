// Package api serves container introspection over HTTP. Imported containers
// are decoded once with the bulk path and cached in a store keyed by opaque
// IDs; handlers expose headers, directory entries and per-asset metadata, but
// never the raw vertex or pixel payloads.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/forma3d/forma/pkg/container/glyph"
	"github.com/forma3d/forma/pkg/container/model"
)

type Server struct {
	store *ContainerStore
	model model.Codec
	glyph glyph.Codec
}

func NewServer(store *ContainerStore) *Server {
	if store == nil {
		store = NewContainerStore()
	}
	return &Server{
		store: store,
		model: model.Default(),
		glyph: glyph.Default(),
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/containers", s.handleImport)
	e.GET("/v1/containers", s.handleList)
	e.GET("/v1/containers/:id", s.handleGet)
	e.GET("/v1/containers/:id/assets", s.handleAssets)
	e.GET("/v1/containers/:id/assets/:name", s.handleAsset)
	e.DELETE("/v1/containers/:id", s.handleDelete)
}

func (s *Server) handleImport(c *echo.Context) error {
	req, err := decodeJSON[ImportRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Path == "" {
		return writeBadRequest(c, "path is required")
	}

	switch req.Format {
	case "", FormatModel:
		f, err := s.model.ImportAll(req.Path)
		if err != nil {
			return writeDecodeError(c, err)
		}
		return c.JSON(http.StatusOK, s.store.AddModel(req.Path, f))
	case FormatGlyph:
		f, err := s.glyph.ImportAll(req.Path)
		if err != nil {
			return writeDecodeError(c, err)
		}
		return c.JSON(http.StatusOK, s.store.AddGlyph(req.Path, f))
	default:
		return writeBadRequest(c, "format must be \"model\" or \"glyph\"")
	}
}

func (s *Server) handleList(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"containers": s.store.List()})
}

func (s *Server) handleGet(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such container")
	}
	return c.JSON(http.StatusOK, rec.Summary)
}

func (s *Server) handleAssets(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such container")
	}

	var assets []AssetSummary
	if rec.Model != nil {
		for _, e := range rec.Model.Entries {
			assets = append(assets, AssetSummary{Name: e.Name, Offset: e.Offset, Size: e.Size})
		}
	} else {
		for _, e := range rec.Glyph.Entries {
			assets = append(assets, AssetSummary{Name: e.Name, Offset: e.Offset, Size: e.Size})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"assets": assets})
}

func (s *Server) handleAsset(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "no such container")
	}
	name := c.Param("name")

	if rec.Model != nil {
		for i, e := range rec.Model.Entries {
			if e.Name != name {
				continue
			}
			b := rec.Model.Blocks[i]
			return c.JSON(http.StatusOK, ModelAssetDetail{
				Name:        e.Name,
				Node:        b.Node,
				Mesh:        b.Mesh,
				Path:        b.Path,
				Flags:       uint8(b.Flags),
				Render:      b.Render.String(),
				Position:    b.Position,
				Rotation:    b.Rotation,
				Size:        b.Size,
				VertexCount: len(b.Vertices),
				IndexCount:  len(b.Indices),
			})
		}
		return writeNotFound(c, "no such asset")
	}

	for i, e := range rec.Glyph.Entries {
		if e.Name != name {
			continue
		}
		b := rec.Glyph.Blocks[i]
		return c.JSON(http.StatusOK, GlyphAssetDetail{
			Name:     b.Name,
			Face:     b.Face,
			Rune:     string(b.Rune),
			Width:    b.Width,
			Height:   b.Height,
			BearingX: b.BearingX,
			BearingY: b.BearingY,
			Advance:  b.Advance,
			Quad:     b.Quad,
			Bytes:    len(b.Pixels),
		})
	}
	return writeNotFound(c, "no such asset")
}

func (s *Server) handleDelete(c *echo.Context) error {
	if !s.store.Delete(c.Param("id")) {
		return writeNotFound(c, "no such container")
	}
	return c.NoContent(http.StatusNoContent)
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
