package api

// FormatModel and FormatGlyph name the two container families the API can
// import.
const (
	FormatModel = "model"
	FormatGlyph = "glyph"
)

type ImportRequest struct {
	Path string `json:"path"`
	// Format selects the container family; defaults to "model".
	Format string `json:"format,omitempty"`
}

// ContainerSummary is the cached view of one imported container.
type ContainerSummary struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Format     string `json:"format"`
	ScaleCode  uint8  `json:"scale_code"`
	EntryCount uint32 `json:"entry_count"`
	TableBytes uint32 `json:"table_bytes"`
	BlockBytes uint32 `json:"block_bytes"`
	Vertices   int    `json:"vertices,omitempty"`
	Indices    int    `json:"indices,omitempty"`
	Pixels     int    `json:"pixels,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type AssetSummary struct {
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

// ModelAssetDetail exposes one decoded mesh block without its raw arrays.
type ModelAssetDetail struct {
	Name        string     `json:"name"`
	Node        string     `json:"node"`
	Mesh        string     `json:"mesh"`
	Path        string     `json:"path"`
	Flags       uint8      `json:"flags"`
	Render      string     `json:"render"`
	Position    [3]float32 `json:"position"`
	Rotation    [4]float32 `json:"rotation"`
	Size        [3]float32 `json:"size"`
	VertexCount int        `json:"vertex_count"`
	IndexCount  int        `json:"index_count"`
}

// GlyphAssetDetail exposes one decoded glyph block without its bitmap.
type GlyphAssetDetail struct {
	Name     string     `json:"name"`
	Face     string     `json:"face"`
	Rune     string     `json:"rune"`
	Width    uint16     `json:"width"`
	Height   uint16     `json:"height"`
	BearingX float32    `json:"bearing_x"`
	BearingY float32    `json:"bearing_y"`
	Advance  float32    `json:"advance"`
	Quad     [8]float32 `json:"quad"`
	Bytes    int        `json:"bytes"`
}

type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
