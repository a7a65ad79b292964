package glyph

import (
	"io"
	"os"

	"github.com/forma3d/forma/pkg/container"
)

// ReadHeader decodes and validates the fixed header only.
func (c Codec) ReadHeader(path string, skipChecks bool) (Header, error) {
	if !skipChecks {
		if err := c.validator().Check(path); err != nil {
			return Header{}, container.PathError(path, err)
		}
	}
	f, err := openFile(path)
	if err != nil {
		return Header{}, container.PathError(path, err)
	}
	defer func() { _ = f.Close() }()

	h, err := c.readHeader(f)
	if err != nil {
		return Header{}, container.PathError(path, err)
	}
	return h, nil
}

// ReadTable decodes the glyph directory that follows the header.
func (c Codec) ReadTable(path string, skipChecks bool) ([]TableEntry, error) {
	if !skipChecks {
		if err := c.validator().Check(path); err != nil {
			return nil, container.PathError(path, err)
		}
	}
	f, err := openFile(path)
	if err != nil {
		return nil, container.PathError(path, err)
	}
	defer func() { _ = f.Close() }()

	h, err := c.readHeader(f)
	if err != nil {
		return nil, container.PathError(path, err)
	}
	buf := make([]byte, h.TableBytes)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, container.PathError(path, container.ErrUnexpectedEOF)
	}
	entries, err := decodeTable(buf)
	if err != nil {
		return nil, container.PathError(path, err)
	}
	return entries, nil
}

// StreamBlocks decodes a caller-chosen subset of glyphs, one seek per entry.
// A rasterizer uses this to pull individual glyph bitmaps on demand.
func (c Codec) StreamBlocks(path string, entries []TableEntry, skipChecks bool) ([]Block, error) {
	if !skipChecks {
		if err := c.validator().Check(path); err != nil {
			return nil, container.PathError(path, err)
		}
	}
	f, err := openFile(path)
	if err != nil {
		return nil, container.PathError(path, err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, container.PathError(path, container.ErrUnknownRead)
	}
	fileLen := uint64(st.Size())

	blocks := make([]Block, 0, len(entries))
	for _, e := range entries {
		if uint64(e.Offset)+uint64(e.Size) > fileLen {
			return nil, container.PathError(path, container.ErrUnexpectedEOF)
		}
		buf := make([]byte, e.Size)
		if _, err := f.ReadAt(buf, int64(e.Offset)); err != nil {
			return nil, container.PathError(path, container.ErrUnexpectedEOF)
		}
		b, err := decodeBlock(container.NewCursor(buf))
		if err != nil {
			return nil, container.PathError(path, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// ImportAll decodes the whole container from one contiguous read.
func (c Codec) ImportAll(path string) (*File, error) {
	if err := c.validator().Check(path); err != nil {
		return nil, container.PathError(path, err)
	}
	m, err := container.MapFile(path)
	if err != nil {
		return nil, container.PathError(path, err)
	}
	defer func() { _ = m.Close() }()
	data := m.Data

	h, err := c.decodeHeader(container.NewCursor(data))
	if err != nil {
		return nil, container.PathError(path, err)
	}
	total := uint64(container.HeaderSize) + uint64(h.TableBytes) + uint64(h.BlockBytes)
	if total > uint64(len(data)) {
		return nil, container.PathError(path, container.ErrUnexpectedEOF)
	}

	tableStart := uint64(container.HeaderSize)
	entries, err := decodeTable(data[tableStart : tableStart+uint64(h.TableBytes)])
	if err != nil {
		return nil, container.PathError(path, err)
	}

	blocks := make([]Block, 0, len(entries))
	for _, e := range entries {
		if uint64(e.Offset)+uint64(e.Size) > uint64(len(data)) {
			return nil, container.PathError(path, container.ErrUnexpectedEOF)
		}
		b, err := decodeBlock(container.NewCursor(data[e.Offset : uint64(e.Offset)+uint64(e.Size)]))
		if err != nil {
			return nil, container.PathError(path, err)
		}
		blocks = append(blocks, b)
	}

	return &File{Header: h, Entries: entries, Blocks: blocks}, nil
}

func (c Codec) readHeader(f *os.File) (Header, error) {
	buf := make([]byte, container.HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return Header{}, container.ErrUnexpectedEOF
	}
	return c.decodeHeader(container.NewCursor(buf))
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, container.ErrFileNotFound
		}
		if os.IsPermission(err) {
			return nil, container.ErrUnauthorizedRead
		}
		return nil, container.ErrUnknownRead
	}
	return f, nil
}

func ReadHeader(path string, skipChecks bool) (Header, error) {
	return Default().ReadHeader(path, skipChecks)
}

func ReadTable(path string, skipChecks bool) ([]TableEntry, error) {
	return Default().ReadTable(path, skipChecks)
}

func StreamBlocks(path string, entries []TableEntry, skipChecks bool) ([]Block, error) {
	return Default().StreamBlocks(path, entries, skipChecks)
}

func ImportAll(path string) (*File, error) {
	return Default().ImportAll(path)
}
