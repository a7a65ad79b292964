package container

import (
	"errors"
	"fmt"
)

// The decode pipeline reports exactly one of these per call. Every kind maps
// 1:1 to a single violated invariant; nothing is retried or partially accepted.
var (
	// File-level, raised before any parsing begins.
	ErrFileNotFound        = errors.New("file not found")
	ErrInvalidExtension    = errors.New("invalid file extension")
	ErrUnauthorizedRead    = errors.New("read permission denied")
	ErrFileLocked          = errors.New("file locked")
	ErrUnknownRead         = errors.New("unknown read error")
	ErrFileEmpty           = errors.New("file is empty")
	ErrUnsupportedFileSize = errors.New("unsupported file size")

	// Structural, raised while decoding the fixed header.
	ErrInvalidMagic      = errors.New("invalid magic")
	ErrInvalidVersion    = errors.New("unsupported format version")
	ErrInvalidEntryCount = errors.New("invalid entry count")
	ErrInvalidTableSize  = errors.New("invalid table size")
	ErrInvalidBlockSize  = errors.New("invalid block size")

	// Per-block, raised while decoding one payload.
	ErrInvalidDataFlags  = errors.New("invalid data flags")
	ErrInvalidRenderType = errors.New("invalid render type")
	ErrInvalidPosition   = errors.New("position out of range")
	ErrInvalidRotation   = errors.New("rotation out of range")
	ErrInvalidSize       = errors.New("size out of range")
	ErrUnexpectedEOF     = errors.New("unexpected end of data")
)

// PathError attaches the offending file path to a decode error so the public
// entry points can surface both without losing errors.Is on the kind.
func PathError(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", path, err)
}
