package container

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// HeaderSize is the fixed top-header byte count shared by every container
// family (magic, version, code byte, entry count, table size, block size).
const HeaderSize = 18

// Validator runs the cheap pre-parse checks for one container family.
// No field of the file body is interpreted here.
type Validator struct {
	// Extension is the registered suffix including the dot, eg ".fmdl".
	Extension string
	Limits    Limits
}

// PreReadCheck verifies the path resolves to a readable regular file with the
// registered extension. No bytes are read.
func (v Validator) PreReadCheck(path string) error {
	st, err := os.Stat(path)
	if err != nil || !st.Mode().IsRegular() {
		return ErrFileNotFound
	}
	if !strings.EqualFold(filepath.Ext(path), v.Extension) {
		return ErrInvalidExtension
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return ErrUnauthorizedRead
	}
	return nil
}

// TryOpenCheck opens the file and verifies its total length can hold a valid
// container. The handle is closed before returning.
func (v Validator) TryOpenCheck(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if isLocked(err) {
			return ErrFileLocked
		}
		return ErrUnknownRead
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return ErrUnknownRead
	}
	size := st.Size()
	if size == 0 {
		return ErrFileEmpty
	}
	if size < v.Limits.MinFileBytes || size > v.Limits.MaxFileBytes {
		return ErrUnsupportedFileSize
	}
	return nil
}

// Check runs both stages. Entry points call this once per pipeline and pass
// skipChecks on the inner calls.
func (v Validator) Check(path string) error {
	if err := v.PreReadCheck(path); err != nil {
		return err
	}
	return v.TryOpenCheck(path)
}

func isLocked(err error) bool {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		err = perr.Err
	}
	return errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.EWOULDBLOCK) ||
		errors.Is(err, unix.ETXTBSY)
}
