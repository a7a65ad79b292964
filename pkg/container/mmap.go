package container

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping exposes a whole file as one contiguous byte buffer. It prefers a
// read-only mmap so the bulk import path touches the file with a single I/O
// call, and falls back to ReadAt-based loading where mmap is unavailable.
type Mapping struct {
	Data    []byte
	mmapped bool
}

func MapFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		if isLocked(err) {
			return nil, ErrFileLocked
		}
		return nil, ErrUnknownRead
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, ErrUnknownRead
	}
	size64 := st.Size()
	if size64 <= 0 || size64 > int64(int(^uint(0)>>1)) {
		return nil, ErrUnsupportedFileSize
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		return &Mapping{Data: data, mmapped: true}, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return &Mapping{Data: data}, nil
}

// Close releases the mapping. Decoded values never alias the mapped bytes, so
// callers close as soon as decoding finishes.
func (m *Mapping) Close() error {
	if m == nil || m.Data == nil {
		return nil
	}
	data := m.Data
	m.Data = nil
	if m.mmapped {
		m.mmapped = false
		return unix.Munmap(data)
	}
	return nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, ErrUnknownRead
	}
	return out, nil
}
