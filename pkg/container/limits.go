package container

// Limits bounds the structural fields a header may declare. The zero value is
// not usable; start from DefaultLimits and override as needed.
type Limits struct {
	// MaxEntryCount caps the number of table entries a file may declare.
	MaxEntryCount uint32
	// MaxTableBytes caps the table section size.
	MaxTableBytes uint32
	// MaxBlockBytes caps the block section size.
	MaxBlockBytes uint32
	// MinFileBytes is the smallest structurally possible file: header plus
	// one table entry plus one minimal block.
	MinFileBytes int64
	// MaxFileBytes caps the total file size accepted by TryOpenCheck.
	MaxFileBytes int64
}

func DefaultLimits(entrySize, minBlock int) Limits {
	const maxEntries = 4096
	l := Limits{
		MaxEntryCount: maxEntries,
		MaxTableBytes: maxEntries * uint32(entrySize),
		MaxBlockBytes: 1 << 28, // 256 MiB of payload
	}
	l.MinFileBytes = int64(HeaderSize + entrySize + minBlock)
	l.MaxFileBytes = int64(HeaderSize) + int64(l.MaxTableBytes) + int64(l.MaxBlockBytes)
	return l
}
