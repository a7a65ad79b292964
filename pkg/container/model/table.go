package model

import "github.com/forma3d/forma/pkg/container"

// decodeTable consumes a buffer of exactly Header.TableBytes and splits it
// into fixed 28-byte entries. Offset/size plausibility is deliberately not
// checked here; the block codec owns that, because it knows the real file
// length.
func decodeTable(buf []byte) ([]TableEntry, error) {
	cur := container.NewCursor(buf)
	entries := make([]TableEntry, 0, len(buf)/TableEntrySize)
	for cur.Remaining() > 0 {
		name, err := cur.ReadString(nameLen)
		if err != nil {
			return nil, err
		}
		offset, err := cur.ReadU32()
		if err != nil {
			return nil, err
		}
		size, err := cur.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, TableEntry{Name: name, Offset: offset, Size: size})
	}
	return entries, nil
}
