package model

import "github.com/forma3d/forma/pkg/container"

// decodeHeader validates field by field and returns on the first violation.
// No partially decoded header ever escapes.
func (c Codec) decodeHeader(cur *container.Cursor) (Header, error) {
	magic, err := cur.ReadN(4)
	if err != nil {
		return Header{}, err
	}
	if string(magic) != Magic {
		return Header{}, container.ErrInvalidMagic
	}

	version, err := cur.ReadU8()
	if err != nil {
		return Header{}, err
	}
	if version != FormatVersion {
		return Header{}, container.ErrInvalidVersion
	}

	scale, err := cur.ReadU8()
	if err != nil {
		return Header{}, err
	}
	if scale > MaxScaleCode {
		scale = 0
	}

	count, err := cur.ReadU32()
	if err != nil {
		return Header{}, err
	}
	if count == 0 || count > c.Limits.MaxEntryCount {
		return Header{}, container.ErrInvalidEntryCount
	}

	tableBytes, err := cur.ReadU32()
	if err != nil {
		return Header{}, err
	}
	if tableBytes < TableEntrySize || tableBytes > c.Limits.MaxTableBytes {
		return Header{}, container.ErrInvalidTableSize
	}
	if tableBytes%TableEntrySize != 0 || uint64(tableBytes) != uint64(count)*TableEntrySize {
		return Header{}, container.ErrInvalidTableSize
	}

	blockBytes, err := cur.ReadU32()
	if err != nil {
		return Header{}, err
	}
	if blockBytes < BlockFixedSize || blockBytes > c.Limits.MaxBlockBytes {
		return Header{}, container.ErrInvalidBlockSize
	}

	return Header{
		ScaleCode:  scale,
		EntryCount: count,
		TableBytes: tableBytes,
		BlockBytes: blockBytes,
	}, nil
}
