package glyph

import "github.com/forma3d/forma/pkg/container"

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
	oversample, err := cur.ReadU8()
	if err != nil {
		return Header{}, err
	}
	if oversample > MaxOversample {
		oversample = 0
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
	if tableBytes < TableEntrySize || tableBytes > c.Limits.MaxTableBytes ||
		tableBytes%TableEntrySize != 0 || uint64(tableBytes) != uint64(count)*TableEntrySize {
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
		Oversample: oversample,
		EntryCount: count,
		TableBytes: tableBytes,
		BlockBytes: blockBytes,
	}, nil
}

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

// decodeBlock is shared verbatim by the streamed and bulk paths; the cursor
// spans exactly the bytes the table entry declared.
func decodeBlock(cur *container.Cursor) (Block, error) {
	var b Block
	var err error

	if b.Name, err = cur.ReadString(nameLen); err != nil {
		return Block{}, err
	}
	if b.Face, err = cur.ReadString(nameLen); err != nil {
		return Block{}, err
	}
	r, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	b.Rune = rune(r)

	if b.Width, err = cur.ReadU16(); err != nil {
		return Block{}, err
	}
	if b.Height, err = cur.ReadU16(); err != nil {
		return Block{}, err
	}
	if b.Width > maxGlyphDim || b.Height > maxGlyphDim {
		return Block{}, container.ErrInvalidSize
	}

	if b.BearingX, err = cur.ReadF32(); err != nil {
		return Block{}, err
	}
	if b.BearingY, err = cur.ReadF32(); err != nil {
		return Block{}, err
	}
	if !(b.BearingX >= -maxMetricAbs && b.BearingX <= maxMetricAbs) ||
		!(b.BearingY >= -maxMetricAbs && b.BearingY <= maxMetricAbs) {
		return Block{}, container.ErrInvalidPosition
	}
	if b.Advance, err = cur.ReadF32(); err != nil {
		return Block{}, err
	}
	if !(b.Advance >= 0 && b.Advance <= maxAdvance) {
		return Block{}, container.ErrInvalidSize
	}

	for i := range b.Quad {
		v, err := cur.ReadF32()
		if err != nil {
			return Block{}, err
		}
		if !(v >= -maxMetricAbs && v <= maxMetricAbs) {
			return Block{}, container.ErrInvalidPosition
		}
		b.Quad[i] = v
	}

	pixOff, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	pixSize, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	if uint64(pixSize) != uint64(b.Width)*uint64(b.Height) {
		return Block{}, container.ErrInvalidBlockSize
	}
	pcur, err := cur.Window(pixOff, pixSize)
	if err != nil {
		return Block{}, err
	}
	raw, err := pcur.ReadN(int(pixSize))
	if err != nil {
		return Block{}, err
	}
	b.Pixels = append([]byte(nil), raw...)

	return b, nil
}
