package model

import "github.com/forma3d/forma/pkg/container"

// decodeBlock decodes one payload from a cursor spanning exactly the bytes
// the table entry declared. Both the streamed and the bulk path feed it the
// same way, which is what keeps the two modes byte-identical.
func decodeBlock(cur *container.Cursor) (Block, error) {
	var b Block
	var err error

	if b.Node, err = cur.ReadString(nameLen); err != nil {
		return Block{}, err
	}
	if b.Mesh, err = cur.ReadString(nameLen); err != nil {
		return Block{}, err
	}
	if b.Path, err = cur.ReadString(pathLen); err != nil {
		return Block{}, err
	}

	flags, err := cur.ReadU8()
	if err != nil {
		return Block{}, err
	}
	if DataFlags(flags)&^flagsMask != 0 {
		return Block{}, container.ErrInvalidDataFlags
	}
	b.Flags = DataFlags(flags)

	render, err := cur.ReadU8()
	if err != nil {
		return Block{}, err
	}
	if render > uint8(RenderTransparent) {
		return Block{}, container.ErrInvalidRenderType
	}
	b.Render = RenderType(render)

	for i := range b.Position {
		v, err := cur.ReadF32()
		if err != nil {
			return Block{}, err
		}
		// Written so NaN fails the check too.
		if !(v >= -maxPositionAbs && v <= maxPositionAbs) {
			return Block{}, container.ErrInvalidPosition
		}
		b.Position[i] = v
	}
	for i := range b.Rotation {
		v, err := cur.ReadF32()
		if err != nil {
			return Block{}, err
		}
		if !(v >= -1 && v <= 1) {
			return Block{}, container.ErrInvalidRotation
		}
		b.Rotation[i] = v
	}
	for i := range b.Size {
		v, err := cur.ReadF32()
		if err != nil {
			return Block{}, err
		}
		if !(v >= minSizeDim && v <= maxSizeDim) {
			return Block{}, container.ErrInvalidSize
		}
		b.Size[i] = v
	}

	vertOff, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	vertSize, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	idxOff, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}
	idxSize, err := cur.ReadU32()
	if err != nil {
		return Block{}, err
	}

	if vertSize%VertexSize != 0 {
		return Block{}, container.ErrInvalidBlockSize
	}
	vcur, err := cur.Window(vertOff, vertSize)
	if err != nil {
		return Block{}, err
	}
	if b.Vertices, err = decodeVertices(vcur); err != nil {
		return Block{}, err
	}

	if idxSize%IndexSize != 0 {
		return Block{}, container.ErrInvalidBlockSize
	}
	// The index region must start after the vertex region; Window bounds the
	// far end against the entry length.
	if uint64(idxOff) < uint64(vertOff)+uint64(vertSize) {
		return Block{}, container.ErrUnexpectedEOF
	}
	icur, err := cur.Window(idxOff, idxSize)
	if err != nil {
		return Block{}, err
	}
	if b.Indices, err = decodeIndices(icur); err != nil {
		return Block{}, err
	}

	return b, nil
}

// decodeVertices returns nil for an empty region so a block written without
// geometry compares equal to its decoded form.
func decodeVertices(cur *container.Cursor) ([]Vertex, error) {
	if cur.Len() == 0 {
		return nil, nil
	}
	verts := make([]Vertex, 0, cur.Len()/VertexSize)
	for cur.Remaining() > 0 {
		var v Vertex
		for i := range v.Position {
			f, err := cur.ReadF32()
			if err != nil {
				return nil, err
			}
			v.Position[i] = f
		}
		for i := range v.Normal {
			f, err := cur.ReadF32()
			if err != nil {
				return nil, err
			}
			v.Normal[i] = f
		}
		for i := range v.TexCoord {
			f, err := cur.ReadF32()
			if err != nil {
				return nil, err
			}
			v.TexCoord[i] = f
		}
		for i := range v.Tangent {
			f, err := cur.ReadF32()
			if err != nil {
				return nil, err
			}
			v.Tangent[i] = f
		}
		verts = append(verts, v)
	}
	return verts, nil
}

func decodeIndices(cur *container.Cursor) ([]uint32, error) {
	if cur.Len() == 0 {
		return nil, nil
	}
	idx := make([]uint32, 0, cur.Len()/IndexSize)
	for cur.Remaining() > 0 {
		v, err := cur.ReadU32()
		if err != nil {
			return nil, err
		}
		idx = append(idx, v)
	}
	return idx, nil
}
