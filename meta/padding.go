package meta

// Padding reserves space for future metadata blocks. Its body consists of
// NBytes zero bytes, which are never kept in memory; parsing discards them
// and serialization produces them on the fly.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_padding
type Padding struct {
	// Size of the padding body in bytes.
	NBytes int64
}

// BlockType returns the block body type of the padding block.
func (pad *Padding) BlockType() Type {
	return TypePadding
}

// Unknown holds the raw payload of a metadata block with a reserved body
// type. It round-trips byte for byte.
type Unknown struct {
	// Block body type code, in the range [7, 127].
	Code uint8
	// Raw block body.
	Data []byte
}

// BlockType returns the block body type of the unknown block.
func (blk *Unknown) BlockType() Type {
	return Type(blk.Code)
}
