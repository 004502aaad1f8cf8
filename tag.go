package metaflac

import (
	"github.com/jameshurst/go-metaflac/meta"
)

// PushBlock appends a metadata block body to the tag. A stream info body
// replaces any existing one and is kept at the front of the block list, as
// the format requires the stream info block to come first.
func (tag *Tag) PushBlock(body meta.Body) {
	if _, ok := body.(*meta.StreamInfo); ok {
		tag.RemoveBlocks(meta.TypeStreamInfo)
		tag.blocks = append([]meta.Body{body}, tag.blocks...)
		return
	}
	tag.blocks = append(tag.blocks, body)
}

// Blocks returns the metadata block bodies of the tag in stream order.
func (tag *Tag) Blocks() []meta.Body {
	return tag.blocks
}

// BlocksByType returns the metadata block bodies of the given type in
// stream order.
func (tag *Tag) BlocksByType(t meta.Type) []meta.Body {
	var blocks []meta.Body
	for _, body := range tag.blocks {
		if body.BlockType() == t {
			blocks = append(blocks, body)
		}
	}
	return blocks
}

// RemoveBlocks removes every metadata block body of the given type.
func (tag *Tag) RemoveBlocks(t meta.Type) {
	kept := tag.blocks[:0]
	for _, body := range tag.blocks {
		if body.BlockType() != t {
			kept = append(kept, body)
		}
	}
	tag.blocks = kept
}

// StreamInfo returns the stream info block body of the tag, or nil if the
// tag has none.
func (tag *Tag) StreamInfo() *meta.StreamInfo {
	for _, body := range tag.blocks {
		if info, ok := body.(*meta.StreamInfo); ok {
			return info
		}
	}
	return nil
}

// SetStreamInfo replaces the stream info block body of the tag.
func (tag *Tag) SetStreamInfo(info *meta.StreamInfo) {
	tag.PushBlock(info)
}

// VorbisComments returns the first vorbis comment block body of the tag, or
// nil if the tag has none.
func (tag *Tag) VorbisComments() *meta.VorbisComment {
	for _, body := range tag.blocks {
		if comment, ok := body.(*meta.VorbisComment); ok {
			return comment
		}
	}
	return nil
}

// EnsureVorbisComments returns the first vorbis comment block body of the
// tag, appending a new empty one if the tag has none.
func (tag *Tag) EnsureVorbisComments() *meta.VorbisComment {
	if comment := tag.VorbisComments(); comment != nil {
		return comment
	}
	comment := meta.NewVorbisComment()
	tag.blocks = append(tag.blocks, comment)
	return comment
}

// GetVorbis returns the values of the given vorbis comment field, or nil if
// the tag has no vorbis comment block or the field is unset. The field name
// is case-insensitive.
func (tag *Tag) GetVorbis(name string) []string {
	comment := tag.VorbisComments()
	if comment == nil {
		return nil
	}
	return comment.Get(name)
}

// SetVorbis replaces the values of the given vorbis comment field, creating
// the vorbis comment block if needed. The field name is case-insensitive.
func (tag *Tag) SetVorbis(name string, values ...string) {
	tag.EnsureVorbisComments().Set(name, values...)
}

// RemoveVorbis removes all values of the given vorbis comment field. The
// field name is case-insensitive.
func (tag *Tag) RemoveVorbis(name string) {
	if comment := tag.VorbisComments(); comment != nil {
		comment.Remove(name)
	}
}

// RemoveVorbisPair removes every occurrence of the given vorbis comment
// name-value pair. The field name is case-insensitive; the value is not.
func (tag *Tag) RemoveVorbisPair(name, value string) {
	if comment := tag.VorbisComments(); comment != nil {
		comment.RemovePair(name, value)
	}
}

// Pictures returns the picture block bodies of the tag in stream order.
func (tag *Tag) Pictures() []*meta.Picture {
	var pics []*meta.Picture
	for _, body := range tag.blocks {
		if pic, ok := body.(*meta.Picture); ok {
			pics = append(pics, pic)
		}
	}
	return pics
}

// AddPicture adds a picture of the given type, replacing any existing
// picture of that type.
func (tag *Tag) AddPicture(mime string, t meta.PictureType, data []byte) {
	tag.RemovePictureType(t)
	tag.blocks = append(tag.blocks, &meta.Picture{
		Type: t,
		MIME: mime,
		Data: data,
	})
}

// RemovePictureType removes every picture of the given type.
func (tag *Tag) RemovePictureType(t meta.PictureType) {
	kept := tag.blocks[:0]
	for _, body := range tag.blocks {
		if pic, ok := body.(*meta.Picture); ok && pic.Type == t {
			continue
		}
		kept = append(kept, body)
	}
	tag.blocks = kept
}
