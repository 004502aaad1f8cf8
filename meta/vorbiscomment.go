package meta

import (
	"strings"
	"unicode/utf8"

	"github.com/jameshurst/go-metaflac/internal/bits"
)

// VorbisComment contains a list of name-value pairs; the only strictly
// tag-like metadata block.
//
// Field names are case-insensitive and are folded to upper-case both when
// parsing and on every lookup.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_vorbis_comment
// ref: https://www.xiph.org/vorbis/doc/v-comment.html
type VorbisComment struct {
	// Vendor name.
	Vendor string
	// A mapping from upper-case field names to their list of values.
	Comments map[string][]string
}

// NewVorbisComment returns a new vorbis comment block body with no vendor
// name and no comments.
func NewVorbisComment() *VorbisComment {
	return &VorbisComment{Comments: make(map[string][]string)}
}

// BlockType returns the block body type of the vorbis comment block.
func (comment *VorbisComment) BlockType() Type {
	return TypeVorbisComment
}

// Get returns the values of the given field, or nil if the field is unset.
// The field name is case-insensitive.
func (comment *VorbisComment) Get(name string) []string {
	return comment.Comments[strings.ToUpper(name)]
}

// Set replaces the values of the given field; with no values the field is
// unset entirely. The field name is case-insensitive.
func (comment *VorbisComment) Set(name string, values ...string) {
	name = strings.ToUpper(name)
	if len(values) == 0 {
		delete(comment.Comments, name)
		return
	}
	if comment.Comments == nil {
		comment.Comments = make(map[string][]string)
	}
	comment.Comments[name] = values
}

// Remove removes all values of the given field. The field name is
// case-insensitive.
func (comment *VorbisComment) Remove(name string) {
	delete(comment.Comments, strings.ToUpper(name))
}

// RemovePair removes every occurrence of the given name-value pair. The
// field name is case-insensitive; the value is not. The field is unset
// entirely when no value remains.
func (comment *VorbisComment) RemovePair(name, value string) {
	name = strings.ToUpper(name)
	values := comment.Comments[name]
	kept := values[:0]
	for _, v := range values {
		if v != value {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		delete(comment.Comments, name)
		return
	}
	comment.Comments[name] = kept
}

// nextVorbisField slices the next length-prefixed field off data and returns
// the remainder. Lengths are little-endian 32 bit integers.
func nextVorbisField(data []byte) (field, rest []byte, err error) {
	if len(data) < 4 {
		return nil, nil, errInvalid("meta.ParseVorbisComment: unexpected end of block body; expected 4 byte field length, got %d bytes", len(data))
	}
	n := bits.DecodeLE(data[:4])
	data = data[4:]
	if n > uint64(len(data)) {
		return nil, nil, errInvalid("meta.ParseVorbisComment: field length %d exceeds remaining body size %d", n, len(data))
	}
	return data[:n], data[n:], nil
}

// ParseVorbisComment parses data as a vorbis comment block body; the body is
// laid out as follows:
//
//	32 bits vendor name length (little-endian)
//	(n) bytes vendor name
//	32 bits number of NAME=value entries (little-endian)
//	for each entry:
//	   32 bits entry length (little-endian)
//	   (n) bytes NAME=value
//
// All strings are UTF-8 encoded; entries lacking a "=" separator are
// rejected.
func ParseVorbisComment(data []byte) (*VorbisComment, error) {
	comment := NewVorbisComment()
	vendor, data, err := nextVorbisField(data)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(vendor) {
		return nil, errDecode("meta.ParseVorbisComment: vendor name is not valid UTF-8")
	}
	comment.Vendor = string(vendor)

	if len(data) < 4 {
		return nil, errInvalid("meta.ParseVorbisComment: unexpected end of block body; expected 4 byte comment count, got %d bytes", len(data))
	}
	count := bits.DecodeLE(data[:4])
	data = data[4:]
	for i := uint64(0); i < count; i++ {
		var entry []byte
		entry, data, err = nextVorbisField(data)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(entry) {
			return nil, errDecode("meta.ParseVorbisComment: comment entry is not valid UTF-8")
		}
		pos := strings.Index(string(entry), "=")
		if pos == -1 {
			return nil, errInvalid("meta.ParseVorbisComment: comment entry %q lacks a name-value separator", entry)
		}
		name := strings.ToUpper(string(entry[:pos]))
		value := string(entry[pos+1:])
		comment.Comments[name] = append(comment.Comments[name], value)
	}
	return comment, nil
}

// Bytes serializes the vorbis comment block body. The entry count written is
// the total number of NAME=value pairs across all fields.
func (comment *VorbisComment) Bytes() ([]byte, error) {
	var data []byte
	data = append(data, bits.EncodeLE(uint64(len(comment.Vendor)), 4)...)
	data = append(data, comment.Vendor...)
	var count uint64
	for _, values := range comment.Comments {
		count += uint64(len(values))
	}
	data = append(data, bits.EncodeLE(count, 4)...)
	for name, values := range comment.Comments {
		for _, value := range values {
			entry := name + "=" + value
			data = append(data, bits.EncodeLE(uint64(len(entry)), 4)...)
			data = append(data, entry...)
		}
	}
	return data, nil
}
