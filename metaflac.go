// Package metaflac provides read and write access to the metadata of FLAC
// files: the stream properties, vorbis comments, pictures, cue sheets and
// any other metadata block preceding the audio frames. The audio frames
// themselves are treated as an opaque blob and are preserved byte for byte
// when metadata is written back.
package metaflac

import (
	"io"
	"os"

	"github.com/jameshurst/go-metaflac/meta"
)

// A Tag holds the ordered metadata blocks of a FLAC stream.
type Tag struct {
	// Metadata block bodies in stream order.
	blocks []meta.Body
	// Path the tag was read from, if any.
	path string
	// Size in bytes of the metadata region the tag was read from; block
	// headers included, stream signature excluded.
	length int64
}

// New returns a new empty tag.
func New() *Tag {
	return new(Tag)
}

// ReadFrom reads the metadata blocks of the FLAC stream of r. Reading stops
// after the last metadata block; the audio frames are left unread.
func ReadFrom(r io.Reader) (*Tag, error) {
	tag := new(Tag)
	s := meta.NewScanner(r)
	for {
		block, err := s.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		tag.blocks = append(tag.blocks, block.Body)
		// The metadata region excludes the stream signature and any ID3v2
		// prefix, so the scanner's byte count cannot be used directly.
		tag.length += block.Size()
	}
	return tag, nil
}

// ReadFromPath reads the metadata blocks of the FLAC file at path. The
// returned tag remembers the path, enabling Save.
func ReadFromPath(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErr(err)
	}
	defer f.Close()
	tag, err := ReadFrom(f)
	if err != nil {
		return nil, err
	}
	tag.path = path
	return tag, nil
}

// IsCandidate reports whether rs looks like a FLAC stream, optionally
// prefixed by an ID3v2 tag. The stream position is restored before
// returning, regardless of the outcome.
func IsCandidate(rs io.ReadSeeker) bool {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	_, sigErr := meta.ReadSignature(rs)
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return false
	}
	return sigErr == nil
}

// Path returns the path the tag was read from, or the empty string for tags
// not read from a file.
func (tag *Tag) Path() string {
	return tag.path
}

// Length returns the size in bytes of the metadata region the tag was read
// from or last written to; block headers included, stream signature
// excluded.
func (tag *Tag) Length() int64 {
	return tag.length
}
