package metaflac

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/mewkiz/pkg/osutil"
	"github.com/pkg/errors"

	"github.com/jameshurst/go-metaflac/meta"
)

// signature marks the start of a FLAC stream.
var signature = []byte("fLaC")

// blockHeaderLen is the size of a metadata block header in bytes.
const blockHeaderLen = 4

// freshPaddingLen is the body size of the padding block appended when a
// file is rewritten from scratch.
const freshPaddingLen = 1024

// WriteTo writes the FLAC stream signature and the metadata blocks of the
// tag to w, marking the final block as last. It returns the number of bytes
// written and updates the remembered metadata region size.
func (tag *Tag) WriteTo(w io.Writer) (int64, error) {
	if _, err := w.Write(signature); err != nil {
		return 0, ioErr(err)
	}
	n := int64(len(signature))
	var length int64
	for i, body := range tag.blocks {
		written, err := meta.WriteBlock(w, body, i == len(tag.blocks)-1)
		if err != nil {
			return n, err
		}
		n += written
		length += written
	}
	tag.length = length
	return n, nil
}

// WriteToPath writes the metadata blocks of the tag to the FLAC file at
// path, preserving the audio frames byte for byte. Padding blocks are
// dropped from the tag; when the file at path is the one the tag was read
// from and the stripped blocks fit within the old metadata region, the
// region is overwritten in place and the leftover space becomes a single
// trailing padding block. Otherwise the file is rewritten through a
// temporary file in the same directory, with a fresh trailing padding
// block.
//
// The tag is only updated once the write has fully succeeded.
func (tag *Tag) WriteToPath(path string) error {
	blocks := make([]meta.Body, 0, len(tag.blocks))
	for _, body := range tag.blocks {
		if body.BlockType() == meta.TypePadding {
			continue
		}
		blocks = append(blocks, body)
	}
	buf := new(bytes.Buffer)
	for _, body := range blocks {
		// The trailing padding block appended below is always last.
		if _, err := meta.WriteBlock(buf, body, false); err != nil {
			return err
		}
	}
	encoded := buf.Bytes()
	newLength := int64(len(encoded))

	var length int64
	if tag.path != "" && tag.path == path && newLength+blockHeaderLen <= tag.length {
		if err := tag.writeInPlace(path, encoded); err != nil {
			return err
		}
		length = tag.length
	} else {
		var err error
		length, err = rewrite(path, encoded)
		if err != nil {
			return err
		}
	}
	tag.blocks = blocks
	tag.path = path
	tag.length = length
	return nil
}

// Save writes the tag back to the path it was read from.
func (tag *Tag) Save() error {
	if tag.path == "" {
		return &Error{Kind: KindInvalidInput, Err: errors.New("metaflac: tag was not read from a path")}
	}
	return tag.WriteToPath(tag.path)
}

// writeInPlace overwrites the metadata region of the file at path with
// encoded, filling the leftover space with a single last padding block.
// Bytes past the metadata region are never touched.
func (tag *Tag) writeInPlace(path string, encoded []byte) error {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return ioErr(err)
	}
	defer f.Close()
	// Position past the stream signature and any ID3v2 prefix.
	if _, err := meta.ReadSignature(f); err != nil {
		return err
	}
	if _, err := f.Write(encoded); err != nil {
		return ioErr(err)
	}
	leftover := tag.length - int64(len(encoded))
	if _, err := meta.WriteBlock(f, &meta.Padding{NBytes: leftover - blockHeaderLen}, true); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return ioErr(err)
	}
	return nil
}

// rewrite writes a whole new FLAC file for path through a temporary file in
// the same directory, appending the audio frames of any existing file at
// path, and renames it into place. It returns the size of the new metadata
// region.
func rewrite(path string, encoded []byte) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metaflac-*.tmp")
	if err != nil {
		return 0, ioErr(err)
	}
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(signature); err != nil {
		return 0, ioErr(err)
	}
	if _, err := tmp.Write(encoded); err != nil {
		return 0, ioErr(err)
	}
	if _, err := meta.WriteBlock(tmp, &meta.Padding{NBytes: freshPaddingLen}, true); err != nil {
		return 0, err
	}
	if osutil.Exists(path) {
		if err := copyAudioData(tmp, path); err != nil {
			return 0, err
		}
	}
	if err := tmp.Sync(); err != nil {
		return 0, ioErr(err)
	}
	if err := tmp.Close(); err != nil {
		return 0, ioErr(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, ioErr(err)
	}
	success = true
	return int64(len(encoded)) + blockHeaderLen + freshPaddingLen, nil
}

// copyAudioData copies the bytes following the metadata region of the FLAC
// file at path to w. A file whose metadata cannot be walked, whether it is
// not a FLAC stream at all or its metadata is truncated mid-block, is
// copied whole, so that no data is lost.
func copyAudioData(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return ioErr(err)
	}
	defer f.Close()
	if err := skipMetadata(f); err != nil {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return ioErr(err)
		}
	}
	if _, err := io.Copy(w, f); err != nil {
		return ioErr(err)
	}
	return nil
}

// skipMetadata consumes the stream signature and every metadata block of
// the FLAC stream of r, leaving it positioned at the first audio frame.
func skipMetadata(r io.Reader) error {
	s := meta.NewScanner(r)
	for {
		if _, err := s.Next(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
