package meta

import (
	"bytes"
	"io"
)

// signature marks the start of a FLAC stream.
const signature = "fLaC"

// id3Magic marks the start of an ID3v2 tag, which some tools prepend to
// FLAC files.
const id3Magic = "ID3"

// ReadSignature consumes the FLAC stream signature from r, skipping over a
// leading ID3v2 tag if one is present. It returns the number of bytes
// consumed.
func ReadSignature(r io.Reader) (int64, error) {
	var n int64
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return n, errIO(err)
	}
	n += 4
	if bytes.HasPrefix(buf[:], []byte(id3Magic)) {
		// buf[3] holds the ID3v2 major version, already consumed.
		skipped, err := skipID3v2(r)
		n += skipped
		if err != nil {
			return n, err
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return n, errIO(err)
		}
		n += 4
	}
	if string(buf[:]) != signature {
		return n, errInvalid("meta.ReadSignature: invalid stream signature %q; expected %q", buf, signature)
	}
	return n, nil
}

// skipID3v2 discards the remainder of an ID3v2 tag whose magic and major
// version byte have already been consumed. The remaining header is one
// revision byte, one flag byte and a 4 byte syncsafe tag size (7 bits per
// byte, high bit zero); the footer flag 0x10 adds another 10 bytes past the
// tag body.
//
// ref: https://id3.org/id3v2.4.0-structure
func skipID3v2(r io.Reader) (int64, error) {
	var buf [6]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errIO(err)
	}
	n := int64(6)
	flags := buf[1]
	var size int64
	for _, b := range buf[2:] {
		if b&0x80 != 0 {
			return n, errInvalid("meta.ReadSignature: invalid ID3v2 syncsafe size byte 0x%02X", b)
		}
		size = size<<7 | int64(b)
	}
	if flags&0x10 != 0 {
		size += 10
	}
	if _, err := io.CopyN(io.Discard, r, size); err != nil {
		return n, errIO(err)
	}
	return n + size, nil
}

// A Scanner iterates over the metadata blocks of a FLAC stream. It is a
// single pass reader; once the last metadata block has been returned every
// further call to Next reports io.EOF.
type Scanner struct {
	r io.Reader
	// Total number of bytes consumed, signature and ID3v2 prefix included.
	n int64
	// started reports whether the stream signature has been consumed.
	started bool
	// done reports whether the last metadata block has been returned.
	done bool
	// Sticky error.
	err error
}

// NewScanner returns a new Scanner reading the FLAC stream of r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: r}
}

// Next returns the next metadata block of the stream. It returns io.EOF
// after the last metadata block; any other error is sticky.
func (s *Scanner) Next() (*Block, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return nil, io.EOF
	}
	if !s.started {
		n, err := ReadSignature(s.r)
		s.n += n
		if err != nil {
			s.err = err
			return nil, err
		}
		s.started = true
	}
	block, err := ParseBlock(s.r)
	if err != nil {
		s.err = err
		return nil, err
	}
	s.n += block.Size()
	if block.IsLast {
		s.done = true
	}
	return block, nil
}

// BytesRead returns the total number of bytes consumed from the underlying
// reader.
func (s *Scanner) BytesRead() int64 {
	return s.n
}
