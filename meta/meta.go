// Package meta implements access to FLAC metadata blocks.
//
// A FLAC stream starts with the signature "fLaC" followed by one or more
// metadata blocks. Each block consists of a 4 byte header and a body whose
// layout depends on the block type, as described by the FLAC format
// specification.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block
package meta

import (
	"io"

	"github.com/jameshurst/go-metaflac/internal/bits"
	"github.com/pkg/errors"
)

// Type represents the type of a metadata block body.
type Type uint8

// Metadata block body types.
const (
	TypeStreamInfo    Type = 0
	TypePadding       Type = 1
	TypeApplication   Type = 2
	TypeSeekTable     Type = 3
	TypeVorbisComment Type = 4
	TypeCueSheet      Type = 5
	TypePicture       Type = 6
	// Types 7 through 127 are reserved and parse as Unknown bodies.
)

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

var typeNames = map[Type]string{
	TypeStreamInfo:    "stream info",
	TypePadding:       "padding",
	TypeApplication:   "application",
	TypeSeekTable:     "seek table",
	TypeVorbisComment: "vorbis comment",
	TypeCueSheet:      "cue sheet",
	TypePicture:       "picture",
}

// MaxLength is the largest possible metadata block body in bytes; the block
// header stores the body length as an unsigned 24 bit integer.
const MaxLength = 1<<24 - 1

// blockHeaderLen is the size of a metadata block header in bytes.
const blockHeaderLen = 4

// A Header contains the type and length of a metadata block.
type Header struct {
	// IsLast reports whether the block is the last metadata block.
	IsLast bool
	// Block body type.
	Type Type
	// Length of the block body in bytes.
	Length int64
}

// A Block contains the header and body of a metadata block.
type Block struct {
	// Metadata block header.
	Header
	// Metadata block body of type *StreamInfo, *Padding, *Application, etc.
	Body Body
}

// Size returns the total size of the block in bytes, header included.
func (block *Block) Size() int64 {
	return blockHeaderLen + block.Length
}

// Body is the body of a metadata block.
type Body interface {
	// BlockType returns the block body type.
	BlockType() Type
}

// ParseBlock reads and parses one metadata block from r.
//
// The 4 byte block header is a single big-endian word:
//
//	1 bit   is-last flag
//	7 bits  block body type
//	24 bits block body length in bytes
//
// Padding bodies are discarded rather than kept in memory; every other body
// is read in full and decoded according to its type. Reserved body types
// parse as *Unknown, preserving the type code and the raw payload.
func ParseBlock(r io.Reader) (*Block, error) {
	block := new(Block)
	var buf [blockHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errIO(err)
	}
	word := bits.DecodeBE(buf[:])
	block.IsLast = word&0x80000000 != 0
	code := uint8(word >> 24 & 0x7F)
	block.Type = Type(code)
	block.Length = int64(word & 0xFFFFFF)

	if block.Type == TypePadding {
		if _, err := io.CopyN(io.Discard, r, block.Length); err != nil {
			return nil, errIO(err)
		}
		block.Body = &Padding{NBytes: block.Length}
		return block, nil
	}

	data := make([]byte, block.Length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errIO(err)
	}

	var body Body
	var err error
	switch block.Type {
	case TypeStreamInfo:
		body, err = ParseStreamInfo(data)
	case TypeApplication:
		body, err = ParseApplication(data)
	case TypeSeekTable:
		body, err = ParseSeekTable(data)
	case TypeVorbisComment:
		body, err = ParseVorbisComment(data)
	case TypeCueSheet:
		body, err = ParseCueSheet(data)
	case TypePicture:
		body, err = ParsePicture(data)
	default:
		body = &Unknown{Code: code, Data: data}
	}
	if err != nil {
		return nil, err
	}
	block.Body = body
	return block, nil
}

// WriteBlock serializes body and writes it to w as one metadata block,
// header included. It returns the total number of bytes written.
func WriteBlock(w io.Writer, body Body, isLast bool) (int64, error) {
	if padding, ok := body.(*Padding); ok {
		if err := writeHeader(w, TypePadding, padding.NBytes, isLast); err != nil {
			return 0, err
		}
		if err := writePadding(w, padding.NBytes); err != nil {
			return 0, err
		}
		return blockHeaderLen + padding.NBytes, nil
	}
	data, err := encodeBody(body)
	if err != nil {
		return 0, err
	}
	if len(data) > MaxLength {
		return 0, errInvalid("meta.WriteBlock: block body of %d bytes exceeds the maximum length %d", len(data), MaxLength)
	}
	if err := writeHeader(w, body.BlockType(), int64(len(data)), isLast); err != nil {
		return 0, err
	}
	if _, err := w.Write(data); err != nil {
		return 0, errIO(err)
	}
	return blockHeaderLen + int64(len(data)), nil
}

func encodeBody(body Body) ([]byte, error) {
	switch body := body.(type) {
	case *StreamInfo:
		return body.Bytes()
	case *Application:
		return body.Bytes()
	case *SeekTable:
		return body.Bytes()
	case *VorbisComment:
		return body.Bytes()
	case *CueSheet:
		return body.Bytes()
	case *Picture:
		return body.Bytes()
	case *Unknown:
		return body.Data, nil
	}
	return nil, errors.Errorf("meta.WriteBlock: support for block body type %T not yet implemented", body)
}

func writeHeader(w io.Writer, t Type, length int64, isLast bool) error {
	word := uint64(t)<<24 | uint64(length)
	if isLast {
		word |= 0x80000000
	}
	if _, err := w.Write(bits.EncodeBE(word, blockHeaderLen)); err != nil {
		return errIO(err)
	}
	return nil
}

// writePadding writes n zero bytes to w in 1 KiB chunks.
func writePadding(w io.Writer, n int64) error {
	var zeros [1024]byte
	for n > 0 {
		chunk := n
		if chunk > int64(len(zeros)) {
			chunk = int64(len(zeros))
		}
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return errIO(err)
		}
		n -= chunk
	}
	return nil
}
