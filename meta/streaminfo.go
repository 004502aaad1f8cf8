package meta

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
)

// StreamInfo contains the basic properties of the audio stream, such as its
// sample rate and channel count.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// Minimum block size (in samples) used in the stream.
	BlockSizeMin uint16
	// Maximum block size (in samples) used in the stream.
	BlockSizeMax uint16
	// Minimum frame size in bytes; a 0 value implies unknown.
	FrameSizeMin uint32
	// Maximum frame size in bytes; a 0 value implies unknown.
	FrameSizeMax uint32
	// Sample rate in Hz.
	SampleRate uint32
	// Number of channels; between 1 and 8 channels.
	NChannels uint8
	// Sample size in bits-per-sample; between 4 and 32 bits.
	BitsPerSample uint8
	// Total number of inter-channel samples in the stream. A 0 value implies
	// unknown.
	NSamples uint64
	// MD5 checksum of the unencoded audio data.
	MD5sum [16]byte
}

// BlockType returns the block body type of the stream info block.
func (info *StreamInfo) BlockType() Type {
	return TypeStreamInfo
}

// streamInfoLen is the fixed size of a stream info block body in bytes.
const streamInfoLen = 34

// ParseStreamInfo parses data as a stream info block body; the body is
// laid out as follows:
//
//	16 bits minimum block size (in samples)
//	16 bits maximum block size (in samples)
//	24 bits minimum frame size (in bytes)
//	24 bits maximum frame size (in bytes)
//	20 bits sample rate
//	 3 bits (number of channels) - 1
//	 5 bits (bits-per-sample) - 1
//	36 bits total number of inter-channel samples
//	16 bytes MD5 checksum of the unencoded audio data
func ParseStreamInfo(data []byte) (*StreamInfo, error) {
	if len(data) != streamInfoLen {
		return nil, errInvalid("meta.ParseStreamInfo: invalid body length; expected %d, got %d", streamInfoLen, len(data))
	}
	info := new(StreamInfo)
	br := bitio.NewReader(bytes.NewReader(data))

	x, err := br.ReadBits(16)
	if err != nil {
		return nil, errIO(err)
	}
	info.BlockSizeMin = uint16(x)
	if x, err = br.ReadBits(16); err != nil {
		return nil, errIO(err)
	}
	info.BlockSizeMax = uint16(x)
	if x, err = br.ReadBits(24); err != nil {
		return nil, errIO(err)
	}
	info.FrameSizeMin = uint32(x)
	if x, err = br.ReadBits(24); err != nil {
		return nil, errIO(err)
	}
	info.FrameSizeMax = uint32(x)
	if x, err = br.ReadBits(20); err != nil {
		return nil, errIO(err)
	}
	info.SampleRate = uint32(x)
	if x, err = br.ReadBits(3); err != nil {
		return nil, errIO(err)
	}
	info.NChannels = uint8(x) + 1
	if x, err = br.ReadBits(5); err != nil {
		return nil, errIO(err)
	}
	info.BitsPerSample = uint8(x) + 1
	if x, err = br.ReadBits(36); err != nil {
		return nil, errIO(err)
	}
	info.NSamples = x
	if _, err := io.ReadFull(br, info.MD5sum[:]); err != nil {
		return nil, errIO(err)
	}
	return info, nil
}

// Bytes serializes the stream info block body.
func (info *StreamInfo) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	bw := bitio.NewWriter(buf)
	if err := bw.WriteBits(uint64(info.BlockSizeMin), 16); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.BlockSizeMax), 16); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.FrameSizeMin), 24); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.FrameSizeMax), 24); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.SampleRate)&0xFFFFF, 20); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.NChannels-1)&0x7, 3); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(uint64(info.BitsPerSample-1)&0x1F, 5); err != nil {
		return nil, errIO(err)
	}
	if err := bw.WriteBits(info.NSamples&0xFFFFFFFFF, 36); err != nil {
		return nil, errIO(err)
	}
	if _, err := bw.Write(info.MD5sum[:]); err != nil {
		return nil, errIO(err)
	}
	if err := bw.Close(); err != nil {
		return nil, errIO(err)
	}
	return buf.Bytes(), nil
}
