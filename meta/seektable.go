package meta

import (
	"bytes"
	"encoding/binary"
)

// SeekTable contains one or more precalculated audio frame seek points.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_seektable
type SeekTable struct {
	// One or more seek points.
	Points []SeekPoint
}

// BlockType returns the block body type of the seek table block.
func (table *SeekTable) BlockType() Type {
	return TypeSeekTable
}

// A SeekPoint specifies the byte offset and initial sample number of a given
// target frame.
//
// ref: https://www.xiph.org/flac/format.html#seekpoint
type SeekPoint struct {
	// Sample number of the first sample in the target frame, or
	// PlaceholderPoint for placeholder points.
	SampleNum uint64
	// Offset in bytes to the first byte of the target frame header, relative
	// to the first byte of the first audio frame.
	Offset uint64
	// Number of samples in the target frame.
	NSamples uint16
}

// PlaceholderPoint is the sample number used for placeholder points. For
// placeholder points, the value of Offset and NSamples is undefined.
const PlaceholderPoint = 0xFFFFFFFFFFFFFFFF

// seekPointLen is the size of a seek point in bytes.
const seekPointLen = 18

// ParseSeekTable parses data as a seek table block body; the body consists
// of zero or more seek points, each of which is laid out as follows:
//
//	64 bits sample number (or 0xFFFFFFFFFFFFFFFF for placeholder points)
//	64 bits offset in bytes
//	16 bits number of samples in frame
func ParseSeekTable(data []byte) (*SeekTable, error) {
	if len(data)%seekPointLen != 0 {
		return nil, errInvalid("meta.ParseSeekTable: invalid body length %d; expected a multiple of %d", len(data), seekPointLen)
	}
	table := new(SeekTable)
	n := len(data) / seekPointLen
	if n == 0 {
		return table, nil
	}
	table.Points = make([]SeekPoint, n)
	r := bytes.NewReader(data)
	for i := range table.Points {
		if err := binary.Read(r, binary.BigEndian, &table.Points[i]); err != nil {
			return nil, errIO(err)
		}
	}
	return table, nil
}

// Bytes serializes the seek table block body.
func (table *SeekTable) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(len(table.Points) * seekPointLen)
	for _, point := range table.Points {
		if err := binary.Write(buf, binary.BigEndian, point); err != nil {
			return nil, errIO(err)
		}
	}
	return buf.Bytes(), nil
}
