package meta

import (
	"unicode/utf8"

	"github.com/jameshurst/go-metaflac/internal/bits"
)

// CueSheet describes how tracks are laid out within the stream, as stored in
// the table of contents of a CD.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_cuesheet
type CueSheet struct {
	// Media catalog number; at most 128 bytes.
	MCN string
	// Number of lead-in samples. This field only has meaning for CD-DA cue
	// sheets.
	NLeadInSamples uint64
	// Specifies if the cue sheet corresponds to a Compact Disc.
	IsCompactDisc bool
	// One or more tracks.
	Tracks []CueSheetTrack
}

// BlockType returns the block body type of the cue sheet block.
func (cs *CueSheet) BlockType() Type {
	return TypeCueSheet
}

// CueSheetTrack contains the start offset of a track and other track
// specific metadata.
type CueSheetTrack struct {
	// Track offset in samples, relative to the beginning of the FLAC audio
	// stream.
	Offset uint64
	// Track number; never 0. A track number of 170 (CD-DA) or 255 denotes
	// the lead-out track.
	Num uint8
	// International Standard Recording Code; empty or 12 bytes.
	//
	// ref: http://isrc.ifpi.org/
	ISRC string
	// Specifies if the track contains audio or data.
	IsAudio bool
	// Specifies if the track has been recorded with pre-emphasis.
	HasPreEmphasis bool
	// One or more track index points.
	Indices []CueSheetTrackIndex
}

// CueSheetTrackIndex contains a track index point.
type CueSheetTrackIndex struct {
	// Offset in samples, relative to the track offset.
	Offset uint64
	// Index point number. The first index in a track has number 0 or 1.
	Num uint8
}

// Sizes of the fixed parts of a cue sheet block body in bytes.
const (
	cueSheetMCNLen    = 128
	cueSheetISRCLen   = 12
	cueSheetHeaderLen = cueSheetMCNLen + 8 + 1 + 258 + 1
	cueSheetTrackLen  = 8 + 1 + cueSheetISRCLen + 1 + 13 + 1
	cueSheetIndexLen  = 8 + 1 + 3
)

// stringFromSZ returns buf interpreted as a NUL-padded string, terminated at
// the first NUL byte.
func stringFromSZ(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// ParseCueSheet parses data as a cue sheet block body; the body is laid out
// as follows:
//
//	128 bytes media catalog number (NUL-padded)
//	 64 bits  number of lead-in samples
//	  1 bit   is compact disc
//	  7 bits + 258 bytes reserved
//	  8 bits  number of tracks
//	for each track:
//	   64 bits  track offset in samples
//	    8 bits  track number
//	   12 bytes ISRC (NUL-padded)
//	    1 bit   is not audio
//	    1 bit   has pre-emphasis
//	    6 bits + 13 bytes reserved
//	    8 bits  number of track index points
//	   for each index point:
//	      64 bits offset in samples
//	       8 bits index point number
//	      24 bits reserved
//
// Reserved gaps are skipped without validation.
func ParseCueSheet(data []byte) (*CueSheet, error) {
	if len(data) < cueSheetHeaderLen {
		return nil, errInvalid("meta.ParseCueSheet: unexpected end of block body; expected %d byte header, got %d bytes", cueSheetHeaderLen, len(data))
	}
	cs := new(CueSheet)
	mcn := data[:cueSheetMCNLen]
	if !utf8.Valid(mcn) {
		return nil, errDecode("meta.ParseCueSheet: media catalog number is not valid UTF-8")
	}
	cs.MCN = stringFromSZ(mcn)
	data = data[cueSheetMCNLen:]
	cs.NLeadInSamples = bits.DecodeBE(data[:8])
	cs.IsCompactDisc = data[8]&0x80 != 0
	nTracks := int(data[8+1+258])
	data = data[8+1+258+1:]

	if nTracks > 0 {
		cs.Tracks = make([]CueSheetTrack, nTracks)
	}
	for i := range cs.Tracks {
		track := &cs.Tracks[i]
		if len(data) < cueSheetTrackLen {
			return nil, errInvalid("meta.ParseCueSheet: unexpected end of block body; expected %d byte track, got %d bytes", cueSheetTrackLen, len(data))
		}
		track.Offset = bits.DecodeBE(data[:8])
		track.Num = data[8]
		isrc := data[9 : 9+cueSheetISRCLen]
		if !utf8.Valid(isrc) {
			return nil, errDecode("meta.ParseCueSheet: ISRC of track %d is not valid UTF-8", track.Num)
		}
		track.ISRC = stringFromSZ(isrc)
		flags := data[9+cueSheetISRCLen]
		track.IsAudio = flags&0x80 == 0
		track.HasPreEmphasis = flags&0x40 != 0
		nIndices := int(data[9+cueSheetISRCLen+1+13])
		data = data[cueSheetTrackLen:]

		if nIndices > 0 {
			track.Indices = make([]CueSheetTrackIndex, nIndices)
		}
		for j := range track.Indices {
			if len(data) < cueSheetIndexLen {
				return nil, errInvalid("meta.ParseCueSheet: unexpected end of block body; expected %d byte track index, got %d bytes", cueSheetIndexLen, len(data))
			}
			track.Indices[j].Offset = bits.DecodeBE(data[:8])
			track.Indices[j].Num = data[8]
			data = data[cueSheetIndexLen:]
		}
	}
	return cs, nil
}

// Bytes serializes the cue sheet block body. Reserved gaps are zero-filled.
func (cs *CueSheet) Bytes() ([]byte, error) {
	if len(cs.MCN) > cueSheetMCNLen {
		return nil, errInvalid("meta.CueSheet.Bytes: media catalog number of %d bytes exceeds %d bytes", len(cs.MCN), cueSheetMCNLen)
	}
	if len(cs.Tracks) > 255 {
		return nil, errInvalid("meta.CueSheet.Bytes: track count %d exceeds 255", len(cs.Tracks))
	}
	size := cueSheetHeaderLen
	for _, track := range cs.Tracks {
		size += cueSheetTrackLen + len(track.Indices)*cueSheetIndexLen
	}
	data := make([]byte, 0, size)

	var mcn [cueSheetMCNLen]byte
	copy(mcn[:], cs.MCN)
	data = append(data, mcn[:]...)
	data = append(data, bits.EncodeBE(cs.NLeadInSamples, 8)...)
	var flags byte
	if cs.IsCompactDisc {
		flags = 0x80
	}
	data = append(data, flags)
	data = append(data, make([]byte, 258)...)
	data = append(data, uint8(len(cs.Tracks)))

	for _, track := range cs.Tracks {
		if len(track.ISRC) > cueSheetISRCLen {
			return nil, errInvalid("meta.CueSheet.Bytes: ISRC of track %d is %d bytes; exceeds %d bytes", track.Num, len(track.ISRC), cueSheetISRCLen)
		}
		if len(track.Indices) > 255 {
			return nil, errInvalid("meta.CueSheet.Bytes: index count %d of track %d exceeds 255", len(track.Indices), track.Num)
		}
		data = append(data, bits.EncodeBE(track.Offset, 8)...)
		data = append(data, track.Num)
		var isrc [cueSheetISRCLen]byte
		copy(isrc[:], track.ISRC)
		data = append(data, isrc[:]...)
		flags = 0
		if !track.IsAudio {
			flags |= 0x80
		}
		if track.HasPreEmphasis {
			flags |= 0x40
		}
		data = append(data, flags)
		data = append(data, make([]byte, 13)...)
		data = append(data, uint8(len(track.Indices)))
		for _, index := range track.Indices {
			data = append(data, bits.EncodeBE(index.Offset, 8)...)
			data = append(data, index.Num)
			data = append(data, 0, 0, 0)
		}
	}
	return data, nil
}
