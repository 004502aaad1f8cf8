package meta_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jameshurst/go-metaflac/meta"
)

func TestStreamInfoBytes(t *testing.T) {
	info := &meta.StreamInfo{
		BlockSizeMin:  4096,
		BlockSizeMax:  4096,
		SampleRate:    44100,
		NChannels:     2,
		BitsPerSample: 16,
	}
	data, err := info.Bytes()
	require.NoError(t, err)
	require.Len(t, data, 34)

	// 20 bit sample rate, 3 bit channel count (stored minus one) and the
	// first bit of the 5 bit sample size (stored minus one) pack into bytes
	// 10 through 13.
	require.Equal(t, byte(0x10), data[0])
	require.Equal(t, byte(0x00), data[1])
	require.Equal(t, byte(0x0A), data[10])
	require.Equal(t, byte(0xC4), data[11])
	require.Equal(t, byte(0x42), data[12])
	require.Equal(t, byte(0xF0), data[13])

	got, err := meta.ParseStreamInfo(data)
	require.NoError(t, err)
	require.Equal(t, info, got)
}

func TestStreamInfoRoundTrip(t *testing.T) {
	info := &meta.StreamInfo{
		BlockSizeMin:  4608,
		BlockSizeMax:  4608,
		FrameSizeMin:  14,
		FrameSizeMax:  19024,
		SampleRate:    96000,
		NChannels:     8,
		BitsPerSample: 24,
		NSamples:      151007220,
		MD5sum:        [16]byte{0x2E, 0x62, 0x38, 0xF5, 0xD9, 0xFE, 0x5C, 0x19, 0xF3, 0xEA, 0xD6, 0x28, 0xF7, 0x50, 0xFD, 0x3D},
	}
	data, err := info.Bytes()
	require.NoError(t, err)
	got, err := meta.ParseStreamInfo(data)
	require.NoError(t, err)
	require.Equal(t, info, got)
}

func TestParseStreamInfoLength(t *testing.T) {
	_, err := meta.ParseStreamInfo(make([]byte, 33))
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestApplicationRoundTrip(t *testing.T) {
	app := &meta.Application{
		ID:   [4]byte{'r', 'i', 'f', 'f'},
		Data: []byte("application specific data"),
	}
	data, err := app.Bytes()
	require.NoError(t, err)
	got, err := meta.ParseApplication(data)
	require.NoError(t, err)
	require.Equal(t, app, got)

	// ID only; no data.
	app = &meta.Application{ID: [4]byte{'a', 't', 'c', 'h'}}
	data, err = app.Bytes()
	require.NoError(t, err)
	got, err = meta.ParseApplication(data)
	require.NoError(t, err)
	require.Equal(t, app, got)
}

func TestParseApplicationShort(t *testing.T) {
	_, err := meta.ParseApplication([]byte{'r', 'i'})
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestSeekTableRoundTrip(t *testing.T) {
	table := &meta.SeekTable{
		Points: []meta.SeekPoint{
			{SampleNum: 0, Offset: 0, NSamples: 4608},
			{SampleNum: 2419200, Offset: 3733871, NSamples: 4608},
			{SampleNum: meta.PlaceholderPoint},
		},
	}
	data, err := table.Bytes()
	require.NoError(t, err)
	require.Len(t, data, 3*18)
	got, err := meta.ParseSeekTable(data)
	require.NoError(t, err)
	require.Equal(t, table, got)

	// Empty table.
	got, err = meta.ParseSeekTable(nil)
	require.NoError(t, err)
	require.Equal(t, &meta.SeekTable{}, got)
}

func TestParseSeekTableLength(t *testing.T) {
	_, err := meta.ParseSeekTable(make([]byte, 19))
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestVorbisCommentRoundTrip(t *testing.T) {
	comment := meta.NewVorbisComment()
	comment.Vendor = "reference libFLAC 1.2.1 20070917"
	comment.Set("TITLE", "Prelude")
	comment.Set("Artist", "Gustav Holst", "London Symphony Orchestra")
	data, err := comment.Bytes()
	require.NoError(t, err)
	got, err := meta.ParseVorbisComment(data)
	require.NoError(t, err)
	require.Equal(t, comment, got)
}

func TestVorbisCommentCaseFolding(t *testing.T) {
	comment := meta.NewVorbisComment()
	comment.Set("artist", "foo")
	require.Equal(t, []string{"foo"}, comment.Get("ARTIST"))
	require.Equal(t, []string{"foo"}, comment.Get("Artist"))
	require.Equal(t, []string{"foo"}, comment.Comments["ARTIST"])
	comment.Remove("aRtIsT")
	require.Nil(t, comment.Get("artist"))
}

func TestVorbisCommentSetNoValues(t *testing.T) {
	comment := meta.NewVorbisComment()
	comment.Set("ARTIST", "foo")
	comment.Set("artist")
	_, ok := comment.Comments["ARTIST"]
	require.False(t, ok)

	// An unset field must not surface as an empty entry list after a
	// round trip.
	data, err := comment.Bytes()
	require.NoError(t, err)
	got, err := meta.ParseVorbisComment(data)
	require.NoError(t, err)
	require.Equal(t, comment, got)
}

func TestVorbisCommentRemovePair(t *testing.T) {
	comment := meta.NewVorbisComment()
	comment.Set("GENRE", "rock", "pop", "rock")
	comment.RemovePair("genre", "rock")
	require.Equal(t, []string{"pop"}, comment.Get("GENRE"))
	comment.RemovePair("genre", "pop")
	require.Nil(t, comment.Get("GENRE"))
	_, ok := comment.Comments["GENRE"]
	require.False(t, ok)
}

// vorbisBody builds a raw vorbis comment block body from entries.
func vorbisBody(vendor string, entries ...string) []byte {
	le := func(x int) []byte {
		return []byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)}
	}
	var data []byte
	data = append(data, le(len(vendor))...)
	data = append(data, vendor...)
	data = append(data, le(len(entries))...)
	for _, entry := range entries {
		data = append(data, le(len(entry))...)
		data = append(data, entry...)
	}
	return data
}

func TestParseVorbisCommentMissingSeparator(t *testing.T) {
	_, err := meta.ParseVorbisComment(vorbisBody("vendor", "NOSEPARATOR"))
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestParseVorbisCommentEmptyName(t *testing.T) {
	comment, err := meta.ParseVorbisComment(vorbisBody("vendor", "=value"))
	require.NoError(t, err)
	require.Equal(t, []string{"value"}, comment.Get(""))
}

func TestParseVorbisCommentTruncated(t *testing.T) {
	data := vorbisBody("vendor", "A=B")
	_, err := meta.ParseVorbisComment(data[:len(data)-1])
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestParseVorbisCommentInvalidUTF8(t *testing.T) {
	_, err := meta.ParseVorbisComment(vorbisBody("\xFF\xFE"))
	require.True(t, meta.IsKind(err, meta.KindStringDecoding))
}

func TestCueSheetRoundTrip(t *testing.T) {
	cs := &meta.CueSheet{
		MCN:            "1234567890123",
		NLeadInSamples: 88200,
		IsCompactDisc:  true,
		Tracks: []meta.CueSheetTrack{
			{
				Offset:  0,
				Num:     1,
				ISRC:    "JMK401400212",
				IsAudio: true,
				Indices: []meta.CueSheetTrackIndex{
					{Offset: 0, Num: 1},
				},
			},
			{
				Offset:         2421384,
				Num:            2,
				IsAudio:        true,
				HasPreEmphasis: true,
				Indices: []meta.CueSheetTrackIndex{
					{Offset: 0, Num: 1},
					{Offset: 588, Num: 2},
				},
			},
			// Lead-out track.
			{Offset: 151007220, Num: 170, IsAudio: true},
		},
	}
	data, err := cs.Bytes()
	require.NoError(t, err)
	got, err := meta.ParseCueSheet(data)
	require.NoError(t, err)
	require.Equal(t, cs, got)
}

func TestCueSheetBytesLimits(t *testing.T) {
	cs := &meta.CueSheet{MCN: string(make([]byte, 129))}
	_, err := cs.Bytes()
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))

	cs = &meta.CueSheet{
		Tracks: []meta.CueSheetTrack{
			{Num: 1, ISRC: "THIRTEENBYTES"},
		},
	}
	_, err = cs.Bytes()
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestParseCueSheetTruncated(t *testing.T) {
	_, err := meta.ParseCueSheet(make([]byte, 100))
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestPictureRoundTrip(t *testing.T) {
	pic := &meta.Picture{
		Type:   meta.PictureCoverFront,
		MIME:   "image/jpeg",
		Desc:   "album cover",
		Width:  1200,
		Height: 1200,
		Depth:  24,
		Data:   []byte{0xFF, 0xD8, 0xFF, 0xE0},
	}
	data, err := pic.Bytes()
	require.NoError(t, err)
	got, err := meta.ParsePicture(data)
	require.NoError(t, err)
	require.Equal(t, pic, got)
}

func TestParsePictureReservedType(t *testing.T) {
	pic := &meta.Picture{Type: 21}
	data, err := pic.Bytes()
	require.NoError(t, err)
	_, err = meta.ParsePicture(data)
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestParsePictureInvalidUTF8(t *testing.T) {
	pic := &meta.Picture{MIME: "\xFF\xFE"}
	data, err := pic.Bytes()
	require.NoError(t, err)
	_, err = meta.ParsePicture(data)
	require.True(t, meta.IsKind(err, meta.KindStringDecoding))
}

func TestBlockRoundTrip(t *testing.T) {
	bodies := []meta.Body{
		&meta.StreamInfo{
			BlockSizeMin:  4096,
			BlockSizeMax:  4096,
			SampleRate:    44100,
			NChannels:     2,
			BitsPerSample: 16,
		},
		&meta.Application{ID: [4]byte{'r', 'i', 'f', 'f'}, Data: []byte("data")},
		&meta.SeekTable{Points: []meta.SeekPoint{{SampleNum: 0, Offset: 0, NSamples: 4608}}},
		&meta.Picture{Type: meta.PictureCoverFront, MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
	}
	for _, body := range bodies {
		buf := new(bytes.Buffer)
		n, err := meta.WriteBlock(buf, body, true)
		require.NoError(t, err)
		require.Equal(t, int64(buf.Len()), n)
		block, err := meta.ParseBlock(buf)
		require.NoError(t, err)
		require.True(t, block.IsLast)
		require.Equal(t, body.BlockType(), block.Type)
		require.Equal(t, body, block.Body)
	}
}

func TestUnknownBlockRoundTrip(t *testing.T) {
	body := &meta.Unknown{Code: 10, Data: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	buf := new(bytes.Buffer)
	_, err := meta.WriteBlock(buf, body, true)
	require.NoError(t, err)
	// is-last flag set, type code 10, 4 byte body.
	require.Equal(t, []byte{0x8A, 0x00, 0x00, 0x04, 0xDE, 0xAD, 0xBE, 0xEF}, buf.Bytes())
	block, err := meta.ParseBlock(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, body, block.Body)
}

func TestPaddingBlock(t *testing.T) {
	buf := new(bytes.Buffer)
	n, err := meta.WriteBlock(buf, &meta.Padding{NBytes: 100}, false)
	require.NoError(t, err)
	require.Equal(t, int64(104), n)
	require.Equal(t, []byte{0x01, 0x00, 0x00, 0x64}, buf.Bytes()[:4])
	require.Equal(t, make([]byte, 100), buf.Bytes()[4:])

	block, err := meta.ParseBlock(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.False(t, block.IsLast)
	require.Equal(t, &meta.Padding{NBytes: 100}, block.Body)
}

func TestParseBlockTruncated(t *testing.T) {
	// Header promises a 10 byte body; only 2 bytes follow.
	data := []byte{0x02, 0x00, 0x00, 0x0A, 'r', 'i'}
	_, err := meta.ParseBlock(bytes.NewReader(data))
	require.True(t, meta.IsKind(err, meta.KindIO))
}
