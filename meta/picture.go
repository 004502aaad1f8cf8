package meta

import (
	"unicode/utf8"

	"github.com/jameshurst/go-metaflac/internal/bits"
)

// PictureType specifies the kind of picture stored in a picture block; the
// types mirror those of the ID3v2 APIC frame.
type PictureType uint32

// Picture types.
const (
	PictureOther PictureType = iota
	PictureFileIcon
	PictureOtherFileIcon
	PictureCoverFront
	PictureCoverBack
	PictureLeaflet
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureVideoScreenCapture
	PictureFish
	PictureIllustration
	PictureBandLogo
	PicturePublisherLogo

	maxPictureType = PicturePublisherLogo
)

func (t PictureType) String() string {
	if name, ok := pictureTypeNames[t]; ok {
		return name
	}
	return "reserved"
}

var pictureTypeNames = map[PictureType]string{
	PictureOther:              "other",
	PictureFileIcon:           "32x32 pixels file icon",
	PictureOtherFileIcon:      "other file icon",
	PictureCoverFront:         "cover (front)",
	PictureCoverBack:          "cover (back)",
	PictureLeaflet:            "leaflet page",
	PictureMedia:              "media",
	PictureLeadArtist:         "lead artist",
	PictureArtist:             "artist",
	PictureConductor:          "conductor",
	PictureBand:               "band",
	PictureComposer:           "composer",
	PictureLyricist:           "lyricist",
	PictureRecordingLocation:  "recording location",
	PictureDuringRecording:    "during recording",
	PictureDuringPerformance:  "during performance",
	PictureVideoScreenCapture: "video screen capture",
	PictureFish:               "a bright coloured fish",
	PictureIllustration:       "illustration",
	PictureBandLogo:           "band/artist logotype",
	PicturePublisherLogo:      "publisher/studio logotype",
}

// Picture contains an image associated with the stream, such as cover art.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_picture
type Picture struct {
	// Picture type.
	Type PictureType
	// MIME type string. The MIME type "-->" specifies that the picture data
	// is a URL of the picture rather than the picture data itself.
	MIME string
	// Description of the picture.
	Desc string
	// Image width in pixels.
	Width uint32
	// Image height in pixels.
	Height uint32
	// Color depth in bits-per-pixel.
	Depth uint32
	// Number of colors in palette; 0 for non-indexed pictures.
	NPalColors uint32
	// Image data.
	Data []byte
}

// BlockType returns the block body type of the picture block.
func (pic *Picture) BlockType() Type {
	return TypePicture
}

// ParsePicture parses data as a picture block body; the body is laid out as
// follows:
//
//	32 bits picture type
//	32 bits MIME type length
//	(n) bytes MIME type
//	32 bits description length
//	(n) bytes description
//	32 bits image width
//	32 bits image height
//	32 bits color depth
//	32 bits number of palette colors
//	32 bits image data length
//	(n) bytes image data
//
// All integers are big-endian; the MIME type and description are UTF-8
// encoded.
func ParsePicture(data []byte) (*Picture, error) {
	pic := new(Picture)
	typ, data, err := nextPictureU32(data)
	if err != nil {
		return nil, err
	}
	if PictureType(typ) > maxPictureType {
		return nil, errInvalid("meta.ParsePicture: reserved picture type %d", typ)
	}
	pic.Type = PictureType(typ)

	mime, data, err := nextPictureField(data)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(mime) {
		return nil, errDecode("meta.ParsePicture: MIME type is not valid UTF-8")
	}
	pic.MIME = string(mime)

	desc, data, err := nextPictureField(data)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(desc) {
		return nil, errDecode("meta.ParsePicture: description is not valid UTF-8")
	}
	pic.Desc = string(desc)

	if pic.Width, data, err = nextPictureU32(data); err != nil {
		return nil, err
	}
	if pic.Height, data, err = nextPictureU32(data); err != nil {
		return nil, err
	}
	if pic.Depth, data, err = nextPictureU32(data); err != nil {
		return nil, err
	}
	if pic.NPalColors, data, err = nextPictureU32(data); err != nil {
		return nil, err
	}

	img, _, err := nextPictureField(data)
	if err != nil {
		return nil, err
	}
	pic.Data = append([]byte(nil), img...)
	return pic, nil
}

func nextPictureU32(data []byte) (x uint32, rest []byte, err error) {
	if len(data) < 4 {
		return 0, nil, errInvalid("meta.ParsePicture: unexpected end of block body; expected 4 byte field, got %d bytes", len(data))
	}
	return uint32(bits.DecodeBE(data[:4])), data[4:], nil
}

func nextPictureField(data []byte) (field, rest []byte, err error) {
	n, data, err := nextPictureU32(data)
	if err != nil {
		return nil, nil, err
	}
	if uint64(n) > uint64(len(data)) {
		return nil, nil, errInvalid("meta.ParsePicture: field length %d exceeds remaining body size %d", n, len(data))
	}
	return data[:n], data[n:], nil
}

// Bytes serializes the picture block body.
func (pic *Picture) Bytes() ([]byte, error) {
	size := 8*4 + len(pic.MIME) + len(pic.Desc) + len(pic.Data)
	data := make([]byte, 0, size)
	data = append(data, bits.EncodeBE(uint64(pic.Type), 4)...)
	data = append(data, bits.EncodeBE(uint64(len(pic.MIME)), 4)...)
	data = append(data, pic.MIME...)
	data = append(data, bits.EncodeBE(uint64(len(pic.Desc)), 4)...)
	data = append(data, pic.Desc...)
	data = append(data, bits.EncodeBE(uint64(pic.Width), 4)...)
	data = append(data, bits.EncodeBE(uint64(pic.Height), 4)...)
	data = append(data, bits.EncodeBE(uint64(pic.Depth), 4)...)
	data = append(data, bits.EncodeBE(uint64(pic.NPalColors), 4)...)
	data = append(data, bits.EncodeBE(uint64(len(pic.Data)), 4)...)
	data = append(data, pic.Data...)
	return data, nil
}
