package meta_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jameshurst/go-metaflac/meta"
)

// flacStream builds a minimal FLAC stream with a stream info block, a 16
// byte padding block and trailing audio bytes.
func flacStream(t *testing.T) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	buf.WriteString("fLaC")
	info := &meta.StreamInfo{
		BlockSizeMin:  4096,
		BlockSizeMax:  4096,
		SampleRate:    44100,
		NChannels:     2,
		BitsPerSample: 16,
	}
	_, err := meta.WriteBlock(buf, info, false)
	require.NoError(t, err)
	_, err = meta.WriteBlock(buf, &meta.Padding{NBytes: 16}, true)
	require.NoError(t, err)
	buf.WriteString("audio frames")
	return buf.Bytes()
}

func TestScanner(t *testing.T) {
	data := flacStream(t)
	s := meta.NewScanner(bytes.NewReader(data))

	block, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, meta.TypeStreamInfo, block.Type)
	require.False(t, block.IsLast)

	block, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, meta.TypePadding, block.Type)
	require.True(t, block.IsLast)

	_, err = s.Next()
	require.Equal(t, io.EOF, err)
	_, err = s.Next()
	require.Equal(t, io.EOF, err)

	// Signature, two block headers, 34 byte stream info, 16 byte padding.
	require.Equal(t, int64(4+4+34+4+16), s.BytesRead())
}

func TestScannerInvalidSignature(t *testing.T) {
	s := meta.NewScanner(bytes.NewReader([]byte("fLaX....")))
	_, err := s.Next()
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
	// The error is sticky.
	_, err = s.Next()
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestScannerSkipsID3v2(t *testing.T) {
	// 10 byte ID3v2.4 header with a 5 byte syncsafe tag size.
	prefix := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'}
	data := append(prefix, flacStream(t)...)
	s := meta.NewScanner(bytes.NewReader(data))

	block, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, meta.TypeStreamInfo, block.Type)
	require.Equal(t, int64(len(prefix)+4+4+34), s.BytesRead())
}

func TestScannerSkipsID3v2Footer(t *testing.T) {
	// Footer flag 0x10 adds 10 bytes past the 5 byte tag body.
	prefix := []byte{'I', 'D', '3', 4, 0, 0x10, 0, 0, 0, 5}
	prefix = append(prefix, make([]byte, 5+10)...)
	data := append(prefix, flacStream(t)...)
	s := meta.NewScanner(bytes.NewReader(data))

	block, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, meta.TypeStreamInfo, block.Type)
}

func TestScannerRejectsBadSyncsafeSize(t *testing.T) {
	prefix := []byte{'I', 'D', '3', 4, 0, 0, 0x80, 0, 0, 0}
	s := meta.NewScanner(bytes.NewReader(append(prefix, flacStream(t)...)))
	_, err := s.Next()
	require.True(t, meta.IsKind(err, meta.KindInvalidInput))
}

func TestReadSignature(t *testing.T) {
	n, err := meta.ReadSignature(bytes.NewReader([]byte("fLaC....")))
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}
