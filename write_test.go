package metaflac_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	metaflac "github.com/jameshurst/go-metaflac"
	"github.com/jameshurst/go-metaflac/meta"
)

const audioData = "opaque audio frame bytes"

// writeTestFile creates a FLAC file with a stream info block and trailing
// audio bytes.
func writeTestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.flac")
	tag := metaflac.New()
	tag.PushBlock(testStreamInfo())

	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = tag.WriteTo(f)
	require.NoError(t, err)
	_, err = f.WriteString(audioData)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return path
}

// scanBlocks returns every metadata block of the FLAC file at path.
func scanBlocks(t *testing.T, path string) []*meta.Block {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var blocks []*meta.Block
	s := meta.NewScanner(f)
	for {
		block, err := s.Next()
		if err == io.EOF {
			return blocks
		}
		require.NoError(t, err)
		blocks = append(blocks, block)
	}
}

func TestSaveRewrite(t *testing.T) {
	path := writeTestFile(t)
	tag, err := metaflac.ReadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, path, tag.Path())

	// No padding to reuse; the file must be rewritten.
	tag.SetVorbis("TITLE", "Prelude")
	require.NoError(t, tag.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("fLaC"), data[:4])
	require.True(t, bytes.HasSuffix(data, []byte(audioData)))

	blocks := scanBlocks(t, path)
	last := blocks[len(blocks)-1]
	require.True(t, last.IsLast)
	require.Equal(t, &meta.Padding{NBytes: 1024}, last.Body)

	got, err := metaflac.ReadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Prelude"}, got.GetVorbis("TITLE"))
	require.Equal(t, int64(len(data))-4-int64(len(audioData)), got.Length())
}

func TestSaveInPlace(t *testing.T) {
	path := writeTestFile(t)
	tag, err := metaflac.ReadFromPath(path)
	require.NoError(t, err)
	tag.SetVorbis("TITLE", "Prelude")
	require.NoError(t, tag.Save())

	// The rewrite above left a padding block; a same-size edit fits within
	// the existing metadata region.
	tag, err = metaflac.ReadFromPath(path)
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)
	length := tag.Length()

	tag.SetVorbis("TITLE", "Jupiter")
	require.NoError(t, tag.Save())

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.Size(), after.Size())
	require.Equal(t, length, tag.Length())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasSuffix(data, []byte(audioData)))

	got, err := metaflac.ReadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Jupiter"}, got.GetVorbis("TITLE"))
}

func TestSaveStripsPadding(t *testing.T) {
	path := writeTestFile(t)
	tag, err := metaflac.ReadFromPath(path)
	require.NoError(t, err)
	tag.PushBlock(&meta.Padding{NBytes: 64})
	require.NoError(t, tag.Save())

	// The explicit padding block is dropped; only the synthesized trailing
	// padding remains.
	var nPadding int
	for _, block := range scanBlocks(t, path) {
		if block.Type == meta.TypePadding {
			nPadding++
		}
	}
	require.Equal(t, 1, nPadding)
	require.Empty(t, tag.BlocksByType(meta.TypePadding))
}

func TestWriteToPathFreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.flac")
	tag := metaflac.New()
	tag.PushBlock(testStreamInfo())
	require.NoError(t, tag.WriteToPath(path))
	require.Equal(t, path, tag.Path())

	blocks := scanBlocks(t, path)
	require.Len(t, blocks, 2)
	require.Equal(t, meta.TypeStreamInfo, blocks[0].Type)
	require.Equal(t, &meta.Padding{NBytes: 1024}, blocks[1].Body)
}

func TestWriteToPathPreservesTruncatedTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	// Signature followed by a block header that promises a 34 byte body of
	// which only 5 bytes exist.
	damaged := []byte("fLaC\x00\x00\x00\x22trunc")
	require.NoError(t, os.WriteFile(path, damaged, 0644))

	tag := metaflac.New()
	tag.PushBlock(testStreamInfo())
	require.NoError(t, tag.WriteToPath(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte("fLaC"), data[:4])
	require.True(t, bytes.HasSuffix(data, damaged))
}

func TestSaveWithoutPath(t *testing.T) {
	err := metaflac.New().Save()
	require.True(t, metaflac.IsKind(err, metaflac.KindInvalidInput))
}

func TestIsCandidate(t *testing.T) {
	path := writeTestFile(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r := bytes.NewReader(data)
	require.True(t, metaflac.IsCandidate(r))
	// The stream position is restored.
	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(0), pos)

	require.False(t, metaflac.IsCandidate(bytes.NewReader([]byte("RIFF1234"))))
}
