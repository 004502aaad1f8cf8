// The metaflac tool lists and edits the metadata of FLAC files.
//
// Usage:
//
//	metaflac [OPTION]... FILE...
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/mewkiz/pkg/pathutil"
	"golang.org/x/sync/errgroup"

	metaflac "github.com/jameshurst/go-metaflac"
	"github.com/jameshurst/go-metaflac/meta"
)

// tagList implements flag.Value for repeatable string flags.
type tagList []string

func (l *tagList) String() string {
	return strings.Join(*l, ",")
}

func (l *tagList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

var (
	// flagList specifies whether to list the metadata blocks of each file.
	flagList bool
	// flagSetTags contains zero or more NAME=VALUE vorbis comment fields to
	// set.
	flagSetTags tagList
	// flagRemoveTags contains zero or more vorbis comment field names to
	// remove.
	flagRemoveTags tagList
	// flagExportPicture specifies whether to export the front cover picture
	// of each file.
	flagExportPicture bool
)

func init() {
	flag.BoolVar(&flagList, "list", false, "List the metadata blocks of each file.")
	flag.Var(&flagSetTags, "set-tag", "Set a NAME=VALUE vorbis comment field; may be repeated.")
	flag.Var(&flagRemoveTags, "remove-tag", "Remove all values of a vorbis comment field; may be repeated.")
	flag.BoolVar(&flagExportPicture, "export-picture", false, "Export the front cover picture of each file.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: metaflac [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	// Listing interleaves badly across goroutines; keep it sequential.
	if flagList {
		for _, path := range flag.Args() {
			if err := list(path); err != nil {
				log.Fatalln(err)
			}
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			return metaflacEdit(path)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// metaflacEdit applies the requested tag edits and exports to the FLAC file
// at path.
func metaflacEdit(path string) error {
	tag, err := metaflac.ReadFromPath(path)
	if err != nil {
		return err
	}
	if flagExportPicture {
		if err := exportPicture(tag, path); err != nil {
			return err
		}
	}
	if len(flagSetTags) == 0 && len(flagRemoveTags) == 0 {
		return nil
	}
	for _, name := range flagRemoveTags {
		tag.RemoveVorbis(name)
	}
	for _, entry := range flagSetTags {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid NAME=VALUE field %q", entry)
		}
		tag.SetVorbis(name, value)
	}
	return tag.Save()
}

// extByMIME maps picture MIME types to file extensions for export.
var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// exportPicture writes the front cover picture of tag, if any, next to the
// FLAC file at path.
func exportPicture(tag *metaflac.Tag, path string) error {
	for _, pic := range tag.Pictures() {
		if pic.Type != meta.PictureCoverFront {
			continue
		}
		ext, ok := extByMIME[pic.MIME]
		if !ok {
			return fmt.Errorf("%s: cannot export picture of MIME type %q", path, pic.MIME)
		}
		return os.WriteFile(pathutil.TrimExt(path)+ext, pic.Data, 0644)
	}
	return fmt.Errorf("%s: no front cover picture", path)
}

// list prints the metadata blocks of the FLAC file at path.
func list(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	s := meta.NewScanner(f)
	for blockNum := 0; ; blockNum++ {
		block, err := s.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		listBlock(block, blockNum)
	}
}

func listBlock(block *meta.Block, blockNum int) {
	listHeader(&block.Header, blockNum)
	switch body := block.Body.(type) {
	case *meta.StreamInfo:
		listStreamInfo(body)
	case *meta.Application:
		listApplication(body)
	case *meta.SeekTable:
		listSeekTable(body)
	case *meta.VorbisComment:
		listVorbisComment(body)
	case *meta.CueSheet:
		listCueSheet(body)
	case *meta.Picture:
		listPicture(body)
	}
}

// typeName maps from metadata block type to a string version of its name.
var typeName = map[meta.Type]string{
	meta.TypeStreamInfo:    "STREAMINFO",
	meta.TypePadding:       "PADDING",
	meta.TypeApplication:   "APPLICATION",
	meta.TypeSeekTable:     "SEEKTABLE",
	meta.TypeVorbisComment: "VORBIS_COMMENT",
	meta.TypeCueSheet:      "CUESHEET",
	meta.TypePicture:       "PICTURE",
}

// Example:
//
//	METADATA block #0
//	  type: 0 (STREAMINFO)
//	  is last: false
//	  length: 34
func listHeader(header *meta.Header, blockNum int) {
	name, ok := typeName[header.Type]
	if !ok {
		name = "UNKNOWN"
	}
	fmt.Printf("METADATA block #%d\n", blockNum)
	fmt.Printf("  type: %d (%s)\n", header.Type, name)
	fmt.Printf("  is last: %t\n", header.IsLast)
	fmt.Printf("  length: %d\n", header.Length)
}

// Example:
//
//	  minimum blocksize: 4608 samples
//	  maximum blocksize: 4608 samples
//	  minimum framesize: 0 bytes
//	  maximum framesize: 19024 bytes
//	  sample_rate: 44100 Hz
//	  channels: 2
//	  bits-per-sample: 16
//	  total samples: 151007220
//	  MD5 signature: 2e6238f5d9fe5c19f3ead628f750fd3d
func listStreamInfo(si *meta.StreamInfo) {
	fmt.Printf("  minimum blocksize: %d samples\n", si.BlockSizeMin)
	fmt.Printf("  maximum blocksize: %d samples\n", si.BlockSizeMax)
	fmt.Printf("  minimum framesize: %d bytes\n", si.FrameSizeMin)
	fmt.Printf("  maximum framesize: %d bytes\n", si.FrameSizeMax)
	fmt.Printf("  sample_rate: %d Hz\n", si.SampleRate)
	fmt.Printf("  channels: %d\n", si.NChannels)
	fmt.Printf("  bits-per-sample: %d\n", si.BitsPerSample)
	fmt.Printf("  total samples: %d\n", si.NSamples)
	fmt.Printf("  MD5 signature: %x\n", si.MD5sum)
}

func listApplication(app *meta.Application) {
	fmt.Printf("  application ID: %x\n", string(app.ID[:]))
	fmt.Println("  data contents:")
	if len(app.Data) > 0 {
		fmt.Println(string(app.Data))
	}
}

// Example:
//
//	  seek points: 17
//	    point 0: sample_number=0, stream_offset=0, frame_samples=4608
//	    point 1: sample_number=2419200, stream_offset=3733871, frame_samples=4608
func listSeekTable(st *meta.SeekTable) {
	fmt.Printf("  seek points: %d\n", len(st.Points))
	for pointNum, point := range st.Points {
		if point.SampleNum == meta.PlaceholderPoint {
			fmt.Printf("    point %d: PLACEHOLDER\n", pointNum)
		} else {
			fmt.Printf("    point %d: sample_number=%d, stream_offset=%d, frame_samples=%d\n", pointNum, point.SampleNum, point.Offset, point.NSamples)
		}
	}
}

func listVorbisComment(vc *meta.VorbisComment) {
	fmt.Printf("  vendor string: %s\n", vc.Vendor)
	var count int
	names := make([]string, 0, len(vc.Comments))
	for name, values := range vc.Comments {
		names = append(names, name)
		count += len(values)
	}
	sort.Strings(names)
	fmt.Printf("  comments: %d\n", count)
	commentNum := 0
	for _, name := range names {
		for _, value := range vc.Comments[name] {
			fmt.Printf("    comment[%d]: %s=%s\n", commentNum, name, value)
			commentNum++
		}
	}
}

func listCueSheet(cs *meta.CueSheet) {
	fmt.Printf("  media catalog number: %s\n", cs.MCN)
	fmt.Printf("  lead-in: %d\n", cs.NLeadInSamples)
	fmt.Printf("  is CD: %t\n", cs.IsCompactDisc)
	fmt.Printf("  number of tracks: %d\n", len(cs.Tracks))
	for trackNum, track := range cs.Tracks {
		fmt.Printf("    track[%d]\n", trackNum)
		fmt.Printf("      offset: %d\n", track.Offset)
		if trackNum == len(cs.Tracks)-1 {
			// Lead-out track.
			fmt.Printf("      number: %d (LEAD-OUT)\n", track.Num)
			continue
		}
		fmt.Printf("      number: %d\n", track.Num)
		fmt.Printf("      ISRC: %s\n", track.ISRC)
		trackType := "DATA"
		if track.IsAudio {
			trackType = "AUDIO"
		}
		fmt.Printf("      type: %s\n", trackType)
		fmt.Printf("      pre-emphasis: %t\n", track.HasPreEmphasis)
		fmt.Printf("      number of index points: %d\n", len(track.Indices))
		for indexNum, index := range track.Indices {
			fmt.Printf("        index[%d]\n", indexNum)
			fmt.Printf("          offset: %d\n", index.Offset)
			fmt.Printf("          number: %d\n", index.Num)
		}
	}
}

// Example:
//
//	  type: 3 (cover (front))
//	  MIME type: image/jpeg
//	  description:
//	  width: 0
//	  height: 0
//	  depth: 0
//	  colors: 0 (unindexed)
//	  data length: 234569
func listPicture(pic *meta.Picture) {
	fmt.Printf("  type: %d (%s)\n", uint32(pic.Type), pic.Type)
	fmt.Printf("  MIME type: %s\n", pic.MIME)
	fmt.Printf("  description: %s\n", pic.Desc)
	fmt.Printf("  width: %d\n", pic.Width)
	fmt.Printf("  height: %d\n", pic.Height)
	fmt.Printf("  depth: %d\n", pic.Depth)
	fmt.Printf("  colors: %d", pic.NPalColors)
	if pic.NPalColors == 0 {
		fmt.Print(" (unindexed)")
	}
	fmt.Println()
	fmt.Printf("  data length: %d\n", len(pic.Data))
}
