package library

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// metadata holds the fields extracted from an audio file's embedded tags.
type metadata struct {
	Title       string
	Artist      string
	Album       string
	Duration    float64
	TrackNumber string
	DiscNumber  string
}

// readMetadata extracts tag metadata from the file at path.
//
// Title falls back to the file name stem when the file is untagged or
// unreadable. Duration is probed from the audio stream itself for formats the
// decoder set understands and left at 0 otherwise.
func readMetadata(path string) metadata {
	meta := metadata{Title: stem(path)}

	if f, err := os.Open(path); err == nil {
		if m, err := tag.ReadFrom(f); err == nil {
			if m.Title() != "" {
				meta.Title = m.Title()
			}
			meta.Artist = m.Artist()
			meta.Album = m.Album()
			if n, _ := m.Track(); n > 0 {
				meta.TrackNumber = strconv.Itoa(n)
			}
			if n, _ := m.Disc(); n > 0 {
				meta.DiscNumber = strconv.Itoa(n)
			}
		}
		f.Close()
	}

	meta.Duration = probeDuration(path)
	return meta
}

// probeDuration decodes the stream header and derives the track length from
// sample count and rate. Returns 0 for formats without a decoder.
func probeDuration(path string) float64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		return 0
	}
	if err != nil {
		return 0
	}
	defer streamer.Close()

	return format.SampleRate.D(streamer.Len()).Seconds()
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
