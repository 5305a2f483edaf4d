package export

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dhowden/tag"

	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/shared"
)

// Tags holds the subset of audio metadata the exporter cares about. Empty
// fields fall back to filename-derived values.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber string
	Genre       string
}

// TagReader extracts tags from an audio file. Failures degrade to empty tags
// rather than aborting an export run.
type TagReader func(path string) Tags

// Exporter generates playlists, organized trees and device bundles.
type Exporter struct {
	logger   *log.Logger
	exts     map[string]bool
	readTags TagReader
}

// New builds an exporter. A nil extensions slice accepts the library's
// supported audio types; a nil logger uses the package default.
func New(logger *log.Logger, extensions []string) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if len(extensions) == 0 {
		extensions = library.SupportedExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Exporter{
		logger:   logger.With("source", "export"),
		exts:     exts,
		readTags: readFileTags,
	}
}

// readFileTags reads metadata via the tag parser, returning empty tags on any
// failure.
func readFileTags(path string) Tags {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}
	}

	tags := Tags{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Genre:  meta.Genre(),
	}
	if num, _ := meta.Track(); num > 0 {
		tags.TrackNumber = strconv.Itoa(num)
	}
	return tags
}
