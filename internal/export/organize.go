package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Actions recorded per file operation.
const (
	ActionCopied = "copied"
	ActionMoved  = "moved"
	ActionError  = "error"
)

// Components are the sanitized path pieces a track files under.
type Components struct {
	Artist string
	Album  string
	Title  string
	Track  string
	Genre  string
	Ext    string
}

// key identifies the same logical track across source directories, so a
// track appearing in both an album and a playlist folder is placed once.
func (c Components) key() string {
	return strings.Join([]string{c.Artist, c.Album, c.Title, c.Track, c.Ext}, "|")
}

// OrganizeResult records one file operation during organization.
type OrganizeResult struct {
	Source      string
	Destination string
	Action      string
	Reason      string
	Components  *Components
}

// OrganizeOptions controls how a collection is reorganized.
type OrganizeOptions struct {
	// Move relocates files instead of copying them.
	Move bool
	// IncludeGenre adds a genre directory level above the artist.
	IncludeGenre bool
	// Recursive walks subdirectories within the source.
	Recursive bool
}

// Organize places the audio files under source into a
// [Genre/]Artist/Album/NN - Title.ext hierarchy rooted at destination.
// Files whose tags cannot be read still get placed using filename fallbacks;
// per-file failures are recorded in the results rather than aborting the run.
func (e *Exporter) Organize(source, destination string, opts OrganizeOptions) ([]OrganizeResult, error) {
	source, err := resolveDir(source)
	if err != nil {
		return nil, err
	}
	if destination, err = filepath.Abs(destination); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(destination, 0755); err != nil {
		return nil, err
	}

	files, err := e.collectFiles(source, opts.Recursive)
	if err != nil {
		return nil, err
	}

	var results []OrganizeResult
	for _, path := range files {
		components := e.deriveComponents(path, opts.IncludeGenre)
		target, action, err := placeTrack(path, destination, components, opts.IncludeGenre, opts.Move)
		if err != nil {
			e.logger.Error("failed to organize file", "path", path, "error", err)
			results = append(results, OrganizeResult{Source: path, Action: ActionError, Reason: err.Error()})
			continue
		}
		results = append(results, OrganizeResult{
			Source:      path,
			Destination: target,
			Action:      action,
			Components:  &components,
		})
	}
	return results, nil
}

// collectFiles lists the audio files under source, sorted by path.
func (e *Exporter) collectFiles(source string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(source, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && e.exts[strings.ToLower(filepath.Ext(path))] {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(source)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && e.exts[strings.ToLower(filepath.Ext(entry.Name()))] {
				files = append(files, filepath.Join(source, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	multiSpaces     = regexp.MustCompile(`\s+`)
	leadingDigits   = regexp.MustCompile(`^(\d+)`)
	stemTrackNumber = regexp.MustCompile(`^\s*(\d{1,3})\b`)
	// Multi-artist credit separators; only the primary artist names the folder.
	artistSeparators = regexp.MustCompile(`(?i)\s*(?:;|,|/|\\|&| feat\.?| featuring | ft\.?| with | and | x )\s*`)
)

// safeComponent turns free-form tag text into a filesystem-safe path piece.
func safeComponent(text string) string {
	cleaned := invalidChars.ReplaceAllString(strings.TrimSpace(text), " ")
	cleaned = multiSpaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, ". ")
	if cleaned == "" {
		return "Unknown"
	}
	return cleaned
}

// formatTrackNumber renders a two-digit track number from the tag value,
// falling back to leading digits in the filename stem, then "00".
func formatTrackNumber(value, fallbackStem string) string {
	if m := leadingDigits.FindStringSubmatch(value); m != nil {
		return pad2(m[1])
	}
	if m := stemTrackNumber.FindStringSubmatch(fallbackStem); m != nil {
		return pad2(m[1])
	}
	return "00"
}

func pad2(digits string) string {
	if len(digits) < 2 {
		return "0" + digits
	}
	return digits
}

// primaryArtist extracts the first credited artist from a multi-artist
// string.
func primaryArtist(name string) string {
	if name == "" {
		return safeComponent("Unknown Artist")
	}
	parts := artistSeparators.Split(name, 2)
	primary := parts[0]
	if primary == "" {
		primary = "Unknown Artist"
	}
	return safeComponent(primary)
}

// deriveComponents computes the sanitized path pieces for a file from its
// tags, with filename fallbacks for missing title and track number.
func (e *Exporter) deriveComponents(path string, includeGenre bool) Components {
	tags := e.readTags(path)
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	artist := tags.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := tags.Album
	if album == "" {
		album = "Unknown Album"
	}
	title := tags.Title
	if title == "" {
		title = stem
	}

	var genre string
	switch {
	case includeGenre && tags.Genre == "":
		genre = safeComponent("Unknown Genre")
	case tags.Genre != "":
		genre = safeComponent(tags.Genre)
	}

	return Components{
		Artist: primaryArtist(artist),
		Album:  safeComponent(album),
		Title:  safeComponent(title),
		Track:  formatTrackNumber(tags.TrackNumber, stem),
		Genre:  genre,
		Ext:    strings.ToLower(filepath.Ext(path)),
	}
}

// placeTrack copies or moves the file into its hierarchy slot under root,
// suffixing "(n)" to the name when the slot is already taken.
func placeTrack(path, root string, c Components, includeGenre, move bool) (string, string, error) {
	parts := []string{root}
	if includeGenre && c.Genre != "" {
		parts = append(parts, c.Genre)
	}
	parts = append(parts, c.Artist, c.Album)
	targetDir := filepath.Join(parts...)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", "", err
	}

	target := filepath.Join(targetDir, fmt.Sprintf("%s - %s%s", c.Track, c.Title, c.Ext))
	for counter := 1; ; counter++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(targetDir, fmt.Sprintf("%s - %s (%d)%s", c.Track, c.Title, counter, c.Ext))
	}

	if move {
		if err := moveFile(path, target); err != nil {
			return "", "", err
		}
		return target, ActionMoved, nil
	}
	if err := copyFile(path, target); err != nil {
		return "", "", err
	}
	return target, ActionCopied, nil
}

// moveFile renames when possible and falls back to copy-then-remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
