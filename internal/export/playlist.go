package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/tunecab/internal/shared"
)

// playlistHeader opens every generated M3U; Rockbox ingests standard M3U
// files with LF endings.
const playlistHeader = "#EXTM3U\n"

// PlaylistResult describes one generated playlist file.
type PlaylistResult struct {
	Path       string
	TrackCount int
}

// ExportPlaylists writes an .m3u playlist for the audio files in source.
// With recursive set, each subdirectory gets its own playlist mirroring the
// directory structure under destination. An empty destination writes next to
// the source. Directories without audio files produce no playlist.
func (e *Exporter) ExportPlaylists(source, destination string, recursive bool) ([]PlaylistResult, error) {
	source, err := resolveDir(source)
	if err != nil {
		return nil, err
	}
	if destination == "" {
		destination = source
	} else if destination, err = filepath.Abs(destination); err != nil {
		return nil, err
	}

	dirs, err := collectDirectories(source, recursive)
	if err != nil {
		return nil, err
	}

	var results []PlaylistResult
	for _, dir := range dirs {
		tracks, err := e.listTracks(dir)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			continue
		}

		playlistPath, err := buildPlaylistPath(source, dir, destination)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(playlistPath), 0755); err != nil {
			return nil, err
		}

		var buf strings.Builder
		buf.WriteString(playlistHeader)
		for _, track := range tracks {
			rel, err := relativePath(track, filepath.Dir(playlistPath))
			if err != nil {
				return nil, err
			}
			buf.WriteString(rel + "\n")
		}
		if err := os.WriteFile(playlistPath, []byte(buf.String()), 0644); err != nil {
			return nil, err
		}

		e.logger.Info("wrote playlist", "path", playlistPath, "tracks", len(tracks))
		results = append(results, PlaylistResult{Path: playlistPath, TrackCount: len(tracks)})
	}
	return results, nil
}

// listTracks returns the audio files directly inside dir, sorted by name.
func (e *Exporter) listTracks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var tracks []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if e.exts[strings.ToLower(filepath.Ext(entry.Name()))] {
			tracks = append(tracks, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(tracks)
	return tracks, nil
}

// collectDirectories lists root plus, when recursive, every subdirectory
// below it in sorted order.
func collectDirectories(root string, recursive bool) ([]string, error) {
	if !recursive {
		return []string{root}, nil
	}
	dirs := []string{root}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(dirs[1:])
	return dirs, nil
}

// buildPlaylistPath mirrors dir's position under sourceRoot into
// destinationRoot and names the playlist after the directory.
func buildPlaylistPath(sourceRoot, dir, destinationRoot string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(destinationRoot, rel, filepath.Base(dir)+".m3u"), nil
}

// relativePath renders target relative to base with forward slashes, the form
// Rockbox resolves from a playlist's own directory.
func relativePath(target, base string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// resolveDir resolves path to an absolute directory path.
func resolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", shared.ErrNotADirectory, abs)
	}
	return abs, nil
}
