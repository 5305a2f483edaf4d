package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/desertthunder/tunecab/internal/shared"
)

// PlaylistBuildResult summarizes one playlist generated during bundling.
type PlaylistBuildResult struct {
	Path       string
	TrackCount int
	// Missing lists source files that could not be included.
	Missing []string
}

// BundleResult combines the file operations and playlists of a bundle run.
type BundleResult struct {
	Music     []OrganizeResult
	Playlists []PlaylistBuildResult
}

// ProgressFunc receives bundle progress as (completed, total, message).
type ProgressFunc func(completed, total int, message string)

// BundleOptions controls bundle assembly.
type BundleOptions struct {
	IncludeGenre  bool
	MoveAlbums    bool
	MovePlaylists bool
	Progress      ProgressFunc
}

// playlistGroup is a named set of source tracks that becomes one playlist.
type playlistGroup struct {
	name   string
	tracks []string
}

// Bundle assembles a device-ready tree under destination: album tracks are
// organized into Music/ and each playlist folder becomes an M3U under
// Playlists/ referencing the organized copies. A track present both in an
// album and a playlist folder is placed once; playlist-only tracks are
// organized on demand.
func (e *Exporter) Bundle(albumDirs, playlistDirs []string, destination string, opts BundleOptions) (*BundleResult, error) {
	if len(albumDirs) == 0 && len(playlistDirs) == 0 {
		return nil, fmt.Errorf("%w: provide at least one album or playlist directory", shared.ErrMissingArgument)
	}

	destRoot, err := filepath.Abs(destination)
	if err != nil {
		return nil, err
	}
	musicRoot := filepath.Join(destRoot, "Music")
	playlistsRoot := filepath.Join(destRoot, "Playlists")
	if err := os.MkdirAll(musicRoot, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(playlistsRoot, 0755); err != nil {
		return nil, err
	}

	var albumFiles []string
	for _, dir := range albumDirs {
		resolved, err := resolveDir(dir)
		if err != nil {
			return nil, err
		}
		files, err := e.collectFiles(resolved, true)
		if err != nil {
			return nil, err
		}
		albumFiles = append(albumFiles, files...)
	}

	var groups []playlistGroup
	totalPlaylistTracks := 0
	for _, dir := range playlistDirs {
		resolved, err := resolveDir(dir)
		if err != nil {
			return nil, err
		}
		found, err := enumeratePlaylistSources(resolved)
		if err != nil {
			return nil, err
		}
		groups = append(groups, found...)
		for _, g := range found {
			totalPlaylistTracks += len(g.tracks)
		}
	}

	totalSteps := len(albumFiles) + totalPlaylistTracks
	processed := 0
	report := func(message string) {
		if opts.Progress != nil && totalSteps > 0 {
			opts.Progress(processed, totalSteps, message)
		}
	}
	report("Preparing bundle...")

	result := &BundleResult{}
	// Placed tracks indexed by identity so playlists reuse album copies.
	trackIndex := map[string]string{}

	for i, path := range albumFiles {
		components := e.deriveComponents(path, opts.IncludeGenre)
		target, action, err := placeTrack(path, musicRoot, components, opts.IncludeGenre, opts.MoveAlbums)
		if err != nil {
			e.logger.Error("failed to bundle album track", "path", path, "error", err)
			result.Music = append(result.Music, OrganizeResult{Source: path, Action: ActionError, Reason: err.Error()})
		} else {
			result.Music = append(result.Music, OrganizeResult{
				Source:      path,
				Destination: target,
				Action:      action,
				Components:  &components,
			})
			if _, seen := trackIndex[components.key()]; !seen {
				trackIndex[components.key()] = target
			}
		}
		processed++
		report(fmt.Sprintf("Staging albums... %d/%d", i+1, len(albumFiles)))
	}

	playlistProcessed := 0
	for _, group := range groups {
		name := safeComponent(group.name)
		playlistPath := filepath.Join(playlistsRoot, name+".m3u")
		for counter := 1; ; counter++ {
			if _, err := os.Stat(playlistPath); os.IsNotExist(err) {
				break
			}
			playlistPath = filepath.Join(playlistsRoot, fmt.Sprintf("%s (%d).m3u", name, counter))
		}

		var buf strings.Builder
		buf.WriteString(playlistHeader)
		var missing []string
		written := 0

		for _, trackFile := range group.tracks {
			playlistProcessed++
			processed++
			if !e.exts[strings.ToLower(filepath.Ext(trackFile))] {
				missing = append(missing, trackFile)
				report(fmt.Sprintf("Bundling playlists... %d/%d", playlistProcessed, totalPlaylistTracks))
				continue
			}

			components := e.deriveComponents(trackFile, opts.IncludeGenre)
			target, seen := trackIndex[components.key()]
			if !seen {
				placed, action, err := placeTrack(trackFile, musicRoot, components, opts.IncludeGenre, opts.MovePlaylists)
				if err != nil {
					e.logger.Error("failed to bundle playlist track", "path", trackFile, "error", err)
					missing = append(missing, trackFile)
					report(fmt.Sprintf("Bundling playlists... %d/%d", playlistProcessed, totalPlaylistTracks))
					continue
				}
				result.Music = append(result.Music, OrganizeResult{
					Source:      trackFile,
					Destination: placed,
					Action:      action,
					Components:  &components,
				})
				trackIndex[components.key()] = placed
				target = placed
			}

			rel, err := relativePath(target, playlistsRoot)
			if err != nil {
				missing = append(missing, trackFile)
			} else {
				buf.WriteString(rel + "\n")
				written++
			}
			report(fmt.Sprintf("Bundling playlists... %d/%d", playlistProcessed, totalPlaylistTracks))
		}

		if err := os.WriteFile(playlistPath, []byte(buf.String()), 0644); err != nil {
			return nil, err
		}
		result.Playlists = append(result.Playlists, PlaylistBuildResult{
			Path:       playlistPath,
			TrackCount: written,
			Missing:    missing,
		})
	}

	if totalSteps > 0 {
		processed = totalSteps
		report("Bundle complete")
	}
	return result, nil
}

// enumeratePlaylistSources groups playlist source files: loose files at the
// root form one playlist named after the root, and each subdirectory forms a
// playlist named after itself containing every file beneath it.
func enumeratePlaylistSources(root string) ([]playlistGroup, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var rootTracks []string
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(root, entry.Name()))
		} else {
			rootTracks = append(rootTracks, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(rootTracks)
	sort.Strings(subdirs)

	var groups []playlistGroup
	if len(rootTracks) > 0 {
		groups = append(groups, playlistGroup{name: filepath.Base(root), tracks: rootTracks})
	}
	for _, subdir := range subdirs {
		var tracks []string
		err := filepath.WalkDir(subdir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				tracks = append(tracks, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(tracks)
		if len(tracks) > 0 {
			groups = append(groups, playlistGroup{name: filepath.Base(subdir), tracks: tracks})
		}
	}
	return groups, nil
}
