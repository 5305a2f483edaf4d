package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/shared"
)

// Scan walks the given directories (or the configured music dirs) and adds
// every supported audio file to the catalog.
func (r *Runner) Scan(ctx context.Context, cmd *cli.Command) error {
	dirs := cmd.StringArgs("dir")
	if len(dirs) == 0 {
		dirs = r.config.Library.MusicDirs
	}
	if len(dirs) == 0 {
		return fmt.Errorf("%w: no directories given and none configured", shared.ErrMissingArgument)
	}

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	total := 0
	for _, dir := range dirs {
		r.logger.Info("scanning directory", "dir", dir)
		added, err := lib.ScanDirectory(dir)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, track := range added {
			r.writeTrackLine(track)
		}
		total += len(added)
	}

	r.writePlainln("Added %d new tracks", total)
	return nil
}

// TracksList prints the catalog, optionally filtered by a search term.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := lib.ListTracks(cmd.String("search"))
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	if len(tracks) == 0 {
		r.writePlain("No tracks found\n")
		return nil
	}
	for _, track := range tracks {
		r.writeTrackLine(track)
	}
	r.writePlainln("%d tracks", len(tracks))
	return nil
}

// TracksRemove drops a track from the catalog without touching the file.
func (r *Runner) TracksRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseTrackID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := lib.RemoveTrack(id); err != nil {
		return fmt.Errorf("failed to remove track %d: %w", id, err)
	}
	r.writePlain("Removed track %d\n", id)
	return nil
}

// PlaylistList prints each playlist with its tracks.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := lib.ListPlaylists()
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}
	if len(playlists) == 0 {
		r.writePlain("No playlists\n")
		return nil
	}

	for _, playlist := range playlists {
		tracks, err := lib.PlaylistTracks(playlist.Name)
		if err != nil {
			return fmt.Errorf("failed to load playlist %s: %w", playlist.Name, err)
		}
		r.writePlain("%s (%d tracks)\n", playlist.Name, len(tracks))
		for _, track := range tracks {
			r.writeTrackLine(track)
		}
	}
	return nil
}

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := lib.CreatePlaylist(name); err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	r.writePlain("Created playlist %q\n", name)
	return nil
}

// PlaylistAdd appends a catalog track to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	id, err := parseTrackID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := lib.AddToPlaylist(name, id); err != nil {
		return fmt.Errorf("failed to add track %d to %q: %w", id, name, err)
	}
	r.writePlain("Added track %d to %q\n", id, name)
	return nil
}

// PlaylistDelete removes a playlist, leaving its tracks in the catalog.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := lib.DeletePlaylist(name); err != nil {
		return fmt.Errorf("failed to delete playlist %q: %w", name, err)
	}
	r.writePlain("Deleted playlist %q\n", name)
	return nil
}

func parseTrackID(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: track id %q is not a number", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
