package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/export"
	"github.com/desertthunder/tunecab/internal/shared"
)

// ExportPlaylists generates M3U playlists from a music directory.
func (r *Runner) ExportPlaylists(ctx context.Context, cmd *cli.Command) error {
	source := cmd.StringArg("source")
	if source == "" {
		return fmt.Errorf("%w: source directory", shared.ErrMissingArgument)
	}

	results, err := r.newExporter().ExportPlaylists(source, cmd.String("dest"), cmd.Bool("recursive"))
	if err != nil {
		return fmt.Errorf("failed to export playlists: %w", err)
	}

	for _, res := range results {
		r.writePlain("%s (%d tracks)\n", res.Path, res.TrackCount)
	}
	r.writePlainln("Wrote %d playlists", len(results))
	return nil
}

// ExportOrganize reorganizes audio files into an Artist/Album hierarchy.
func (r *Runner) ExportOrganize(ctx context.Context, cmd *cli.Command) error {
	source := cmd.StringArg("source")
	dest := cmd.StringArg("dest")
	if source == "" || dest == "" {
		return fmt.Errorf("%w: source and destination directories", shared.ErrMissingArgument)
	}

	includeGenre := cmd.Bool("genre") || r.config.Export.IncludeGenre
	results, err := r.newExporter().Organize(source, dest, export.OrganizeOptions{
		Move:         cmd.Bool("move"),
		IncludeGenre: includeGenre,
		Recursive:    cmd.Bool("recursive"),
	})
	if err != nil {
		return fmt.Errorf("failed to organize: %w", err)
	}

	placed, failed := 0, 0
	for _, res := range results {
		if res.Action == export.ActionError {
			failed++
			r.writePlain("✗ %s: %s\n", res.Source, res.Reason)
			continue
		}
		placed++
		r.writePlain("%s %s → %s\n", res.Action, res.Source, res.Destination)
	}
	r.writePlainln("Placed %d files (%d failed)", placed, failed)
	return nil
}

// ExportBundle assembles a device-ready Music/ and Playlists/ tree.
func (r *Runner) ExportBundle(ctx context.Context, cmd *cli.Command) error {
	includeGenre := cmd.Bool("genre") || r.config.Export.IncludeGenre

	progress := func(done, total int, message string) {
		r.writePlain("\r[%d/%d] %s", done, total, message)
	}

	result, err := r.newExporter().Bundle(
		cmd.StringSlice("albums"),
		cmd.StringSlice("playlists"),
		cmd.String("dest"),
		export.BundleOptions{
			IncludeGenre:  includeGenre,
			MoveAlbums:    cmd.Bool("move-albums"),
			MovePlaylists: cmd.Bool("move-playlists"),
			Progress:      progress,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to bundle: %w", err)
	}
	r.writePlain("\n")

	placed := 0
	for _, res := range result.Music {
		if res.Action != export.ActionError {
			placed++
		}
	}
	r.writePlain("Placed %d music files\n", placed)
	for _, pl := range result.Playlists {
		r.writePlain("%s (%d tracks)\n", pl.Path, pl.TrackCount)
		for _, missing := range pl.Missing {
			r.writePlain("  ✗ missing %s\n", missing)
		}
	}
	return nil
}
