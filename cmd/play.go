package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/playback"
	"github.com/desertthunder/tunecab/internal/shared"
)

// Play queues the requested tracks (or a whole playlist) and blocks until
// the queue drains or the user interrupts. Finished tracks are recorded in
// the catalog's play history.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	var tracks []library.Track
	if name := cmd.String("playlist"); name != "" {
		if tracks, err = lib.PlaylistTracks(name); err != nil {
			return fmt.Errorf("failed to load playlist %q: %w", name, err)
		}
	} else {
		for _, raw := range cmd.StringArgs("id") {
			id, err := parseTrackID(raw)
			if err != nil {
				return err
			}
			track, err := lib.GetTrack(id)
			if err != nil {
				return fmt.Errorf("failed to load track %d: %w", id, err)
			}
			tracks = append(tracks, *track)
		}
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: give track IDs or --playlist", shared.ErrMissingArgument)
	}

	volume := r.config.Playback.Volume
	if v := cmd.Float("volume"); v >= 0 {
		volume = v
	}

	player := playback.NewPlayer(playback.Options{
		Backend:  r.newBackend(r.logger),
		Logger:   r.logger,
		Interval: time.Duration(r.config.Playback.MonitorIntervalMS) * time.Millisecond,
		Volume:   volume,
	})
	defer player.Shutdown()

	if err := player.QueueAll(tracks); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return r.followPlayback(ctx, lib, player)
}

// followPlayback blocks until the player stops, printing track changes and
// recording plays as the queue advances.
func (r *Runner) followPlayback(ctx context.Context, lib *library.Library, player *playback.Player) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastID int64
	report := func(status playback.Status) {
		if status.Current == nil || status.Current.ID == lastID {
			return
		}
		lastID = status.Current.ID
		r.writePlain("▶ %s — %s\n", status.Current.Title, status.Current.DisplayArtist())
		if err := lib.RecordPlay(status.Current.ID); err != nil {
			r.logger.Warn("failed to record play", "id", status.Current.ID, "error", err)
		}
	}

	report(player.Status())
	for {
		select {
		case <-ctx.Done():
			r.writePlain("Interrupted\n")
			return nil
		case <-ticker.C:
			status := player.Status()
			report(status)
			if status.State == playback.StateStopped {
				r.writePlain("Done\n")
				return nil
			}
		}
	}
}
