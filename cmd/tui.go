package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/playback"
	"github.com/desertthunder/tunecab/internal/shared"
	"github.com/desertthunder/tunecab/internal/ui"
)

// TUI launches the interactive library browser and player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/tunecab-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	lib, db, err := r.openLibrary()
	if err != nil {
		return err
	}
	defer db.Close()

	player := playback.NewPlayer(playback.Options{
		Backend:  r.newBackend(r.logger),
		Logger:   r.logger,
		Interval: time.Duration(r.config.Playback.MonitorIntervalMS) * time.Millisecond,
		Volume:   r.config.Playback.Volume,
	})
	defer player.Shutdown()

	model := ui.NewModel(lib, player)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
