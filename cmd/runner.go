// submodule cmd contains command definitions
package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/export"
	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/playback"
	"github.com/desertthunder/tunecab/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	newBackend func(*log.Logger) playback.Backend
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	NewBackend func(*log.Logger) playback.Backend
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.NewBackend == nil {
		opts.NewBackend = playback.NewBackend
	}

	return &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		newBackend: opts.NewBackend,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, scanCommand, tracksCommand, playlistCommand, playCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openLibrary opens the catalog database, applying pending migrations so the
// schema is always current. The caller closes the returned handle.
func (r *Runner) openLibrary() (*library.Library, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return library.NewLibrary(db, r.logger, r.config.Library.Extensions), db, nil
}

// newExporter builds the device exporter with the configured extensions.
func (r *Runner) newExporter() *export.Exporter {
	return export.New(r.logger, r.config.Library.Extensions)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeTrackLine prints one catalog row.
func (r *Runner) writeTrackLine(track library.Track) {
	line := fmt.Sprintf("%4d  %s — %s", track.ID, track.Title, track.DisplayArtist())
	if track.Album != "" {
		line = fmt.Sprintf("%s (%s)", line, track.Album)
	}
	if track.Duration > 0 {
		line = fmt.Sprintf("%s [%s]", line, shared.FormatDuration(track.Duration))
	}
	if track.PlayCount > 0 {
		line = fmt.Sprintf("%s ♪%d", line, track.PlayCount)
	}
	r.writePlain("%s\n", line)
}
