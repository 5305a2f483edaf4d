package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tunecab/internal/playback"
	"github.com/desertthunder/tunecab/internal/shared"
	apptest "github.com/desertthunder/tunecab/internal/testing"
)

// stubBackend accepts every play request and reports idle immediately, so
// playback commands drain their queue without audio hardware.
type stubBackend struct{}

func (stubBackend) Play(path string) error  { return nil }
func (stubBackend) Pause()                  {}
func (stubBackend) Resume()                 {}
func (stubBackend) Stop()                   {}
func (stubBackend) IsBusy() bool            { return false }
func (stubBackend) Position() time.Duration { return 0 }
func (stubBackend) SetVolume(level float64) {}
func (stubBackend) Close() error            { return nil }

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = filepath.Join(t.TempDir(), "test.db")

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: log.New(io.Discard),
		Output: output,
		NewBackend: func(*log.Logger) playback.Backend {
			return stubBackend{}
		},
	})
	return runner, output
}

// run executes one CLI invocation against the runner's command tree and
// returns the output written during it.
func run(t *testing.T, r *Runner, output *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	output.Reset()

	app := &cli.Command{
		Name:     "tunecab",
		Commands: r.register(),
	}
	err := app.Run(context.Background(), append([]string{"tunecab"}, args...))
	return output.String(), err
}

func TestNewRunner(t *testing.T) {
	t.Run("with all dependencies provided", func(t *testing.T) {
		config := shared.DefaultConfig()
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}

		runner := NewRunner(RunnerOpts{
			Config: config,
			Logger: logger,
			Output: output,
		})

		if runner.config != config {
			t.Error("expected config to be set")
		}
		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
		if runner.newBackend == nil {
			t.Error("expected default backend factory")
		}
	})

	t.Run("with nil config uses defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		if runner.config == nil {
			t.Error("expected default config to be set")
		}
		if runner.logger == nil {
			t.Error("expected default logger to be set")
		}
		if runner.output != os.Stdout {
			t.Error("expected output to default to os.Stdout")
		}
	})
}

func TestScanAndTracksCommands(t *testing.T) {
	runner, output := newTestRunner(t)

	dir := t.TempDir()
	apptest.WriteFile(t, dir, "Blue Monday.mp3", "x")
	apptest.WriteFile(t, dir, "Green River.flac", "x")
	apptest.WriteFile(t, dir, "cover.jpg", "x")

	out, err := run(t, runner, output, "scan", dir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(out, "Added 2 new tracks") {
		t.Errorf("unexpected scan output: %s", out)
	}

	out, err = run(t, runner, output, "tracks", "list")
	if err != nil {
		t.Fatalf("tracks list failed: %v", err)
	}
	if !strings.Contains(out, "Blue Monday") || !strings.Contains(out, "Green River") {
		t.Errorf("expected both tracks listed, got: %s", out)
	}

	out, err = run(t, runner, output, "tracks", "list", "--search", "Blue")
	if err != nil {
		t.Fatalf("tracks search failed: %v", err)
	}
	if !strings.Contains(out, "Blue Monday") || strings.Contains(out, "Green River") {
		t.Errorf("unexpected search output: %s", out)
	}

	if _, err := run(t, runner, output, "tracks", "remove", "not-a-number"); err == nil {
		t.Error("expected error for non-numeric track id")
	}
}

func TestScanRequiresDirectories(t *testing.T) {
	runner, output := newTestRunner(t)
	runner.config.Library.MusicDirs = nil

	if _, err := run(t, runner, output, "scan"); err == nil {
		t.Error("expected error with no directories")
	}
}

func TestPlaylistCommands(t *testing.T) {
	runner, output := newTestRunner(t)

	dir := t.TempDir()
	apptest.WriteFile(t, dir, "song.mp3", "x")
	if _, err := run(t, runner, output, "scan", dir); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if _, err := run(t, runner, output, "playlist", "create", "road trip"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := run(t, runner, output, "playlist", "add", "road trip", "1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := run(t, runner, output, "playlist", "add", "missing", "1"); err == nil {
		t.Error("expected error adding to missing playlist")
	}

	out, err := run(t, runner, output, "playlist", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "road trip (1 tracks)") || !strings.Contains(out, "song") {
		t.Errorf("unexpected playlist listing: %s", out)
	}

	if _, err := run(t, runner, output, "playlist", "delete", "road trip"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := run(t, runner, output, "playlist", "delete", "road trip"); err == nil {
		t.Error("expected error deleting missing playlist")
	}
}

func TestPlayCommandDrainsQueue(t *testing.T) {
	runner, output := newTestRunner(t)
	// Keep the monitor slow relative to the status poll so every queue
	// advance is observed and recorded before the next one lands.
	runner.config.Playback.MonitorIntervalMS = 500

	dir := t.TempDir()
	apptest.WriteFile(t, dir, "one.mp3", "x")
	apptest.WriteFile(t, dir, "two.mp3", "x")
	if _, err := run(t, runner, output, "scan", dir); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	out, err := run(t, runner, output, "play", "1", "2")
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if !strings.Contains(out, "one") || !strings.Contains(out, "two") || !strings.Contains(out, "Done") {
		t.Errorf("unexpected play output: %s", out)
	}

	// Finished plays land in the history
	out, err = run(t, runner, output, "tracks", "list")
	if err != nil {
		t.Fatalf("tracks list failed: %v", err)
	}
	if !strings.Contains(out, "♪") {
		t.Errorf("expected play counts in listing: %s", out)
	}
}

func TestPlayRequiresTracks(t *testing.T) {
	runner, output := newTestRunner(t)
	if _, err := run(t, runner, output, "play"); err == nil {
		t.Error("expected error with no tracks")
	}
}

func TestExportPlaylistsCommand(t *testing.T) {
	runner, output := newTestRunner(t)

	dir := t.TempDir()
	musicDir := filepath.Join(dir, "mix")
	apptest.WriteFile(t, musicDir, "a.mp3", "x")
	apptest.WriteFile(t, musicDir, "b.mp3", "x")

	out, err := run(t, runner, output, "export", "playlists", musicDir)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 1 playlists") {
		t.Errorf("unexpected export output: %s", out)
	}
	apptest.AssertFileExists(t, filepath.Join(musicDir, "mix.m3u"))
}
