package playback

import (
	"time"

	"github.com/charmbracelet/log"
)

// Backend is the capability surface over an audio engine.
//
// Exactly one Backend instance exists per player and it is owned exclusively
// by the [Player]; the monitor loop and caller commands serialize access
// through the player's locking discipline.
type Backend interface {
	// Play begins playback of the file at path, replacing any current stream.
	Play(path string) error

	// Pause suspends the current stream; a no-op when nothing plays.
	Pause()

	// Resume continues a paused stream; a no-op when nothing is paused.
	Resume()

	// Stop tears down the current stream.
	Stop()

	// IsBusy reports whether the engine still holds an unfinished stream.
	// A paused stream is busy; a finished or stopped one is not.
	IsBusy() bool

	// Position reports the playback position within the current stream.
	Position() time.Duration

	// SetVolume sets the output level, clamped to [0, 1].
	SetVolume(level float64)

	// Close releases the audio device. The backend is unusable afterwards.
	Close() error
}

// NewBackend selects the speaker-backed backend when the audio device
// initializes, falling back to the inert backend otherwise. The fallback is
// logged but never surfaced as an error: queue advancement and state
// transitions behave identically without audio.
func NewBackend(logger *log.Logger) Backend {
	b, err := newSpeakerBackend()
	if err != nil {
		logger.Warn("audio device unavailable, playback will be silent", "error", err)
		return &inertBackend{logger: logger}
	}
	logger.Info("audio device initialized")
	return b
}

// inertBackend is the no-op stand-in used when no audio device is available.
// Play succeeds trivially and the backend reports idle immediately, so the
// monitor advances the queue as if playback completed instantly.
type inertBackend struct {
	logger *log.Logger
}

func (b *inertBackend) Play(path string) error {
	b.logger.Debug("no audio device, would play", "path", path)
	return nil
}

func (b *inertBackend) Pause()                  {}
func (b *inertBackend) Resume()                 {}
func (b *inertBackend) Stop()                   {}
func (b *inertBackend) IsBusy() bool            { return false }
func (b *inertBackend) Position() time.Duration { return 0 }
func (b *inertBackend) SetVolume(level float64) {}
func (b *inertBackend) Close() error            { return nil }
