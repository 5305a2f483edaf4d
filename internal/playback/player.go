package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/shared"
)

// State is the playback state machine position.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Status is a point-in-time snapshot of the player for front ends.
type Status struct {
	State          State
	Current        *library.Track
	Queue          []library.Track
	Cursor         int
	Position       time.Duration
	AudioAvailable bool
}

// Options configures a Player. Backend is required; the rest default.
type Options struct {
	Backend  Backend
	Logger   *log.Logger
	Interval time.Duration
	Volume   float64
}

const defaultMonitorInterval = 250 * time.Millisecond

// Player is the playback facade. All commands are safe for concurrent use.
type Player struct {
	mu         sync.Mutex
	backend    Backend
	logger     *log.Logger
	q          *queue
	state      State
	current    *library.Track
	generation uint64
	volume     float64

	interval    time.Duration
	stopMonitor chan struct{}
	monitorDone chan struct{}
	shutdown    sync.Once
	closed      bool
	audio       bool
}

// NewPlayer builds a player around the given backend and starts its monitor
// goroutine. Callers must Shutdown the player when done.
func NewPlayer(opts Options) *Player {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultMonitorInterval
	}
	volume := opts.Volume
	if volume <= 0 || volume > 1 {
		volume = 1.0
	}

	_, inert := opts.Backend.(*inertBackend)

	p := &Player{
		backend:     opts.Backend,
		logger:      logger.With("source", "player"),
		q:           newQueue(),
		state:       StateStopped,
		volume:      volume,
		interval:    interval,
		stopMonitor: make(chan struct{}),
		monitorDone: make(chan struct{}),
		audio:       !inert,
	}
	p.backend.SetVolume(volume)

	go p.monitorLoop()
	return p
}

// PlayNow replaces the queue with the single given track and starts it.
func (p *Player) PlayNow(track library.Track) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return shared.ErrPlayerClosed
	}
	p.q.reset(track)
	current := track
	p.current = &current
	p.state = StatePlaying
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	return p.startTrack(track, gen)
}

// Enqueue appends the track to the queue. When the player is stopped and the
// queue was empty, playback starts immediately with this track.
func (p *Player) Enqueue(track library.Track) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return shared.ErrPlayerClosed
	}
	wasEmpty := p.q.cursor == noCurrent
	p.q.append(track)
	start := p.state == StateStopped && wasEmpty
	var gen uint64
	if start {
		current := track
		p.current = &current
		p.state = StatePlaying
		p.generation++
		gen = p.generation
	}
	p.mu.Unlock()

	if !start {
		return nil
	}
	return p.startTrack(track, gen)
}

// QueueAll enqueues every given track, starting playback on the first when
// the player was idle.
func (p *Player) QueueAll(tracks []library.Track) error {
	for _, track := range tracks {
		if err := p.Enqueue(track); err != nil {
			return err
		}
	}
	return nil
}

// startTrack asks the backend to play the track and rolls the committed
// Playing transition back to Stopped when the backend refuses, unless a newer
// transition already superseded it.
func (p *Player) startTrack(track library.Track, gen uint64) error {
	err := p.backend.Play(track.Path)
	if err == nil {
		p.logger.Info("playing", "title", track.Title, "artist", track.DisplayArtist())
		return nil
	}

	p.mu.Lock()
	if p.generation == gen {
		p.state = StateStopped
		p.current = nil
		p.generation++
	}
	p.mu.Unlock()
	return fmt.Errorf("failed to start %s: %w", track.Title, err)
}

// Pause suspends playback. From any state other than Playing it is a no-op
// and reports the unchanged state.
func (p *Player) Pause() State {
	p.mu.Lock()
	if p.state != StatePlaying {
		state := p.state
		p.mu.Unlock()
		return state
	}
	gen := p.generation
	p.mu.Unlock()

	p.backend.Pause()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == gen && p.state == StatePlaying {
		p.state = StatePaused
		p.generation++
	}
	return p.state
}

// Resume continues paused playback. From any state other than Paused it is a
// no-op and reports the unchanged state.
func (p *Player) Resume() State {
	p.mu.Lock()
	if p.state != StatePaused {
		state := p.state
		p.mu.Unlock()
		return state
	}
	gen := p.generation
	p.mu.Unlock()

	p.backend.Resume()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation == gen && p.state == StatePaused {
		p.state = StatePlaying
		p.generation++
	}
	return p.state
}

// Stop halts playback and clears the current track. The queue and cursor are
// left intact so playback can restart from the same position later. The
// transition commits before the backend call, so a concurrent monitor advance
// observes the bumped generation and discards itself.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.state == StateStopped {
		p.mu.Unlock()
		return
	}
	p.state = StateStopped
	p.current = nil
	p.generation++
	p.mu.Unlock()

	p.backend.Stop()
	p.logger.Info("stopped")
}

// Skip abandons the current track and starts the next queued one. Skipping
// past the end of the queue stops playback and empties the queue. From
// Stopped it is a no-op.
func (p *Player) Skip() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return shared.ErrPlayerClosed
	}
	if p.state == StateStopped {
		p.mu.Unlock()
		return nil
	}

	next, ok := p.q.advanceNext()
	if !ok {
		p.state = StateStopped
		p.current = nil
		p.generation++
		p.mu.Unlock()
		p.backend.Stop()
		p.logger.Info("queue finished")
		return nil
	}

	current := next
	p.current = &current
	p.state = StatePlaying
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	p.backend.Stop()
	return p.startTrack(next, gen)
}

// Remove deletes the queue entry at index. Removing the current entry is
// rejected; use Skip or Stop instead.
func (p *Player) Remove(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index >= len(p.q.tracks) {
		return fmt.Errorf("%w: queue index %d out of range", shared.ErrInvalidArgument, index)
	}
	if index == p.q.cursor {
		return fmt.Errorf("%w: cannot remove the current track", shared.ErrInvalidArgument)
	}
	p.q.remove(index)
	return nil
}

// ClearQueue empties the queue and stops playback.
func (p *Player) ClearQueue() {
	p.mu.Lock()
	wasActive := p.state != StateStopped
	p.q.clear()
	p.state = StateStopped
	p.current = nil
	p.generation++
	p.mu.Unlock()

	if wasActive {
		p.backend.Stop()
	}
}

// Status reports a snapshot of the player. Position is read from the backend
// without the lock held since it only informs display.
func (p *Player) Status() Status {
	p.mu.Lock()
	status := Status{
		State:          p.state,
		Queue:          p.q.snapshot(),
		Cursor:         p.q.cursor,
		AudioAvailable: p.audio,
	}
	if p.current != nil {
		current := *p.current
		status.Current = &current
	}
	p.mu.Unlock()

	if status.State != StateStopped {
		status.Position = p.backend.Position()
	}
	return status
}

// Volume reports the current output level.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume clamps level to [0, 1] and applies it to the backend.
func (p *Player) SetVolume(level float64) float64 {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	p.mu.Lock()
	p.volume = level
	p.mu.Unlock()

	p.backend.SetVolume(level)
	return level
}

// Shutdown stops the monitor, halts playback and releases the backend. It is
// idempotent; commands issued afterwards fail with ErrPlayerClosed.
func (p *Player) Shutdown() {
	p.shutdown.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.state = StateStopped
		p.current = nil
		p.generation++
		p.mu.Unlock()

		close(p.stopMonitor)
		select {
		case <-p.monitorDone:
		case <-time.After(2 * time.Second):
			p.logger.Error("monitor did not stop in time")
		}

		p.backend.Stop()
		if err := p.backend.Close(); err != nil {
			p.logger.Error("failed to close audio backend", "error", err)
		}
	})
}
