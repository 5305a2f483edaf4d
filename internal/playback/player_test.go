package playback

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/shared"
)

// fakeBackend is a scripted backend. Tracks "finish" only when the test says
// so, and Play can be scripted to fail for particular paths.
type fakeBackend struct {
	mu     sync.Mutex
	busy   bool
	played []string
	fail   map[string]bool
	stops  int
	volume float64
	closed bool

	// When set, IsBusy signals busyEntered and blocks until busyRelease
	// closes. Used to hold a monitor tick mid-flight.
	busyEntered chan struct{}
	busyRelease chan struct{}
}

func (b *fakeBackend) Play(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.played = append(b.played, path)
	if b.fail[path] {
		return fmt.Errorf("%w: scripted failure", shared.ErrUnplayableTrack)
	}
	b.busy = true
	return nil
}

func (b *fakeBackend) Pause()  {}
func (b *fakeBackend) Resume() {}

func (b *fakeBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	b.stops++
}

func (b *fakeBackend) IsBusy() bool {
	b.mu.Lock()
	entered, release := b.busyEntered, b.busyRelease
	b.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.busy
}

func (b *fakeBackend) Position() time.Duration { return 0 }

func (b *fakeBackend) SetVolume(level float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = level
}

func (b *fakeBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// finish marks the current track as drained, as if the stream ended.
func (b *fakeBackend) finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
}

func (b *fakeBackend) playedPaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.played))
	copy(out, b.played)
	return out
}

// newFakePlayer builds a player whose monitor ticker never fires on its own;
// tests drive tick() directly for deterministic interleavings.
func newFakePlayer(t *testing.T) (*Player, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{fail: map[string]bool{}}
	p := NewPlayer(Options{
		Backend:  fb,
		Logger:   log.New(io.Discard),
		Interval: time.Hour,
		Volume:   0.8,
	})
	t.Cleanup(p.Shutdown)
	return p, fb
}

func TestEnqueueWhileStoppedStartsPlayback(t *testing.T) {
	p, fb := newFakePlayer(t)

	if err := p.Enqueue(track(1, "a")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	status := p.Status()
	if status.State != StatePlaying {
		t.Fatalf("expected playing, got %v", status.State)
	}
	if status.Current == nil || status.Current.ID != 1 {
		t.Fatalf("unexpected current track: %+v", status.Current)
	}

	// Enqueueing while playing only appends
	if err := p.Enqueue(track(2, "b")); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	status = p.Status()
	if len(status.Queue) != 2 || status.Cursor != 0 {
		t.Errorf("expected queue of 2 at cursor 0, got %d at %d", len(status.Queue), status.Cursor)
	}
	if got := fb.playedPaths(); len(got) != 1 {
		t.Errorf("expected one backend play, got %v", got)
	}
}

func TestPlayNowReplacesQueue(t *testing.T) {
	p, fb := newFakePlayer(t)

	if err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b")}); err != nil {
		t.Fatalf("queue all failed: %v", err)
	}
	if err := p.PlayNow(track(3, "c")); err != nil {
		t.Fatalf("play now failed: %v", err)
	}

	status := p.Status()
	if status.State != StatePlaying {
		t.Fatalf("expected playing, got %v", status.State)
	}
	if len(status.Queue) != 1 || status.Queue[0].ID != 3 {
		t.Fatalf("expected queue replaced by track 3, got %+v", status.Queue)
	}
	if got := fb.playedPaths(); got[len(got)-1] != "c.mp3" {
		t.Errorf("expected last play to be c.mp3, got %v", got)
	}
}

func TestMonitorAdvancesThroughQueue(t *testing.T) {
	p, fb := newFakePlayer(t)

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	// Still busy: the monitor leaves everything alone
	p.tick()
	if status := p.Status(); status.Current.ID != 1 {
		t.Fatalf("tick advanced a busy track: %+v", status.Current)
	}

	fb.finish()
	p.tick()
	if status := p.Status(); status.Current == nil || status.Current.ID != 2 {
		t.Fatalf("expected advance to track 2, got %+v", p.Status().Current)
	}

	fb.finish()
	p.tick()
	if status := p.Status(); status.Current == nil || status.Current.ID != 3 {
		t.Fatalf("expected advance to track 3, got %+v", p.Status().Current)
	}

	// Last track finishes: playback stops and the queue drains
	fb.finish()
	p.tick()
	status := p.Status()
	if status.State != StateStopped || status.Current != nil {
		t.Fatalf("expected stopped with no current, got %+v", status)
	}
	if len(status.Queue) != 0 || status.Cursor != noCurrent {
		t.Errorf("expected drained queue, got %d tracks at cursor %d", len(status.Queue), status.Cursor)
	}

	if got := fb.playedPaths(); len(got) != 3 {
		t.Errorf("expected 3 backend plays, got %v", got)
	}
}

func TestMonitorSkipsUnplayableTracks(t *testing.T) {
	p, fb := newFakePlayer(t)
	fb.fail["bad.mp3"] = true

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "bad"), track(3, "c")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	fb.finish()
	p.tick()

	status := p.Status()
	if status.Current == nil || status.Current.ID != 3 {
		t.Fatalf("expected skip to track 3, got %+v", status.Current)
	}
	want := []string{"a.mp3", "bad.mp3", "c.mp3"}
	got := fb.playedPaths()
	if len(got) != len(want) {
		t.Fatalf("expected plays %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected plays %v, got %v", want, got)
		}
	}
}

func TestPauseResume(t *testing.T) {
	p, fb := newFakePlayer(t)

	// No-ops from stopped
	if state := p.Pause(); state != StateStopped {
		t.Fatalf("pause while stopped: got %v", state)
	}
	if state := p.Resume(); state != StateStopped {
		t.Fatalf("resume while stopped: got %v", state)
	}

	if err := p.PlayNow(track(1, "a")); err != nil {
		t.Fatalf("play now failed: %v", err)
	}
	if state := p.Pause(); state != StatePaused {
		t.Fatalf("expected paused, got %v", state)
	}
	// Pausing again is a no-op
	if state := p.Pause(); state != StatePaused {
		t.Fatalf("expected paused, got %v", state)
	}

	// The monitor never advances a paused player
	fb.finish()
	p.tick()
	if status := p.Status(); status.State != StatePaused {
		t.Fatalf("tick changed paused state to %v", status.State)
	}

	if state := p.Resume(); state != StatePlaying {
		t.Fatalf("expected playing, got %v", state)
	}
}

func TestStopLeavesQueueIntact(t *testing.T) {
	p, fb := newFakePlayer(t)

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	p.Stop()
	status := p.Status()
	if status.State != StateStopped || status.Current != nil {
		t.Fatalf("expected stopped with no current, got %+v", status)
	}
	if len(status.Queue) != 2 || status.Cursor != 0 {
		t.Errorf("expected intact queue, got %d tracks at cursor %d", len(status.Queue), status.Cursor)
	}
	if fb.stops != 1 {
		t.Errorf("expected one backend stop, got %d", fb.stops)
	}

	// Stopped players ignore monitor ticks even though the backend is idle
	p.tick()
	if status := p.Status(); status.State != StateStopped {
		t.Errorf("tick restarted a stopped player: %v", status.State)
	}
	// Stopping again is a no-op
	p.Stop()
	if fb.stops != 1 {
		t.Errorf("redundant stop reached the backend: %d stops", fb.stops)
	}
}

// A Stop landing between the monitor's backend poll and its commit must win:
// the monitor observes the bumped generation and discards its advance.
func TestStopWinsOverInFlightMonitorAdvance(t *testing.T) {
	p, fb := newFakePlayer(t)

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}
	fb.finish()

	fb.mu.Lock()
	fb.busyEntered = make(chan struct{})
	fb.busyRelease = make(chan struct{})
	fb.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.tick()
		close(done)
	}()

	// Wait for the tick to reach its poll, stop the player underneath it,
	// then let the poll return.
	<-fb.busyEntered
	fb.mu.Lock()
	fb.busyEntered = nil
	fb.mu.Unlock()
	p.Stop()
	close(fb.busyRelease)
	<-done

	status := p.Status()
	if status.State != StateStopped || status.Current != nil {
		t.Fatalf("monitor overrode stop: %+v", status)
	}
	if len(status.Queue) != 2 {
		t.Errorf("expected intact queue, got %d tracks", len(status.Queue))
	}
	if got := fb.playedPaths(); len(got) != 1 {
		t.Errorf("monitor started a track after stop: %v", got)
	}
}

func TestSkip(t *testing.T) {
	p, fb := newFakePlayer(t)

	// No-op from stopped
	if err := p.Skip(); err != nil {
		t.Fatalf("skip while stopped failed: %v", err)
	}

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	if err := p.Skip(); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	if status := p.Status(); status.Current == nil || status.Current.ID != 2 {
		t.Fatalf("expected skip to track 2, got %+v", p.Status().Current)
	}

	// Skipping the last track stops playback and drains the queue
	if err := p.Skip(); err != nil {
		t.Fatalf("skip failed: %v", err)
	}
	status := p.Status()
	if status.State != StateStopped || len(status.Queue) != 0 {
		t.Fatalf("expected stopped with empty queue, got %+v", status)
	}
	if fb.stops == 0 {
		t.Error("expected backend stop on queue exhaustion")
	}
}

func TestRemove(t *testing.T) {
	p, _ := newFakePlayer(t)

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	if err := p.Remove(0); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected invalid argument removing current track, got %v", err)
	}
	if err := p.Remove(7); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected invalid argument for out-of-range index, got %v", err)
	}

	if err := p.Remove(2); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	status := p.Status()
	if len(status.Queue) != 2 || status.Queue[1].ID != 2 {
		t.Errorf("unexpected queue after remove: %+v", status.Queue)
	}
	if status.Current == nil || status.Current.ID != 1 {
		t.Errorf("remove disturbed current track: %+v", status.Current)
	}
}

func TestPlayNowBackendFailureStops(t *testing.T) {
	p, fb := newFakePlayer(t)
	fb.fail["bad.mp3"] = true

	err := p.PlayNow(track(1, "bad"))
	if !errors.Is(err, shared.ErrUnplayableTrack) {
		t.Fatalf("expected unplayable track error, got %v", err)
	}
	if status := p.Status(); status.State != StateStopped || status.Current != nil {
		t.Errorf("expected rollback to stopped, got %+v", status)
	}
}

func TestSetVolumeClamps(t *testing.T) {
	p, fb := newFakePlayer(t)

	if got := p.SetVolume(1.5); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}
	if got := p.SetVolume(-0.3); got != 0 {
		t.Errorf("expected clamp to 0, got %v", got)
	}
	if fb.volume != 0 {
		t.Errorf("expected backend volume 0, got %v", fb.volume)
	}
	if got := p.SetVolume(0.5); got != 0.5 || p.Volume() != 0.5 {
		t.Errorf("expected volume 0.5, got %v", got)
	}
}

func TestShutdown(t *testing.T) {
	p, fb := newFakePlayer(t)

	if err := p.PlayNow(track(1, "a")); err != nil {
		t.Fatalf("play now failed: %v", err)
	}

	p.Shutdown()
	p.Shutdown() // idempotent

	if !fb.closed {
		t.Error("expected backend closed")
	}
	if err := p.PlayNow(track(2, "b")); !errors.Is(err, shared.ErrPlayerClosed) {
		t.Errorf("expected player closed error, got %v", err)
	}
	if err := p.Enqueue(track(2, "b")); !errors.Is(err, shared.ErrPlayerClosed) {
		t.Errorf("expected player closed error, got %v", err)
	}
	if err := p.Skip(); !errors.Is(err, shared.ErrPlayerClosed) {
		t.Errorf("expected player closed error, got %v", err)
	}
}

func TestInertBackendAutoAdvance(t *testing.T) {
	logger := log.New(io.Discard)
	p := NewPlayer(Options{
		Backend:  &inertBackend{logger: logger},
		Logger:   logger,
		Interval: time.Hour,
	})
	t.Cleanup(p.Shutdown)

	err := p.QueueAll([]library.Track{track(1, "a"), track(2, "b"), track(3, "c")})
	if err != nil {
		t.Fatalf("queue all failed: %v", err)
	}

	if status := p.Status(); status.AudioAvailable {
		t.Error("expected audio unavailable with inert backend")
	}

	// The inert backend reports idle immediately, so each tick advances
	p.tick()
	if status := p.Status(); status.Current == nil || status.Current.ID != 2 {
		t.Fatalf("expected advance to track 2, got %+v", p.Status().Current)
	}
	p.tick()
	if status := p.Status(); status.Current == nil || status.Current.ID != 3 {
		t.Fatalf("expected advance to track 3, got %+v", p.Status().Current)
	}
	p.tick()
	status := p.Status()
	if status.State != StateStopped || len(status.Queue) != 0 {
		t.Fatalf("expected stopped with drained queue, got %+v", status)
	}
}
