package playback

import (
	"testing"

	"github.com/desertthunder/tunecab/internal/library"
)

func track(id int64, title string) library.Track {
	return library.Track{ID: id, Title: title, Path: title + ".mp3"}
}

// checkSentinel verifies the cursor sentinel holds exactly when the queue is
// empty.
func checkSentinel(t *testing.T, q *queue) {
	t.Helper()
	if (q.cursor == noCurrent) != (len(q.tracks) == 0) {
		t.Fatalf("sentinel violated: cursor=%d len=%d", q.cursor, len(q.tracks))
	}
}

func TestQueueAppendAndCurrent(t *testing.T) {
	q := newQueue()
	checkSentinel(t, q)

	if _, ok := q.current(); ok {
		t.Fatal("empty queue should have no current track")
	}

	q.append(track(1, "a"))
	checkSentinel(t, q)
	cur, ok := q.current()
	if !ok || cur.ID != 1 {
		t.Fatalf("expected current track 1, got %+v ok=%v", cur, ok)
	}

	// Appending more tracks leaves the cursor put
	q.append(track(2, "b"))
	q.append(track(3, "c"))
	cur, _ = q.current()
	if cur.ID != 1 {
		t.Errorf("cursor moved on append: current %d", cur.ID)
	}
}

func TestQueueAdvance(t *testing.T) {
	q := newQueue()
	q.append(track(1, "a"))
	q.append(track(2, "b"))

	next, ok := q.advanceNext()
	if !ok || next.ID != 2 {
		t.Fatalf("expected advance to track 2, got %+v ok=%v", next, ok)
	}
	checkSentinel(t, q)

	// Advancing past the end empties the queue
	if _, ok := q.advanceNext(); ok {
		t.Fatal("expected advance past end to fail")
	}
	checkSentinel(t, q)
	if len(q.tracks) != 0 {
		t.Errorf("expected empty queue after exhaustion, got %d tracks", len(q.tracks))
	}

	// Advancing an empty queue stays empty
	if _, ok := q.advanceNext(); ok {
		t.Fatal("expected advance on empty queue to fail")
	}
	checkSentinel(t, q)
}

func TestQueueReset(t *testing.T) {
	q := newQueue()
	q.append(track(1, "a"))
	q.append(track(2, "b"))

	q.reset(track(9, "z"))
	checkSentinel(t, q)
	if len(q.tracks) != 1 {
		t.Fatalf("expected single track after reset, got %d", len(q.tracks))
	}
	cur, _ := q.current()
	if cur.ID != 9 {
		t.Errorf("expected current track 9, got %d", cur.ID)
	}
}

func TestQueueRemove(t *testing.T) {
	q := newQueue()
	q.append(track(1, "a"))
	q.append(track(2, "b"))
	q.append(track(3, "c"))
	q.advanceNext() // cursor at b

	// Removing before the cursor shifts it left
	q.remove(0)
	checkSentinel(t, q)
	cur, _ := q.current()
	if cur.ID != 2 {
		t.Fatalf("expected current track 2 after remove, got %d", cur.ID)
	}

	// Removing after the cursor leaves it put
	q.remove(1)
	cur, _ = q.current()
	if cur.ID != 2 {
		t.Errorf("expected current track 2, got %d", cur.ID)
	}
	if len(q.tracks) != 1 {
		t.Errorf("expected 1 track, got %d", len(q.tracks))
	}
}

func TestQueueClear(t *testing.T) {
	q := newQueue()
	q.append(track(1, "a"))
	q.clear()
	checkSentinel(t, q)
	if len(q.snapshot()) != 0 {
		t.Error("expected empty snapshot after clear")
	}
}

func TestQueueSnapshotIsCopy(t *testing.T) {
	q := newQueue()
	q.append(track(1, "a"))

	snap := q.snapshot()
	snap[0].Title = "mutated"
	cur, _ := q.current()
	if cur.Title != "a" {
		t.Error("snapshot mutation leaked into queue")
	}
}
