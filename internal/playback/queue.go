package playback

import "github.com/desertthunder/tunecab/internal/library"

// noCurrent is the cursor sentinel. It is set if and only if the queue is
// empty.
const noCurrent = -1

// queue is an ordered list of tracks with a cursor marking the current one.
// It is not safe for concurrent use; the player guards it with its mutex.
type queue struct {
	tracks []library.Track
	cursor int
}

func newQueue() *queue {
	return &queue{cursor: noCurrent}
}

// append adds a track to the end of the queue. When the queue was empty the
// new track becomes current.
func (q *queue) append(track library.Track) {
	q.tracks = append(q.tracks, track)
	if q.cursor == noCurrent {
		q.cursor = 0
	}
}

// reset discards the queue and replaces it with the single given track.
func (q *queue) reset(track library.Track) {
	q.tracks = []library.Track{track}
	q.cursor = 0
}

// advanceNext moves the cursor to the next track. Advancing past the end
// empties the queue and restores the sentinel.
func (q *queue) advanceNext() (library.Track, bool) {
	if q.cursor == noCurrent || q.cursor+1 >= len(q.tracks) {
		q.tracks = nil
		q.cursor = noCurrent
		return library.Track{}, false
	}
	q.cursor++
	return q.tracks[q.cursor], true
}

// remove deletes the track at index, shifting the cursor left when the
// removed entry precedes it. The caller must not remove the current entry.
func (q *queue) remove(index int) {
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	if index < q.cursor {
		q.cursor--
	}
	if len(q.tracks) == 0 {
		q.cursor = noCurrent
	}
}

func (q *queue) clear() {
	q.tracks = nil
	q.cursor = noCurrent
}

// current returns the track under the cursor.
func (q *queue) current() (library.Track, bool) {
	if q.cursor == noCurrent {
		return library.Track{}, false
	}
	return q.tracks[q.cursor], true
}

// snapshot copies the queue contents for safe handoff outside the lock.
func (q *queue) snapshot() []library.Track {
	if len(q.tracks) == 0 {
		return nil
	}
	out := make([]library.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}
