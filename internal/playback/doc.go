// Package playback implements the playback engine: a queue of catalog
// tracks, a Stopped/Playing/Paused state machine, and a background monitor
// that polls the audio backend and advances the queue when a track finishes.
//
// [Player] is the single entry point for front ends. All queue and state
// reads and mutations happen under one mutex; backend calls are issued with
// the lock released and their resulting transition committed after
// re-acquiring it. A generation counter, bumped on every committed
// transition, lets the monitor detect that a caller command landed between
// its backend poll and its commit, in which case the monitor discards its
// pending advance. A concurrent Stop, Skip or PlayNow therefore always wins
// over an in-flight monitor-detected finish.
//
// The [Backend] capability has two implementations: a speaker-backed one
// rendering audio through gopxl/beep, and an inert no-op used when no audio
// device is available. Queue and state behavior is identical under either,
// so the engine's correctness never depends on audio hardware.
package playback
