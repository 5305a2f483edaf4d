package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Library errors
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrNotADirectory    = fmt.Errorf("not a directory")

	// Playback errors
	ErrBackendUnavailable = fmt.Errorf("audio backend unavailable")
	ErrUnplayableTrack    = fmt.Errorf("track cannot be played")
	ErrPlayerClosed       = fmt.Errorf("player is shut down")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
