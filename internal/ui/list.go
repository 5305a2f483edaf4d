package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [library.Track] to implement [list.Item].
type trackItem struct {
	track library.Track
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s", i.track.Title, i.track.Artist, i.track.Album)
}

func (i trackItem) Title() string { return i.track.Title }

func (i trackItem) Description() string {
	desc := i.track.DisplayArtist()
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	if i.track.Duration > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDuration(i.track.Duration))
	}
	return desc
}
