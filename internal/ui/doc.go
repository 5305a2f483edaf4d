// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI shows the track catalog as a filterable list with a status bar
// reflecting the playback engine. The [Model] implements bubbletea's standard
// Init/Update/View pattern; playback state is refreshed on a fixed tick so
// monitor-driven queue advancement shows up without user input.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, space, n, s, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
