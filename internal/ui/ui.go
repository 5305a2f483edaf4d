package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tunecab/internal/library"
	"github.com/desertthunder/tunecab/internal/playback"
	"github.com/desertthunder/tunecab/internal/shared"
)

// statusInterval is how often the status bar re-reads the player, so
// monitor-driven queue advancement shows up without user input.
const statusInterval = 500 * time.Millisecond

// Model represents the TUI application state.
type Model struct {
	player *playback.Player
	lib    *library.Library
	width  int
	height int
	tracks list.Model
	status playback.Status
	volume float64
	flash  string
	err    error
	help   help.Model
	keys   keyMap
	ready  bool
}

type tracksLoadedMsg struct {
	tracks []library.Track
	err    error
}

type statusTickMsg time.Time

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(lib *library.Library, player *playback.Player) *Model {
	return &Model{
		player: player,
		lib:    lib,
		volume: player.Volume(),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init loads the catalog and starts the status ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadTracks(), statusTick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.ready {
			m.tracks.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tracksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.tracks = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.tracks.Title = "Library"
		m.tracks.SetSize(m.width-4, m.height-8)
		m.ready = true
		return m, nil

	case statusTickMsg:
		m.status = m.player.Status()
		return m, statusTick()

	case tea.KeyMsg:
		// Filtering owns the keyboard while active
		if m.ready && m.tracks.FilterState() == list.Filtering {
			break
		}
		return m.handleKeys(msg)
	}

	return m.updateList(msg)
}

// View renders the track list above the status bar.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}
	if !m.ready {
		return styles.help.Render("Loading library...")
	}

	view := fmt.Sprintf("%s\n%s", m.tracks.View(), m.renderStatusBar())
	if m.flash != "" {
		view = fmt.Sprintf("%s\n%s", view, styles.accent.Render(m.flash))
	}
	return fmt.Sprintf("%s\n%s", view, m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.play):
		if track, ok := m.selectedTrack(); ok {
			if err := m.player.PlayNow(track); err != nil {
				m.flash = fmt.Sprintf("Cannot play %s: %v", track.Title, err)
			} else {
				m.flash = ""
			}
			m.status = m.player.Status()
		}
		return m, nil

	case key.Matches(msg, m.keys.enqueue):
		if track, ok := m.selectedTrack(); ok {
			if err := m.player.Enqueue(track); err != nil {
				m.flash = fmt.Sprintf("Cannot enqueue %s: %v", track.Title, err)
			} else {
				m.flash = fmt.Sprintf("Queued %s", track.Title)
			}
			m.status = m.player.Status()
		}
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		switch m.status.State {
		case playback.StatePlaying:
			m.player.Pause()
		case playback.StatePaused:
			m.player.Resume()
		}
		m.status = m.player.Status()
		return m, nil

	case key.Matches(msg, m.keys.skip):
		if err := m.player.Skip(); err != nil {
			m.flash = fmt.Sprintf("Skip failed: %v", err)
		}
		m.status = m.player.Status()
		return m, nil

	case key.Matches(msg, m.keys.stop):
		m.player.Stop()
		m.flash = ""
		m.status = m.player.Status()
		return m, nil

	case key.Matches(msg, m.keys.volUp):
		m.volume = m.player.SetVolume(m.volume + 0.05)
		return m, nil

	case key.Matches(msg, m.keys.volDown):
		m.volume = m.player.SetVolume(m.volume - 0.05)
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.tracks, cmd = m.tracks.Update(msg)
	return m, cmd
}

func (m *Model) selectedTrack() (library.Track, bool) {
	if !m.ready {
		return library.Track{}, false
	}
	if item, ok := m.tracks.SelectedItem().(trackItem); ok {
		return item.track, true
	}
	return library.Track{}, false
}

func (m *Model) renderStatusBar() string {
	status := m.status

	var line string
	switch {
	case status.Current != nil:
		line = fmt.Sprintf("%s  %s — %s", stateGlyph(status.State), status.Current.Title, status.Current.DisplayArtist())
		if status.Current.Duration > 0 {
			line = fmt.Sprintf("%s  %s/%s", line,
				shared.FormatDuration(status.Position.Seconds()),
				shared.FormatDuration(status.Current.Duration))
		}
	default:
		line = fmt.Sprintf("%s  nothing playing", stateGlyph(status.State))
	}

	if n := len(status.Queue); n > 1 && status.Cursor >= 0 {
		line = fmt.Sprintf("%s  [%d/%d]", line, status.Cursor+1, n)
	}
	line = fmt.Sprintf("%s  vol %d%%", line, int(m.volume*100+0.5))
	if !status.AudioAvailable {
		line = fmt.Sprintf("%s  (no audio device)", line)
	}
	return styles.bar.Render(line)
}

func stateGlyph(state playback.State) string {
	switch state {
	case playback.StatePlaying:
		return "▶"
	case playback.StatePaused:
		return "⏸"
	default:
		return "■"
	}
}

func (m *Model) loadTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.lib.ListTracks("")
		return tracksLoadedMsg{tracks: tracks, err: err}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(statusInterval, func(t time.Time) tea.Msg {
		return statusTickMsg(t)
	})
}
