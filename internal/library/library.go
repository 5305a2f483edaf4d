package library

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunecab/internal/shared"
)

// SupportedExtensions are the audio file types the scanner recognizes by default.
var SupportedExtensions = []string{".mp3", ".flac", ".wav", ".ogg", ".m4a", ".aac"}

// Library is the facade over the catalog database for track and playlist operations.
type Library struct {
	db     *sql.DB
	logger *log.Logger
	exts   map[string]struct{}
}

// NewLibrary creates a Library over an open database connection.
//
// extensions overrides the recognized audio file types; pass nil for the defaults.
func NewLibrary(db *sql.DB, logger *log.Logger, extensions []string) *Library {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if len(extensions) == 0 {
		extensions = SupportedExtensions
	}
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Library{db: db, logger: logger, exts: exts}
}

// Supports reports whether the file at path has a recognized audio extension.
func (l *Library) Supports(path string) bool {
	_, ok := l.exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// ScanDirectory walks dir recursively and adds every supported audio file to
// the catalog. Files already present (by absolute path) are skipped. Returns
// the tracks added by this scan.
func (l *Library) ScanDirectory(dir string) ([]Track, error) {
	l.logger.Info("scanning directory", "path", dir)

	paths, err := collectAudioFiles(dir, l.exts)
	if err != nil {
		return nil, err
	}

	var added []Track
	for _, path := range paths {
		track, created, err := l.AddTrack(path)
		if err != nil {
			l.logger.Warn("failed to add track", "path", path, "error", err)
			continue
		}
		if created {
			added = append(added, *track)
		}
	}

	l.logger.Info("scan complete", "added", len(added), "path", dir)
	return added, nil
}

// AddTrack inserts the audio file at path into the catalog, reading embedded
// tag metadata. If the path is already cataloged the existing track is
// returned with created=false.
func (l *Library) AddTrack(path string) (*Track, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve path: %w", err)
	}

	if existing, err := l.trackByPath(abs); err == nil {
		l.logger.Debug("track already cataloged", "path", abs)
		return existing, false, nil
	}

	meta := readMetadata(abs)
	result, err := l.db.Exec(`
		INSERT INTO tracks (path, title, artist, album, duration, track_number, disc_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, abs, meta.Title, meta.Artist, meta.Album, meta.Duration, meta.TrackNumber, meta.DiscNumber)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert track: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read inserted id: %w", err)
	}

	track, err := l.GetTrack(id)
	if err != nil {
		return nil, false, err
	}
	return track, true, nil
}

// ListTracks returns catalog tracks ordered by artist, album, track number and
// title. A non-empty search filters by substring match on title, artist or album.
func (l *Library) ListTracks(search string) ([]Track, error) {
	query := selectTracks
	args := []any{}
	if search != "" {
		query += " WHERE title LIKE ? OR artist LIKE ? OR album LIKE ?"
		wildcard := "%" + search + "%"
		args = append(args, wildcard, wildcard, wildcard)
	}
	query += " ORDER BY artist, album, track_number, title"

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

// GetTrack retrieves a track by catalog ID.
func (l *Library) GetTrack(id int64) (*Track, error) {
	row := l.db.QueryRow(selectTracks+" WHERE id = ?", id)
	track, err := scanTrackRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: id %d", shared.ErrTrackNotFound, id)
	}
	return track, err
}

// RemoveTrack deletes a track from the catalog.
func (l *Library) RemoveTrack(id int64) error {
	result, err := l.db.Exec("DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrTrackNotFound, id)
	}
	return nil
}

// RecordPlay increments a track's play count and stamps last_played.
//
// Called by front ends when they observe a track start; the playback engine
// itself never writes to the catalog.
func (l *Library) RecordPlay(id int64) error {
	_, err := l.db.Exec(`
		UPDATE tracks
		SET play_count = play_count + 1, last_played = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// CreatePlaylist creates an empty playlist; creating an existing name is a no-op.
func (l *Library) CreatePlaylist(name string) error {
	_, err := l.db.Exec(
		"INSERT OR IGNORE INTO playlists (public_id, name) VALUES (?, ?)",
		shared.GenerateID(), name,
	)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return nil
}

// DeletePlaylist removes a playlist and its membership rows.
func (l *Library) DeletePlaylist(name string) error {
	result, err := l.db.Exec("DELETE FROM playlists WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	return nil
}

// AddToPlaylist appends a track to the end of the named playlist.
func (l *Library) AddToPlaylist(name string, trackID int64) error {
	var playlistID int64
	err := l.db.QueryRow("SELECT id FROM playlists WHERE name = ?", name).Scan(&playlistID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}

	if _, err := l.GetTrack(trackID); err != nil {
		return err
	}

	var maxPos int
	if err := l.db.QueryRow(
		"SELECT COALESCE(MAX(position), 0) FROM playlist_tracks WHERE playlist_id = ?", playlistID,
	).Scan(&maxPos); err != nil {
		return fmt.Errorf("failed to read playlist position: %w", err)
	}

	_, err = l.db.Exec(`
		INSERT OR REPLACE INTO playlist_tracks (playlist_id, track_id, position)
		VALUES (?, ?, ?)
	`, playlistID, trackID, maxPos+1)
	if err != nil {
		return fmt.Errorf("failed to add track to playlist: %w", err)
	}
	return nil
}

// ListPlaylists returns all playlists with their tracks in position order.
func (l *Library) ListPlaylists() ([]Playlist, error) {
	rows, err := l.db.Query("SELECT id, public_id, name, created_at FROM playlists ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.PublicID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range playlists {
		tracks, err := l.playlistTracks(playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Tracks = tracks
	}
	return playlists, nil
}

// PlaylistTracks returns the tracks of the named playlist in position order.
func (l *Library) PlaylistTracks(name string) ([]Track, error) {
	var playlistID int64
	err := l.db.QueryRow("SELECT id FROM playlists WHERE name = ?", name).Scan(&playlistID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up playlist: %w", err)
	}
	return l.playlistTracks(playlistID)
}

const selectTracks = `
	SELECT id, path, title, artist, album, duration, track_number, disc_number, play_count, last_played, added_at
	FROM tracks
`

func (l *Library) playlistTracks(playlistID int64) ([]Track, error) {
	rows, err := l.db.Query(`
		SELECT t.id, t.path, t.title, t.artist, t.album, t.duration, t.track_number, t.disc_number, t.play_count, t.last_played, t.added_at
		FROM playlist_tracks pt
		JOIN tracks t ON t.id = pt.track_id
		WHERE pt.playlist_id = ?
		ORDER BY pt.position
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return tracks, nil
}

func (l *Library) trackByPath(path string) (*Track, error) {
	row := l.db.QueryRow(selectTracks+" WHERE path = ?", path)
	return scanTrackRow(row)
}

// scanner abstracts *sql.Row and *sql.Rows for track scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(s scanner) (*Track, error) {
	var (
		track      Track
		artist     sql.NullString
		album      sql.NullString
		duration   sql.NullFloat64
		trackNum   sql.NullString
		discNum    sql.NullString
		lastPlayed sql.NullTime
	)
	err := s.Scan(&track.ID, &track.Path, &track.Title, &artist, &album, &duration,
		&trackNum, &discNum, &track.PlayCount, &lastPlayed, &track.AddedAt)
	if err != nil {
		return nil, err
	}
	track.Artist = artist.String
	track.Album = album.String
	track.Duration = duration.Float64
	track.TrackNumber = trackNum.String
	track.DiscNumber = discNum.String
	if lastPlayed.Valid {
		t := lastPlayed.Time
		track.LastPlayed = &t
	}
	return &track, nil
}

func scanTrackRow(row *sql.Row) (*Track, error) {
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}

// collectAudioFiles returns every supported file under dir, sorted for
// deterministic scan order.
func collectAudioFiles(dir string, exts map[string]struct{}) ([]string, error) {
	matches, err := walkFiles(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, path := range matches {
		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
