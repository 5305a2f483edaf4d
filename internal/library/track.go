package library

import "time"

// Track is a catalog entry for a single audio file.
//
// The playback engine holds copies of Track values but never mutates or
// persists them; the catalog is the only writer.
type Track struct {
	ID          int64
	Path        string
	Title       string
	Artist      string
	Album       string
	Duration    float64 // seconds; 0 when unknown
	TrackNumber string
	DiscNumber  string
	PlayCount   int
	LastPlayed  *time.Time
	AddedAt     time.Time
}

// DisplayArtist returns the artist or a placeholder for untagged files.
func (t Track) DisplayArtist() string {
	if t.Artist == "" {
		return "Unknown Artist"
	}
	return t.Artist
}

// DisplayAlbum returns the album or a placeholder for untagged files.
func (t Track) DisplayAlbum() string {
	if t.Album == "" {
		return "Unknown Album"
	}
	return t.Album
}

// Playlist is a named, ordered collection of catalog tracks.
type Playlist struct {
	ID        int64
	PublicID  string
	Name      string
	CreatedAt time.Time
	Tracks    []Track
}
