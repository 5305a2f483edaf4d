// Package library implements the SQLite-backed music catalog.
//
// The catalog owns [Track] records: stable identity, playable path, and
// display metadata. Tracks enter the catalog through [Library.ScanDirectory],
// which walks a folder tree, filters by supported audio extensions, and reads
// embedded tags for title/artist/album metadata (falling back to the file
// name). Playlists are ordered track collections persisted alongside tracks.
//
// The playback engine consumes Track values but never writes back to the
// catalog; play counts are recorded by callers via [Library.RecordPlay] when
// they observe a track start.
package library
