// Package export prepares music for portable players running Rockbox:
// generating M3U playlists from directories, reorganizing loose files into an
// Artist/Album (optionally Genre-rooted) hierarchy, and bundling both into a
// device-ready Music/ plus Playlists/ tree.
//
// Playlists are plain M3U with an #EXTM3U header, LF line endings and
// relative POSIX-style paths, which Rockbox ingests directly.
package export
