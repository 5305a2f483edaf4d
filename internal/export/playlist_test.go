package export

import (
	"path/filepath"
	"strings"
	"testing"

	apptest "github.com/desertthunder/tunecab/internal/testing"
)

func TestExportSinglePlaylist(t *testing.T) {
	e := newTestExporter(nil)

	dir := t.TempDir()
	musicDir := filepath.Join(dir, "flacs")
	apptest.WriteFile(t, musicDir, "01-song.flac", "fake audio")
	apptest.WriteFile(t, musicDir, "02-song.flac", "fake audio")

	results, err := e.ExportPlaylists(musicDir, "", false)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 playlist, got %d", len(results))
	}
	if results[0].TrackCount != 2 {
		t.Errorf("expected 2 tracks, got %d", results[0].TrackCount)
	}

	lines := strings.Split(strings.TrimRight(apptest.MustReadFile(t, results[0].Path), "\n"), "\n")
	if lines[0] != "#EXTM3U" {
		t.Errorf("expected #EXTM3U header, got %q", lines[0])
	}
	if len(lines) != 3 || lines[1] != "01-song.flac" || lines[2] != "02-song.flac" {
		t.Errorf("unexpected playlist body: %v", lines[1:])
	}
}

func TestExportRecursiveWithDestination(t *testing.T) {
	e := newTestExporter(nil)

	dir := t.TempDir()
	source := filepath.Join(dir, "collection")
	apptest.WriteFile(t, source, "single.flac", "fake audio")
	apptest.WriteFile(t, source, "Album/track.flac", "fake audio")

	destination := filepath.Join(dir, "playlists")
	results, err := e.ExportPlaylists(source, destination, true)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	created := map[string]int{}
	for _, res := range results {
		rel, err := filepath.Rel(destination, res.Path)
		if err != nil {
			t.Fatalf("rel failed: %v", err)
		}
		created[filepath.ToSlash(rel)] = res.TrackCount
	}
	if created["collection.m3u"] != 1 || created["Album/Album.m3u"] != 1 {
		t.Fatalf("unexpected playlists: %v", created)
	}

	// Entries are relative to the playlist's own directory
	rootLines := strings.Split(apptest.MustReadFile(t, filepath.Join(destination, "collection.m3u")), "\n")
	if rootLines[1] != "../collection/single.flac" {
		t.Errorf("unexpected root entry: %q", rootLines[1])
	}
	albumLines := strings.Split(apptest.MustReadFile(t, filepath.Join(destination, "Album", "Album.m3u")), "\n")
	if albumLines[1] != "../../collection/Album/track.flac" {
		t.Errorf("unexpected album entry: %q", albumLines[1])
	}
}

func TestExportEmptyDirectoryProducesNothing(t *testing.T) {
	e := newTestExporter(nil)
	results, err := e.ExportPlaylists(t.TempDir(), "", false)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no playlists, got %d", len(results))
	}
}

func TestExportNotADirectory(t *testing.T) {
	e := newTestExporter(nil)
	path := apptest.WriteFile(t, t.TempDir(), "a.mp3", "x")
	if _, err := e.ExportPlaylists(path, "", false); err == nil {
		t.Error("expected error for file source")
	}
}
