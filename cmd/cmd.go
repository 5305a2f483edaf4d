package main

import "github.com/urfave/cli/v3"

// setupCommand initializes configuration and the catalog database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and catalog database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// scanCommand imports audio files into the catalog.
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan directories for audio files and add them to the catalog",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "dir", Max: -1},
		},
		Action: r.Scan,
	}
}

// tracksCommand handles catalog queries and edits.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"track", "t"},
		Usage:   "Catalog track operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by title, artist or album substring",
					},
				},
				Action: r.TracksList,
			},
			{
				Name:  "remove",
				Usage: "Remove a track from the catalog (file stays on disk)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TracksRemove,
			},
		},
	}
}

// playlistCommand handles playlist management.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists and their tracks",
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "add",
				Usage: "Append a track to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist (tracks stay in the catalog)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistDelete,
			},
		},
	}
}

// playCommand plays tracks or a playlist from the terminal.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play tracks by ID, or a whole playlist",
		Arguments: []cli.Argument{
			&cli.StringArgs{Name: "id", Max: -1},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Play every track of the named playlist",
			},
			&cli.FloatFlag{
				Name:  "volume",
				Usage: "Playback volume between 0 and 1",
				Value: -1,
			},
		},
		Action: r.Play,
	}
}

// exportCommand prepares music for portable players.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists and organized trees for portable players",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "Generate M3U playlists from a music directory",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "source"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dest",
						Aliases: []string{"d"},
						Usage:   "Directory to write playlists (defaults to the source)",
					},
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Create a playlist per subdirectory",
					},
				},
				Action: r.ExportPlaylists,
			},
			{
				Name:  "organize",
				Usage: "Reorganize audio files into an Artist/Album hierarchy",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "source"},
					&cli.StringArg{Name: "dest"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "move",
						Usage: "Move files instead of copying",
					},
					&cli.BoolFlag{
						Name:  "genre",
						Usage: "Add a genre directory level above the artist",
					},
					&cli.BoolFlag{
						Name:    "recursive",
						Aliases: []string{"r"},
						Usage:   "Walk subdirectories within the source",
						Value:   true,
					},
				},
				Action: r.ExportOrganize,
			},
			{
				Name:  "bundle",
				Usage: "Assemble a device-ready Music/ and Playlists/ tree",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "albums",
						Aliases: []string{"a"},
						Usage:   "Directory of full albums (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:    "playlists",
						Aliases: []string{"p"},
						Usage:   "Directory of playlist folders (repeatable)",
					},
					&cli.StringFlag{
						Name:     "dest",
						Aliases:  []string{"d"},
						Usage:    "Bundle destination root",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "genre",
						Usage: "Add a genre directory level above the artist",
					},
					&cli.BoolFlag{
						Name:  "move-albums",
						Usage: "Move album files instead of copying",
					},
					&cli.BoolFlag{
						Name:  "move-playlists",
						Usage: "Move playlist-only files instead of copying",
					},
				},
				Action: r.ExportBundle,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playback.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library browser and player",
		Action:  r.TUI,
	}
}
