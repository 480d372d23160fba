// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// userCommand handles identities and their profiles
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Manage users and their profiles",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user with a profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Unique username", Required: true},
					&cli.StringFlag{Name: "email", Usage: "Email address"},
					&cli.StringFlag{Name: "display-name", Aliases: []string{"n"}, Usage: "Profile display name", Required: true},
				},
				Action: r.UserCreate,
			},
			{
				Name:  "delete",
				Usage: "Delete a user, its profile and playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "User ID", Required: true},
				},
				Action: r.UserDelete,
			},
		},
	}
}

// albumCommand handles albums
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Manage albums",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an album",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Album title", Required: true},
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "price", Usage: "Retail price, e.g. 9.99", Value: "0.00"},
					&cli.StringFlag{Name: "release-date", Aliases: []string{"r"}, Usage: "Release date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Format code: SNGL, RMST, DLUX, COMP or LIVE"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image path"},
					&cli.StringFlag{Name: "account", Usage: "Owning profile ID or username"},
				},
				Action: r.AlbumCreate,
			},
			{
				Name:  "rename",
				Usage: "Change an album title (the slug follows)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title", Required: true},
				},
				Action: r.AlbumRename,
			},
			{
				Name:  "list",
				Usage: "List albums",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Filter by artist name"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Filter by format code"},
					&cli.StringFlag{Name: "account", Usage: "Filter by owning profile ID"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.AlbumList,
			},
			{
				Name:  "show",
				Usage: "Show an album and its track listing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID"},
					&cli.StringFlag{Name: "slug", Usage: "Album slug"},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.AlbumShow,
			},
			{
				Name:  "export",
				Usage: "Export an album track listing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, markdown, txt", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (defaults to the album ID)"},
				},
				Action: r.AlbumExport,
			},
			{
				Name:  "export-all",
				Usage: "Export every album, or those of one artist, into a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Only albums by this artist"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, markdown, txt", Value: "csv"},
					&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Output directory (default: dottify_export_{epoch})"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent writers", Value: 4},
					&cli.FloatFlag{Name: "rate", Usage: "Albums loaded per second (0 for unlimited)"},
					&cli.StringFlag{Name: "metrics-file", Usage: "Write export metrics in the Prometheus text format to this file"},
				},
				Action: r.AlbumExportAll,
			},
			{
				Name:  "delete",
				Usage: "Delete an album and its songs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Album ID", Required: true},
				},
				Action: r.AlbumDelete,
			},
		},
	}
}

// songCommand handles songs
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Manage songs",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song to an album",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "Album ID", Required: true},
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Song title", Required: true},
					&cli.IntFlag{Name: "length", Aliases: []string{"l"}, Usage: "Length in seconds", Required: true},
					&cli.IntFlag{Name: "position", Aliases: []string{"p"}, Usage: "Track position (next free when omitted)"},
				},
				Action: r.SongAdd,
			},
			{
				Name:  "list",
				Usage: "List the songs of an album in track order",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "album", Usage: "Album ID", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.SongList,
			},
		},
	}
}

// playlistCommand handles playlists
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Owning profile ID or username", Required: true},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Playlist name", Required: true},
					&cli.StringFlag{Name: "visibility", Usage: "Hidden, Unlisted or Public (or 0-2)", Value: "hidden"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringSliceFlag{Name: "song", Aliases: []string{"s"}, Usage: "Song ID (repeatable)", Required: true},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringFlag{Name: "song", Aliases: []string{"s"}, Usage: "Song ID", Required: true},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its songs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "export",
				Usage: "Export a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Playlist ID", Required: true},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, markdown, txt", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (defaults to the playlist ID)"},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// rateCommand stores a star rating
func rateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "rate",
		Usage: "Store a rating between 0 and 5 stars in half-star steps",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "stars", Usage: "Star value, e.g. 4.5", Required: true},
		},
		Action: r.Rate,
	}
}

// commentCommand stores a comment
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "Store a comment",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "Comment text", Required: true},
		},
		Action: r.Comment,
	}
}
