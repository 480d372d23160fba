package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/dottify/internal/catalog"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	tu "github.com/desertthunder/dottify/internal/testing"
	"github.com/shopspring/decimal"
)

// newTestRunner returns a runner over a migrated in-memory database and its output buffer
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		DB:     tu.NewTestDB(t),
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
	})
	return runner, output
}

// run executes one command line against the runner
func run(r *Runner, args ...string) error {
	return newApp(r).Run(context.Background(), append([]string{"dottify"}, args...))
}

func seedAlbum(t *testing.T, svc *catalog.Service, title string) *models.Album {
	t.Helper()
	album := models.NewAlbum(title, "Artist", decimal.RequireFromString("9.99"), models.Today())
	if err := svc.CreateAlbum(album); err != nil {
		t.Fatalf("failed to create album: %v", err)
	}
	return album
}

func seedSong(t *testing.T, svc *catalog.Service, albumID, title string) *models.Song {
	t.Helper()
	song := models.NewSong(albumID, title, 200)
	if err := svc.AddSong(song); err != nil {
		t.Fatalf("failed to add song: %v", err)
	}
	return song
}

func TestUserCommands(t *testing.T) {
	t.Run("create registers user and profile", func(t *testing.T) {
		r, output := newTestRunner(t)

		if err := run(r, "user", "create", "--username", "alice", "--display-name", "Alice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "created user alice") {
			t.Errorf("expected confirmation, got %q", output.String())
		}

		profile, err := r.catalog.ProfileByUsername("alice")
		if err != nil {
			t.Fatalf("expected profile, got %v", err)
		}
		if profile.DisplayName() != "Alice" {
			t.Errorf("expected display name 'Alice', got %q", profile.DisplayName())
		}
	})

	t.Run("create rejects duplicate username", func(t *testing.T) {
		r, _ := newTestRunner(t)

		if err := run(r, "user", "create", "-u", "alice", "-n", "Alice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		err := run(r, "user", "create", "-u", "alice", "-n", "Other")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("delete removes the profile", func(t *testing.T) {
		r, _ := newTestRunner(t)
		user, _, err := r.catalog.RegisterUser("bob", "", "Bob")
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}

		if err := run(r, "user", "delete", "--id", user.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := r.catalog.ProfileByUsername("bob"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected profile to be gone, got %v", err)
		}
	})
}

func TestAlbumCommands(t *testing.T) {
	today := models.Today().Format(models.DateLayout)

	t.Run("create derives slug and links account by username", func(t *testing.T) {
		r, output := newTestRunner(t)
		_, profile, err := r.catalog.RegisterUser("artist", "", "The Artist")
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}

		err = run(r, "album", "create",
			"--title", "Blue Train", "--artist", "John Coltrane",
			"--price", "12.50", "--release-date", today,
			"--format", "rmst", "--account", "artist")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "slug: blue-train") {
			t.Errorf("expected slug in output, got %q", output.String())
		}

		album, err := r.catalog.AlbumBySlug("blue-train")
		if err != nil {
			t.Fatalf("expected album, got %v", err)
		}
		if album.ArtistAccountID() != profile.ID() {
			t.Errorf("expected account %s, got %s", profile.ID(), album.ArtistAccountID())
		}
		if album.FormatCode() != "RMST" {
			t.Errorf("expected format RMST, got %q", album.FormatCode())
		}
		if !album.RetailPrice().Equal(decimal.RequireFromString("12.50")) {
			t.Errorf("expected price 12.50, got %s", album.RetailPrice())
		}
	})

	t.Run("create rejects bad flag values", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
		}{
			{"price", []string{"--price", "cheap", "--release-date", today}},
			{"date", []string{"--release-date", "01/02/2024"}},
			{"format", []string{"--release-date", today, "--format", "vinyl"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				r, _ := newTestRunner(t)
				args := append([]string{"album", "create", "--title", "T", "--artist", "A"}, tt.args...)

				if err := run(r, args...); !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected invalid flag error, got %v", err)
				}
			})
		}
	})

	t.Run("create rejects a release beyond the horizon", func(t *testing.T) {
		r, _ := newTestRunner(t)
		late := models.AddMonths(models.Today(), 7).Format(models.DateLayout)

		err := run(r, "album", "create", "--title", "Later", "--artist", "A", "--release-date", late)
		ve, ok := catalog.IsValidation(err)
		if !ok {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !ve.Has("release_date") {
			t.Errorf("expected release_date to be rejected, got %v", ve)
		}
	})

	t.Run("rename recomputes slug", func(t *testing.T) {
		r, output := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "First Title")

		if err := run(r, "album", "rename", "--id", album.ID(), "--title", "Second Title"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "second-title") {
			t.Errorf("expected new slug in output, got %q", output.String())
		}
	})

	t.Run("list filters by format", func(t *testing.T) {
		r, output := newTestRunner(t)
		seedAlbum(t, r.catalog, "Plain")
		live := models.NewAlbum("On Stage", "Artist", decimal.Zero, models.Today())
		f := models.Format("LIVE")
		live.SetFormat(&f)
		if err := r.catalog.CreateAlbum(live); err != nil {
			t.Fatalf("failed to create album: %v", err)
		}

		if err := run(r, "album", "list", "--format", "Live Recording", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var views []albumView
		if err := json.Unmarshal(output.Bytes(), &views); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(views) != 1 || views[0].Title != "On Stage" {
			t.Errorf("expected only the live album, got %+v", views)
		}
	})

	t.Run("show requires id or slug", func(t *testing.T) {
		r, _ := newTestRunner(t)

		if err := run(r, "album", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument error, got %v", err)
		}
	})

	t.Run("show by slug prints tracks", func(t *testing.T) {
		r, output := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Kind of Blue")
		seedSong(t, r.catalog, album.ID(), "So What")

		if err := run(r, "album", "show", "--slug", "kind-of-blue"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "1. So What") {
			t.Errorf("expected track listing, got %q", output.String())
		}
	})

	t.Run("show unknown slug is not found", func(t *testing.T) {
		r, _ := newTestRunner(t)

		if err := run(r, "album", "show", "--slug", "missing"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("export writes csv files", func(t *testing.T) {
		r, _ := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Exported")
		seedSong(t, r.catalog, album.ID(), "Track")
		base := filepath.Join(t.TempDir(), "exported")

		if err := run(r, "album", "export", "--id", album.ID(), "--output", base); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, base+"_tracks.csv")
		tu.AssertFileExists(t, base+"_metadata.json")
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		r, _ := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Exported")

		err := run(r, "album", "export", "--id", album.ID(), "--format", "xml", "--output", filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument error, got %v", err)
		}
	})

	t.Run("export-all writes a manifest", func(t *testing.T) {
		r, output := newTestRunner(t)
		seedAlbum(t, r.catalog, "One")
		seedAlbum(t, r.catalog, "Two")
		dir := filepath.Join(t.TempDir(), "all")

		metrics := filepath.Join(t.TempDir(), "dottify.prom")

		if err := run(r, "album", "export-all", "--dir", dir, "--workers", "2", "--metrics-file", metrics); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		tu.AssertFileExists(t, metrics)
		if !strings.Contains(output.String(), "2 exported") {
			t.Errorf("expected summary, got %q", output.String())
		}
	})

	t.Run("delete removes album", func(t *testing.T) {
		r, _ := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Gone")

		if err := run(r, "album", "delete", "--id", album.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := r.catalog.Album(album.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestSongCommands(t *testing.T) {
	t.Run("add assigns next position", func(t *testing.T) {
		r, output := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Album")
		seedSong(t, r.catalog, album.ID(), "Opener")

		if err := run(r, "song", "add", "--album", album.ID(), "--title", "Second", "--length", "120"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "as track 2") {
			t.Errorf("expected track 2, got %q", output.String())
		}
	})

	t.Run("add keeps explicit position", func(t *testing.T) {
		r, output := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Album")

		if err := run(r, "song", "add", "--album", album.ID(), "-t", "Hidden Track", "-l", "60", "-p", "9"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "as track 9") {
			t.Errorf("expected track 9, got %q", output.String())
		}
	})

	t.Run("add rejects short songs", func(t *testing.T) {
		r, _ := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Album")

		err := run(r, "song", "add", "--album", album.ID(), "--title", "Blip", "--length", "5")
		ve, ok := catalog.IsValidation(err)
		if !ok || !ve.Has("length") {
			t.Errorf("expected length to be rejected, got %v", err)
		}
	})

	t.Run("list prints songs in order", func(t *testing.T) {
		r, output := newTestRunner(t)
		album := seedAlbum(t, r.catalog, "Album")
		seedSong(t, r.catalog, album.ID(), "A")
		seedSong(t, r.catalog, album.ID(), "B")

		if err := run(r, "song", "list", "--album", album.ID(), "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var views []songView
		if err := json.Unmarshal(output.Bytes(), &views); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(views) != 2 || views[0].Position != 1 || views[1].Position != 2 {
			t.Errorf("expected positions 1 and 2, got %+v", views)
		}
	})

	t.Run("list unknown album is not found", func(t *testing.T) {
		r, _ := newTestRunner(t)

		if err := run(r, "song", "list", "--album", shared.GenerateID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	setup := func(t *testing.T) (*Runner, *bytes.Buffer, *models.Song, *models.Song) {
		r, output := newTestRunner(t)
		if _, _, err := r.catalog.RegisterUser("owner", "", "Owner"); err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		album := seedAlbum(t, r.catalog, "Album")
		return r, output, seedSong(t, r.catalog, album.ID(), "One"), seedSong(t, r.catalog, album.ID(), "Two")
	}

	createPlaylist := func(t *testing.T, r *Runner, visibility string) *models.Playlist {
		t.Helper()
		if err := run(r, "playlist", "create", "--owner", "owner", "--name", "Mix", "--visibility", visibility); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		owner, err := r.catalog.ProfileByUsername("owner")
		if err != nil {
			t.Fatalf("expected owner, got %v", err)
		}
		playlists, err := r.catalog.Playlists(map[string]any{"owner_id": owner.ID()})
		if err != nil || len(playlists) == 0 {
			t.Fatalf("expected a playlist, got %v", err)
		}
		return playlists[len(playlists)-1]
	}

	t.Run("create parses visibility", func(t *testing.T) {
		r, _, _, _ := setup(t)

		playlist := createPlaylist(t, r, "public")
		if playlist.Visibility() != models.VisibilityPublic {
			t.Errorf("expected public, got %s", playlist.Visibility())
		}
	})

	t.Run("create rejects unknown visibility", func(t *testing.T) {
		r, _, _, _ := setup(t)

		err := run(r, "playlist", "create", "--owner", "owner", "--name", "Mix", "--visibility", "secret")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag error, got %v", err)
		}
	})

	t.Run("add, remove and show", func(t *testing.T) {
		r, output, one, two := setup(t)
		playlist := createPlaylist(t, r, "hidden")

		if err := run(r, "playlist", "add", "--id", playlist.ID(), "--song", one.ID(), "--song", two.ID(), "--song", one.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := run(r, "playlist", "remove", "--id", playlist.ID(), "--song", two.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := run(r, "playlist", "show", "--id", playlist.ID(), "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var view playlistView
		if err := json.Unmarshal(output.Bytes(), &view); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if len(view.Songs) != 1 || view.Songs[0].ID != one.ID() {
			t.Errorf("expected only the first song, got %+v", view.Songs)
		}
		if view.Visibility != "Hidden" {
			t.Errorf("expected Hidden, got %q", view.Visibility)
		}
	})

	t.Run("add unknown song is not found", func(t *testing.T) {
		r, _, _, _ := setup(t)
		playlist := createPlaylist(t, r, "0")

		err := run(r, "playlist", "add", "--id", playlist.ID(), "--song", shared.GenerateID())
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("export writes text", func(t *testing.T) {
		r, _, one, _ := setup(t)
		playlist := createPlaylist(t, r, "unlisted")
		if err := r.catalog.AddToPlaylist(playlist.ID(), one.ID()); err != nil {
			t.Fatalf("failed to add song: %v", err)
		}
		path := filepath.Join(t.TempDir(), "mix.txt")

		if err := run(r, "playlist", "export", "--id", playlist.ID(), "--format", "txt", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected export file, got %v", err)
		}
		if !strings.Contains(string(data), "Playlist: Mix") {
			t.Errorf("expected playlist heading, got %q", string(data))
		}
	})
}

func TestFeedbackCommands(t *testing.T) {
	tests := []struct {
		name    string
		stars   string
		wantErr error
	}{
		{"half step", "4.5", nil},
		{"zero", "0", nil},
		{"maximum", "5.0", nil},
		{"not a half step", "4.4", shared.ErrValidation},
		{"above maximum", "5.5", shared.ErrValidation},
		{"not a number", "four", shared.ErrInvalidFlag},
	}

	for _, tt := range tests {
		t.Run("rate "+tt.name, func(t *testing.T) {
			r, _ := newTestRunner(t)

			err := run(r, "rate", "--stars", tt.stars)
			if tt.wantErr == nil && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("comment", func(t *testing.T) {
		r, output := newTestRunner(t)

		if err := run(r, "comment", "--text", "Great record"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "saved comment") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("comment too long", func(t *testing.T) {
		r, _ := newTestRunner(t)

		err := run(r, "comment", "--text", strings.Repeat("x", 801))
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
