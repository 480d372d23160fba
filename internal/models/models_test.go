package models

import (
	"strings"
	"testing"
	"time"
)

func validAlbum() *Album {
	return NewAlbum("Greatest hits", "X", d("0.00"), date(2024, time.January, 1))
}

func TestAlbum(t *testing.T) {
	t.Run("Prepare derives slug from the current title", func(t *testing.T) {
		album := validAlbum()
		album.Prepare("default_cover.jpg")
		if album.Slug() != "greatest-hits" {
			t.Errorf("expected slug greatest-hits, got %s", album.Slug())
		}

		album.SetTitle("Even Greater Hits")
		album.Prepare("default_cover.jpg")
		if album.Slug() != "even-greater-hits" {
			t.Errorf("expected slug even-greater-hits, got %s", album.Slug())
		}
	})

	t.Run("Prepare overwrites a manually set slug", func(t *testing.T) {
		album := validAlbum()
		album.SetSlug("custom")
		album.Prepare("default_cover.jpg")
		if album.Slug() != "greatest-hits" {
			t.Errorf("expected slug greatest-hits, got %s", album.Slug())
		}
	})

	t.Run("Prepare with empty title", func(t *testing.T) {
		album := validAlbum()
		album.SetTitle("")
		album.Prepare("default_cover.jpg")
		if album.Slug() != "" {
			t.Errorf("expected empty slug, got %s", album.Slug())
		}
	})

	t.Run("Prepare applies default cover only when missing", func(t *testing.T) {
		album := validAlbum()
		album.Prepare("default_cover.jpg")
		if album.CoverImage() != "default_cover.jpg" {
			t.Errorf("expected default cover, got %s", album.CoverImage())
		}

		album.SetCoverImage("covers/custom.png")
		album.Prepare("default_cover.jpg")
		if album.CoverImage() != "covers/custom.png" {
			t.Errorf("expected custom cover to be kept, got %s", album.CoverImage())
		}
	})

	t.Run("Validate accepts a valid album", func(t *testing.T) {
		if err := validAlbum().Validate(); err != nil {
			t.Errorf("expected valid album, got %v", err)
		}
	})

	t.Run("Validate release horizon", func(t *testing.T) {
		today := Today()

		ok := validAlbum()
		limit := AddMonths(today, 6)
		ok.SetReleaseDate(&limit)
		if err := ok.ValidateAt(today); err != nil {
			t.Errorf("expected release date at the horizon to be valid, got %v", err)
		}

		bad := validAlbum()
		late := limit.AddDate(0, 0, 1)
		bad.SetReleaseDate(&late)
		err := bad.ValidateAt(today)
		if err == nil {
			t.Fatal("expected release date past the horizon to fail")
		}
		if !asValidationError(t, err).Has("release_date") {
			t.Errorf("expected release_date error, got %v", err)
		}
	})

	t.Run("Validate requires release date", func(t *testing.T) {
		album := validAlbum()
		album.SetReleaseDate(nil)
		err := album.Validate()
		if err == nil || !asValidationError(t, err).Has("release_date") {
			t.Errorf("expected release_date error, got %v", err)
		}
	})

	t.Run("Validate collects every failing field", func(t *testing.T) {
		bogus := Format("XXXX")
		album := NewAlbum("", strings.Repeat("a", MaxTextLength+1), d("1000"), date(2024, time.January, 1))
		album.SetFormat(&bogus)

		ve := asValidationError(t, album.Validate())
		for _, field := range []string{"title", "artist_name", "retail_price", "format"} {
			if !ve.Has(field) {
				t.Errorf("expected %s error, got %v", field, ve)
			}
		}
	})

	t.Run("format is optional", func(t *testing.T) {
		album := validAlbum()
		if album.FormatCode() != "" {
			t.Errorf("expected no format, got %s", album.FormatCode())
		}
		live := FormatLive
		album.SetFormat(&live)
		if album.FormatCode() != "LIVE" {
			t.Errorf("expected LIVE, got %s", album.FormatCode())
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"SNGL", "SNGL", false},
		{"dlux", "DLUX", false},
		{"Live Recording", "LIVE", false},
		{"compilation", "COMP", false},
		{"", "", false},
		{"bootleg", "", true},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			code := ""
			if got != nil {
				code = string(*got)
			}
			if code != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, code, tt.want)
			}
		})
	}

	if FormatDeluxe.Label() != "Deluxe Edition" {
		t.Errorf("unexpected label %s", FormatDeluxe.Label())
	}
}

func TestSong(t *testing.T) {
	t.Run("PrepareForInsert assigns next position", func(t *testing.T) {
		first := NewSong("album-1", "S1", 60)
		first.PrepareForInsert(nil)
		if first.Position() != 1 {
			t.Errorf("expected position 1, got %d", first.Position())
		}

		second := NewSong("album-1", "S2", 60)
		second.PrepareForInsert([]int{1})
		if second.Position() != 2 {
			t.Errorf("expected position 2, got %d", second.Position())
		}

		gap := NewSong("album-1", "S3", 60)
		gap.PrepareForInsert([]int{1, 7, 3})
		if gap.Position() != 8 {
			t.Errorf("expected position 8, got %d", gap.Position())
		}
	})

	t.Run("PrepareForInsert keeps explicit position", func(t *testing.T) {
		song := NewSong("album-1", "S1", 60)
		song.SetPosition(5)
		song.PrepareForInsert([]int{1, 2})
		if song.Position() != 5 {
			t.Errorf("expected position 5, got %d", song.Position())
		}
	})

	t.Run("PrepareForInsert skips stored songs", func(t *testing.T) {
		song := NewSong("album-1", "S1", 60)
		song.SetID("stored")
		song.PrepareForInsert([]int{1, 2})
		if song.Position() != 0 {
			t.Errorf("expected position to stay unassigned, got %d", song.Position())
		}
	})

	t.Run("Validate length", func(t *testing.T) {
		if err := NewSong("album-1", "S1", MinSongLength).Validate(); err != nil {
			t.Errorf("expected minimum length to be valid, got %v", err)
		}
		err := NewSong("album-1", "S1", MinSongLength-1).Validate()
		if err == nil || !asValidationError(t, err).Has("length") {
			t.Errorf("expected length error, got %v", err)
		}
	})

	t.Run("Validate requires album", func(t *testing.T) {
		err := NewSong("", "S1", 60).Validate()
		if err == nil || !asValidationError(t, err).Has("album") {
			t.Errorf("expected album error, got %v", err)
		}
	})
}

func TestPlaylist(t *testing.T) {
	t.Run("defaults to hidden with creation time", func(t *testing.T) {
		playlist := NewPlaylist("owner-1", "P")
		if playlist.Visibility() != VisibilityHidden {
			t.Errorf("expected hidden, got %v", playlist.Visibility())
		}
		if playlist.CreatedAt().IsZero() {
			t.Error("expected creation time to be set")
		}
		if err := playlist.Validate(); err != nil {
			t.Errorf("expected valid playlist, got %v", err)
		}
	})

	t.Run("Prepare stamps zero creation time", func(t *testing.T) {
		playlist := &Playlist{name: "P", ownerID: "owner-1"}
		now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
		playlist.Prepare(now)
		if !playlist.CreatedAt().Equal(now) {
			t.Errorf("expected created_at %v, got %v", now, playlist.CreatedAt())
		}

		playlist.Prepare(now.Add(time.Hour))
		if !playlist.CreatedAt().Equal(now) {
			t.Error("Prepare should not move an existing creation time")
		}
	})

	t.Run("Validate visibility", func(t *testing.T) {
		playlist := NewPlaylist("owner-1", "P")
		playlist.SetVisibility(Visibility(3))
		err := playlist.Validate()
		if err == nil || !asValidationError(t, err).Has("visibility_level") {
			t.Errorf("expected visibility error, got %v", err)
		}
	})

	t.Run("ParseVisibility", func(t *testing.T) {
		for in, want := range map[string]Visibility{"0": VisibilityHidden, "unlisted": VisibilityUnlisted, "2": VisibilityPublic, "Public": VisibilityPublic} {
			got, err := ParseVisibility(in)
			if err != nil || got != want {
				t.Errorf("ParseVisibility(%q) = %v, %v; want %v", in, got, err, want)
			}
		}
		if _, err := ParseVisibility("7"); err == nil {
			t.Error("expected error for unknown level")
		}
	})
}

func TestProfileValidate(t *testing.T) {
	if err := NewProfile("user-1", "Stage").Validate(); err != nil {
		t.Errorf("expected valid profile, got %v", err)
	}

	err := NewProfile("user-1", "").Validate()
	if err == nil || !asValidationError(t, err).Has("display_name") {
		t.Errorf("expected display_name error, got %v", err)
	}

	if err := NewUser("", "").Validate(); err == nil {
		t.Error("expected username to be required")
	}
}
