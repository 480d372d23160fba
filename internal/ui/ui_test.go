package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/desertthunder/dottify/internal/tasks"
	tu "github.com/desertthunder/dottify/internal/testing"
	"github.com/shopspring/decimal"
)

type fakeCatalog struct {
	albums []*models.Album
	songs  map[string][]*models.Song
	err    error
}

func (c *fakeCatalog) Albums(criteria map[string]any) ([]*models.Album, error) {
	return c.albums, c.err
}

func (c *fakeCatalog) Songs(albumID string) ([]*models.Song, error) {
	return c.songs[albumID], nil
}

func (c *fakeCatalog) AlbumListing(id string) (*formatter.Listing, error) {
	for _, a := range c.albums {
		if a.ID() == id {
			return formatter.AlbumListing(a, c.songs[id]), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (c *fakeCatalog) PlaylistListing(id string) (*formatter.Listing, error) {
	return nil, shared.ErrNotFound
}

func newFakeCatalog() *fakeCatalog {
	album := models.NewAlbum("Kind of Blue", "Miles Davis", decimal.RequireFromString("9.99"), tu.Date(1959, 8, 17))
	album.SetID("album-1")

	first := models.NewSong("album-1", "So What", 562)
	first.SetPosition(1)
	second := models.NewSong("album-1", "Freddie Freeloader", 586)
	second.SetPosition(2)

	return &fakeCatalog{
		albums: []*models.Album{album},
		songs:  map[string][]*models.Song{"album-1": {first, second}},
	}
}

func newTestModel(t *testing.T, c *fakeCatalog) *Model {
	t.Helper()
	engine := tasks.NewExportEngine(c, shared.NewLogger(&strings.Builder{}))
	opts := tasks.BulkExportOpts{Format: "csv", OutputDir: filepath.Join(t.TempDir(), "out"), NumWorkers: 1}
	m := NewModel(context.Background(), c, engine, nil, opts)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// send runs cmd and feeds its message back into the model
func send(m *Model, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := m.Update(cmd())
	return next
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestModel(t *testing.T) {
	t.Run("Init loads albums", func(t *testing.T) {
		m := newTestModel(t, newFakeCatalog())

		if !strings.Contains(m.View(), "Loading albums") {
			t.Errorf("expected loading view, got %q", m.View())
		}

		send(m, m.Init())

		if m.State() != AlbumListView {
			t.Errorf("expected album list view, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Kind of Blue") {
			t.Errorf("expected album in view, got %q", m.View())
		}
	})

	t.Run("Init failure quits", func(t *testing.T) {
		c := newFakeCatalog()
		c.err = errors.New("database closed")
		m := newTestModel(t, c)

		_, cmd := m.Update(m.Init()())

		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if !strings.Contains(m.View(), "database closed") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("enter opens track list and esc returns", func(t *testing.T) {
		m := newTestModel(t, newFakeCatalog())
		send(m, m.Init())

		send(m, press(m, "enter"))

		if m.State() != TrackListView {
			t.Fatalf("expected track list view, got %v", m.State())
		}
		if !strings.Contains(m.View(), "1. So What") {
			t.Errorf("expected numbered tracks, got %q", m.View())
		}

		press(m, "esc")
		if m.State() != AlbumListView {
			t.Errorf("expected album list view, got %v", m.State())
		}
	})

	t.Run("confirm can be declined", func(t *testing.T) {
		m := newTestModel(t, newFakeCatalog())
		send(m, m.Init())
		send(m, press(m, "enter"))

		press(m, "enter")
		if m.State() != ConfirmView {
			t.Fatalf("expected confirm view, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Tracks: 2 (19:08)") {
			t.Errorf("expected track summary, got %q", m.View())
		}

		press(m, "n")
		if m.State() != TrackListView {
			t.Errorf("expected track list view, got %v", m.State())
		}
	})

	t.Run("export runs to the result view", func(t *testing.T) {
		m := newTestModel(t, newFakeCatalog())
		send(m, m.Init())
		send(m, press(m, "enter"))
		press(m, "enter")

		cmd := press(m, "y")
		if m.State() != ExportView {
			t.Fatalf("expected export view, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Exporting Album") {
			t.Errorf("expected export view, got %q", m.View())
		}

		for i := 0; cmd != nil && m.State() == ExportView; i++ {
			if i > 20 {
				t.Fatal("export did not complete")
			}
			cmd = send(m, cmd)
		}

		if m.State() != ResultView {
			t.Fatalf("expected result view, got %v", m.State())
		}
		view := m.View()
		if !strings.Contains(view, "Export Complete") {
			t.Errorf("expected success, got %q", view)
		}
		if !strings.Contains(view, "album-1_tracks.csv") {
			t.Errorf("expected written files, got %q", view)
		}

		press(m, "r")
		if m.State() != AlbumListView {
			t.Errorf("expected album list view after restart, got %v", m.State())
		}
	})

	t.Run("quit from album list", func(t *testing.T) {
		m := newTestModel(t, newFakeCatalog())
		send(m, m.Init())

		cmd := press(m, "q")
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestItems(t *testing.T) {
	c := newFakeCatalog()
	live := models.Format("LIVE")
	c.albums[0].SetFormat(&live)

	album := albumItem{album: c.albums[0]}
	if album.Title() != "Kind of Blue" {
		t.Errorf("expected title, got %q", album.Title())
	}
	if album.Description() != "Miles Davis • Live Recording • 1959-08-17" {
		t.Errorf("unexpected description %q", album.Description())
	}
	if !strings.Contains(album.FilterValue(), "Miles Davis") {
		t.Errorf("expected artist to be filterable, got %q", album.FilterValue())
	}

	track := trackItem{song: c.songs["album-1"][0]}
	if track.Title() != "1. So What" || track.Description() != "9:22" {
		t.Errorf("unexpected track item %q / %q", track.Title(), track.Description())
	}
}
