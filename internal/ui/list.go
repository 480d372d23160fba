package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = trackItem{}
)

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album *models.Album
}

func (i albumItem) FilterValue() string { return i.album.Title() + " " + i.album.ArtistName() }
func (i albumItem) Title() string { return i.album.Title() }
func (i albumItem) Description() string {
	parts := []string{i.album.ArtistName()}
	if f := i.album.Format(); f != nil {
		parts = append(parts, f.Label())
	}
	if d := i.album.ReleaseDate(); d != nil {
		parts = append(parts, d.Format(models.DateLayout))
	}
	return strings.Join(parts, " • ")
}

// trackItem wraps [models.Song] to implement [list.Item].
type trackItem struct {
	song *models.Song
}

func (i trackItem) FilterValue() string { return i.song.Title() }
func (i trackItem) Title() string { return fmt.Sprintf("%d. %s", i.song.Position(), i.song.Title()) }
func (i trackItem) Description() string { return formatter.FormatDuration(i.song.Length()) }

func albumItems(albums []*models.Album) []list.Item {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return items
}

func trackItems(songs []*models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = trackItem{song: s}
	}
	return items
}
