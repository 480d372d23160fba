package main

import (
	"github.com/desertthunder/dottify/internal/catalog"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
)

// albumView is the JSON form of an album
type albumView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist_name"`
	Slug        string `json:"slug"`
	Price       string `json:"retail_price"`
	ReleaseDate string `json:"release_date,omitempty"`
	Format      string `json:"format,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
	Account     string `json:"artist_account,omitempty"`
}

func newAlbumView(a *models.Album) albumView {
	v := albumView{
		ID:         a.ID(),
		Title:      a.Title(),
		Artist:     a.ArtistName(),
		Slug:       a.Slug(),
		Price:      a.RetailPrice().StringFixed(2),
		Format:     a.FormatCode(),
		CoverImage: a.CoverImage(),
		Account:    a.ArtistAccountID(),
	}
	if a.ReleaseDate() != nil {
		v.ReleaseDate = a.ReleaseDate().Format(models.DateLayout)
	}
	return v
}

// songView is the JSON form of a song
type songView struct {
	ID       string `json:"id"`
	AlbumID  string `json:"album_id"`
	Title    string `json:"title"`
	Length   int    `json:"length"`
	Position int    `json:"position"`
}

func newSongView(s *models.Song) songView {
	return songView{ID: s.ID(), AlbumID: s.AlbumID(), Title: s.Title(), Length: s.Length(), Position: s.Position()}
}

func newSongViews(songs []*models.Song) []songView {
	views := make([]songView, 0, len(songs))
	for _, s := range songs {
		views = append(views, newSongView(s))
	}
	return views
}

// playlistView is the JSON form of a playlist
type playlistView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	OwnerID    string     `json:"owner_id"`
	Visibility string     `json:"visibility"`
	CreatedAt  string     `json:"created_at"`
	Songs      []songView `json:"songs"`
}

// resolveProfile finds a profile by ID, or by username when ref is not an ID
func resolveProfile(svc *catalog.Service, ref string) (*models.Profile, error) {
	if shared.IsID(ref) {
		return svc.Profile(ref)
	}
	return svc.ProfileByUsername(ref)
}
