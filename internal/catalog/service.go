// package catalog is the calling code for the record lifecycle.
//
// Every write first runs full validation with the repository's Clean (field rules plus uniqueness against stored
// rows) and only then prepares and stores the record. Repositories used directly skip the field rules.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/repositories"
	"github.com/shopspring/decimal"
)

// Service validates and stores catalog records
type Service struct {
	users     *repositories.UserRepository
	profiles  *repositories.ProfileRepository
	albums    *repositories.AlbumRepository
	songs     *repositories.SongRepository
	playlists *repositories.PlaylistRepository
	ratings   *repositories.RatingRepository
	comments  *repositories.CommentRepository
	logger    *log.Logger
}

// NewService creates a [Service] over db. Albums stored without a cover get defaultCover.
func NewService(db *sql.DB, defaultCover string, logger *log.Logger) *Service {
	return &Service{
		users:     repositories.NewUserRepository(db),
		profiles:  repositories.NewProfileRepository(db),
		albums:    repositories.NewAlbumRepository(db, defaultCover),
		songs:     repositories.NewSongRepository(db),
		playlists: repositories.NewPlaylistRepository(db),
		ratings:   repositories.NewRatingRepository(db),
		comments:  repositories.NewCommentRepository(db),
		logger:    logger,
	}
}

// RegisterUser creates an identity and its profile. When the profile is rejected the identity is removed again.
func (s *Service) RegisterUser(username, email, displayName string) (*models.User, *models.Profile, error) {
	user := models.NewUser(username, email)
	if err := s.users.Clean(user); err != nil {
		return nil, nil, err
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	profile := models.NewProfile(user.ID(), displayName)
	err := s.profiles.Clean(profile)
	if err == nil {
		err = s.profiles.Create(profile)
	}
	if err != nil {
		if delErr := s.users.Delete(user.ID()); delErr != nil {
			s.logger.Warn("failed to remove user after profile error", "user", user.ID(), "error", delErr)
		}
		return nil, nil, err
	}

	s.logger.Info("registered user", "user", user.ID(), "profile", profile.ID(), "username", username)
	return user, profile, nil
}

// DeleteUser removes an identity with its profile and playlists. Albums owned by the profile lose their owner.
func (s *Service) DeleteUser(id string) error {
	if err := s.users.Delete(id); err != nil {
		return err
	}
	s.logger.Info("deleted user", "user", id)
	return nil
}

// Profile returns the profile with the given ID
func (s *Service) Profile(id string) (*models.Profile, error) {
	return s.profiles.Get(id)
}

// ProfileByUsername returns the profile of the user with the given username
func (s *Service) ProfileByUsername(username string) (*models.Profile, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.profiles.GetByUser(user.ID())
}

// CreateAlbum validates and stores a new album
func (s *Service) CreateAlbum(album *models.Album) error {
	if err := s.albums.Clean(album); err != nil {
		return err
	}
	if err := s.albums.Create(album); err != nil {
		return err
	}
	s.logger.Info("created album", "album", album.ID(), "slug", album.Slug(), "format", album.FormatCode())
	return nil
}

// SaveAlbum validates and writes an existing album, recomputing its slug
func (s *Service) SaveAlbum(album *models.Album) error {
	if err := s.albums.Clean(album); err != nil {
		return err
	}
	if err := s.albums.Update(album); err != nil {
		return err
	}
	s.logger.Info("saved album", "album", album.ID(), "slug", album.Slug())
	return nil
}

// RenameAlbum changes an album's title and returns the saved album
func (s *Service) RenameAlbum(id, title string) (*models.Album, error) {
	album, err := s.albums.Get(id)
	if err != nil {
		return nil, err
	}
	album.SetTitle(title)
	if err := s.SaveAlbum(album); err != nil {
		return nil, err
	}
	return album, nil
}

// Album returns the album with the given ID
func (s *Service) Album(id string) (*models.Album, error) {
	return s.albums.Get(id)
}

// AlbumBySlug returns the earliest album with the given slug
func (s *Service) AlbumBySlug(slug string) (*models.Album, error) {
	return s.albums.GetBySlug(slug)
}

// Albums lists albums; see [repositories.AlbumRepository.List] for criteria
func (s *Service) Albums(criteria map[string]any) ([]*models.Album, error) {
	return s.albums.List(criteria)
}

// DeleteAlbum removes an album and its songs
func (s *Service) DeleteAlbum(id string) error {
	if err := s.albums.Delete(id); err != nil {
		return err
	}
	s.logger.Info("deleted album", "album", id)
	return nil
}

// AddSong validates and stores a new song, assigning its position when none was given
func (s *Service) AddSong(song *models.Song) error {
	if err := s.songs.Clean(song); err != nil {
		return err
	}
	if err := s.songs.Create(song); err != nil {
		return err
	}
	s.logger.Info("added song", "song", song.ID(), "album", song.AlbumID(), "position", song.Position())
	return nil
}

// SaveSong validates and writes an existing song. Its stored position does not change.
func (s *Service) SaveSong(song *models.Song) error {
	if err := s.songs.Clean(song); err != nil {
		return err
	}
	return s.songs.Update(song)
}

// Songs returns the track listing of an album
func (s *Service) Songs(albumID string) ([]*models.Song, error) {
	return s.songs.ListByAlbum(albumID)
}

// CreatePlaylist validates and stores a new playlist
func (s *Service) CreatePlaylist(playlist *models.Playlist) error {
	if err := s.playlists.Clean(playlist); err != nil {
		return err
	}
	if err := s.playlists.Create(playlist); err != nil {
		return err
	}
	s.logger.Info("created playlist", "playlist", playlist.ID(), "owner", playlist.OwnerID(), "visibility", playlist.Visibility())
	return nil
}

// Playlist returns the playlist with the given ID
func (s *Service) Playlist(id string) (*models.Playlist, error) {
	return s.playlists.Get(id)
}

// Playlists lists playlists; see [repositories.PlaylistRepository.List] for criteria
func (s *Service) Playlists(criteria map[string]any) ([]*models.Playlist, error) {
	return s.playlists.List(criteria)
}

// AddToPlaylist adds a song to a playlist; adding a song twice has no effect
func (s *Service) AddToPlaylist(playlistID, songID string) error {
	if _, err := s.playlists.Get(playlistID); err != nil {
		return err
	}
	if _, err := s.songs.Get(songID); err != nil {
		return err
	}
	if err := s.playlists.AddSong(playlistID, songID); err != nil {
		return err
	}
	s.logger.Debug("added song to playlist", "playlist", playlistID, "song", songID)
	return nil
}

// RemoveFromPlaylist removes a song from a playlist
func (s *Service) RemoveFromPlaylist(playlistID, songID string) error {
	return s.playlists.RemoveSong(playlistID, songID)
}

// PlaylistSongs returns the songs in a playlist in the order they were added
func (s *Service) PlaylistSongs(playlistID string) ([]*models.Song, error) {
	return s.playlists.Songs(playlistID)
}

// DeletePlaylist removes a playlist
func (s *Service) DeletePlaylist(id string) error {
	return s.playlists.Delete(id)
}

// Rate validates and stores a rating
func (s *Service) Rate(stars decimal.Decimal) (*models.Rating, error) {
	rating := models.NewRating(stars)
	if err := s.ratings.Clean(rating); err != nil {
		return nil, err
	}
	if err := s.ratings.Create(rating); err != nil {
		return nil, err
	}
	s.logger.Info("stored rating", "rating", rating.ID(), "stars", stars.String())
	return rating, nil
}

// Comment validates and stores a comment
func (s *Service) Comment(text string) (*models.Comment, error) {
	comment := models.NewComment(text)
	if err := s.comments.Clean(comment); err != nil {
		return nil, err
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	s.logger.Info("stored comment", "comment", comment.ID())
	return comment, nil
}

// AlbumListing loads an album with its songs for export
func (s *Service) AlbumListing(id string) (*formatter.Listing, error) {
	album, err := s.albums.Get(id)
	if err != nil {
		return nil, err
	}
	songs, err := s.songs.ListByAlbum(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load songs of album %s: %w", id, err)
	}
	return formatter.AlbumListing(album, songs), nil
}

// PlaylistListing loads a playlist with its songs and their album titles for export
func (s *Service) PlaylistListing(id string) (*formatter.Listing, error) {
	playlist, err := s.playlists.Get(id)
	if err != nil {
		return nil, err
	}

	owner := ""
	if profile, err := s.profiles.Get(playlist.OwnerID()); err == nil {
		owner = profile.DisplayName()
	}

	songs, err := s.playlists.Songs(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load songs of playlist %s: %w", id, err)
	}

	titles := make(map[string]string)
	for _, song := range songs {
		if _, ok := titles[song.AlbumID()]; ok {
			continue
		}
		album, err := s.albums.Get(song.AlbumID())
		if err != nil {
			return nil, err
		}
		titles[song.AlbumID()] = album.Title()
	}

	return formatter.PlaylistListing(playlist, owner, songs, titles), nil
}

// IsValidation reports whether err rejected a record, returning the rejection
func IsValidation(err error) (*models.ValidationError, bool) {
	var ve *models.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
