package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
)

const playlistColumns = `id, sequence, name, visibility_level, owner_id, created_at, updated_at`

// PlaylistRepository implements [models.Repository] for [models.Playlist] and manages playlist membership.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Clean validates the playlist's fields and checks that its owner exists.
func (r *PlaylistRepository) Clean(playlist *models.Playlist) error {
	errs := &models.ValidationError{}
	if err := playlist.Validate(); err != nil {
		errs = asValidation(err)
	}

	if owner := playlist.OwnerID(); owner != "" {
		found, err := exists(r.db, "SELECT 1 FROM profiles WHERE id = ?", owner)
		if err != nil {
			return err
		}
		if !found {
			errs.Merge(models.NewValidationError("owner", fmt.Sprintf("Profile %s does not exist.", owner)))
		}
	}

	return errs.Err()
}

// Create inserts a new playlist, stamping its creation time when unset
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	playlist.Prepare(time.Now())

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO playlists (` + playlistColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(query, id, sequence, playlist.Name(), int(playlist.Visibility()), playlist.OwnerID(),
		playlist.CreatedAt(), playlist.UpdatedAt())
	if err != nil {
		return constraintError(err, "insert playlist")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	playlist.SetID(id)
	playlist.SetSequence(sequence)
	return nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ?`
	row := r.db.QueryRow(query, id)

	playlist, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("playlist", id)
	}
	return playlist, err
}

// Update writes the playlist's name and visibility
func (r *PlaylistRepository) Update(playlist *models.Playlist) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET name = ?, visibility_level = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, playlist.Name(), int(playlist.Visibility()), now, playlist.ID())
	if err != nil {
		return constraintError(err, "update playlist")
	}
	if err := checkAffected(result, "playlist", playlist.ID()); err != nil {
		return err
	}

	playlist.SetUpdatedAt(now)
	return nil
}

// Delete removes a playlist and its membership rows
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return checkAffected(result, "playlist", id)
}

// List retrieves all playlists matching the given criteria.
//
// Supported keys: "owner_id" (string), "visibility" ([models.Visibility]).
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE 1 = 1`
	args := []any{}

	if ownerID, ok := criteria["owner_id"].(string); ok && ownerID != "" {
		query += " AND owner_id = ?"
		args = append(args, ownerID)
	}

	if visibility, ok := criteria["visibility"].(models.Visibility); ok {
		query += " AND visibility_level = ?"
		args = append(args, int(visibility))
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// AddSong adds a song to a playlist. Adding a song that is already present does nothing.
func (r *PlaylistRepository) AddSong(playlistID, songID string) error {
	query := `INSERT OR IGNORE INTO playlist_songs (playlist_id, song_id, added_at) VALUES (?, ?, ?)`
	if _, err := r.db.Exec(query, playlistID, songID, time.Now()); err != nil {
		return constraintError(err, "add song to playlist")
	}
	return nil
}

// RemoveSong removes a song from a playlist. Removing an absent song does nothing.
func (r *PlaylistRepository) RemoveSong(playlistID, songID string) error {
	query := `DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`
	if _, err := r.db.Exec(query, playlistID, songID); err != nil {
		return fmt.Errorf("failed to remove song from playlist: %w", err)
	}
	return nil
}

// Songs retrieves the songs in a playlist in the order they were added
func (r *PlaylistRepository) Songs(playlistID string) ([]*models.Song, error) {
	query := `
		SELECT s.id, s.album_id, s.title, s.length, s.position, s.created_at, s.updated_at
		FROM songs s
		JOIN playlist_songs ps ON ps.song_id = s.id
		WHERE ps.playlist_id = ?
		ORDER BY ps.added_at ASC, ps.rowid ASC
	`
	return (&SongRepository{db: r.db}).query(query, playlistID)
}

// scan reads one row of [playlistColumns] into a [models.Playlist]
func (r *PlaylistRepository) scan(row scanner) (*models.Playlist, error) {
	var (
		id         string
		sequence   int
		name       string
		visibility int
		ownerID    string
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(&id, &sequence, &name, &visibility, &ownerID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewPlaylist(ownerID, name)
	playlist.SetID(id)
	playlist.SetSequence(sequence)
	playlist.SetVisibility(models.Visibility(visibility))
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	return playlist, nil
}
