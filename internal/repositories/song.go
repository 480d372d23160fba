package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
)

const songColumns = `id, album_id, title, length, position, created_at, updated_at`

// SongRepository implements [models.Repository] for [models.Song].
//
// Songs are ordered by their position within an album rather than by a sequence.
// A song's position is assigned when it is created and is never rewritten by Update.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new [SongRepository] with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Clean validates the song's fields, that its album exists, and that its title and explicit position are free
// within the album.
func (r *SongRepository) Clean(song *models.Song) error {
	errs := &models.ValidationError{}
	if err := song.Validate(); err != nil {
		errs = asValidation(err)
	}

	if song.AlbumID() == "" {
		return errs.Err()
	}

	found, err := exists(r.db, "SELECT 1 FROM albums WHERE id = ?", song.AlbumID())
	if err != nil {
		return err
	}
	if !found {
		errs.Merge(models.NewValidationError("album", fmt.Sprintf("Album %s does not exist.", song.AlbumID())))
		return errs.Err()
	}

	taken, err := exists(r.db, "SELECT 1 FROM songs WHERE album_id = ? AND title = ? AND id != ?",
		song.AlbumID(), song.Title(), song.ID())
	if err != nil {
		return err
	}
	if taken {
		errs.Merge(models.NewValidationError(models.NonFieldErrors, "Song with this Album and Title already exists."))
	}

	if song.Position() > 0 {
		taken, err := exists(r.db, "SELECT 1 FROM songs WHERE album_id = ? AND position = ? AND id != ?",
			song.AlbumID(), song.Position(), song.ID())
		if err != nil {
			return err
		}
		if taken {
			errs.Merge(models.NewValidationError(models.NonFieldErrors, "Song with this Album and Position already exists."))
		}
	}

	return errs.Err()
}

// Create inserts a new song, assigning the next free position in its album when none was supplied.
//
// The sibling positions are read inside the insert transaction.
func (r *SongRepository) Create(song *models.Song) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	positions, err := positionsIn(tx, song.AlbumID())
	if err != nil {
		return err
	}
	song.PrepareForInsert(positions)

	id := shared.GenerateID()

	query := `INSERT INTO songs (` + songColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(query, id, song.AlbumID(), song.Title(), song.Length(), song.Position(), song.CreatedAt(), song.UpdatedAt())
	if err != nil {
		return constraintError(err, "insert song")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit song: %w", err)
	}

	song.SetID(id)
	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// Update writes the song's title and length. The stored position is left untouched.
func (r *SongRepository) Update(song *models.Song) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET title = ?, length = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, song.Title(), song.Length(), now, song.ID())
	if err != nil {
		return constraintError(err, "update song")
	}
	if err := checkAffected(result, "song", song.ID()); err != nil {
		return err
	}

	song.SetUpdatedAt(now)
	return nil
}

// Delete removes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return checkAffected(result, "song", id)
}

// List retrieves songs matching the given criteria, in track order.
//
// Supported keys: "album_id", "title".
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE 1 = 1`
	args := []any{}

	if albumID, ok := criteria["album_id"].(string); ok && albumID != "" {
		query += " AND album_id = ?"
		args = append(args, albumID)
	}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title = ?"
		args = append(args, title)
	}

	query += " ORDER BY album_id ASC, position ASC"

	return r.query(query, args...)
}

// ListByAlbum retrieves the track listing of an album
func (r *SongRepository) ListByAlbum(albumID string) ([]*models.Song, error) {
	return r.List(map[string]any{"album_id": albumID})
}

func (r *SongRepository) query(query string, args ...any) ([]*models.Song, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func (r *SongRepository) scanOne(row *sql.Row, key string) (*models.Song, error) {
	song, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("song", key)
	}
	return song, err
}

// scan reads one row of [songColumns] into a [models.Song]
func (r *SongRepository) scan(row scanner) (*models.Song, error) {
	var (
		id        string
		albumID   string
		title     string
		length    int
		position  sql.NullInt64
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &albumID, &title, &length, &position, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewSong(albumID, title, length)
	song.SetID(id)
	song.SetPosition(int(position.Int64))
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	return song, nil
}

// positionsIn returns the positions already taken in an album
func positionsIn(tx *sql.Tx, albumID string) ([]int, error) {
	rows, err := tx.Query(`SELECT position FROM songs WHERE album_id = ? AND position IS NOT NULL`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
