package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/shopspring/decimal"
)

const albumColumns = `id, sequence, title, artist_name, retail_price, artist_account_id, release_date, slug, format, cover_image, created_at, updated_at`

// AlbumRepository implements [models.Repository] for [models.Album].
//
// Every Create and Update recomputes the album slug from its title and fills in the default cover when the album
// has none.
type AlbumRepository struct {
	db           *sql.DB
	defaultCover string
}

// NewAlbumRepository creates a new [AlbumRepository]. defaultCover is stored on albums saved without a cover.
func NewAlbumRepository(db *sql.DB, defaultCover string) *AlbumRepository {
	return &AlbumRepository{db: db, defaultCover: defaultCover}
}

// Clean validates the album's fields, that its owner exists, and that no other album has the same
// title, artist name and format.
//
// Albums without a format are never duplicates of each other, as in the database constraint.
func (r *AlbumRepository) Clean(album *models.Album) error {
	errs := &models.ValidationError{}
	if err := album.Validate(); err != nil {
		errs = asValidation(err)
	}

	if owner := album.ArtistAccountID(); owner != "" {
		found, err := exists(r.db, "SELECT 1 FROM profiles WHERE id = ?", owner)
		if err != nil {
			return err
		}
		if !found {
			errs.Merge(models.NewValidationError("artist_account", fmt.Sprintf("Profile %s does not exist.", owner)))
		}
	}

	if album.Format() != nil {
		taken, err := exists(r.db,
			"SELECT 1 FROM albums WHERE title = ? AND artist_name = ? AND format = ? AND id != ?",
			album.Title(), album.ArtistName(), album.FormatCode(), album.ID())
		if err != nil {
			return err
		}
		if taken {
			errs.Merge(models.NewValidationError(models.NonFieldErrors, "Album with this Title, Artist name and Format already exists."))
		}
	}

	return errs.Err()
}

// Create inserts a new album with generated ID and sequence
func (r *AlbumRepository) Create(album *models.Album) error {
	album.Prepare(r.defaultCover)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "albums")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO albums (` + albumColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.Exec(query,
		id,
		sequence,
		album.Title(),
		album.ArtistName(),
		album.RetailPrice(),
		nullable(album.ArtistAccountID()),
		releaseDateValue(album),
		album.Slug(),
		nullable(album.FormatCode()),
		nullable(album.CoverImage()),
		album.CreatedAt(),
		album.UpdatedAt(),
	)
	if err != nil {
		return constraintError(err, "insert album")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit album: %w", err)
	}

	album.SetID(id)
	album.SetSequence(sequence)
	return nil
}

// Get retrieves an album by ID
func (r *AlbumRepository) Get(id string) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySlug retrieves the earliest album with the given slug.
// Slugs are not unique: albums that differ only in artist or format share one.
func (r *AlbumRepository) GetBySlug(slug string) (*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE slug = ? ORDER BY sequence ASC LIMIT 1`
	return r.scanOne(r.db.QueryRow(query, slug), slug)
}

// Update writes the album's current fields, recomputing its slug
func (r *AlbumRepository) Update(album *models.Album) error {
	album.Prepare(r.defaultCover)
	now := time.Now()

	query := `
		UPDATE albums
		SET title = ?, artist_name = ?, retail_price = ?, artist_account_id = ?, release_date = ?,
			slug = ?, format = ?, cover_image = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		album.Title(),
		album.ArtistName(),
		album.RetailPrice(),
		nullable(album.ArtistAccountID()),
		releaseDateValue(album),
		album.Slug(),
		nullable(album.FormatCode()),
		nullable(album.CoverImage()),
		now,
		album.ID(),
	)
	if err != nil {
		return constraintError(err, "update album")
	}
	if err := checkAffected(result, "album", album.ID()); err != nil {
		return err
	}

	album.SetUpdatedAt(now)
	return nil
}

// Delete removes an album and, through the schema, its songs
func (r *AlbumRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return checkAffected(result, "album", id)
}

// List retrieves all albums matching the given criteria.
//
// Supported keys: "artist_name", "format", "artist_account_id", "slug".
func (r *AlbumRepository) List(criteria map[string]any) ([]*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums WHERE 1 = 1`
	args := []any{}

	for _, key := range []string{"artist_name", "format", "artist_account_id", "slug"} {
		if value, ok := criteria[key].(string); ok && value != "" {
			query += " AND " + key + " = ?"
			args = append(args, value)
		}
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		album, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return albums, nil
}

func (r *AlbumRepository) scanOne(row *sql.Row, key string) (*models.Album, error) {
	album, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("album", key)
	}
	return album, err
}

// scan reads one row of [albumColumns] into a [models.Album]
func (r *AlbumRepository) scan(row scanner) (*models.Album, error) {
	var (
		id              string
		sequence        int
		title           string
		artistName      string
		retailPrice     decimal.Decimal
		artistAccountID sql.NullString
		releaseDate     string
		slug            sql.NullString
		format          sql.NullString
		coverImage      sql.NullString
		createdAt       time.Time
		updatedAt       time.Time
	)

	err := row.Scan(&id, &sequence, &title, &artistName, &retailPrice, &artistAccountID, &releaseDate,
		&slug, &format, &coverImage, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}

	released, err := models.ParseDate(releaseDate)
	if err != nil {
		return nil, fmt.Errorf("failed to scan album %s: %w", id, err)
	}

	album := models.NewAlbum(title, artistName, retailPrice, released)
	album.SetID(id)
	album.SetSequence(sequence)
	album.SetArtistAccountID(artistAccountID.String)
	album.SetSlug(slug.String)
	album.SetCoverImage(coverImage.String)
	album.SetCreatedAt(createdAt)
	album.SetUpdatedAt(updatedAt)
	if format.Valid {
		f := models.Format(format.String)
		album.SetFormat(&f)
	}

	return album, nil
}

// releaseDateValue formats the release date for storage; a missing date is left to the NOT NULL constraint.
func releaseDateValue(album *models.Album) any {
	if album.ReleaseDate() == nil {
		return nil
	}
	return album.ReleaseDate().Format(models.DateLayout)
}
