package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
)

const profileColumns = `id, sequence, user_id, display_name, created_at, updated_at`

// ProfileRepository implements [models.Repository] for [models.Profile].
//
// Deleting a profile nulls the owner of its albums and deletes its playlists.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Clean validates the profile's fields and checks that its user has no other profile.
func (r *ProfileRepository) Clean(profile *models.Profile) error {
	errs := &models.ValidationError{}
	if err := profile.Validate(); err != nil {
		errs = asValidation(err)
	}

	if profile.UserID() != "" {
		taken, err := exists(r.db, "SELECT 1 FROM profiles WHERE user_id = ? AND id != ?", profile.UserID(), profile.ID())
		if err != nil {
			return err
		}
		if taken {
			errs.Merge(models.NewValidationError("user", "A profile for this user already exists."))
		}
	}

	return errs.Err()
}

// Create inserts a new profile with generated ID and sequence
func (r *ProfileRepository) Create(profile *models.Profile) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "profiles")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO profiles (` + profileColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, id, sequence, profile.UserID(), profile.DisplayName(), profile.CreatedAt(), profile.UpdatedAt()); err != nil {
		return constraintError(err, "insert profile")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}

	profile.SetID(id)
	profile.SetSequence(sequence)
	return nil
}

// Get retrieves a profile by ID
func (r *ProfileRepository) Get(id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByUser retrieves the profile linked to a user
func (r *ProfileRepository) GetByUser(userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`
	return r.scanOne(r.db.QueryRow(query, userID), "user "+userID)
}

// Update modifies the display name of an existing profile
func (r *ProfileRepository) Update(profile *models.Profile) error {
	now := time.Now()

	result, err := r.db.Exec(`UPDATE profiles SET display_name = ?, updated_at = ? WHERE id = ?`, profile.DisplayName(), now, profile.ID())
	if err != nil {
		return constraintError(err, "update profile")
	}
	if err := checkAffected(result, "profile", profile.ID()); err != nil {
		return err
	}

	profile.SetUpdatedAt(now)
	return nil
}

// Delete removes a profile by ID
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return checkAffected(result, "profile", id)
}

// List retrieves all profiles matching the given criteria
func (r *ProfileRepository) List(criteria map[string]any) ([]*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1 = 1`
	args := []any{}

	if name, ok := criteria["display_name"].(string); ok && name != "" {
		query += " AND display_name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepository) scanOne(row *sql.Row, key string) (*models.Profile, error) {
	profile, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("profile", key)
	}
	return profile, err
}

// scan reads one row of [profileColumns] into a [models.Profile]
func (r *ProfileRepository) scan(row scanner) (*models.Profile, error) {
	var (
		id          string
		sequence    int
		userID      string
		displayName string
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&id, &sequence, &userID, &displayName, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	profile := models.NewProfile(userID, displayName)
	profile.SetID(id)
	profile.SetSequence(sequence)
	profile.SetCreatedAt(createdAt)
	profile.SetUpdatedAt(updatedAt)
	return profile, nil
}
