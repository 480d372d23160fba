package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
)

const userColumns = `id, sequence, username, email, created_at, updated_at`

// UserRepository implements [models.Repository] for [models.User] identities.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Clean validates the user's fields and checks that the username is free.
func (r *UserRepository) Clean(user *models.User) error {
	errs := &models.ValidationError{}
	if err := user.Validate(); err != nil {
		errs = asValidation(err)
	}

	taken, err := exists(r.db, "SELECT 1 FROM users WHERE username = ? AND id != ?", user.Username(), user.ID())
	if err != nil {
		return err
	}
	if taken {
		errs.Merge(models.NewValidationError("username", "A user with that username already exists."))
	}

	return errs.Err()
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, id, sequence, user.Username(), user.Email(), user.CreatedAt(), user.UpdatedAt()); err != nil {
		return constraintError(err, "insert user")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}

	user.SetID(id)
	user.SetSequence(sequence)
	return nil
}

// Get retrieves a user by ID
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanOne(r.db.QueryRow(query, username), username)
}

// Update modifies an existing user in the database
func (r *UserRepository) Update(user *models.User) error {
	now := time.Now()

	query := `
		UPDATE users
		SET username = ?, email = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, user.Username(), user.Email(), now, user.ID())
	if err != nil {
		return constraintError(err, "update user")
	}
	if err := checkAffected(result, "user", user.ID()); err != nil {
		return err
	}

	user.SetUpdatedAt(now)
	return nil
}

// Delete removes a user by ID. The user's profile is removed with it.
func (r *UserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffected(result, "user", id)
}

// List retrieves all users matching the given criteria
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1 = 1`
	args := []any{}

	if username, ok := criteria["username"].(string); ok && username != "" {
		query += " AND username = ?"
		args = append(args, username)
	}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

func (r *UserRepository) scanOne(row *sql.Row, key string) (*models.User, error) {
	user, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", key)
	}
	return user, err
}

// scan reads one row of [userColumns] into a [models.User]
func (r *UserRepository) scan(row scanner) (*models.User, error) {
	var (
		id        string
		sequence  int
		username  string
		email     string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &sequence, &username, &email, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(username, email)
	user.SetID(id)
	user.SetSequence(sequence)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	return user, nil
}

// asValidation returns err as a [models.ValidationError], wrapping other errors as non-field errors.
func asValidation(err error) *models.ValidationError {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return models.NewValidationError(models.NonFieldErrors, err.Error())
}
