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

// RatingRepository implements [models.Repository] for [models.Rating].
type RatingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new [RatingRepository] with the given database connection
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Clean validates the rating. Ratings have no uniqueness rules.
func (r *RatingRepository) Clean(rating *models.Rating) error {
	return rating.Validate()
}

// Create inserts a new rating with generated ID and sequence
func (r *RatingRepository) Create(rating *models.Rating) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "ratings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO ratings (id, sequence, stars, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, id, sequence, rating.Stars(), rating.CreatedAt(), rating.UpdatedAt()); err != nil {
		return constraintError(err, "insert rating")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating: %w", err)
	}

	rating.SetID(id)
	rating.SetSequence(sequence)
	return nil
}

// Get retrieves a rating by ID
func (r *RatingRepository) Get(id string) (*models.Rating, error) {
	query := `SELECT id, sequence, stars, created_at, updated_at FROM ratings WHERE id = ?`
	rating, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("rating", id)
	}
	return rating, err
}

// Update writes the rating's stars
func (r *RatingRepository) Update(rating *models.Rating) error {
	now := time.Now()

	result, err := r.db.Exec(`UPDATE ratings SET stars = ?, updated_at = ? WHERE id = ?`, rating.Stars(), now, rating.ID())
	if err != nil {
		return constraintError(err, "update rating")
	}
	if err := checkAffected(result, "rating", rating.ID()); err != nil {
		return err
	}

	rating.SetUpdatedAt(now)
	return nil
}

// Delete removes a rating by ID
func (r *RatingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM ratings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return checkAffected(result, "rating", id)
}

// List retrieves all ratings in creation order. No criteria are supported.
func (r *RatingRepository) List(criteria map[string]any) ([]*models.Rating, error) {
	rows, err := r.db.Query(`SELECT id, sequence, stars, created_at, updated_at FROM ratings ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.Rating
	for rows.Next() {
		rating, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ratings, nil
}

func (r *RatingRepository) scan(row scanner) (*models.Rating, error) {
	var (
		id        string
		sequence  int
		stars     decimal.Decimal
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &sequence, &stars, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan rating: %w", err)
	}

	rating := models.NewRating(stars)
	rating.SetID(id)
	rating.SetSequence(sequence)
	rating.SetCreatedAt(createdAt)
	rating.SetUpdatedAt(updatedAt)
	return rating, nil
}

// CommentRepository implements [models.Repository] for [models.Comment].
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new [CommentRepository] with the given database connection
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Clean validates the comment. Comments have no uniqueness rules.
func (r *CommentRepository) Clean(comment *models.Comment) error {
	return comment.Validate()
}

// Create inserts a new comment with generated ID and sequence
func (r *CommentRepository) Create(comment *models.Comment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequence(tx, "comments")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO comments (id, sequence, comment_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.Exec(query, id, sequence, comment.Text(), comment.CreatedAt(), comment.UpdatedAt()); err != nil {
		return constraintError(err, "insert comment")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment: %w", err)
	}

	comment.SetID(id)
	comment.SetSequence(sequence)
	return nil
}

// Get retrieves a comment by ID
func (r *CommentRepository) Get(id string) (*models.Comment, error) {
	query := `SELECT id, sequence, comment_text, created_at, updated_at FROM comments WHERE id = ?`
	comment, err := r.scan(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("comment", id)
	}
	return comment, err
}

// Update writes the comment text
func (r *CommentRepository) Update(comment *models.Comment) error {
	now := time.Now()

	result, err := r.db.Exec(`UPDATE comments SET comment_text = ?, updated_at = ? WHERE id = ?`, comment.Text(), now, comment.ID())
	if err != nil {
		return constraintError(err, "update comment")
	}
	if err := checkAffected(result, "comment", comment.ID()); err != nil {
		return err
	}

	comment.SetUpdatedAt(now)
	return nil
}

// Delete removes a comment by ID
func (r *CommentRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return checkAffected(result, "comment", id)
}

// List retrieves all comments in creation order. No criteria are supported.
func (r *CommentRepository) List(criteria map[string]any) ([]*models.Comment, error) {
	rows, err := r.db.Query(`SELECT id, sequence, comment_text, created_at, updated_at FROM comments ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return comments, nil
}

func (r *CommentRepository) scan(row scanner) (*models.Comment, error) {
	var (
		id        string
		sequence  int
		text      string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &sequence, &text, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	comment := models.NewComment(text)
	comment.SetID(id)
	comment.SetSequence(sequence)
	comment.SetCreatedAt(createdAt)
	comment.SetUpdatedAt(updatedAt)
	return comment, nil
}
