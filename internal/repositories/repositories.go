// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/dottify/internal/models"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// nextSequence increments and returns the next sequence number for the given table.
//
// Sequence numbers are not shown to users; they order List results.
func nextSequence(tx *sql.Tx, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// constraintError converts a SQLite constraint failure into a [models.ValidationError].
// Other errors are wrapped with action.
func constraintError(err error, action string) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	detail := sqliteErr.Error()
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return models.NewValidationError(models.NonFieldErrors, uniqueMessage(detail))
	case sqlite3.ErrConstraintForeignKey:
		return models.NewValidationError(models.NonFieldErrors, "Referenced record does not exist.")
	case sqlite3.ErrConstraintNotNull:
		return models.NewValidationError(constraintColumn(detail), "This field cannot be null.")
	default:
		return models.NewValidationError(models.NonFieldErrors, detail)
	}
}

// uniqueMessage turns "UNIQUE constraint failed: albums.title, albums.artist_name" into a sentence.
func uniqueMessage(detail string) string {
	_, cols, ok := strings.Cut(detail, "failed: ")
	if !ok {
		return detail
	}

	var table string
	var fields []string
	for _, col := range strings.Split(cols, ",") {
		t, field, _ := strings.Cut(strings.TrimSpace(col), ".")
		table = t
		fields = append(fields, field)
	}

	return fmt.Sprintf("A record in %s with this %s already exists.", table, strings.Join(fields, ", "))
}

// constraintColumn extracts "title" from "NOT NULL constraint failed: albums.title".
func constraintColumn(detail string) string {
	_, col, ok := strings.Cut(detail, "failed: ")
	if !ok {
		return models.NonFieldErrors
	}
	if _, field, ok := strings.Cut(strings.TrimSpace(col), "."); ok {
		return field
	}
	return models.NonFieldErrors
}

// notFound wraps [shared.ErrNotFound] with the record kind and key.
func notFound(kind, key string) error {
	return fmt.Errorf("%s not found: %s: %w", kind, key, shared.ErrNotFound)
}

// checkAffected returns a not-found error when a write touched no rows.
func checkAffected(result sql.Result, kind, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(kind, id)
	}
	return nil
}

// nullable stores "" as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// exists reports whether query returns a row.
func exists(db *sql.DB, query string, args ...any) (bool, error) {
	var found bool
	if err := db.QueryRow("SELECT EXISTS("+query+")", args...).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	return found, nil
}
