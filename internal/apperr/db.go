package apperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// IsForeignKeyViolation recognizes FK failures from gorm's translator,
// PostgreSQL (pgx) and SQLite.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// FromDB classifies a store error. parent names the referenced resource for
// FK failures ("User", "Department"); conflict describes the unique field.
// Errors that already carry a kind pass through unchanged.
func FromDB(err error, parent, conflict string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case IsForeignKeyViolation(err):
		return Validation(parent + " not found")
	case IsUniqueViolation(err):
		return Conflict(conflict)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(parent + " not found")
	default:
		return Internal(err)
	}
}
