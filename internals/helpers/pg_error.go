package helper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports a unique-constraint failure from gorm's
// translated error, pgx or lib/pq.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pgCode(err) == pgUniqueViolation {
		return true
	}
	// drivers without a typed error (sqlite)
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed")
}

// --- PG error mapping (pgx/libpq) ---
func MapPGError(err error) (int, string) {
	switch {
	case IsUniqueViolation(err):
		return http.StatusConflict, "Duplicate data (unique violation)."
	case pgCode(err) == pgForeignKeyViolation:
		return http.StatusBadRequest, "Referenced row not found (FK violation)."
	default:
		return http.StatusInternalServerError, "Database error"
	}
}
