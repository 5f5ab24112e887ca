package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup by id matches no rows.
	ErrNotFound = errors.New("store: record not found")

	ErrDuplicateKey   = errors.New("store: duplicate key")
	ErrForeignKey     = errors.New("store: foreign key violation")
	ErrCheckViolation = errors.New("store: check constraint violation")
	ErrConnection     = errors.New("store: connection failed")
	// ErrStatement covers every failure that is not classified more precisely.
	ErrStatement = errors.New("store: statement failed")
)

// Error keeps the driver error next to the class it was mapped to, so callers
// can test errors.Is(err, ErrDuplicateKey) and still log the original cause.
type Error struct {
	Op       string
	Sentinel error
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v (cause: %v)", e.Op, e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return e.Sentinel == target }
func (e *Error) Unwrap() error        { return e.Cause }

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Op: op, Sentinel: ErrNotFound, Cause: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return &Error{Op: op, Sentinel: ErrDuplicateKey, Cause: err}
		case pgErr.Code == codeForeignKeyViolation:
			return &Error{Op: op, Sentinel: ErrForeignKey, Cause: err}
		case pgErr.Code == codeCheckViolation:
			return &Error{Op: op, Sentinel: ErrCheckViolation, Cause: err}
		case strings.HasPrefix(pgErr.Code, "08"):
			return &Error{Op: op, Sentinel: ErrConnection, Cause: err}
		}
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return &Error{Op: op, Sentinel: ErrConnection, Cause: err}
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueConstraintError(err):
		return &Error{Op: op, Sentinel: ErrDuplicateKey, Cause: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &Error{Op: op, Sentinel: ErrForeignKey, Cause: err}
	}
	return &Error{Op: op, Sentinel: ErrStatement, Cause: err}
}

// isUniqueConstraintError matches driver messages that were not translated
// into a typed error (sqlite without TranslateError, wrapped pq errors).
func isUniqueConstraintError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
