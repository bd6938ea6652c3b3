package data

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrParentNotFound = errors.New("parent answer not found")
	ErrDuplicateVote  = errors.New("duplicate vote")
)

// IsConflict reports whether err is a unique-constraint violation, e.g. a
// raced duplicate registration.
func IsConflict(err error) bool { return isUniqueViolation(err) }

// isUniqueViolation matches the duplicate-key errors raised by MySQL (1062)
// and SQLite, which gorm does not always translate to ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}
