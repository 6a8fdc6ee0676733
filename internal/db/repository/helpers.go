// Package repository implements metadata persistence on top of SQLite.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sqlgen/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// mapDBError converts driver errors into domain errors. what names the
// offending row for the message.
func mapDBError(err error, what string, args ...any) error {
	if err == nil {
		return nil
	}
	subject := fmt.Sprintf(what, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound("%s not found", subject)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return domain.ErrValidation("duplicate %s", subject)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.ErrValidation("%s references an unknown table", subject)
	}
	return fmt.Errorf("%s: %w", subject, err)
}
