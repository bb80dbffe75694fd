// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// instrument starts a span and a latency timer; call the returned func with the
// method's error when it returns.
func instrument(ctx context.Context, table, method string) (context.Context, func(*error)) {
	ctx, span := observability.StartRepositorySpan(ctx, table, method)
	done := observability.TrackQuery(method, table)
	return ctx, func(errp *error) {
		done()
		var err error
		if errp != nil && !models.HasCode(*errp, models.CodeNotFound) {
			err = *errp
		}
		observability.EndSpan(span, err)
	}
}

// uniqueViolation reports whether err is a unique constraint failure and, when
// it can tell, which column caused it.
func uniqueViolation(err error) (column string, ok bool) {
	if err == nil {
		return "", false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return columnFromConstraint(pgErr.ConstraintName + " " + pgErr.Detail), true
	}

	// sqlite: "UNIQUE constraint failed: users.email"
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed: "); i >= 0 {
		return columnFromConstraint(msg[i:]), true
	}
	if strings.Contains(strings.ToLower(msg), "duplicate key") {
		return columnFromConstraint(msg), true
	}
	return "", false
}

func columnFromConstraint(s string) string {
	s = strings.ToLower(s)
	for _, col := range []string{"username", "email", "phone_number"} {
		if strings.Contains(s, col) {
			return col
		}
	}
	return ""
}

func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}
