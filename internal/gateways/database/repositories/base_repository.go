package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/gohye/cardtrade/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

const defaultTimeout = 10 * time.Second

// RepositoryError represents a repository-level error
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (re *RepositoryError) Error() string {
	return fmt.Sprintf("repository error during %s for %s: %v", re.Operation, re.Entity, re.Err)
}

func (re *RepositoryError) Unwrap() error {
	return re.Err
}

// handleError maps driver errors onto domain errors. Missing rows become a
// not-found AppError so callers can match them with errors.Is.
func handleError(operation, entity string, id any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.ErrEntityNotFound(entity, id)
	}
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &RepositoryError{
		Operation: operation,
		Entity:    entity,
		Err:       err,
	}
}

// uniqueViolation reports whether err is a unique violation on the named
// constraint or index. An empty name matches any.
func uniqueViolation(err error, name string) bool {
	var pgErr pgdriver.Error
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Field('C') != "23505" {
		return false
	}
	return name == "" || pgErr.Field('n') == name
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultTimeout)
}
