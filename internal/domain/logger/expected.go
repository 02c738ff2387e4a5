package logger

import (
	"database/sql"
	"errors"
)

// No rows is an answer, not a failure.
func expected(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
