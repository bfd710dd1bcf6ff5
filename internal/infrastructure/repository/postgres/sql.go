package postgres

import (
	"database/sql"
	"errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func nullableInt64(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
