package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// --- PostgreSQL dialect ---

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	// max 65535 bind parameters per statement
	pgMaxParams = 65535
)

type pgDialect struct{}

func (pgDialect) isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (pgDialect) isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func (pgDialect) forUpdate() string {
	return " FOR UPDATE"
}

func (pgDialect) batchSize(columns int) int {
	n := pgMaxParams / columns
	if n > 2000 {
		n = 2000
	}
	return n
}
