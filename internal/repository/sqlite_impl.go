package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// --- SQLite dialect ---

// SQLite variable limit in older builds is 999
const sqliteMaxParams = 999

type sqliteDialect struct{}

func (sqliteDialect) isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func (sqliteDialect) isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// SQLite has no row locks; the pool is capped at one connection instead,
// so a transaction already excludes every other writer.
func (sqliteDialect) forUpdate() string {
	return ""
}

func (sqliteDialect) batchSize(columns int) int {
	return sqliteMaxParams / columns
}
