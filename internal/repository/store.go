package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

// dialect isolates the SQL differences between PostgreSQL and SQLite.
type dialect interface {
	isUniqueViolation(err error) bool
	isForeignKeyViolation(err error) bool
	// forUpdate is appended to a SELECT that must lock its rows until commit.
	forUpdate() string
	// batchSize bounds multi-row inserts below the driver's parameter limit.
	batchSize(columns int) int
}

// store is embedded by every repository implementation.
type store struct {
	db *sqlx.DB
	d  dialect
}

var now = func() time.Time { return time.Now().UTC() }

func (s store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translate maps driver errors onto the model taxonomy. onUnique and
// onForeignKey replace the generic kinds when non-nil.
func (s store) translate(err error, onUnique, onForeignKey error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return model.ErrNotFound
	case s.d.isUniqueViolation(err):
		if onUnique != nil {
			return onUnique
		}
		return fmt.Errorf("%w: %v", model.ErrDuplicateKey, err)
	case s.d.isForeignKeyViolation(err):
		if onForeignKey != nil {
			return onForeignKey
		}
		return fmt.Errorf("%w: %v", model.ErrForeignKeyViolation, err)
	}
	return err
}

func get(ctx context.Context, ext sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, ext, dest, ext.Rebind(query), args...)
}

func selectAll(ctx context.Context, ext sqlx.ExtContext, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, ext, dest, ext.Rebind(query), args...)
}

func exec(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) (sql.Result, error) {
	return ext.ExecContext(ctx, ext.Rebind(query), args...)
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, ext sqlx.ExtContext, table, id string) (bool, error) {
	var n int
	err := get(ctx, ext, &n, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return nil
}

// listQuery assembles a paginated SELECT ordered by idColumn.
type listQuery struct {
	base     string
	idColumn string
	conds    []string
	args     []any
}

func newListQuery(base, idColumn string) *listQuery {
	return &listQuery{base: base, idColumn: idColumn}
}

func (q *listQuery) where(cond string, args ...any) *listQuery {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
	return q
}

func (q *listQuery) build(p model.ListParams) (string, []any) {
	p = p.Normalize()
	if p.After != "" {
		q.where(q.idColumn+" > ?", p.After)
	}

	var sb strings.Builder
	sb.WriteString(q.base)
	if len(q.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(q.idColumn)
	sb.WriteString(" LIMIT ? OFFSET ?")

	args := append(q.args, p.Limit, p.Offset)
	return sb.String(), args
}

// resolveLocation loads the referenced district and neighborhood and returns
// a consistent Location.
func (s store) resolveLocation(ctx context.Context, ext sqlx.ExtContext, loc model.Location) (model.Location, error) {
	var district *model.District
	var neighborhood *model.Neighborhood

	if loc.DistrictID != nil {
		var d model.District
		err := get(ctx, ext, &d, "SELECT "+districtColumns+" FROM districts WHERE id = ?", *loc.DistrictID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Location{}, fmt.Errorf("district %s: %w", *loc.DistrictID, model.ErrParentNotFound)
		}
		if err != nil {
			return model.Location{}, err
		}
		district = &d
	}
	if loc.NeighborhoodID != nil {
		var n model.Neighborhood
		err := get(ctx, ext, &n, "SELECT "+neighborhoodColumns+" FROM neighborhoods WHERE id = ?", *loc.NeighborhoodID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Location{}, fmt.Errorf("neighborhood %s: %w", *loc.NeighborhoodID, model.ErrParentNotFound)
		}
		if err != nil {
			return model.Location{}, err
		}
		neighborhood = &n
	}

	return model.NewLocation(district, neighborhood)
}
