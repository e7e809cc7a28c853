package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	interestColumns     = "id, name, description, created_at, updated_at"
	userInterestColumns = "id, user_id, interest_id, created_at, updated_at"
)

type interestRepository struct {
	store
}

func (r *interestRepository) CreateInterest(ctx context.Context, name string, description *string) (*model.Interest, error) {
	ts := now()
	in := &model.Interest{ID: model.NewID(), Name: name, Description: description, CreatedAt: ts, UpdatedAt: ts}

	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO interests (id, name, description, created_at, updated_at)
		VALUES (:id, :name, :description, :created_at, :updated_at)`, in)
	if err != nil {
		return nil, r.translate(err, fmt.Errorf("interest %q: %w", name, model.ErrDuplicateName), nil)
	}
	return in, nil
}

func (r *interestRepository) GetInterest(ctx context.Context, id string) (*model.Interest, error) {
	var in model.Interest
	err := get(ctx, r.db, &in, "SELECT "+interestColumns+" FROM interests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("interest %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *interestRepository) ListInterests(ctx context.Context, p model.ListParams) ([]model.Interest, error) {
	q, args := newListQuery("SELECT "+interestColumns+" FROM interests", "id").build(p)
	interests := []model.Interest{}
	if err := selectAll(ctx, r.db, &interests, q, args...); err != nil {
		return nil, err
	}
	return interests, nil
}

// DeleteInterest drops the interest and its subscriptions; tagged events
// keep existing with no interest.
func (r *interestRepository) DeleteInterest(ctx context.Context, id string) error {
	res, err := exec(ctx, r.db, "DELETE FROM interests WHERE id = ?", id)
	if err != nil {
		return r.translate(err, nil, nil)
	}
	return requireAffected(res, "interest "+id)
}

// Subscribe links a user to an interest. Repeating it returns the existing
// link unchanged.
func (r *interestRepository) Subscribe(ctx context.Context, userID, interestID string) (*model.UserInterest, error) {
	var link model.UserInterest
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, ref := range []struct{ table, label, id string }{
			{"users", "user", userID},
			{"interests", "interest", interestID},
		} {
			ok, err := exists(ctx, tx, ref.table, ref.id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s %s: %w", ref.label, ref.id, model.ErrParentNotFound)
			}
		}

		ts := now()
		_, err := exec(ctx, tx, `
			INSERT INTO user_interests (id, user_id, interest_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, interest_id) DO NOTHING`,
			model.NewID(), userID, interestID, ts, ts)
		if err != nil {
			return r.translate(err, nil, nil)
		}

		return get(ctx, tx, &link, "SELECT "+userInterestColumns+" FROM user_interests WHERE user_id = ? AND interest_id = ?",
			userID, interestID)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *interestRepository) Unsubscribe(ctx context.Context, userID, interestID string) error {
	res, err := exec(ctx, r.db, "DELETE FROM user_interests WHERE user_id = ? AND interest_id = ?", userID, interestID)
	if err != nil {
		return err
	}
	return requireAffected(res, "subscription")
}

func (r *interestRepository) ListUsersByInterest(ctx context.Context, interestID string, p model.ListParams) ([]model.User, error) {
	lq := newListQuery(`SELECT u.id, u.email, u.name, u.phone, u.password, u.role, u.email_verified, u.image,
			u.created_at, u.updated_at
		FROM users u
		JOIN user_interests ui ON ui.user_id = u.id`, "u.id").
		where("ui.interest_id = ?", interestID)
	q, args := lq.build(p)

	users := []model.User{}
	if err := selectAll(ctx, r.db, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *interestRepository) ListInterestsByUser(ctx context.Context, userID string, p model.ListParams) ([]model.Interest, error) {
	lq := newListQuery(`SELECT i.id, i.name, i.description, i.created_at, i.updated_at
		FROM interests i
		JOIN user_interests ui ON ui.interest_id = i.id`, "i.id").
		where("ui.user_id = ?", userID)
	q, args := lq.build(p)

	interests := []model.Interest{}
	if err := selectAll(ctx, r.db, &interests, q, args...); err != nil {
		return nil, err
	}
	return interests, nil
}
