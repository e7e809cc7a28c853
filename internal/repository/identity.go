package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	userColumns    = "id, email, name, phone, password, role, email_verified, image, created_at, updated_at"
	accountColumns = "id, user_id, type, provider, provider_account_id, refresh_token, access_token, expires_at, " +
		"token_type, scope, id_token, session_state, created_at, updated_at"
	sessionColumns = "id, session_token, user_id, expires, created_at, updated_at"

	sessionTokenBytes = 32
)

type identityRepository struct {
	store
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (r *identityRepository) CreateUser(ctx context.Context, user *model.User) error {
	ts := now()
	if user.ID == "" {
		user.ID = model.NewID()
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.Email = NormalizeEmail(user.Email)
	user.CreatedAt = ts
	user.UpdatedAt = ts

	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO users (id, email, name, phone, password, role, email_verified, image, created_at, updated_at)
		VALUES (:id, :email, :name, :phone, :password, :role, :email_verified, :image, :created_at, :updated_at)`, user)
	if err != nil {
		return r.translate(err, fmt.Errorf("%s: %w", user.Email, model.ErrDuplicateEmail), nil)
	}
	return nil
}

func (r *identityRepository) getUser(ctx context.Context, ext sqlx.ExtContext, what, query string, args ...any) (*model.User, error) {
	var u model.User
	err := get(ctx, ext, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", what, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *identityRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, r.db, id, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *identityRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = NormalizeEmail(email)
	return r.getUser(ctx, r.db, email, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (r *identityRepository) ListUsers(ctx context.Context, p model.ListParams) ([]model.User, error) {
	q, args := newListQuery("SELECT "+userColumns+" FROM users", "id").build(p)
	users := []model.User{}
	if err := selectAll(ctx, r.db, &users, q, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *identityRepository) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	var user *model.User
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		u, err := r.getUser(ctx, tx, id, "SELECT "+userColumns+" FROM users WHERE id = ?"+r.d.forUpdate(), id)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.Phone != nil {
			u.Phone = upd.Phone
		}
		if upd.Image != nil {
			u.Image = upd.Image
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		u.UpdatedAt = now()

		_, err = sqlx.NamedExecContext(ctx, tx, `
			UPDATE users SET name = :name, phone = :phone, image = :image, role = :role, updated_at = :updated_at
			WHERE id = :id`, u)
		if err != nil {
			return r.translate(err, nil, nil)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *identityRepository) SetPassword(ctx context.Context, id, hash string) error {
	res, err := exec(ctx, r.db, "UPDATE users SET password = ?, updated_at = ? WHERE id = ?", hash, now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "user "+id)
}

func (r *identityRepository) MarkEmailVerified(ctx context.Context, id string, at time.Time) error {
	res, err := exec(ctx, r.db, "UPDATE users SET email_verified = ?, updated_at = ? WHERE id = ?", at.UTC(), now(), id)
	if err != nil {
		return err
	}
	return requireAffected(res, "user "+id)
}

// DeleteUser removes a user together with accounts, sessions, subscriptions
// and attendance. Authored posts and organized events block the delete.
func (r *identityRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := exec(ctx, r.db, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return r.translate(err, nil, fmt.Errorf("user %s: %w", id, model.ErrHasDependents))
	}
	return requireAffected(res, "user "+id)
}

func (r *identityRepository) CreateSession(ctx context.Context, userID string, expires time.Time) (*model.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	ts := now()
	s := &model.Session{
		ID:           model.NewID(),
		SessionToken: token,
		UserID:       userID,
		Expires:      expires.UTC(),
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}

	_, err = sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO sessions (id, session_token, user_id, expires, created_at, updated_at)
		VALUES (:id, :session_token, :user_id, :expires, :created_at, :updated_at)`, s)
	if err != nil {
		return nil, r.translate(err, nil, fmt.Errorf("user %s: %w", userID, model.ErrParentNotFound))
	}
	return s, nil
}

// GetSessionAndUser resolves a live session. Expired sessions are removed and
// reported as not found.
func (r *identityRepository) GetSessionAndUser(ctx context.Context, token string) (*model.SessionAndUser, error) {
	var s model.Session
	err := get(ctx, r.db, &s, "SELECT "+sessionColumns+" FROM sessions WHERE session_token = ?", token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session: %w", model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if s.Expired(now()) {
		if _, err := exec(ctx, r.db, "DELETE FROM sessions WHERE id = ?", s.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("session expired: %w", model.ErrNotFound)
	}

	u, err := r.GetUser(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	return &model.SessionAndUser{Session: s, User: *u}, nil
}

func (r *identityRepository) UpdateSessionExpiry(ctx context.Context, token string, expires time.Time) error {
	res, err := exec(ctx, r.db, "UPDATE sessions SET expires = ?, updated_at = ? WHERE session_token = ?",
		expires.UTC(), now(), token)
	if err != nil {
		return err
	}
	return requireAffected(res, "session")
}

func (r *identityRepository) DeleteSession(ctx context.Context, token string) error {
	res, err := exec(ctx, r.db, "DELETE FROM sessions WHERE session_token = ?", token)
	if err != nil {
		return err
	}
	return requireAffected(res, "session")
}

func (r *identityRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := exec(ctx, r.db, "DELETE FROM sessions WHERE expires <= ?", before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *identityRepository) CreateAccount(ctx context.Context, in model.NewAccount) (*model.Account, error) {
	ts := now()
	acc := &model.Account{
		ID:                model.NewID(),
		UserID:            in.UserID,
		Type:              in.Type,
		Provider:          in.Provider,
		ProviderAccountID: in.ProviderAccountID,
		RefreshToken:      in.RefreshToken,
		AccessToken:       in.AccessToken,
		ExpiresAt:         in.ExpiresAt,
		TokenType:         in.TokenType,
		Scope:             in.Scope,
		IDToken:           in.IDToken,
		SessionState:      in.SessionState,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := exists(ctx, tx, "users", in.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %s: %w", in.UserID, model.ErrParentNotFound)
		}

		_, err = sqlx.NamedExecContext(ctx, tx, `
			INSERT INTO accounts (`+accountColumns+`)
			VALUES (:id, :user_id, :type, :provider, :provider_account_id, :refresh_token, :access_token, :expires_at,
				:token_type, :scope, :id_token, :session_state, :created_at, :updated_at)`, acc)
		if err != nil {
			return r.translate(err,
				fmt.Errorf("%s/%s: %w", in.Provider, in.ProviderAccountID, model.ErrDuplicateProviderAccount),
				fmt.Errorf("user %s: %w", in.UserID, model.ErrParentNotFound))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (r *identityRepository) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error) {
	q := `SELECT u.id, u.email, u.name, u.phone, u.password, u.role, u.email_verified, u.image, u.created_at, u.updated_at
		FROM users u
		JOIN accounts a ON a.user_id = u.id
		WHERE a.provider = ? AND a.provider_account_id = ?`
	return r.getUser(ctx, r.db, provider+"/"+providerAccountID, q, provider, providerAccountID)
}

func (r *identityRepository) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	accounts := []model.Account{}
	err := selectAll(ctx, r.db, &accounts, "SELECT "+accountColumns+" FROM accounts WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *identityRepository) UnlinkAccount(ctx context.Context, provider, providerAccountID string) error {
	res, err := exec(ctx, r.db, "DELETE FROM accounts WHERE provider = ? AND provider_account_id = ?",
		provider, providerAccountID)
	if err != nil {
		return err
	}
	return requireAffected(res, "account "+provider+"/"+providerAccountID)
}

func (r *identityRepository) CreateVerificationToken(ctx context.Context, vt model.VerificationToken) error {
	vt.Expires = vt.Expires.UTC()
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO verification_tokens (identifier, token, expires)
		VALUES (:identifier, :token, :expires)`, vt)
	return r.translate(err, nil, nil)
}

// ConsumeVerificationToken deletes the token and returns it in one statement,
// so concurrent callers cannot both succeed. An expired token is still
// deleted but reported as not found.
func (r *identityRepository) ConsumeVerificationToken(ctx context.Context, identifier, token string) (*model.VerificationToken, error) {
	var vt model.VerificationToken
	err := get(ctx, r.db, &vt, `
		DELETE FROM verification_tokens
		WHERE identifier = ? AND token = ?
		RETURNING identifier, token, expires`, identifier, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTokenNotFoundOrExpired
	}
	if err != nil {
		return nil, err
	}
	if vt.Expired(now()) {
		return nil, model.ErrTokenNotFoundOrExpired
	}
	return &vt, nil
}
