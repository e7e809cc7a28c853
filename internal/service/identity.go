package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/geocommunity/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) hashPassword(password string) (string, error) {
	if len(password) < minPassword {
		return "", invalid("password", fmt.Sprintf("must be at least %d characters", minPassword))
	}
	// bcrypt only reads the first 72 bytes
	if len(password) > 72 {
		return "", invalid("password", "must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.auth.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// RegisterUser creates a user. The password is optional for users who only
// sign in through a linked provider account.
func (s *Service) RegisterUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	email, emailErr := normalizeEmail(in.Email)
	name, nameErr := requireText("name", in.Name, maxNameLength)
	var roleErr error
	if in.Role != "" {
		_, roleErr = model.ParseRole(string(in.Role))
	}
	if err := collect(emailErr, nameErr, roleErr); err != nil {
		return nil, err
	}

	user := &model.User{
		Email: email,
		Name:  name,
		Phone: in.Phone,
		Role:  in.Role,
		Image: in.Image,
	}
	if in.Password != "" {
		hash, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hash
	}

	if err := s.identityRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.identityRepo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context, p model.ListParams) ([]model.User, error) {
	return s.identityRepo.ListUsers(ctx, p)
}

func (s *Service) UpdateUser(ctx context.Context, id string, upd model.UserUpdate) (*model.User, error) {
	if upd.Name != nil {
		name, err := requireText("name", *upd.Name, maxNameLength)
		if err != nil {
			return nil, err
		}
		upd.Name = &name
	}
	if upd.Role != nil {
		if _, err := model.ParseRole(string(*upd.Role)); err != nil {
			return nil, err
		}
	}
	u, err := s.identityRepo.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.identityRepo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, id, password string) error {
	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	return s.identityRepo.SetPassword(ctx, id, hash)
}

// Authenticate checks email and password. Unknown emails, users without a
// password and wrong passwords all return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.identityRepo.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.Password == nil {
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", zap.String("user_id", user.ID))
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) IssueSession(ctx context.Context, userID string) (*model.Session, error) {
	sess, err := s.identityRepo.CreateSession(ctx, userID, s.now().Add(s.auth.SessionTTL))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.metrics.SessionsIssued.Inc()
	return sess, nil
}

// ResolveSession returns the live session for token and slides its expiry
// forward once less than half of the TTL remains.
func (s *Service) ResolveSession(ctx context.Context, token string) (*model.SessionAndUser, error) {
	su, err := s.identityRepo.GetSessionAndUser(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if su.Session.Expires.Sub(now) < s.auth.SessionTTL/2 {
		expires := now.Add(s.auth.SessionTTL)
		if err := s.identityRepo.UpdateSessionExpiry(ctx, token, expires); err != nil {
			return nil, fmt.Errorf("failed to extend session: %w", err)
		}
		su.Session.Expires = expires
	}
	return su, nil
}

func (s *Service) RevokeSession(ctx context.Context, token string) error {
	return s.identityRepo.DeleteSession(ctx, token)
}

func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.identityRepo.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("expired sessions purged", zap.Int64("count", n))
	}
	return n, nil
}

func (s *Service) LinkAccount(ctx context.Context, in model.NewAccount) (*model.Account, error) {
	err := collect(
		requireID("user_id", in.UserID),
		requireID("provider", in.Provider),
		requireID("provider_account_id", in.ProviderAccountID),
	)
	if err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = "oauth"
	}
	acc, err := s.identityRepo.CreateAccount(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}
	return acc, nil
}

func (s *Service) GetUserByAccount(ctx context.Context, provider, providerAccountID string) (*model.User, error) {
	return s.identityRepo.GetUserByAccount(ctx, provider, providerAccountID)
}

func (s *Service) UnlinkAccount(ctx context.Context, provider, providerAccountID string) error {
	return s.identityRepo.UnlinkAccount(ctx, provider, providerAccountID)
}

// RequestEmailVerification stores a fresh token for email.
func (s *Service) RequestEmailVerification(ctx context.Context, email string) (*model.VerificationToken, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	vt := model.VerificationToken{
		Identifier: email,
		Token:      uuid.NewString(),
		Expires:    s.now().Add(s.auth.VerificationTTL),
	}
	if err := s.identityRepo.CreateVerificationToken(ctx, vt); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}
	return &vt, nil
}

// VerifyEmail consumes the token and marks the matching user verified.
func (s *Service) VerifyEmail(ctx context.Context, email, token string) (*model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if _, err := s.identityRepo.ConsumeVerificationToken(ctx, email, token); err != nil {
		return nil, err
	}
	user, err := s.identityRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.identityRepo.MarkEmailVerified(ctx, user.ID, s.now()); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	return s.identityRepo.GetUser(ctx, user.ID)
}
