package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lockdownctf/bankapi/internal/bank/domain"
	"github.com/lockdownctf/bankapi/internal/bank/store"
	"github.com/lockdownctf/bankapi/pkg/cryptox"
	"github.com/lockdownctf/bankapi/pkg/idx"
	"github.com/lockdownctf/bankapi/pkg/slogx"
)

// DefaultSessionTTL is the validity window of a login session.
const DefaultSessionTTL = 15 * time.Minute

// SessionService issues, validates and invalidates login sessions.
//
// Expiry is logical: Validate rejects a session the instant its age crosses
// the TTL, regardless of whether the cleanup job has deleted the row yet.
type SessionService struct {
	Store   store.Store
	TTL     time.Duration
	Timeout time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

// Login verifies credentials and issues a new session token. The returned
// token is opaque (256 random bits); only its fingerprint is stored.
func (s *SessionService) Login(ctx context.Context, username, password string) (string, error) {
	l := slogx.FromContext(ctx)

	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	user, err := s.Store.Users().GetUserByUsername(opCtx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed", slog.String("username", username))
			return "", ErrBadCredentials
		}
		return "", mapStoreErr(err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("username", username))
		return "", ErrBadCredentials
	}

	return s.Create(ctx, user)
}

// Create issues a session for an already-authenticated user and returns the
// opaque token.
func (s *SessionService) Create(ctx context.Context, user domain.User) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	session := domain.Session{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    user.ID,
		CreatedAt: s.now(),
	}
	if err := s.Store.Sessions().CreateSession(opCtx, session); err != nil {
		return "", mapStoreErr(err)
	}

	return token, nil
}

// Validate resolves a token to its owning user. It fails with
// ErrInvalidSession when the token is unknown or the session has crossed the
// TTL window, even if cleanup has not deleted the row yet.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.User, error) {
	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	session, err := s.Store.Sessions().GetSessionByTokenHash(opCtx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Includes the row being deleted by cleanup mid-request.
			return domain.User{}, ErrInvalidSession
		}
		return domain.User{}, mapStoreErr(err)
	}

	if session.Expired(s.now(), s.ttl()) {
		return domain.User{}, ErrInvalidSession
	}

	user, err := s.Store.Users().GetUserByID(opCtx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidSession
		}
		return domain.User{}, mapStoreErr(err)
	}

	return user, nil
}

// Invalidate deletes the session for a token. Idempotent: invalidating an
// unknown or already-deleted token succeeds.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	opCtx, cancel := storeCtx(ctx, s.Timeout)
	defer cancel()

	err := s.Store.Sessions().DeleteSessionByTokenHash(opCtx, cryptox.FingerprintToken(token))
	return mapStoreErr(err)
}
