package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/service/auth"
	"github.com/taskify-app/taskify-api/internal/store"
)

// Session is the result of a successful login.
type Session struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
}

// SessionService issues and revokes the tokens of a user's single active
// session.
type SessionService interface {
	// Login checks the credentials and starts a new session, replacing any
	// previous refresh token. Returns ErrInvalidCredentials on failure.
	Login(ctx context.Context, email, password string) (*Session, error)

	// Refresh exchanges the current refresh token for a new access token.
	// Returns ErrMissingRefreshToken or ErrRefreshTokenRejected.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout clears the user's refresh token. Repeated calls succeed.
	Logout(ctx context.Context, userID uuid.UUID) error
}

type sessionServiceImpl struct {
	users     store.UserStore
	tx        store.TxRunner
	jwt       auth.JWTService
	passwords auth.PasswordVerifier
	logger    *slog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(
	users store.UserStore,
	tx store.TxRunner,
	jwt auth.JWTService,
	passwords auth.PasswordVerifier,
	logger *slog.Logger,
) (SessionService, error) {
	switch {
	case users == nil:
		return nil, errNilDependency("users")
	case tx == nil:
		return nil, errNilDependency("tx")
	case jwt == nil:
		return nil, errNilDependency("jwt")
	case passwords == nil:
		return nil, errNilDependency("passwords")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		users:     users,
		tx:        tx,
		jwt:       jwt,
		passwords: passwords,
		logger:    logger.With(slog.String("component", "session_service")),
	}, nil
}

// Login implements SessionService.
func (s *sessionServiceImpl) Login(ctx context.Context, email, password string) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var session *Session
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByEmail(ctx, domain.NormalizeEmail(email))
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrInvalidCredentials
			}
			return err
		}
		if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
			return ErrInvalidCredentials
		}

		access, err := s.jwt.GenerateToken(ctx, user.ID, user.Email)
		if err != nil {
			return err
		}
		refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID, user.Email)
		if err != nil {
			return err
		}
		if err := users.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
			return err
		}

		session = &Session{UserID: user.ID, AccessToken: access, RefreshToken: refresh}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Debug("login rejected")
			return nil, err
		}
		log.Error("login failed", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("session", "login", err)
	}

	log.Info("user logged in", slog.String("user_id", session.UserID.String()))
	return session, nil
}

// Refresh implements SessionService.
func (s *sessionServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Debug("refresh token failed validation", slog.String("error", err.Error()))
		return "", ErrRefreshTokenRejected
	}

	var access string
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		user, err := s.users.WithTx(tx).GetByID(ctx, claims.UserID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrRefreshTokenRejected
			}
			return err
		}
		// Only the most recently issued refresh token is honored.
		if !user.HasRefreshToken(refreshToken) {
			return ErrRefreshTokenRejected
		}

		access, err = s.jwt.GenerateToken(ctx, user.ID, user.Email)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrRefreshTokenRejected) {
			log.Debug("refresh token rejected", slog.String("user_id", claims.UserID.String()))
			return "", err
		}
		log.Error("token refresh failed", slog.String("error", redact.Error(err)))
		return "", NewServiceError("session", "refresh", err)
	}
	return access, nil
}

// Logout implements SessionService.
func (s *sessionServiceImpl) Logout(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("logout failed",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return NewServiceError("session", "logout", err)
	}

	log.Info("user logged out", slog.String("user_id", userID.String()))
	return nil
}
