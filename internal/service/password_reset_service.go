package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/platform/mail"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/service/auth"
	"github.com/taskify-app/taskify-api/internal/store"
)

const resetSubject = "Reset your Taskify password"

// ErrMissingResetToken is returned when a reset request carries no token.
var ErrMissingResetToken = fmt.Errorf("%w: reset token is required", domain.ErrValidation)

// PasswordResetService runs the forgot-password flow.
type PasswordResetService interface {
	// RequestReset mails a reset link to the user owning email.
	// Returns store.ErrUserNotFound if there is none.
	RequestReset(ctx context.Context, email string) error

	// ResetPassword sets a new password for the user named by token and ends
	// their active session.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type passwordResetServiceImpl struct {
	users        store.UserStore
	tx           store.TxRunner
	jwt          auth.JWTService
	hasher       auth.PasswordHasher
	mailer       mail.Mailer
	resetURLBase string
	logger       *slog.Logger
}

// NewPasswordResetService creates a PasswordResetService. Reset links are
// resetURLBase + "/" + token.
func NewPasswordResetService(
	users store.UserStore,
	tx store.TxRunner,
	jwt auth.JWTService,
	hasher auth.PasswordHasher,
	mailer mail.Mailer,
	resetURLBase string,
	logger *slog.Logger,
) (PasswordResetService, error) {
	switch {
	case users == nil:
		return nil, errNilDependency("users")
	case tx == nil:
		return nil, errNilDependency("tx")
	case jwt == nil:
		return nil, errNilDependency("jwt")
	case hasher == nil:
		return nil, errNilDependency("hasher")
	case mailer == nil:
		return nil, errNilDependency("mailer")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &passwordResetServiceImpl{
		users:        users,
		tx:           tx,
		jwt:          jwt,
		hasher:       hasher,
		mailer:       mailer,
		resetURLBase: strings.TrimRight(resetURLBase, "/"),
		logger:       logger.With(slog.String("component", "password_reset_service")),
	}, nil
}

// RequestReset implements PasswordResetService.
func (s *passwordResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to look up user for reset", slog.String("error", redact.Error(err)))
		return NewServiceError("password_reset", "request", err)
	}

	token, err := s.jwt.GenerateResetToken(ctx, user.ID, user.Email)
	if err != nil {
		return NewServiceError("password_reset", "request", err)
	}

	link := s.resetURLBase + "/" + token
	msg := mail.Message{
		To:      user.Email,
		Subject: resetSubject,
		Body: fmt.Sprintf("Hello %s,\n\n"+
			"Use the link below to choose a new password. It expires in one hour.\n\n"+
			"%s\n\n"+
			"If you did not ask for a reset, you can ignore this message.\n",
			user.Name, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return NewServiceError("password_reset", "request", err)
	}

	log.Info("password reset requested", slog.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword implements PasswordResetService.
func (s *passwordResetServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if token == "" {
		return ErrMissingResetToken
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	claims, err := s.jwt.ValidateResetToken(ctx, token)
	if err != nil {
		log.Debug("reset token failed validation", slog.String("error", err.Error()))
		return ErrResetTokenRejected
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return NewServiceError("password_reset", "reset", err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByIDForUpdate(ctx, claims.UserID)
		if err != nil {
			return err
		}
		user.HashedPassword = hashed
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		return users.SetRefreshToken(ctx, user.ID, nil)
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) {
			return err
		}
		log.Error("failed to reset password", slog.String("error", redact.Error(err)))
		return NewServiceError("password_reset", "reset", err)
	}

	log.Info("password reset", slog.String("user_id", claims.UserID.String()))
	return nil
}
