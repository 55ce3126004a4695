package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
	"github.com/taskify-app/taskify-api/internal/service/auth"
	"github.com/taskify-app/taskify-api/internal/store"
)

// PasswordManager hashes new passwords and checks existing ones.
type PasswordManager interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// UserService provides registration and profile operations.
type UserService interface {
	// Register creates a user. Returns store.ErrEmailExists if the
	// normalized email is taken.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// Rename changes the user's display name.
	Rename(ctx context.Context, userID uuid.UUID, newName string) (*domain.User, error)

	// ChangePassword replaces the password after checking the current one.
	// Returns ErrWrongPassword on mismatch.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users     store.UserStore
	tx        store.TxRunner
	passwords PasswordManager
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users store.UserStore,
	tx store.TxRunner,
	passwords PasswordManager,
	logger *slog.Logger,
) (UserService, error) {
	switch {
	case users == nil:
		return nil, errNilDependency("users")
	case tx == nil:
		return nil, errNilDependency("tx")
	case passwords == nil:
		return nil, errNilDependency("passwords")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:     users,
		tx:        tx,
		passwords: passwords,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}

	user.HashedPassword, err = s.passwords.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("user", "register", err)
	}
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email")
			return nil, err
		}
		log.Error("failed to create user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("user", "register", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to retrieve user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("user", "get", err)
	}
	return user, nil
}

// Rename implements UserService.
func (s *UserServiceImpl) Rename(ctx context.Context, userID uuid.UUID, newName string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domain.ErrEmptyName
	}

	var updated *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		user.Name = newName
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to rename user",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("user", "rename", err)
	}

	log.Info("user renamed", slog.String("user_id", userID.String()))
	return updated, nil
}

// ChangePassword implements UserService.
func (s *UserServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(newPassword); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.passwords.Compare(user.HashedPassword, currentPassword); err != nil {
			return ErrWrongPassword
		}

		hashed, err := s.passwords.Hash(newPassword)
		if err != nil {
			return err
		}
		user.HashedPassword = hashed
		return users.Update(ctx, user)
	})
	if err != nil {
		if store.IsNotFoundError(err) || errors.Is(err, ErrWrongPassword) {
			return err
		}
		log.Error("failed to change password",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		return NewServiceError("user", "change_password", err)
	}

	log.Info("password changed", slog.String("user_id", userID.String()))
	return nil
}
