package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user must carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by normalized email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByEmails returns the users matching any of the normalized emails.
	// Unknown addresses are simply absent from the result.
	GetByEmails(ctx context.Context, emails []string) ([]*domain.User, error)

	// GetByIDForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Update persists name and hashed password. The refresh token is
	// written only through SetRefreshToken.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// SetRefreshToken replaces the stored refresh token; nil clears it.
	// Returns ErrUserNotFound if the user does not exist.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// Delete removes a user and, by cascade, everything the user owns.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
