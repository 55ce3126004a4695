package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
//
// Without overrides it issues opaque tokens of the form
// "<type>:<userID>:<email>:<n>" and validates exactly those, so every issued
// token is unique and type confusion is detected the same way the real
// service detects it.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID, email string) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Err is returned by every Generate* method when set.
	Err error

	mu      sync.Mutex
	counter int
}

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID, email)
	}
	return m.issue(auth.TokenTypeAccess, userID, email)
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.parse(auth.TokenTypeAccess, tokenString)
}

// GenerateRefreshToken implements auth.JWTService.
func (m *MockJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID, email string) (string, error) {
	return m.issue(auth.TokenTypeRefresh, userID, email)
}

// ValidateRefreshToken implements auth.JWTService.
func (m *MockJWTService) ValidateRefreshToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	return m.parse(auth.TokenTypeRefresh, tokenString)
}

// GenerateResetToken implements auth.JWTService.
func (m *MockJWTService) GenerateResetToken(_ context.Context, userID uuid.UUID, email string) (string, error) {
	return m.issue(auth.TokenTypeReset, userID, email)
}

// ValidateResetToken implements auth.JWTService.
func (m *MockJWTService) ValidateResetToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	return m.parse(auth.TokenTypeReset, tokenString)
}

func (m *MockJWTService) issue(tokenType string, userID uuid.UUID, email string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("%s:%s:%s:%d", tokenType, userID, email, m.counter), nil
}

func (m *MockJWTService) parse(tokenType, tokenString string) (*auth.Claims, error) {
	if tokenString == "" {
		return nil, auth.ErrMissingToken
	}
	parts := strings.Split(tokenString, ":")
	if len(parts) != 4 {
		return nil, auth.ErrInvalidToken
	}
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if parts[0] != tokenType {
		return nil, auth.ErrWrongTokenType
	}
	return &auth.Claims{
		UserID:    userID,
		Email:     parts[2],
		TokenType: parts[0],
		Subject:   userID.String(),
		ID:        parts[3],
	}, nil
}

var _ auth.JWTService = (*MockJWTService)(nil)
