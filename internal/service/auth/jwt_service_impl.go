package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskify-app/taskify-api/internal/config"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
)

// clockSkew is the leeway applied to exp/nbf/iat checks.
const clockSkew = 2 * time.Minute

// hmacJWTService implements JWTService with HS256 signatures.
type hmacJWTService struct {
	signingKey []byte
	lifetimes  map[string]time.Duration
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// jwtCustomClaims is the on-the-wire claim set.
type jwtCustomClaims struct {
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// NewJWTService creates a JWTService from the auth configuration.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newHMACJWTService(cfg, time.Now)
}

func newHMACJWTService(cfg config.AuthConfig, timeFunc func() time.Time) (*hmacJWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters, got %d", len(cfg.JWTSecret))
	}
	if cfg.AccessTokenLifetime <= 0 || cfg.RefreshTokenLifetime <= 0 || cfg.ResetTokenLifetime <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	return &hmacJWTService{
		signingKey: []byte(cfg.JWTSecret),
		lifetimes: map[string]time.Duration{
			TokenTypeAccess:  cfg.AccessTokenLifetime,
			TokenTypeRefresh: cfg.RefreshTokenLifetime,
			TokenTypeReset:   cfg.ResetTokenLifetime,
		},
		timeFunc: timeFunc,
		logger:   slog.Default().With(slog.String("component", "jwt_service")),
	}, nil
}

// GenerateToken implements JWTService.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	return s.sign(ctx, TokenTypeAccess, userID, email)
}

// ValidateToken implements JWTService.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, TokenTypeAccess, tokenString)
}

// GenerateRefreshToken implements JWTService.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	return s.sign(ctx, TokenTypeRefresh, userID, email)
}

// ValidateRefreshToken implements JWTService.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, TokenTypeRefresh, tokenString)
}

// GenerateResetToken implements JWTService.
func (s *hmacJWTService) GenerateResetToken(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	return s.sign(ctx, TokenTypeReset, userID, email)
}

// ValidateResetToken implements JWTService.
func (s *hmacJWTService) ValidateResetToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.parse(ctx, TokenTypeReset, tokenString)
}

func (s *hmacJWTService) sign(ctx context.Context, tokenType string, userID uuid.UUID, email string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.timeFunc()

	// A fresh jti guarantees two tokens issued in the same second differ.
	claims := jwtCustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetimes[tokenType])),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign token",
			slog.String("token_type", tokenType),
			slog.String("error", redact.Error(err)))
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *hmacJWTService) parse(ctx context.Context, tokenType, tokenString string) (*Claims, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		mapped := mapParseError(err)
		log.Debug("token validation failed",
			slog.String("token_type", tokenType),
			slog.String("error", redact.Error(err)))
		return nil, mapped
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		log.Debug("token type mismatch",
			slog.String("expected", tokenType),
			slog.String("actual", claims.TokenType))
		return nil, ErrWrongTokenType
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	result := &Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}
