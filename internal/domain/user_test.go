package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Ada  ", "  Ada@Example.COM ", "correct-horse")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Name != "Ada" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}
	if user.Password != "correct-horse" {
		t.Errorf("Expected plaintext password to be kept for hashing, got %q", user.Password)
	}
	if user.RefreshToken != nil {
		t.Error("Expected new user to have no refresh token")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		want     error
	}{
		{"empty name", " ", "a@b.io", "correct-horse", ErrEmptyName},
		{"empty email", "Ada", "", "correct-horse", ErrEmptyEmail},
		{"invalid email", "Ada", "invalidemail", "correct-horse", ErrInvalidEmail},
		{"short password", "Ada", "a@b.io", "short", ErrPasswordTooShort},
		{"long password", "Ada", "a@b.io", strings.Repeat("x", MaxPasswordLength+1), ErrPasswordTooLong},
		{"missing password", "Ada", "a@b.io", "", ErrEmptyHashedPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.userName, tc.email, tc.password)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected error %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: "$2a$10$hash",
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	invalidUser = validUser
	invalidUser.HashedPassword = ""
	if err := invalidUser.Validate(); !errors.Is(err, ErrEmptyHashedPassword) {
		t.Errorf("Expected error %v, got %v", ErrEmptyHashedPassword, err)
	}
}

func TestUserHasRefreshToken(t *testing.T) {
	token := "refresh-1"
	user := User{RefreshToken: &token}

	if !user.HasRefreshToken("refresh-1") {
		t.Error("Expected stored token to match")
	}
	if user.HasRefreshToken("refresh-2") {
		t.Error("Expected different token not to match")
	}
	if user.HasRefreshToken("") {
		t.Error("Expected empty token not to match")
	}

	user.RefreshToken = nil
	if user.HasRefreshToken("refresh-1") {
		t.Error("Expected no match after logout")
	}
}
