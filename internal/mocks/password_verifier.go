package mocks

import (
	"errors"
	"strings"
)

// hashPrefix marks a MockPasswordHasher hash.
const hashPrefix = "hashed:"

// ErrPasswordMismatch is returned by MockPasswordHasher.Compare.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier
// without bcrypt's cost, so service tests stay fast.
type MockPasswordHasher struct {
	// HashErr, when set, is returned by Hash.
	HashErr error

	// CompareCallCount tracks how many times Compare was called.
	CompareCallCount int
}

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return hashPrefix + password, nil
}

// Compare implements auth.PasswordVerifier.
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCallCount++
	if !strings.HasPrefix(hashedPassword, hashPrefix) || hashedPassword[len(hashPrefix):] != password {
		return ErrPasswordMismatch
	}
	return nil
}

// MockHash returns what MockPasswordHasher.Hash produces for password.
func MockHash(password string) string {
	return hashPrefix + password
}
