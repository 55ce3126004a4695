package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/mocks"
)

const testPassword = "password123"

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixture wires in-memory doubles for every service dependency.
type fixture struct {
	stores *mocks.MemoryStores
	tx     *mocks.MockTxRunner
	jwt    *mocks.MockJWTService
	hasher *mocks.MockPasswordHasher
	mailer *mocks.MockMailer
}

func newFixture() *fixture {
	return &fixture{
		stores: mocks.NewMemoryStores(),
		tx:     &mocks.MockTxRunner{},
		jwt:    &mocks.MockJWTService{},
		hasher: &mocks.MockPasswordHasher{},
		mailer: &mocks.MockMailer{},
	}
}

// addUser stores a user whose password is testPassword.
func (f *fixture) addUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, email, testPassword)
	require.NoError(t, err)
	user.HashedPassword = mocks.MockHash(testPassword)
	user.Password = ""
	require.NoError(t, f.stores.Users.Create(context.Background(), user))
	return user
}
