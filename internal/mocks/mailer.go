package mocks

import (
	"context"
	"sync"

	"github.com/taskify-app/taskify-api/internal/platform/mail"
)

// MockMailer records messages instead of sending them.
type MockMailer struct {
	// Err, when set, is returned by Send and nothing is recorded.
	Err error

	mu   sync.Mutex
	sent []mail.Message
}

// Send implements mail.Mailer.
func (m *MockMailer) Send(_ context.Context, msg mail.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns the recorded messages.
func (m *MockMailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

var _ mail.Mailer = (*MockMailer)(nil)
