// Package mail composes and delivers transactional e-mail.
//
// Messages are built as MIME documents with github.com/emersion/go-message
// and handed to an SMTP relay. When no relay is configured, New returns a
// LogMailer that writes messages to the structured log instead, which is
// what local development uses.
package mail
