package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/taskify-app/taskify-api/internal/config"
	"github.com/taskify-app/taskify-api/internal/platform/logger"
	"github.com/taskify-app/taskify-api/internal/redact"
)

// Message is a plain-text e-mail to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTPMailer when an SMTP host is configured and a LogMailer
// otherwise.
func New(cfg config.MailConfig, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg, logger)
}

// Compose renders msg as an RFC 5322 message from the given sender.
func Compose(from string, msg Message, date time.Time) ([]byte, error) {
	fromAddr, err := gomail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	toAddr, err := gomail.ParseAddress(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	var h gomail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*gomail.Address{fromAddr})
	h.SetAddressList("To", []*gomail.Address{toAddr})
	h.SetSubject(msg.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := gomail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, msg.Body); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}
	return buf.Bytes(), nil
}

// sendFunc matches smtp.SendMail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	send   sendFunc
	now    func() time.Time
	logger *slog.Logger
}

// NewSMTPMailer creates an SMTPMailer for the configured relay.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{
		cfg:    cfg,
		send:   smtp.SendMail,
		now:    time.Now,
		logger: logger.With(slog.String("component", "smtp_mailer")),
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	body, err := Compose(m.cfg.From, msg, m.now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, body); err != nil {
		log.Error("failed to send mail",
			slog.String("error", redact.Error(err)),
			slog.String("subject", msg.Subject))
		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Info("mail sent", slog.String("subject", msg.Subject))
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

// Send implements Mailer. The body may carry secrets such as reset links,
// so it is only logged at debug level.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromContextOrDefault(ctx, m.logger)
	log.Info("mail delivery disabled, message not sent",
		slog.String("to", redact.String(msg.To)),
		slog.String("subject", msg.Subject))
	log.Debug("undelivered mail body", slog.String("body", msg.Body))
	return nil
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*LogMailer)(nil)
)
