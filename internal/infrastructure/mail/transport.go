// Package mail delivers composed invoice and estimate messages.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ever-co/invoicing/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Attachment is a file carried base64 encoded
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Message is a fully composed outgoing mail. Template and Variables are
// handed to the mail relay, which owns the HTML layouts.
type Message struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Subject     string            `json:"subject"`
	Template    string            `json:"template"`
	Locale      string            `json:"locale"`
	Variables   map[string]string `json:"variables"`
	Attachments []Attachment      `json:"attachments"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Transport hands a message over for delivery
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// NewTransport builds the transport selected by cfg.Transport
func NewTransport(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (Transport, error) {
	switch strings.ToLower(cfg.Transport) {
	case "", "log":
		return NewLogTransport(logger), nil
	case "s3":
		drop, err := NewS3MailDrop(ctx, &cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return drop, nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q", cfg.Transport)
	}
}

// IsBlocked reports whether address ends with one of the blocked suffixes,
// compared case-insensitively
func IsBlocked(address string, blocked []string) bool {
	address = strings.ToLower(strings.TrimSpace(address))
	for _, suffix := range blocked {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" && strings.HasSuffix(address, suffix) {
			return true
		}
	}
	return false
}

// LogTransport only logs messages. Used in development.
type LogTransport struct {
	logger *zap.Logger
}

// NewLogTransport creates a LogTransport
func NewLogTransport(logger *zap.Logger) *LogTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTransport{logger: logger}
}

// Name returns the transport name
func (t *LogTransport) Name() string { return "log" }

// Send logs the envelope without attachment content
func (t *LogTransport) Send(_ context.Context, msg *Message) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Filename)
	}
	t.logger.Info("Mail delivered to log",
		zap.String("message_id", msg.ID.String()),
		zap.String("to", msg.To),
		zap.String("template", msg.Template),
		zap.String("subject", msg.Subject),
		zap.Strings("attachments", names),
	)
	return nil
}
