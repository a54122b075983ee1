package mailer

import (
	"context"
	"log/slog"
	"sync"
)

// ConsoleMailer logs messages instead of delivering them. Used in
// development when no SendGrid key is configured.
type ConsoleMailer struct{}

// NewConsoleMailer builds a mailer that only logs.
func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

// Send logs the message body at info level.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	slog.Info("outgoing email",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

// MemoryMailer records sent messages for assertions in tests.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message
}

// NewMemoryMailer builds a recording mailer.
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

// Send records the message.
func (m *MemoryMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of all recorded messages.
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
