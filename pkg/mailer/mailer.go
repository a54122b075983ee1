// Package mailer delivers transactional portal email (OTP codes).
package mailer

import "context"

// Message is a plain-text transactional email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Body    string
}

// Mailer is any service that can send a transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
