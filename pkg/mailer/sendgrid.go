package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridMailer sends email through the SendGrid v3 API.
type SendgridMailer struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
}

// NewSendgridMailer builds a SendGrid-backed mailer.
func NewSendgridMailer(apiKey, fromName, fromEmail string) (*SendgridMailer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sendgrid api key required")
	}
	if strings.TrimSpace(fromEmail) == "" {
		return nil, errors.New("sendgrid from email required")
	}
	return &SendgridMailer{
		client:     sendgrid.NewSendClient(apiKey),
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: "[EduPortal] ",
	}, nil
}

// Send delivers a single plain-text message.
func (m *SendgridMailer) Send(_ context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)
	mail := sgmail.NewSingleEmail(m.from, m.subjPrefix+msg.Subject, to, msg.Body, "")
	resp, err := m.client.Send(mail)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d", resp.StatusCode)
	}
	return nil
}
