package ai

import (
	"context"
	"errors"

	"eduportal/pkg/domain"
)

// DisabledGenerator stands in when no Gemini API key is configured.
// Every request fails, so chat reports the service unavailable while the
// rest of the portal keeps working.
type DisabledGenerator struct{}

// NewDisabledGenerator builds a generator that always errors.
func NewDisabledGenerator() *DisabledGenerator {
	return &DisabledGenerator{}
}

// GenerateReply always reports the missing configuration.
func (*DisabledGenerator) GenerateReply(context.Context, []domain.ChatMessage, string) (string, error) {
	return "", errors.New("gemini api key is not configured")
}
