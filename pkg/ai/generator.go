package ai

import (
	"context"

	"eduportal/pkg/domain"
)

// ChatGenerator produces a reply for a user message given prior
// conversation turns. The Gemini client implements it; tests stub it.
type ChatGenerator interface {
	GenerateReply(ctx context.Context, history []domain.ChatMessage, userMessage string) (string, error)
}
