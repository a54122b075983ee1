package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"eduportal/internal/util"
	"eduportal/pkg/domain"
)

// conversationCache holds each account's AI conversation in process
// memory. Chat turns are deliberately not written to the document store;
// a restart starts every account with a fresh context.
type conversationCache struct {
	mu     sync.Mutex
	turns  map[string][]domain.ChatMessage // keyed by user ID
	maxLen int
}

func newConversationCache(maxLen int) *conversationCache {
	if maxLen <= 0 {
		maxLen = defaultHistoryLimit
	}
	return &conversationCache{
		turns:  make(map[string][]domain.ChatMessage),
		maxLen: maxLen,
	}
}

func (c *conversationCache) history(userID string) []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := c.turns[userID]
	out := make([]domain.ChatMessage, len(turns))
	copy(out, turns)
	return out
}

func (c *conversationCache) append(userID string, msgs ...domain.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := append(c.turns[userID], msgs...)
	if len(turns) > c.maxLen {
		turns = turns[len(turns)-c.maxLen:]
	}
	c.turns[userID] = turns
}

func (c *conversationCache) clear(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.turns, userID)
}

// SendChatMessage relays the user's message, with that account's prior
// turns as context, to the AI provider and returns the reply. The user
// turn is recorded only after the provider answers, so a failed call
// leaves the conversation unchanged.
func (a *App) SendChatMessage(ctx context.Context, user domain.User, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageRequired
	}
	history := a.conversations.history(user.ID)
	reply, err := a.generator.GenerateReply(ctx, history, message)
	if err != nil {
		util.LoggerFromContext(ctx).Error("ai relay failed", "err", err, "user_id", user.ID)
		return "", ErrAIUnavailable
	}
	now := time.Now().UTC()
	a.conversations.append(user.ID,
		domain.ChatMessage{Role: "user", Content: message, CreatedAt: now},
		domain.ChatMessage{Role: "ai", Content: reply, CreatedAt: time.Now().UTC()},
	)
	return reply, nil
}

// ClearChat drops the caller's conversation context.
func (a *App) ClearChat(user domain.User) {
	a.conversations.clear(user.ID)
}
