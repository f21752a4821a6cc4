package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ApologyText is the bot reply recorded when the provider fails
const ApologyText = "I'm sorry, I encountered an error while processing your request. Please try again! 😅"

// Conversation runs the send path: record the user message, wait for the
// provider, record the reply. At most one reply is outstanding per session.
type Conversation struct {
	store    *SessionStore
	provider ResponseProvider

	mu      sync.Mutex
	pending map[string]bool
}

// NewConversation creates a send path over store using provider for replies
func NewConversation(store *SessionStore, provider ResponseProvider) *Conversation {
	return &Conversation{
		store:    store,
		provider: provider,
		pending:  make(map[string]bool),
	}
}

// IsPending reports whether a reply is outstanding for the session
func (c *Conversation) IsPending(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[sessionID]
}

// Begin records a user message and marks the session as waiting for a reply.
// Blank text and a session that is already waiting are rejected without any
// state change.
func (c *Conversation) Begin(ctx context.Context, sessionID, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyText
	}

	c.mu.Lock()
	if c.pending[sessionID] {
		c.mu.Unlock()
		return Message{}, fmt.Errorf("%s: %w", sessionID, ErrResponsePending)
	}
	c.pending[sessionID] = true
	c.mu.Unlock()

	msg, err := c.store.AppendUserMessage(ctx, sessionID, text)
	if err != nil {
		c.clear(sessionID)
		return Message{}, err
	}
	return msg, nil
}

// Reply asks the provider for a reply to prompt. It does not touch the store.
func (c *Conversation) Reply(ctx context.Context, prompt string) (Response, error) {
	return c.provider.GetResponse(ctx, prompt)
}

// Complete records the reply for a session started with Begin. A provider
// error is recorded as the apology message. The pending flag is cleared in
// every case.
func (c *Conversation) Complete(ctx context.Context, sessionID string, resp Response, providerErr error) (Message, error) {
	defer c.clear(sessionID)

	text := resp.Text
	if providerErr != nil {
		LogWarn("Response provider failed for session %s: %v", sessionID, providerErr)
		text = ApologyText
	} else if strings.TrimSpace(text) == "" {
		LogWarn("Response provider returned an empty reply for session %s", sessionID)
		text = ApologyText
	}

	return c.store.AppendBotMessage(ctx, sessionID, text)
}

// Send runs Begin, Reply and Complete in sequence and returns the user
// message and the bot reply. The reply is attached to sessionID even if the
// active session changed meanwhile.
func (c *Conversation) Send(ctx context.Context, sessionID, text string) (Message, Message, error) {
	userMsg, err := c.Begin(ctx, sessionID, text)
	if err != nil {
		return Message{}, Message{}, err
	}

	resp, providerErr := c.Reply(ctx, userMsg.Text)
	botMsg, err := c.Complete(ctx, sessionID, resp, providerErr)
	if err != nil {
		return userMsg, Message{}, err
	}
	return userMsg, botMsg, nil
}

func (c *Conversation) clear(sessionID string) {
	c.mu.Lock()
	delete(c.pending, sessionID)
	c.mu.Unlock()
}
