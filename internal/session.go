package internal

import (
	"fmt"
	"time"
)

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Valid reports whether s is one of the known senders
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

// Label returns the conversational label used in text exports ("You", "Bot")
func (s Sender) Label() string {
	if s == SenderUser {
		return "You"
	}
	return "Bot"
}

// Message is a single chat message. Messages never change after creation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a read-only view of one conversation thread
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// Snapshot is the whole persisted state of a SessionStore
type Snapshot struct {
	Version         int       `json:"version"`
	ActiveSessionID string    `json:"activeSessionId"`
	Sessions        []Session `json:"sessions"`
}

// SearchResult is a message annotated with the session that owns it
type SearchResult struct {
	Message
	SessionID   string `json:"sessionId"`
	SessionName string `json:"sessionName"`
}

const (
	// SnapshotVersion is the current persisted schema version
	SnapshotVersion = 1

	// DefaultSessionID is the id of the session created for a fresh store
	DefaultSessionID = "session-1"
)

// DefaultSessionName returns the placeholder name for the n-th session
func DefaultSessionName(n int) string {
	return fmt.Sprintf("Chat %d", n)
}

// DefaultSnapshot returns the state used when nothing valid is persisted
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:         SnapshotVersion,
		ActiveSessionID: DefaultSessionID,
		Sessions: []Session{
			{ID: DefaultSessionID, Name: DefaultSessionName(1), Messages: []Message{}},
		},
	}
}

// validate checks the invariants a loaded snapshot must hold and repairs a
// dangling active pointer.
func (s *Snapshot) validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if len(s.Sessions) == 0 {
		return fmt.Errorf("snapshot has no sessions")
	}

	sessionIDs := make(map[string]bool, len(s.Sessions))
	messageIDs := make(map[string]bool)
	for i := range s.Sessions {
		sess := &s.Sessions[i]
		if sess.ID == "" {
			return fmt.Errorf("session %d has no id", i)
		}
		if sessionIDs[sess.ID] {
			return fmt.Errorf("duplicate session id %s", sess.ID)
		}
		sessionIDs[sess.ID] = true
		if sess.Messages == nil {
			sess.Messages = []Message{}
		}
		for j, msg := range sess.Messages {
			if msg.ID == "" {
				return fmt.Errorf("session %s message %d has no id", sess.ID, j)
			}
			if messageIDs[msg.ID] {
				return fmt.Errorf("duplicate message id %s", msg.ID)
			}
			messageIDs[msg.ID] = true
			if !msg.Sender.Valid() {
				return fmt.Errorf("message %s has unknown sender %q", msg.ID, msg.Sender)
			}
			if msg.Text == "" {
				return fmt.Errorf("message %s has empty text", msg.ID)
			}
		}
	}

	if !sessionIDs[s.ActiveSessionID] {
		s.ActiveSessionID = s.Sessions[0].ID
	}
	return nil
}
