package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Persister receives a full snapshot after every mutation
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
}

// Hooks are optional callbacks for presentation concerns. They run after the
// mutation has been persisted, with the store lock released.
type Hooks struct {
	// OnSwitch fires after the active session changes (hosts clear the search term)
	OnSwitch func(sessionID string)
	// OnMessage fires after a message is appended (hosts scroll to the end)
	OnMessage func(sessionID string, msg Message)
}

// StoreOptions configures a SessionStore
type StoreOptions struct {
	Persister     Persister
	Hooks         Hooks
	NameMaxLength int
	Now           func() time.Time
	NewSessionID  func() string
	NewMessageID  func() string
}

type sessionEntry struct {
	id       string
	name     string
	messages *MessageStore
}

func (e *sessionEntry) view() Session {
	return Session{ID: e.id, Name: e.name, Messages: e.messages.All()}
}

// SessionStore is the ordered collection of chat sessions plus the active
// session pointer. The active id always resolves and the collection is never
// empty.
type SessionStore struct {
	mu       sync.Mutex
	sessions []*sessionEntry
	activeID string

	persister   Persister
	hooks       Hooks
	nameMax     int
	now         func() time.Time
	newSession  func() string
	newMessage  func() string
	lastSaveErr error
}

// NewSessionStore builds a store from a snapshot. An invalid snapshot is
// replaced by the default one.
func NewSessionStore(snap Snapshot, opts StoreOptions) *SessionStore {
	if err := snap.validate(); err != nil {
		LogWarn("Discarding invalid session state: %v", err)
		snap = DefaultSnapshot()
	}

	s := &SessionStore{
		persister:  opts.Persister,
		hooks:      opts.Hooks,
		nameMax:    opts.NameMaxLength,
		now:        opts.Now,
		newSession: opts.NewSessionID,
		newMessage: opts.NewMessageID,
		activeID:   snap.ActiveSessionID,
	}
	if s.nameMax <= 0 {
		s.nameMax = DefaultNameMaxLength
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newSession == nil {
		s.newSession = func() string { return "session-" + shortuuid.New() }
	}
	if s.newMessage == nil {
		s.newMessage = uuid.NewString
	}

	for _, sess := range snap.Sessions {
		s.sessions = append(s.sessions, &sessionEntry{
			id:       sess.ID,
			name:     sess.Name,
			messages: NewMessageStore(sess.Messages),
		})
	}
	return s
}

// SetHooks replaces the presentation hooks
func (s *SessionStore) SetHooks(h Hooks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = h
}

// CreateSession appends an empty session named "Chat N" and makes it active
func (s *SessionStore) CreateSession(ctx context.Context) Session {
	s.mu.Lock()
	entry := &sessionEntry{
		id:       s.uniqueSessionID(),
		name:     DefaultSessionName(len(s.sessions) + 1),
		messages: NewMessageStore(nil),
	}
	s.sessions = append(s.sessions, entry)
	s.activeID = entry.id
	view := entry.view()
	s.persistLocked(ctx)
	hook := s.hooks.OnSwitch
	s.mu.Unlock()

	LogDebug("Created session %s (%s)", view.ID, view.Name)
	if hook != nil {
		hook(view.ID)
	}
	return view
}

// DeleteSession removes a session. Deleting the only session is refused with
// ErrLastSessionProtected. When the active session is removed, the session
// before it becomes active, or the first one if it was first.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	if len(s.sessions) == 1 {
		s.mu.Unlock()
		return ErrLastSessionProtected
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	switched := false
	if s.activeID == id {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		s.activeID = s.sessions[next].id
		switched = true
	}
	activeID := s.activeID
	s.persistLocked(ctx)
	hook := s.hooks.OnSwitch
	s.mu.Unlock()

	LogDebug("Deleted session %s, active is %s", id, activeID)
	if switched && hook != nil {
		hook(activeID)
	}
	return nil
}

// SwitchActive makes id the active session
func (s *SessionStore) SwitchActive(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	s.activeID = id
	s.persistLocked(ctx)
	hook := s.hooks.OnSwitch
	s.mu.Unlock()

	if hook != nil {
		hook(id)
	}
	return nil
}

// RenameSession sets a session's display name explicitly. An empty session
// still takes its name from the first user message afterwards.
func (s *SessionStore) RenameSession(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	s.sessions[idx].name = name
	s.persistLocked(ctx)
	return nil
}

// AppendUserMessage adds a user message to a session. The first message of
// an empty session also names the session.
func (s *SessionStore) AppendUserMessage(ctx context.Context, sessionID, text string) (Message, error) {
	return s.appendMessage(ctx, sessionID, text, SenderUser)
}

// AppendBotMessage adds a bot message to a session
func (s *SessionStore) AppendBotMessage(ctx context.Context, sessionID, text string) (Message, error) {
	return s.appendMessage(ctx, sessionID, text, SenderBot)
}

func (s *SessionStore) appendMessage(ctx context.Context, sessionID, text string, sender Sender) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyText
	}

	s.mu.Lock()
	idx := s.indexOf(sessionID)
	if idx < 0 {
		s.mu.Unlock()
		return Message{}, fmt.Errorf("%s: %w", sessionID, ErrSessionNotFound)
	}
	entry := s.sessions[idx]

	msg := Message{
		ID:        s.uniqueMessageID(),
		Text:      text,
		Sender:    sender,
		Timestamp: s.now().UTC().Round(0),
	}
	if sender == SenderUser && entry.messages.Len() == 0 {
		entry.name = DeriveSessionName(text, s.nameMax)
		LogDebug("Renamed session %s to %q", entry.id, entry.name)
	}
	entry.messages.Append(msg)
	s.persistLocked(ctx)
	hook := s.hooks.OnMessage
	s.mu.Unlock()

	if hook != nil {
		hook(sessionID, msg)
	}
	return msg, nil
}

// DeleteMessage removes a message from whichever session holds it. It
// reports whether a message was removed.
func (s *SessionStore) DeleteMessage(ctx context.Context, messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.sessions {
		if entry.messages.Delete(messageID) {
			s.persistLocked(ctx)
			return true
		}
	}
	return false
}

// FindMessage returns a message and the id of the session holding it
func (s *SessionStore) FindMessage(messageID string) (Message, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.sessions {
		if msg, ok := entry.messages.Lookup(messageID); ok {
			return msg, entry.id, nil
		}
	}
	return Message{}, "", fmt.Errorf("%s: %w", messageID, ErrMessageNotFound)
}

// Session returns a copy of the session with the given id
func (s *SessionStore) Session(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Session{}, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return s.sessions[idx].view(), nil
}

// Active returns a copy of the active session
func (s *SessionStore) Active() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[s.indexOf(s.activeID)].view()
}

// ActiveID returns the active session id
func (s *SessionStore) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Sessions returns copies of all sessions in tab order
func (s *SessionStore) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Session, len(s.sessions))
	for i, entry := range s.sessions {
		out[i] = entry.view()
	}
	return out
}

// Len returns the number of sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Snapshot returns the full persistable state
func (s *SessionStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LastSaveErr returns the error of the most recent failed save, if the last
// save failed
func (s *SessionStore) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *SessionStore) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:         SnapshotVersion,
		ActiveSessionID: s.activeID,
		Sessions:        make([]Session, len(s.sessions)),
	}
	for i, entry := range s.sessions {
		snap.Sessions[i] = entry.view()
	}
	return snap
}

func (s *SessionStore) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		LogWarn("Failed to persist sessions: %v", err)
		s.lastSaveErr = err
		return
	}
	s.lastSaveErr = nil
}

func (s *SessionStore) indexOf(id string) int {
	for i, entry := range s.sessions {
		if entry.id == id {
			return i
		}
	}
	return -1
}

func (s *SessionStore) uniqueSessionID() string {
	for {
		id := s.newSession()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *SessionStore) uniqueMessageID() string {
	for {
		id := s.newMessage()
		taken := false
		for _, entry := range s.sessions {
			if _, ok := entry.messages.Lookup(id); ok {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
