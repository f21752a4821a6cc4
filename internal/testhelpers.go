package internal

import (
	"fmt"
	"time"
)

// testEpoch is the base instant for deterministic test timestamps
var testEpoch = time.Date(2024, time.March, 9, 14, 30, 0, 0, time.UTC)

// CreateTestSession creates a session with a short two-message exchange
func CreateTestSession(id string) Session {
	return Session{
		ID:   id,
		Name: "Hello there",
		Messages: []Message{
			{
				ID:        id + "-m1",
				Text:      "Hello there, how are you?",
				Sender:    SenderUser,
				Timestamp: testEpoch,
			},
			{
				ID:        id + "-m2",
				Text:      "I'm doing well, thank you!",
				Sender:    SenderBot,
				Timestamp: testEpoch.Add(2 * time.Second),
			},
		},
	}
}

// CreateTestSessionWithMessages creates a session holding the given texts,
// alternating user and bot senders one minute apart
func CreateTestSessionWithMessages(id, name string, texts ...string) Session {
	sess := Session{ID: id, Name: name, Messages: []Message{}}
	for i, text := range texts {
		sender := SenderUser
		if i%2 == 1 {
			sender = SenderBot
		}
		sess.Messages = append(sess.Messages, Message{
			ID:        fmt.Sprintf("%s-m%d", id, i+1),
			Text:      text,
			Sender:    sender,
			Timestamp: testEpoch.Add(time.Duration(i) * time.Minute),
		})
	}
	return sess
}

// NewTestClock returns a clock that starts at the test epoch and advances by
// step on every call
func NewTestClock(step time.Duration) func() time.Time {
	now := testEpoch
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

// NewTestIDs returns a generator yielding prefix-1, prefix-2, ...
func NewTestIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
