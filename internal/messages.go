package internal

// MessageStore holds one session's messages in conversation order with an
// id index for lookup and deletion.
type MessageStore struct {
	messages []Message
	byID     map[string]int
}

// NewMessageStore creates a store seeded with msgs, kept in the given order
func NewMessageStore(msgs []Message) *MessageStore {
	ms := &MessageStore{
		messages: make([]Message, 0, len(msgs)),
		byID:     make(map[string]int, len(msgs)),
	}
	for _, m := range msgs {
		ms.Append(m)
	}
	return ms
}

// Append adds m at the end of the conversation
func (ms *MessageStore) Append(m Message) {
	ms.byID[m.ID] = len(ms.messages)
	ms.messages = append(ms.messages, m)
}

// Lookup returns the message with the given id
func (ms *MessageStore) Lookup(id string) (Message, bool) {
	i, ok := ms.byID[id]
	if !ok {
		return Message{}, false
	}
	return ms.messages[i], true
}

// Delete removes the message with the given id, reporting whether it existed
func (ms *MessageStore) Delete(id string) bool {
	i, ok := ms.byID[id]
	if !ok {
		return false
	}
	ms.messages = append(ms.messages[:i], ms.messages[i+1:]...)
	delete(ms.byID, id)
	for j := i; j < len(ms.messages); j++ {
		ms.byID[ms.messages[j].ID] = j
	}
	return true
}

// Len returns the number of messages
func (ms *MessageStore) Len() int {
	return len(ms.messages)
}

// All returns a copy of the messages in conversation order
func (ms *MessageStore) All() []Message {
	out := make([]Message, len(ms.messages))
	copy(out, ms.messages)
	return out
}
