package testutil

// LegacySessionsJSON is the bare-array layout older builds stored: no
// version, no active pointer
const LegacySessionsJSON = `[
  {
    "id": "session-1",
    "name": "Hello!",
    "messages": [
      {"id": "1700000000000", "text": "Hello! How are you today?", "sender": "user", "timestamp": "2023-11-14T22:13:20.000Z"},
      {"id": "1700000000001", "text": "Hi! Great to meet you!", "sender": "bot", "timestamp": "2023-11-14T22:13:22.000Z"}
    ]
  },
  {
    "id": "session-1700000100000",
    "name": "Chat 2",
    "messages": []
  }
]`

// VersionedSessionsJSON is a valid current-format document whose active
// session is the second one
const VersionedSessionsJSON = `{
  "version": 1,
  "activeSessionId": "session-b",
  "sessions": [
    {"id": "session-a", "name": "Chat 1", "messages": []},
    {"id": "session-b", "name": "Weather", "messages": [
      {"id": "m-1", "text": "What's the weather like?", "sender": "user", "timestamp": "2024-03-09T14:30:00Z"}
    ]}
  ]
}`

// CorruptSessionsJSONs are documents that must be discarded on load
var CorruptSessionsJSONs = map[string]string{
	"not json":          `{{{ nope`,
	"empty":             ``,
	"wrong version":     `{"version": 99, "activeSessionId": "s", "sessions": [{"id": "s", "name": "x", "messages": []}]}`,
	"no sessions":       `{"version": 1, "activeSessionId": "", "sessions": []}`,
	"unknown field":     `{"version": 1, "activeSessionId": "s", "sessions": [], "extra": true}`,
	"duplicate session": `{"version": 1, "activeSessionId": "s", "sessions": [{"id": "s", "name": "a", "messages": []}, {"id": "s", "name": "b", "messages": []}]}`,
	"bad sender":        `{"version": 1, "activeSessionId": "s", "sessions": [{"id": "s", "name": "a", "messages": [{"id": "m", "text": "x", "sender": "robot", "timestamp": "2024-01-01T00:00:00Z"}]}]}`,
	"duplicate message": `[{"id": "a", "name": "a", "messages": [{"id": "m", "text": "x", "sender": "user", "timestamp": "2024-01-01T00:00:00Z"}]}, {"id": "b", "name": "b", "messages": [{"id": "m", "text": "y", "sender": "bot", "timestamp": "2024-01-01T00:00:00Z"}]}]`,
}
