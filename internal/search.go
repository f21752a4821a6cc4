package internal

import (
	"regexp"
	"sort"
	"strings"
)

// SearchIndex answers substring queries over every session of a store. It
// keeps no index of its own; each query scans the current state.
type SearchIndex struct {
	store *SessionStore
}

// NewSearchIndex creates a search index over store
func NewSearchIndex(store *SessionStore) *SearchIndex {
	return &SearchIndex{store: store}
}

// Query returns messages whose text contains term, ignoring case, across all
// sessions, most recent first. A blank term returns the active session's
// messages in conversation order instead.
func (x *SearchIndex) Query(term string) []SearchResult {
	term = strings.TrimSpace(term)
	if term == "" {
		active := x.store.Active()
		results := make([]SearchResult, len(active.Messages))
		for i, msg := range active.Messages {
			results[i] = SearchResult{Message: msg, SessionID: active.ID, SessionName: active.Name}
		}
		return results
	}

	re := termMatcher(term)

	var results []SearchResult
	for _, sess := range x.store.Sessions() {
		for _, msg := range sess.Messages {
			if re.MatchString(msg.Text) {
				results = append(results, SearchResult{Message: msg, SessionID: sess.ID, SessionName: sess.Name})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	return results
}

// Counts returns the number of matching messages per session id
func (x *SearchIndex) Counts(term string) map[string]int {
	counts := make(map[string]int)
	if strings.TrimSpace(term) == "" {
		return counts
	}
	for _, r := range x.Query(term) {
		counts[r.SessionID]++
	}
	return counts
}

// Span is a piece of message text, flagged when it matched the search term
type Span struct {
	Text  string
	Match bool
}

// Highlight splits text into alternating non-matching and matching spans.
// The term is matched literally and without regard to case.
func Highlight(text, term string) []Span {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return []Span{{Text: text}}
	}

	re := termMatcher(term)

	var spans []Span
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	if len(spans) == 0 {
		spans = append(spans, Span{Text: text})
	}
	return spans
}

// termMatcher matches term literally, ignoring case. Query and Highlight must
// agree on it.
func termMatcher(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}
