package internal

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Response is a generated assistant reply and how long it took
type Response struct {
	Text  string
	Delay time.Duration
}

// ResponseProvider produces assistant replies for a prompt
type ResponseProvider interface {
	GetResponse(ctx context.Context, prompt string) (Response, error)
}

// SuggestionProvider lists starter questions for an empty session
type SuggestionProvider interface {
	Suggestions() []string
}

var baseResponses = []string{
	"That's a great question! Based on my analysis, I think the answer involves considering multiple factors and perspectives.",
	"I understand what you're asking. Let me break this down for you in a simple way...",
	"Interesting! This reminds me of a similar concept. Here's how I see it:",
	"That's a complex topic! From my perspective, there are several key points to consider:",
	"Great question! I'd be happy to help you understand this better.",
	"I can see why you'd ask that. Let me share some insights that might be helpful:",
	"That's actually a fascinating area to explore! Here's what I think:",
	"I appreciate you bringing this up. Based on common patterns, I'd suggest:",
	"Excellent question! This is something that comes up often, and here's my take:",
	"I'm glad you asked! This is an important topic, and I'd like to share some thoughts:",
}

var detailResponses = []string{
	"This involves understanding the underlying principles and considering various factors that might influence the outcome.",
	"There are multiple approaches to this, each with their own benefits and considerations.",
	"The key is to look at this from different angles and consider both the immediate and long-term implications.",
	"This is a multi-faceted topic that benefits from careful analysis and consideration of context.",
	"The answer often depends on specific circumstances, but I can share some general insights that might help.",
}

var personalityAddons = []string{
	"I hope this helps! Feel free to ask if you'd like me to elaborate on any part. 😊",
	"What do you think about this perspective? I'd love to hear your thoughts! 🤔",
	"Is there a particular aspect of this you'd like to explore further? 🔍",
	"I'm curious to know if this aligns with what you were thinking! 💭",
	"Let me know if you'd like me to dive deeper into any specific area! 📚",
}

// topic replies are checked in order; the first topic with a matching
// keyword wins
var topics = []struct {
	keywords  []string
	responses []string
}{
	{
		keywords: []string{"weather", "rain", "sunny"},
		responses: []string{
			"I'm a mock AI, so I can't check real weather data, but I imagine it's either sunny, cloudy, or somewhere in between! ☀️🌤️",
			"Weather is fascinating! Unfortunately, I don't have access to real weather APIs, but I hope it's nice where you are! 🌈",
		},
	},
	{
		keywords: []string{"hello", "hi", "hey"},
		responses: []string{
			"Hello there! 👋 I'm your friendly chatbot assistant. How can I help you today?",
			"Hi! Great to meet you! I'm here to chat and help with any questions you might have. 😊",
			"Hello! Welcome to our chat! I'm excited to assist you today. What's on your mind?",
		},
	},
	{
		keywords: []string{"help"},
		responses: []string{
			"I'm here to help! You can ask me anything, and I'll do my best to provide a thoughtful response. Try asking about technology, life advice, or just chat with me! 💡",
			"Need assistance? I can help with various topics! Feel free to ask questions, seek advice, or just have a friendly conversation. What would you like to know? 🤝",
		},
	},
	{
		keywords: []string{"technology", "tech", "computer", "software"},
		responses: []string{
			"Technology is amazing! It's constantly evolving and shaping our world in incredible ways. From AI to mobile apps, there's always something new to discover! 🚀",
			"I love talking about tech! Whether it's programming, gadgets, or the latest innovations, technology continues to transform how we live and work. What specific area interests you? 💻",
		},
	},
	{
		keywords: []string{"time", "clock"},
		responses: []string{
			"I don't have access to real-time data, but time is such an interesting concept! It's always 'now' from my perspective. What time-related question did you have in mind? ⏰",
			"Time flies when you're having fun chatting! Though I can't tell you the exact time, I'm always here whenever you need me. 🕐",
		},
	},
}

var suggestedQuestions = []string{
	"Hello! How are you today?",
	"What can you help me with?",
	"Tell me about technology trends",
	"How does artificial intelligence work?",
	"What's the weather like?",
	"Can you give me some life advice?",
}

// MockProvider answers with canned, keyword-driven replies after a random
// delay in [MinDelay, MaxDelay]
type MockProvider struct {
	MinDelay time.Duration
	MaxDelay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider creates a provider with the given delay bounds. A nil rng
// uses a time-seeded source.
func NewMockProvider(minDelay, maxDelay time.Duration, rng *rand.Rand) *MockProvider {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &MockProvider{MinDelay: minDelay, MaxDelay: maxDelay, rng: rng}
}

// GetResponse waits out the simulated delay and returns a reply. It fails
// only when ctx ends first.
func (p *MockProvider) GetResponse(ctx context.Context, prompt string) (Response, error) {
	p.mu.Lock()
	delay := p.MinDelay
	if span := p.MaxDelay - p.MinDelay; span > 0 {
		delay += time.Duration(p.rng.Int64N(int64(span)))
	}
	text := p.generate(prompt)
	p.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Response{Text: text, Delay: delay}, nil
}

// Suggestions returns the fixed starter questions
func (p *MockProvider) Suggestions() []string {
	out := make([]string, len(suggestedQuestions))
	copy(out, suggestedQuestions)
	return out
}

func (p *MockProvider) generate(prompt string) string {
	lower := cases.Lower(language.Und).String(prompt)

	for _, topic := range topics {
		for _, kw := range topic.keywords {
			if strings.Contains(lower, kw) {
				return p.pick(topic.responses)
			}
		}
	}

	if strings.Contains(lower, "?") &&
		(strings.Contains(lower, "what") || strings.Contains(lower, "how") || strings.Contains(lower, "why")) {
		return p.pick(baseResponses) + " " + p.pick(detailResponses)
	}

	return p.pick(baseResponses) + " " + p.pick(personalityAddons)
}

func (p *MockProvider) pick(options []string) string {
	return options[p.rng.IntN(len(options))]
}
