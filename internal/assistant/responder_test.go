package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/internal/config"
)

type fakeCompleter struct {
	reply string
	err   error
	calls []string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.calls = append(f.calls, user)
	return f.reply, f.err
}

func defaults() *config.Config { return config.Default() }

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2025, time.March, 14, hour, 5, 0, 0, time.UTC) }
}

func wikiServer(t *testing.T) *Wikipedia {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title := strings.TrimPrefix(r.URL.Path, "/summary/")
		w.Header().Set("Content-Type", "application/json")
		switch title {
		case "Alan_Turing":
			w.Write([]byte(`{"type":"standard","extract":"Alan Turing was a mathematician. He founded computer science. He was born in London."}`))
		case "Mercury":
			w.Write([]byte(`{"type":"disambiguation","extract":"Mercury may refer to:"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return NewWikipedia(srv.URL+"/summary/", srv.Client())
}

func TestBuiltins(t *testing.T) {
	r := NewResponder(defaults, WithClock(at(15)))
	ctx := t.Context()

	tests := []struct {
		query string
		want  string
	}{
		{"what time is it", "The current time is 03:05 PM, sir."},
		{"what's the date today", "Today's date is March 14, 2025, sir."},
		{"calculate 12 times 4", "The result is 48, sir."},
		{"what is 10 divided by 4", "The result is 2.5, sir."},
		{"7 + 3", "The result is 10, sir."},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := r.Answer(ctx, tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	got, ok := r.Answer(ctx, "how is the weather")
	require.True(t, ok)
	assert.Contains(t, got, "real-time weather")
}

func TestDivisionByZeroIsNotAnswered(t *testing.T) {
	_, ok := calculate("5 / 0")
	assert.False(t, ok)
}

func TestCompleterAnswersBeforeKnowledge(t *testing.T) {
	llm := &fakeCompleter{reply: "Quantum tunnelling lets particles cross barriers, sir."}
	r := NewResponder(defaults, WithCompleter(llm))

	got, ok := r.Answer(t.Context(), "describe quantum tunnelling")
	require.True(t, ok)
	assert.Equal(t, llm.reply, got)
	assert.Equal(t, []string{"describe quantum tunnelling"}, llm.calls)
}

func TestKnowledgeWhenCompleterFails(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("rate limited")}
	r := NewResponder(defaults, WithCompleter(llm))

	got, ok := r.Answer(t.Context(), "tell me about machine learning")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, "Machine Learning is a subset of AI"))
	assert.True(t, strings.HasSuffix(got, "Would you like to know more about this topic, sir?"))
}

func TestWikipediaLookup(t *testing.T) {
	r := NewResponder(defaults, WithWikipedia(wikiServer(t)))

	got, ok := r.Answer(t.Context(), "who is Alan Turing?")
	require.True(t, ok)
	assert.Equal(t, "Alan Turing was a mathematician. He founded computer science.", got)

	got, ok = r.Answer(t.Context(), "what is Mercury")
	require.True(t, ok)
	assert.Equal(t, "I found multiple topics related to 'Mercury'. Could you be more specific, sir?", got)
}

func TestWikipediaMissFallsThrough(t *testing.T) {
	r := NewResponder(defaults, WithWikipedia(wikiServer(t)))

	got, ok := r.Answer(t.Context(), "what is python")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(got, "Python is a high-level programming language"))
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		hour  int
		query string
		want  string
	}{
		{9, "hello there", "Good morning, sir! I'm JARVIS, your AI assistant. How may I help you today?"},
		{13, "hey", "Good afternoon, sir! I'm JARVIS, your AI assistant. How may I help you today?"},
		{18, "hi", "Good evening, sir! I'm JARVIS, your AI assistant. How may I help you today?"},
		{23, "hello", "Good night, sir! I'm JARVIS, your AI assistant. How may I help you today?"},
		{9, "thanks a lot", "You're very welcome, sir! I'm always here to help and assist you."},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := NewResponder(defaults, WithClock(at(tt.hour)))
			got, ok := r.Answer(t.Context(), tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	r := NewResponder(defaults, WithClock(at(9)))

	got, ok := r.Answer(t.Context(), "I love coding")
	require.True(t, ok)
	assert.Contains(t, got, "Programming is the art")

	got, ok = r.Answer(t.Context(), "why do birds migrate")
	require.True(t, ok)
	assert.Contains(t, got, "'why' question")
}

func TestNoAnswer(t *testing.T) {
	r := NewResponder(defaults)

	_, ok := r.Answer(t.Context(), "purple monkey dishwasher")
	assert.False(t, ok)

	_, ok = r.Answer(t.Context(), "   ")
	assert.False(t, ok)
}

func TestFirstSentences(t *testing.T) {
	assert.Equal(t, "One. Two!", firstSentences("One. Two! Three?", 2))
	assert.Equal(t, "Version 1.2 is out.", firstSentences("Version 1.2 is out.", 2))
	assert.Equal(t, "no stop", firstSentences("no stop", 2))
}
