// Package assistant answers free-form questions: a few built-ins, then a
// chat model, then the local knowledge base, then Wikipedia, then canned
// replies for common conversational patterns.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	log "log/slog"

	"jarvis/internal/config"
)

type Responder struct {
	llm     Completer
	wiki    *Wikipedia
	config  func() *config.Config
	now     func() time.Time
	timeout time.Duration
}

type Option func(*Responder)

func WithCompleter(c Completer) Option  { return func(r *Responder) { r.llm = c } }
func WithWikipedia(w *Wikipedia) Option { return func(r *Responder) { r.wiki = w } }
func WithClock(now func() time.Time) Option {
	return func(r *Responder) { r.now = now }
}

func NewResponder(cfg func() *config.Config, opts ...Option) *Responder {
	r := &Responder{
		config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.timeout = cfg().AssistantTimeout()
	return r
}

// Answer walks the chain and reports false when nothing had an answer.
func (r *Responder) Answer(ctx context.Context, query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	if s, ok := r.builtin(ctx, query); ok {
		return s, true
	}

	if r.llm != nil {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		s, err := r.llm.Complete(cctx, SystemPrompt, query)
		cancel()
		if err == nil {
			return s, true
		}
		log.Debug("Chat model unavailable", "err", err)
	}

	if s, ok := r.knowledge(query); ok {
		return s, true
	}

	if s, ok := r.wikipedia(ctx, query); ok {
		return s, true
	}

	return r.patterns(query)
}

var (
	timeWords    = []string{"time", "clock", "समय", "સમય"}
	dateWords    = []string{"date", "today", "तारीख", "તારીખ"}
	weatherWords = []string{"weather", "temperature", "मौसम", "હવામાન"}
	lookupWords  = []string{"who is", "what is", "tell me about", "explain", "define"}

	mathWordRe = regexp.MustCompile(`\b(calculate|plus|minus|times|multiplied by|divided by|over|add|subtract)\b|[-+*/]`)
	binaryOpRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([-+*/])\s*(-?\d+(?:\.\d+)?)`)
	mathSubs   = strings.NewReplacer(
		"multiplied by", "*", "divided by", "/",
		"plus", "+", "minus", "-", "times", "*", "over", "/",
	)
)

func (r *Responder) builtin(ctx context.Context, query string) (string, bool) {
	q := normalize(query)

	if s, ok := calculate(strings.ToLower(query)); ok && mathWordRe.MatchString(strings.ToLower(query)) {
		return fmt.Sprintf("The result is %s, sir.", s), true
	}

	switch {
	case hasAny(q, timeWords...):
		return fmt.Sprintf("The current time is %s, sir.", r.now().Format("03:04 PM")), true
	case hasAny(q, dateWords...):
		return fmt.Sprintf("Today's date is %s, sir.", r.now().Format("January 02, 2006")), true
	case hasAny(q, weatherWords...):
		return "I don't have access to real-time weather data yet, sir. You can check your local weather app or ask me to search for weather online.", true
	case hasAny(q, lookupWords...):
		return r.wikipedia(ctx, query)
	}

	return "", false
}

// calculate evaluates a single binary operation like "12 times 4".
func calculate(expr string) (string, bool) {
	m := binaryOpRe.FindStringSubmatch(mathSubs.Replace(expr))
	if m == nil {
		return "", false
	}

	a, err1 := strconv.ParseFloat(m[1], 64)
	b, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return "", false
	}

	var v float64
	switch m[2] {
	case "+":
		v = a + b
	case "-":
		v = a - b
	case "*":
		v = a * b
	case "/":
		if b == 0 {
			return "", false
		}
		v = a / b
	}

	return strconv.FormatFloat(v, 'f', -1, 64), true
}

func (r *Responder) knowledge(query string) (string, bool) {
	q := normalize(stripLookup(query))
	if q == "" {
		return "", false
	}

	kb := r.config().Knowledge
	topics := make([]string, 0, len(kb))
	for topic := range kb {
		topics = append(topics, topic)
	}
	// Longest topic first so "machine learning" wins over "learning".
	sort.Slice(topics, func(i, j int) bool {
		if len(topics[i]) != len(topics[j]) {
			return len(topics[i]) > len(topics[j])
		}
		return topics[i] < topics[j]
	})

	for _, topic := range topics {
		if hasAny(q, topic) {
			return kb[topic] + " Would you like to know more about this topic, sir?", true
		}
	}
	return "", false
}

func (r *Responder) wikipedia(ctx context.Context, query string) (string, bool) {
	if r.wiki == nil {
		return "", false
	}

	topic := strings.TrimSpace(stripLookup(query))
	if len([]rune(topic)) < 2 {
		return "", false
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	s, err := r.wiki.Summary(cctx, topic)
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, ErrDisambiguous):
		return fmt.Sprintf("I found multiple topics related to '%s'. Could you be more specific, sir?", topic), true
	default:
		log.Debug("Wikipedia lookup failed", "topic", topic, "err", err)
		return "", false
	}
}

var lookupRe = regexp.MustCompile(`(?i)\b(who is|what is|what's|tell me about|explain|define|describe)\b`)

func stripLookup(query string) string {
	s := lookupRe.ReplaceAllString(query, " ")
	return strings.Trim(strings.TrimSpace(s), "?!. ")
}

type pattern struct {
	words []string
	reply func(r *Responder) string
}

func fixed(s string) func(*Responder) string { return func(*Responder) string { return s } }

var patterns = []pattern{
	{[]string{"programming", "code", "coding", "software", "development"}, fixed("Programming is the art of creating instructions for computers. I can help you with questions about various programming languages and concepts, sir.")},
	{[]string{"science", "physics", "chemistry", "biology", "scientific"}, fixed("Science is the systematic study of the natural world through observation and experimentation. I'd be happy to explain scientific concepts, sir.")},
	{[]string{"technology", "computer", "digital", "tech"}, fixed("Technology encompasses the application of scientific knowledge for practical purposes. I can discuss various technological topics with you, sir.")},
	{[]string{"history", "historical", "ancient", "civilization"}, fixed("History is the study of past events and human civilization. I can share information about historical topics, sir.")},
	{[]string{"health", "medical", "medicine", "doctor", "disease"}, fixed("Health and medicine are important topics. For medical advice, please consult healthcare professionals. I can share general health information, sir.")},
}

var questionReplies = []struct {
	prefix string
	reply  string
}{
	{"how", "That's an interesting 'how' question. I can help you find information about processes, methods, or procedures, sir."},
	{"why", "That's a thoughtful 'why' question about reasons or causes. I'd be happy to help you explore this topic, sir."},
	{"when", "For timing and scheduling questions, I can help you with time-related information, sir."},
	{"where", "For location-based questions, I can assist with geographical or positional information, sir."},
	{"what", "That's a good 'what' question about definitions or explanations. I can help clarify topics for you, sir."},
	{"who", "For questions about people or entities, I can help you find biographical or identifying information, sir."},
}

var chatter = []pattern{
	{[]string{"hello", "hi", "hey", "good morning", "good evening", "greetings"}, func(r *Responder) string {
		return greetingFor(r.now().Hour()) + ", sir! I'm JARVIS, your AI assistant. How may I help you today?"
	}},
	{[]string{"thank", "thanks", "thank you", "appreciate", "grateful"}, fixed("You're very welcome, sir! I'm always here to help and assist you.")},
	{[]string{"good job", "well done", "excellent", "great", "awesome", "amazing"}, fixed("Thank you for the kind words, sir. I'm here to assist you to the best of my abilities.")},
	{[]string{"help", "assist", "support", "guide"}, fixed("I'm here to help, sir! I can answer questions, search the web, take photos and screenshots, control system functions, perform calculations, and much more. What would you like me to do?")},
	{[]string{"think", "opinion", "believe", "prefer", "favorite"}, fixed("As an AI assistant, I don't have personal opinions, but I can provide information and different perspectives on topics to help you form your own views, sir.")},
	{[]string{"can you", "are you able", "do you know"}, fixed("I have many capabilities, sir! I can answer questions, control system functions, take photos and screenshots, perform calculations, search for information, and assist with various tasks. What would you like me to help you with?")},
}

func greetingFor(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 17:
		return "Good afternoon"
	case hour >= 17 && hour < 21:
		return "Good evening"
	default:
		return "Good night"
	}
}

func (r *Responder) patterns(query string) (string, bool) {
	q := normalize(query)

	for _, p := range patterns {
		if hasAny(q, p.words...) {
			return p.reply(r), true
		}
	}
	for _, qr := range questionReplies {
		if strings.HasPrefix(q, qr.prefix+" ") || q == qr.prefix {
			return qr.reply, true
		}
	}
	for _, p := range chatter {
		if hasAny(q, p.words...) {
			return p.reply(r), true
		}
	}
	return "", false
}

// normalize lowercases s and turns everything but letters, marks and digits
// into single spaces.
func normalize(s string) string {
	var b strings.Builder
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// hasAny reports whether the normalized text contains any of the phrases
// as whole words.
func hasAny(normalized string, phrases ...string) bool {
	padded := " " + normalized + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
