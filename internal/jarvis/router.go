// Package jarvis turns one spoken or typed command into one reply. File
// operations are tried first, then system commands, then the assistant's
// question answering, then a generic fallback.
package jarvis

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	log "log/slog"

	"jarvis/internal/audio"
	"jarvis/internal/config"
	"jarvis/internal/confirm"
	"jarvis/internal/fileops"
	"jarvis/internal/lang"
	"jarvis/internal/locator"
	"jarvis/internal/metrics"
	"jarvis/internal/nlu"
	"jarvis/internal/notify"
	"jarvis/internal/sysinfo"
	"jarvis/internal/system"
)

const (
	emptyReply    = "I didn't hear anything, sir. Could you please repeat that?"
	greetingReply = "Hello! I'm JARVIS, your AI assistant. How may I help you today, sir?"
	crashReply    = "I encountered an error processing your request, sir. Please try again."
	fallbackReply = "I understand you said '%s', but I'm not sure how to help with that, sir. Could you try rephrasing it or ask me something else?"

	// deferred confirmation actions outlive the request that armed them
	actionTimeout = 30 * time.Second
)

type Responder interface {
	Answer(ctx context.Context, query string) (string, bool)
}

type Speaker interface {
	Say(text, lang string)
}

type VolumeControl interface {
	Apply(ctx context.Context, a audio.Action) error
}

type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type StatusSource interface {
	Collect(ctx context.Context) (sysinfo.Snapshot, error)
}

type Scheduler interface {
	Remind(task string, d time.Duration) string
	Timer(d time.Duration) string
}

// Deps are the router's collaborators. Everything except Config, Locator
// and Files may be nil; the matching commands then report that the feature
// is unavailable.
type Deps struct {
	Config    *config.Store
	Locator   *locator.Locator
	Files     *fileops.Mutator
	Caps      system.Capabilities
	GOOS      string
	Responder Responder
	Speaker   Speaker
	Volume    VolumeControl
	Clipboard Clipboard
	Status    StatusSource
	Scheduler Scheduler
	Notifier  notify.Notifier
}

// Session is the conversational state of the single user: the pending
// yes/no question and, through the locator, the last search results.
type Session struct {
	Gate  *confirm.Gate
	Cache *locator.Cache
}

type Reply struct {
	Text     string `json:"response"`
	Language string `json:"language"`
	Intent   string `json:"intent"`
}

type Router struct {
	Deps
	session Session

	// one command at a time; the session is not safe to interleave
	mu sync.Mutex
}

func New(d Deps) *Router {
	return &Router{
		Deps: d,
		session: Session{
			Gate:  confirm.NewGate(),
			Cache: d.Locator.Cache(),
		},
	}
}

func (r *Router) Session() Session { return r.session }

// input is one command in the forms the handlers need.
type input struct {
	// original text minus the wake word, case preserved
	original string
	// lowercased with Hindi/Gujarati phrases mapped to English
	lower string
	// what argument extraction runs on
	text string
	lang string
}

// Route never fails: any panic below it becomes a generic apology.
func (r *Router) Route(ctx context.Context, raw string) (reply Reply) {
	start := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		if p := recover(); p != nil {
			log.Error("Router panic", "panic", p, "stack", string(debug.Stack()))
			reply = Reply{Text: crashReply, Language: lang.English, Intent: "error"}
		}
		metrics.RecordCommand(reply.Intent, reply.Language, time.Since(start))
		if r.Speaker != nil {
			r.Speaker.Say(reply.Text, reply.Language)
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reply{Text: emptyReply, Language: lang.English, Intent: "empty"}
	}

	in := r.prepare(raw)
	log.Debug("Routing", "command", in.original, "lang", in.lang)

	intent, text := r.dispatch(ctx, in)
	log.Info("Routed", "intent", intent)

	return Reply{Text: text, Language: in.lang, Intent: intent}
}

func (r *Router) prepare(raw string) input {
	in := input{lang: lang.Detect(raw)}
	in.original = stripWakeWord(raw, r.Config.Get().WakeWords)
	in.lower = strings.TrimSpace(lang.Normalize(in.original))

	in.text = in.original
	if in.lang != lang.English {
		in.text = in.lower
	}
	return in
}

func (r *Router) dispatch(ctx context.Context, in input) (string, string) {
	if in.lower == "" {
		return "greeting", greetingReply
	}

	// an open question swallows the next input
	if r.session.Gate.Awaiting() {
		_, msg := r.session.Gate.Resolve(in.lower)
		return "confirmation", msg
	}

	intent := nlu.Classify(in.lower)
	if h, ok := r.fileHandlers()[intent]; ok {
		return string(intent), h(ctx, in)
	}

	for _, c := range r.commands() {
		if c.match(in) {
			return c.name, c.run(ctx, in)
		}
	}

	if r.Responder != nil {
		if answer, ok := r.Responder.Answer(ctx, in.original); ok && strings.TrimSpace(answer) != "" {
			return "assistant", answer
		}
	}

	return "fallback", fmt.Sprintf(fallbackReply, in.original)
}

// stripWakeWord removes the first configured wake word the command starts
// with, plus any punctuation that followed it.
func stripWakeWord(raw string, wakeWords []string) string {
	lower := strings.ToLower(raw)
	if len(lower) != len(raw) {
		raw = lower
	}
	for _, w := range wakeWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || !strings.HasPrefix(lower, w) {
			continue
		}
		rest := raw[len(w):]
		// "jarvisfoo" is not a wake word
		if rest != "" && !strings.ContainsAny(rest[:1], " ,.!?:;") {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(rest, " ,.!?:;"))
	}
	return raw
}
