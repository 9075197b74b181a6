package tts

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	log "log/slog"
)

const (
	maxChars   = 500
	duckFactor = 0.3
	duckFade   = 250 * time.Millisecond
)

// Ducker lowers other applications while the assistant talks.
type Ducker interface {
	DuckOthers(ctx context.Context, factor float64, duration time.Duration) error
	UnduckOthers(ctx context.Context, duration time.Duration) error
}

type Speaker struct {
	engine Engine
	ducker Ducker
	onDone func(err error)

	base     context.Context
	shutdown context.CancelFunc

	mu     sync.Mutex // guards cancel and orders wg.Add before Close
	cancel context.CancelFunc

	speaking sync.Mutex // one engine process at a time
	wg       sync.WaitGroup
}

type Option func(*Speaker)

func WithDucker(d Ducker) Option { return func(s *Speaker) { s.ducker = d } }

// WithDoneHook is called after every utterance with the engine's error.
func WithDoneHook(f func(err error)) Option { return func(s *Speaker) { s.onDone = f } }

func NewSpeaker(engine Engine, opts ...Option) *Speaker {
	base, shutdown := context.WithCancel(context.Background())
	s := &Speaker{
		engine:   engine,
		base:     base,
		shutdown: shutdown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Say starts speaking text and returns immediately. Whatever was being
// said is cancelled.
func (s *Speaker) Say(text, lang string) {
	text = Clean(text)
	if text == "" || s.base.Err() != nil {
		return
	}

	s.mu.Lock()
	// Close may have run since the check above; wg.Add must not race Wait
	if s.base.Err() != nil {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		s.speaking.Lock()
		defer s.speaking.Unlock()

		if ctx.Err() != nil {
			return
		}

		err := s.speak(ctx, text, lang)
		if err != nil && ctx.Err() == nil {
			log.Debug("Speech failed", "err", err)
		}
		if s.onDone != nil {
			s.onDone(err)
		}
	}()
}

func (s *Speaker) speak(ctx context.Context, text, lang string) error {
	if s.ducker != nil {
		if err := s.ducker.DuckOthers(ctx, duckFactor, duckFade); err != nil {
			log.Debug("Duck failed", "err", err)
		}
		defer func() {
			uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			if err := s.ducker.UnduckOthers(uctx, duckFade); err != nil {
				log.Debug("Unduck failed", "err", err)
			}
		}()
	}

	return s.engine.Speak(ctx, text, lang)
}

// Stop cuts off the current utterance.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close stops speech and waits for the worker goroutines to exit.
func (s *Speaker) Close() {
	s.mu.Lock()
	s.shutdown()
	s.mu.Unlock()
	s.wg.Wait()
}

var (
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	oddRe    = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s.,!?;:\-'"()]`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// Clean strips markup and symbols the engines stumble over and caps the
// length.
func Clean(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	text = oddRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))

	if r := []rune(text); len(r) > maxChars {
		text = string(r[:maxChars]) + "..."
	}
	return text
}
