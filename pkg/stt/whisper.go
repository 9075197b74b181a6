// Package stt turns 16 kHz mono samples into text with whisper.cpp.
package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

var ErrNoSamples = errors.New("no audio samples provided")

type Options struct {
	// Language is a whisper code ("en", "hi", "gu") or "auto".
	Language string
	// TranslateToEn makes whisper emit English whatever was spoken.
	TranslateToEn bool
	// Threads <= 0 uses every CPU.
	Threads int
	// InitialPrompt biases decoding towards the assistant's vocabulary.
	InitialPrompt string
	// BeamSize > 0 enables beam search.
	BeamSize int
}

type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcriber owns one loaded model. Whisper contexts are not safe for
// concurrent use, so calls are serialised.
type Transcriber struct {
	mu    sync.Mutex
	model whisper.Model
}

func NewTranscriber(modelPath string) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m}, nil
}

func (t *Transcriber) Close() error {
	if t == nil || t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe expects pcm mono at 16 kHz in [-1, 1].
func (t *Transcriber) Transcribe(ctx context.Context, pcm []float32, opt Options) (Result, error) {
	if t == nil || t.model == nil {
		return Result{}, errors.New("nil model")
	}
	if len(pcm) == 0 {
		return Result{}, ErrNoSamples
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("new context: %w", err)
	}

	if opt.Language == "" {
		opt.Language = "auto"
	}
	if err := wctx.SetLanguage(opt.Language); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(opt.TranslateToEn)

	threads := opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if opt.BeamSize > 0 {
		wctx.SetBeamSize(opt.BeamSize)
	}
	if opt.InitialPrompt != "" {
		wctx.SetInitialPrompt(opt.InitialPrompt)
	}

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("next segment: %w", err)
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}

	lang := wctx.DetectedLanguage()
	if lang == "" {
		lang = wctx.Language()
	}

	return Result{Text: strings.Join(parts, " "), Language: lang}, nil
}
