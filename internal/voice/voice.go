// Package voice turns speech into command text, either from the microphone
// or from an uploaded clip.
package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "log/slog"

	"jarvis/internal/notify"
	"jarvis/pkg/audioconv"
	"jarvis/pkg/stt"
)

const maxClip = 60 * audioconv.TargetRate

var (
	ErrNoMicrophone = errors.New("microphone not available")
	ErrNoRecognizer = errors.New("speech recognition not configured")
	ErrNothingHeard = errors.New("nothing was recognised")
)

type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32, opt stt.Options) (stt.Result, error)
}

type Recorder interface {
	RecordUtterance(ctx context.Context) ([]float32, error)
}

type Voice struct {
	stt      Transcriber
	rec      Recorder
	chime    *notify.Chime
	notifier notify.Notifier
	opts     stt.Options
}

type Option func(*Voice)

func WithRecorder(r Recorder) Option        { return func(v *Voice) { v.rec = r } }
func WithChime(c *notify.Chime) Option      { return func(v *Voice) { v.chime = c } }
func WithNotifier(n notify.Notifier) Option { return func(v *Voice) { v.notifier = n } }
func WithOptions(o stt.Options) Option      { return func(v *Voice) { v.opts = o } }

func New(tr Transcriber, opts ...Option) *Voice {
	v := &Voice{
		stt:  tr,
		opts: stt.Options{Language: "auto"},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Listen chimes, records one utterance and transcribes it.
func (v *Voice) Listen(ctx context.Context) (string, error) {
	if v.rec == nil {
		return "", ErrNoMicrophone
	}
	if v.stt == nil {
		return "", ErrNoRecognizer
	}

	if err := v.chime.Play(); err != nil {
		log.Debug("Chime failed", "err", err)
	}
	if v.notifier != nil {
		if err := v.notifier.Notify(ctx, "JARVIS", "Listening..."); err != nil {
			log.Debug("Listening notification failed", "err", err)
		}
	}

	pcm, err := v.rec.RecordUtterance(ctx)
	if err != nil {
		return "", fmt.Errorf("record: %w", err)
	}
	log.Debug("Recorded", "samples", len(pcm))

	return v.transcribe(ctx, pcm)
}

// TranscribeFile decodes an uploaded clip; name supplies its format.
func (v *Voice) TranscribeFile(ctx context.Context, r io.Reader, name string) (string, error) {
	if v.stt == nil {
		return "", ErrNoRecognizer
	}

	pcm, err := audioconv.Decode(r, name, audioconv.Options{MaxSamples: maxClip})
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return v.transcribe(ctx, pcm)
}

func (v *Voice) transcribe(ctx context.Context, pcm []float32) (string, error) {
	res, err := v.stt.Transcribe(ctx, pcm, v.opts)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", ErrNothingHeard
	}
	log.Info("Transcribed", "text", text, "lang", res.Language)
	return text, nil
}
