// Package tts speaks replies in the background. A newer utterance cuts off
// the one playing instead of queueing behind it.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var ErrNoEngine = errors.New("no speech engine available")

type Engine interface {
	// Speak blocks until the text has been spoken or ctx is done.
	Speak(ctx context.Context, text, lang string) error
}

// ExecEngine shells out to the platform's speech command.
type ExecEngine struct {
	goos  string
	voice string
	rate  int
	look  func(string) (string, error)
}

func NewExecEngine(goos, voice string, rate int) *ExecEngine {
	return &ExecEngine{goos: goos, voice: voice, rate: rate, look: exec.LookPath}
}

func (e *ExecEngine) Speak(ctx context.Context, text, lang string) error {
	name, args, err := e.command(text, lang)
	if err != nil {
		return err
	}

	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (e *ExecEngine) command(text, lang string) (string, []string, error) {
	rate := e.rate
	if rate <= 0 {
		rate = 170
	}

	switch e.goos {
	case "darwin":
		args := []string{"-r", strconv.Itoa(rate)}
		if e.voice != "" {
			args = append(args, "-v", e.voice)
		}
		return "say", append(args, text), nil

	case "windows":
		// SAPI rate is -10..10 with 0 as normal speed
		sapi := max(min((rate-170)/20, 10), -10)
		script := fmt.Sprintf(
			"Add-Type -AssemblyName System.Speech; $s = New-Object System.Speech.Synthesis.SpeechSynthesizer; $s.Rate = %d; $s.Speak(%s)",
			sapi, psQuote(text))
		return "powershell", []string{"-NoProfile", "-Command", script}, nil

	default:
		voice := e.voice
		if voice == "" {
			voice = lang
		}
		if voice == "" {
			voice = "en"
		}
		for _, bin := range []string{"espeak-ng", "espeak"} {
			if _, err := e.look(bin); err == nil {
				return bin, []string{"-v", voice, "-s", strconv.Itoa(rate), text}, nil
			}
		}
		return "", nil, ErrNoEngine
	}
}

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Nop discards speech. Used with --no-speech.
type Nop struct{}

func (Nop) Speak(context.Context, string, string) error { return nil }
