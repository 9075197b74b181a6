//go:build !espeak

package main

import (
	"jarvis/internal/config"
	"jarvis/internal/tts"
)

func newEngine(goos string, s config.Speech) tts.Engine {
	return tts.NewExecEngine(goos, s.Voice, s.Rate)
}
