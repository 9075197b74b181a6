//go:build espeak

package main

import (
	"jarvis/internal/config"
	"jarvis/internal/tts"
)

func newEngine(_ string, s config.Speech) tts.Engine {
	return tts.LibEngine{Rate: s.Rate}
}
