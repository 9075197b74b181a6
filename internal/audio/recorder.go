package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 16000

	frameSize        = 320 // 20ms
	frameDuration    = 20 * time.Millisecond
	silenceThreshRMS = 0.015
	trailingSilence  = 600 * time.Millisecond
	maxUtterance     = 10 * time.Second
)

var ErrNoAudio = errors.New("no audio recorded")

// Recorder captures mono 16 kHz float32 samples from the default input.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	return nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// RecordUtterance records until the speaker pauses, the maximum length is
// reached or ctx is done.
func (r *Recorder) RecordUtterance(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	var vad utterance
	maxFrames := int(maxUtterance / frameDuration)

	for range maxFrames {
		if ctx.Err() != nil {
			break
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}
		if vad.push(buf) {
			break
		}
	}

	if len(vad.samples) == 0 {
		return nil, ErrNoAudio
	}
	return vad.samples, nil
}

// utterance keeps frames from the first voiced one until the trailing
// silence is long enough.
type utterance struct {
	samples  []float32
	speaking bool
	silent   int
}

// push appends a frame and reports whether the utterance ended.
func (u *utterance) push(frame []float32) bool {
	if frameRMS(frame) > silenceThreshRMS {
		u.speaking = true
		u.silent = 0
		u.samples = append(u.samples, frame...)
		return false
	}

	if !u.speaking {
		return false
	}

	u.silent++
	if time.Duration(u.silent)*frameDuration >= trailingSilence {
		return true
	}
	u.samples = append(u.samples, frame...)
	return false
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
