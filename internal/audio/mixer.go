// Package audio drives the system mixer, ducks other applications while the
// assistant speaks, and records from the microphone.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

var ErrUnsupported = errors.New("volume control not supported on this platform")

// Runner executes a command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type Action int

const (
	Mute Action = iota
	Unmute
	Up
	Down
)

func (a Action) String() string {
	switch a {
	case Mute:
		return "mute"
	case Unmute:
		return "unmute"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// Mixer changes the default output's volume.
type Mixer struct {
	goos string
	step int
	run  Runner
}

func NewMixer(goos string, step int, run Runner) *Mixer {
	if step <= 0 {
		step = 10
	}
	if run == nil {
		run = ExecRunner
	}
	return &Mixer{goos: goos, step: step, run: run}
}

func (m *Mixer) Apply(ctx context.Context, a Action) error {
	name, args, err := m.command(a)
	if err != nil {
		return err
	}

	if _, err := m.run(ctx, name, args...); err != nil {
		return fmt.Errorf("volume %s: %w", a, err)
	}
	return nil
}

func (m *Mixer) command(a Action) (string, []string, error) {
	switch m.goos {
	case "linux":
		const sink = "@DEFAULT_SINK@"
		switch a {
		case Mute:
			return "pactl", []string{"set-sink-mute", sink, "1"}, nil
		case Unmute:
			return "pactl", []string{"set-sink-mute", sink, "0"}, nil
		case Up:
			return "pactl", []string{"set-sink-volume", sink, fmt.Sprintf("+%d%%", m.step)}, nil
		case Down:
			return "pactl", []string{"set-sink-volume", sink, fmt.Sprintf("-%d%%", m.step)}, nil
		}

	case "darwin":
		var script string
		switch a {
		case Mute:
			script = "set volume output muted true"
		case Unmute:
			script = "set volume output muted false"
		case Up:
			script = fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) + %d)", m.step)
		case Down:
			script = fmt.Sprintf("set volume output volume ((output volume of (get volume settings)) - %d)", m.step)
		}
		if script != "" {
			return "osascript", []string{"-e", script}, nil
		}

	case "windows":
		// media keys: 173 mute toggle, 174 down, 175 up
		key := map[Action]int{Mute: 173, Unmute: 173, Up: 175, Down: 174}[a]
		if key != 0 {
			return "powershell", []string{"-NoProfile", "-Command",
				fmt.Sprintf("(New-Object -ComObject WScript.Shell).SendKeys([char]%d)", key)}, nil
		}
	}

	return "", nil, ErrUnsupported
}
