// Package system wraps the OS tools the assistant drives: the default
// application opener, a camera, a screen grabber and the application launcher.
package system

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
)

var ErrUnavailable = errors.New("capability unavailable")

type Opener interface {
	Available() bool
	Open(ctx context.Context, target string) error
}

type Camera interface {
	Available() bool
	// Capture writes one frame to dst.
	Capture(ctx context.Context, dst string) error
}

type Screen interface {
	Available() bool
	Capture(ctx context.Context, dst string) error
}

type Launcher interface {
	Launch(ctx context.Context, command string) error
}

// Capabilities is the set of OS facilities detected at startup.
type Capabilities struct {
	Opener   Opener
	Camera   Camera
	Screen   Screen
	Launcher Launcher
}

type lookFunc func(file string) (string, error)

// Detect probes PATH for the tools each capability needs on goos.
func Detect(goos string) Capabilities {
	if goos == "" {
		goos = runtime.GOOS
	}
	return detect(goos, exec.LookPath)
}

func detect(goos string, look lookFunc) Capabilities {
	return Capabilities{
		Opener:   newExecOpener(goos, look),
		Camera:   newFFmpegCamera(goos, look),
		Screen:   newExecScreen(goos, look),
		Launcher: newExecLauncher(goos),
	}
}

// Available reports which capabilities can be used, keyed by name.
func (c Capabilities) Available() map[string]bool {
	return map[string]bool{
		"opener": c.Opener != nil && c.Opener.Available(),
		"camera": c.Camera != nil && c.Camera.Available(),
		"screen": c.Screen != nil && c.Screen.Available(),
	}
}
