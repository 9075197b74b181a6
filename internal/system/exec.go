package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	log "log/slog"
)

type command struct {
	name string
	args []string
}

func (c command) run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

// start launches c without waiting for it; opened documents and apps outlive
// the request that asked for them.
func (c command) start() error {
	cmd := exec.Command(c.name, c.args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("Detached process exited", "cmd", c.name, "err", err)
		}
	}()
	return nil
}

// --- opener ---

type execOpener struct {
	goos string
	ok   bool
}

func newExecOpener(goos string, look lookFunc) *execOpener {
	o := &execOpener{goos: goos}
	switch goos {
	case "windows":
		o.ok = true
	case "darwin":
		_, err := look("open")
		o.ok = err == nil
	default:
		_, err := look("xdg-open")
		o.ok = err == nil
	}
	return o
}

func (o *execOpener) Available() bool { return o.ok }

func (o *execOpener) Open(_ context.Context, target string) error {
	if !o.ok {
		return ErrUnavailable
	}
	return openCommand(o.goos, target).start()
}

func openCommand(goos, target string) command {
	switch goos {
	case "windows":
		return command{name: "cmd", args: []string{"/c", "start", "", target}}
	case "darwin":
		return command{name: "open", args: []string{target}}
	default:
		return command{name: "xdg-open", args: []string{target}}
	}
}

// --- camera ---

const (
	cameraProbe   = 3
	cameraWidth   = 1280
	cameraHeight  = 720
	cameraTimeout = 15 * time.Second
)

type ffmpegCamera struct {
	goos string
	ok   bool
}

func newFFmpegCamera(goos string, look lookFunc) *ffmpegCamera {
	c := &ffmpegCamera{goos: goos}
	if goos == "linux" || goos == "darwin" {
		_, err := look("ffmpeg")
		c.ok = err == nil
	}
	return c
}

func (c *ffmpegCamera) Available() bool { return c.ok }

// Capture tries device indices in order; the first one that produces a
// non-empty frame wins.
func (c *ffmpegCamera) Capture(ctx context.Context, dst string) error {
	if !c.ok {
		return ErrUnavailable
	}

	var lastErr error
	for idx := 0; idx < cameraProbe; idx++ {
		cctx, cancel := context.WithTimeout(ctx, cameraTimeout)
		err := cameraCommand(c.goos, idx, dst).run(cctx)
		cancel()

		if err == nil {
			if info, serr := os.Stat(dst); serr == nil && info.Size() > 0 {
				log.Debug("Camera frame captured", "index", idx, "path", dst)
				return nil
			}
			err = fmt.Errorf("camera %d: empty frame", idx)
		}

		log.Debug("Camera probe failed", "index", idx, "err", err)
		lastErr = err
		_ = os.Remove(dst)
	}

	return fmt.Errorf("no readable camera: %w", lastErr)
}

func cameraCommand(goos string, idx int, dst string) command {
	size := fmt.Sprintf("%dx%d", cameraWidth, cameraHeight)
	if goos == "darwin" {
		return command{name: "ffmpeg", args: []string{
			"-y", "-loglevel", "error",
			"-f", "avfoundation", "-framerate", "30", "-video_size", size,
			"-i", strconv.Itoa(idx),
			"-frames:v", "1", dst,
		}}
	}
	return command{name: "ffmpeg", args: []string{
		"-y", "-loglevel", "error",
		"-f", "v4l2", "-video_size", size,
		"-i", "/dev/video" + strconv.Itoa(idx),
		"-frames:v", "1", dst,
	}}
}

// --- screen ---

type execScreen struct {
	goos string
	tool string
}

var linuxScreenTools = []string{"grim", "gnome-screenshot", "scrot", "import"}

func newExecScreen(goos string, look lookFunc) *execScreen {
	s := &execScreen{goos: goos}
	switch goos {
	case "darwin":
		if _, err := look("screencapture"); err == nil {
			s.tool = "screencapture"
		}
	case "windows":
		if _, err := look("powershell"); err == nil {
			s.tool = "powershell"
		}
	default:
		for _, t := range linuxScreenTools {
			if _, err := look(t); err == nil {
				s.tool = t
				break
			}
		}
	}
	return s
}

func (s *execScreen) Available() bool { return s.tool != "" }

func (s *execScreen) Capture(ctx context.Context, dst string) error {
	if s.tool == "" {
		return ErrUnavailable
	}
	return screenCommand(s.tool, dst).run(ctx)
}

const windowsScreenScript = `Add-Type -AssemblyName System.Windows.Forms,System.Drawing;` +
	`$b=[System.Windows.Forms.Screen]::PrimaryScreen.Bounds;` +
	`$bmp=New-Object System.Drawing.Bitmap $b.Width,$b.Height;` +
	`$g=[System.Drawing.Graphics]::FromImage($bmp);` +
	`$g.CopyFromScreen($b.Location,[System.Drawing.Point]::Empty,$b.Size);` +
	`$bmp.Save('%s')`

func screenCommand(tool, dst string) command {
	switch tool {
	case "gnome-screenshot":
		return command{name: tool, args: []string{"-f", dst}}
	case "scrot":
		return command{name: tool, args: []string{"-o", dst}}
	case "import":
		return command{name: tool, args: []string{"-window", "root", dst}}
	case "screencapture":
		return command{name: tool, args: []string{"-x", dst}}
	case "powershell":
		return command{name: tool, args: []string{"-NoProfile", "-Command", fmt.Sprintf(windowsScreenScript, dst)}}
	default:
		return command{name: tool, args: []string{dst}}
	}
}

// --- launcher ---

type execLauncher struct {
	goos string
}

func newExecLauncher(goos string) *execLauncher { return &execLauncher{goos: goos} }

// Launch starts an application from a shell-like command line taken from
// configuration ("code", "open -a Safari", "notepad.exe").
func (l *execLauncher) Launch(_ context.Context, line string) error {
	c, err := launchCommand(l.goos, line)
	if err != nil {
		return err
	}
	return c.start()
}

func launchCommand(goos, line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}

	switch {
	case goos == "windows" && !strings.HasSuffix(strings.ToLower(fields[0]), ".exe"):
		return command{name: "cmd", args: append([]string{"/c", "start", ""}, fields...)}, nil
	case goos == "darwin" && len(fields) > 2 && fields[0] == "open" && fields[1] == "-a":
		// application names contain spaces: "open -a Google Chrome"
		return command{name: "open", args: []string{"-a", strings.Join(fields[2:], " ")}}, nil
	}
	return command{name: fields[0], args: fields[1:]}, nil
}
