// Package notify shows desktop notifications and plays the listening chime.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	log "log/slog"

	godbus "github.com/godbus/dbus/v5"
)

const appName = "JARVIS"

type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Default picks the notifier for goos.
func Default(goos string) Notifier {
	switch goos {
	case "linux":
		return &DBus{Timeout: 5000}
	case "darwin":
		return AppleScript{}
	default:
		return Log{}
	}
}

// DBus talks to org.freedesktop.Notifications on the session bus.
type DBus struct {
	// Timeout in milliseconds, -1 lets the server decide.
	Timeout int32
}

func (d *DBus) Notify(ctx context.Context, title, body string) (err error) {
	conn, err := godbus.ConnectSessionBus(godbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.CallWithContext(ctx, "org.freedesktop.Notifications.Notify", 0,
		appName, uint32(0), "", title, body, []string{}, map[string]godbus.Variant{}, d.Timeout)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}

type AppleScript struct{}

func (AppleScript) Notify(ctx context.Context, title, body string) error {
	script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(body), strconv.Quote(title))
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}

// Log writes the notification to the log instead of the desktop.
type Log struct{}

func (Log) Notify(_ context.Context, title, body string) error {
	log.Info("Notification", "title", title, "body", body)
	return nil
}

// Fallback tries each notifier until one succeeds.
type Fallback []Notifier

func (f Fallback) Notify(ctx context.Context, title, body string) error {
	var last error
	for _, n := range f {
		if last = n.Notify(ctx, title, body); last == nil {
			return nil
		}
		log.Debug("Notifier failed", "notifier", fmt.Sprintf("%T", n), "err", last)
	}
	return last
}
