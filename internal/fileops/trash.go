package fileops

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "log/slog"
)

var errTrashUnavailable = errors.New("trash unavailable")

// Trasher moves an entry somewhere it can be recovered from.
type Trasher interface {
	Trash(ctx context.Context, path string) error
}

// TrashChain tries each trasher in order until one succeeds.
type TrashChain []Trasher

func (c TrashChain) Trash(ctx context.Context, path string) error {
	errs := make([]error, 0, len(c))
	for _, t := range c {
		err := t.Trash(ctx, path)
		if err == nil {
			return nil
		}
		log.Debug("Trash attempt failed", "trasher", fmt.Sprintf("%T", t), "err", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return errTrashUnavailable
	}
	return errors.Join(errs...)
}

// DefaultTrash returns the OS trash facility followed by the plain trash
// folder, plus the folder Restore looks in.
func DefaultTrash(home, goos string, now func() time.Time) (TrashChain, string) {
	switch goos {
	case "darwin":
		dir := filepath.Join(home, ".Trash")
		return TrashChain{FinderTrash{}, &FolderTrash{Dir: dir, Now: now}}, dir
	case "windows":
		dir := filepath.Join(home, ".Trash")
		return TrashChain{RecycleBin{}, &FolderTrash{Dir: dir, Now: now}}, dir
	default:
		data := os.Getenv("XDG_DATA_HOME")
		if data == "" {
			data = filepath.Join(home, ".local", "share")
		}
		fd := &FreedesktopTrash{Root: filepath.Join(data, "Trash"), Now: now}
		return TrashChain{fd, &FolderTrash{Dir: fd.FilesDir(), Now: now}}, fd.FilesDir()
	}
}

// FreedesktopTrash implements the XDG trash layout: the entry goes to
// files/ and a .trashinfo record with its origin goes to info/.
type FreedesktopTrash struct {
	Root string
	Now  func() time.Time
}

func (t *FreedesktopTrash) FilesDir() string { return filepath.Join(t.Root, "files") }
func (t *FreedesktopTrash) InfoDir() string  { return filepath.Join(t.Root, "info") }

func (t *FreedesktopTrash) Trash(_ context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(t.FilesDir(), 0o700); err != nil {
		return fmt.Errorf("trash files dir: %w", err)
	}
	if err := os.MkdirAll(t.InfoDir(), 0o700); err != nil {
		return fmt.Errorf("trash info dir: %w", err)
	}

	name := filepath.Base(abs)
	var info *os.File
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = suffixed(name, strconv.Itoa(i))
		}
		info, err = os.OpenFile(filepath.Join(t.InfoDir(), candidate+".trashinfo"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			name = candidate
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("trashinfo: %w", err)
		}
	}

	_, werr := fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: abs}).EscapedPath(), now(t.Now).Format("2006-01-02T15:04:05"))
	if cerr := info.Close(); werr == nil {
		werr = cerr
	}
	infoPath := filepath.Join(t.InfoDir(), name+".trashinfo")
	if werr != nil {
		_ = os.Remove(infoPath)
		return fmt.Errorf("trashinfo: %w", werr)
	}

	if err := moveEntry(abs, filepath.Join(t.FilesDir(), name)); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}

// originalName reads the trashinfo record for a trashed entry. Returns ""
// when there is none.
func originalName(filesDir, name string) string {
	infoPath := filepath.Join(filepath.Dir(filesDir), "info", name+".trashinfo")
	data, err := os.ReadFile(infoPath)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		raw, found := strings.CutPrefix(strings.TrimSpace(line), "Path=")
		if !found {
			continue
		}
		p, err := url.PathUnescape(raw)
		if err != nil {
			return ""
		}
		return filepath.Base(p)
	}
	return ""
}

// FinderTrash asks Finder to trash the entry.
type FinderTrash struct{}

func (FinderTrash) Trash(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, abs)
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// RecycleBin sends the entry to the Windows recycle bin via PowerShell.
type RecycleBin struct{}

func (RecycleBin) Trash(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	method := "DeleteFile"
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		method = "DeleteDirectory"
	}
	script := fmt.Sprintf(`Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::%s('%s','OnlyErrorDialogs','SendToRecycleBin')`,
		method, strings.ReplaceAll(abs, "'", "''"))
	if out, err := exec.CommandContext(ctx, "powershell", "-NoProfile", "-Command", script).CombinedOutput(); err != nil {
		return fmt.Errorf("powershell: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// FolderTrash moves the entry into Dir with a _<unix-timestamp> suffix.
type FolderTrash struct {
	Dir string
	Now func() time.Time
}

func (t *FolderTrash) Trash(_ context.Context, path string) error {
	if t.Dir == "" {
		return errTrashUnavailable
	}
	if err := os.MkdirAll(t.Dir, PermDir); err != nil {
		return fmt.Errorf("trash folder: %w", err)
	}
	stamp := strconv.FormatInt(now(t.Now).Unix(), 10)
	return moveEntry(path, filepath.Join(t.Dir, suffixed(filepath.Base(path), stamp)))
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}
