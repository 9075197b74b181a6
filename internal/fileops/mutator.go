// Package fileops creates, removes, renames, moves, copies and opens
// filesystem entries on behalf of spoken commands. Every operation returns
// a Result; nothing panics or leaks an error past this package.
package fileops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "log/slog"

	"jarvis/internal/locator"
	"jarvis/internal/places"
	"jarvis/internal/system"
)

const (
	DefaultExt     = ".txt"
	resolveLimit   = 5
	photoPrefix    = "JARVIS_photo_"
	shotPrefix     = "JARVIS_screenshot_"
	fileNameLayout = "20060102_150405"
)

// Finder is the part of the locator the mutator needs to turn a bare name
// into a path.
type Finder interface {
	Find(term string, max int) locator.Result
}

type Mutator struct {
	places   places.Places
	finder   Finder
	cache    *locator.Cache
	opener   system.Opener
	camera   system.Camera
	screen   system.Screen
	trash    Trasher
	trashDir string
	now      func() time.Time
}

type Option func(*Mutator)

func WithOpener(o system.Opener) Option { return func(m *Mutator) { m.opener = o } }
func WithCamera(c system.Camera) Option { return func(m *Mutator) { m.camera = c } }
func WithScreen(s system.Screen) Option { return func(m *Mutator) { m.screen = s } }

// WithTrash sets the trash chain and the folder Restore searches.
func WithTrash(t Trasher, dir string) Option {
	return func(m *Mutator) {
		m.trash = t
		m.trashDir = dir
	}
}

func WithClock(now func() time.Time) Option { return func(m *Mutator) { m.now = now } }

func New(p places.Places, finder Finder, cache *locator.Cache, opts ...Option) *Mutator {
	m := &Mutator{
		places: p,
		finder: finder,
		cache:  cache,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cache == nil {
		m.cache = locator.NewCache()
	}
	return m
}

// CreateFile writes a new file with a starter body. A missing extension
// becomes .txt and an existing name gets the smallest free _N suffix.
func (m *Mutator) CreateFile(name, location string) Result {
	name = strings.TrimSpace(name)
	if err := validName(name); err != nil {
		return fail(KindInvalid, "Please tell me a valid file name, sir.")
	}
	if filepath.Ext(name) == "" {
		name += DefaultExt
	}

	dir, label := m.places.Resolve(location)
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return m.failCreate(err, name, label)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	body := boilerplate(ext, stem, m.now())

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = suffixed(name, strconv.Itoa(i))
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, PermFile)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return m.failCreate(err, name, label)
		}

		_, werr := f.Write(body)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			_ = os.Remove(path)
			return m.failCreate(werr, name, label)
		}

		log.Debug("File created", "path", path)
		return ok(fmt.Sprintf("Successfully created '%s' in %s", candidate, label), path, candidate)
	}
}

// CreateFolder makes a directory (and its parents) with the same naming
// rules as CreateFile, minus the default extension.
func (m *Mutator) CreateFolder(name, location string) Result {
	name = strings.TrimSpace(name)
	if err := validName(name); err != nil {
		return fail(KindInvalid, "Please tell me a valid folder name, sir.")
	}

	dir, label := m.places.Resolve(location)
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return m.failFolder(err, name, label)
	}

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = name + "_" + strconv.Itoa(i)
		}
		path := filepath.Join(dir, candidate)

		err := os.Mkdir(path, PermDir)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return m.failFolder(err, name, label)
		}

		log.Debug("Folder created", "path", path)
		return ok(fmt.Sprintf("Successfully created folder '%s' in %s", candidate, label), path, candidate)
	}
}

func (m *Mutator) failCreate(err error, name, label string) Result {
	if KindOf(err) == KindPermission {
		return fail(KindPermission, "Permission denied: Cannot create '%s' in %s", name, label)
	}
	return fail(KindOf(err), "Error creating file: %v", err)
}

func (m *Mutator) failFolder(err error, name, label string) Result {
	if KindOf(err) == KindPermission {
		return fail(KindPermission, "Permission denied: Cannot create folder '%s' in %s", name, label)
	}
	return fail(KindOf(err), "Error creating folder: %v", err)
}

// Resolve turns a path, a 1-based result number or a bare name into exactly
// one existing entry. verb completes "Could not find 'x' to <verb>".
func (m *Mutator) Resolve(target, verb string) Result {
	target = strings.TrimSpace(target)
	if target == "" {
		return fail(KindInvalid, "Please tell me which file to %s, sir.", verb)
	}

	// a number picks from the last search; with no search it may be a name
	n, numErr := strconv.Atoi(target)
	if numErr == nil && m.cache.Len() > 0 {
		match, res := m.byIndex(n)
		if !res.Success {
			return res
		}
		return m.existing(match.Path, target)
	}

	if filepath.IsAbs(target) {
		return m.existing(target, target)
	}

	found := m.finder.Find(target, resolveLimit)
	switch {
	case len(found.Matches) == 0 && numErr == nil:
		_, res := m.byIndex(n)
		return res
	case len(found.Matches) == 0:
		return fail(KindNotFound, "Could not find '%s' to %s", target, verb)
	case len(found.Matches) > 1:
		return fail(KindAmbiguous, "Multiple files found:\n%s\nPlease be more specific.", listMatches(found.Matches))
	}
	return m.existing(found.Matches[0].Path, target)
}

func (m *Mutator) existing(path, asked string) Result {
	if _, err := os.Lstat(path); err != nil {
		if KindOf(err) == KindPermission {
			return fail(KindPermission, "Permission denied: Cannot access '%s'", asked)
		}
		return fail(KindNotFound, "File not found: %s", asked)
	}
	return ok("", path, filepath.Base(path))
}

func (m *Mutator) byIndex(n int) (locator.Match, Result) {
	size := m.cache.Len()
	if size == 0 {
		return locator.Match{}, fail(KindInvalid, "No recent search results. Please search for files first.")
	}
	match, found := m.cache.At(n)
	if !found {
		return locator.Match{}, fail(KindInvalid, "Invalid number. Choose between 1 and %d", size)
	}
	return match, ok("", match.Path, match.Name)
}

func listMatches(matches []locator.Match) string {
	var b strings.Builder
	for i, mt := range matches {
		if i == resolveLimit {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, mt.Name, mt.Path)
	}
	return b.String()
}

// Delete removes an entry outright when permanent is set, otherwise hands it
// to the trash chain.
func (m *Mutator) Delete(ctx context.Context, target string, permanent bool) Result {
	res := m.Resolve(target, "delete")
	if !res.Success {
		return res
	}
	return m.DeletePath(ctx, res.Path, permanent)
}

// DeletePath is Delete for an already resolved path.
func (m *Mutator) DeletePath(ctx context.Context, path string, permanent bool) Result {
	info, err := os.Lstat(path)
	if err != nil {
		return fail(KindNotFound, "File not found: %s", path)
	}

	kind := "file"
	if info.IsDir() {
		kind = "folder"
	}
	name := filepath.Base(path)

	if permanent {
		if err := os.RemoveAll(path); err != nil {
			return m.failDelete(err, name)
		}
		log.Info("Entry deleted", "path", path)
		return ok(fmt.Sprintf("Permanently deleted %s '%s'", kind, name), "", name)
	}

	if m.trash == nil {
		return fail(KindUnavailable, "Could not access trash. Use permanent deletion if needed.")
	}
	if err := m.trash.Trash(ctx, path); err != nil {
		log.Warn("Trash failed", "path", path, "err", err)
		if KindOf(err) == KindPermission {
			return m.failDelete(err, name)
		}
		return fail(KindUnavailable, "Could not access trash. Use permanent deletion if needed.")
	}

	log.Info("Entry trashed", "path", path)
	return ok(fmt.Sprintf("Moved %s '%s' to trash", kind, name), "", name)
}

func (m *Mutator) failDelete(err error, name string) Result {
	if KindOf(err) == KindPermission {
		return fail(KindPermission, "Permission denied: Cannot delete '%s'", name)
	}
	return fail(KindOf(err), "Error deleting file: %v", err)
}

// Rename gives an entry a new name in the same directory.
func (m *Mutator) Rename(target, newName string) Result {
	newName = strings.TrimSpace(newName)
	if err := validName(newName); err != nil {
		return fail(KindInvalid, "'%s' is not a valid name, sir.", newName)
	}

	res := m.Resolve(target, "rename")
	if !res.Success {
		return res
	}

	oldPath := res.Path
	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if _, err := os.Lstat(newPath); err == nil {
		return fail(KindExists, "Name '%s' already exists in the same location", newName)
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		if KindOf(err) == KindPermission {
			return fail(KindPermission, "Permission denied: Cannot rename '%s'", res.Name)
		}
		return fail(KindOf(err), "Error renaming file: %v", err)
	}

	log.Info("Entry renamed", "from", oldPath, "to", newPath)
	return ok(fmt.Sprintf("Renamed '%s' to '%s'", res.Name, newName), newPath, newName)
}

// Move relocates an entry into destination, a location keyword or a directory.
func (m *Mutator) Move(target, destination string) Result {
	return m.transfer(target, destination, "move", moveEntry)
}

// Copy duplicates an entry (recursively for folders) into destination.
func (m *Mutator) Copy(target, destination string) Result {
	return m.transfer(target, destination, "copy", copyEntry)
}

func (m *Mutator) transfer(target, destination, verb string, do func(src, dst string) error) Result {
	res := m.Resolve(target, verb)
	if !res.Success {
		return res
	}

	dir, label, dres := m.destination(destination)
	if !dres.Success {
		return dres
	}
	if err := validateDestination(res.Path, dir); err != nil {
		return fail(KindInvalid, "I can't %s '%s' into itself, sir.", verb, res.Name)
	}
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return fail(KindOf(err), "Cannot use '%s' as a destination: %v", label, err)
	}

	dst := filepath.Join(dir, res.Name)
	if filepath.Clean(dst) == filepath.Clean(res.Path) {
		return fail(KindExists, "'%s' is already in %s", res.Name, label)
	}
	if _, err := os.Lstat(dst); err == nil {
		return fail(KindExists, "Name '%s' already exists in %s", res.Name, label)
	}

	if err := do(res.Path, dst); err != nil {
		if KindOf(err) == KindPermission {
			return fail(KindPermission, "Permission denied: Cannot %s '%s'", verb, res.Name)
		}
		return fail(KindOf(err), "Error trying to %s '%s': %v", verb, res.Name, err)
	}

	past := "Moved"
	if verb == "copy" {
		past = "Copied"
	}
	log.Info("Entry transferred", "op", verb, "from", res.Path, "to", dst)
	return ok(fmt.Sprintf("%s '%s' to %s", past, res.Name, label), dst, res.Name)
}

// destination turns a location keyword, an absolute path or the name of an
// existing folder into a directory. Unknown names are an error, not the
// desktop.
func (m *Mutator) destination(dest string) (dir, label string, res Result) {
	dest = strings.TrimSpace(dest)
	if _, known := m.places.Dir(dest); known || dest == "" || filepath.IsAbs(dest) {
		dir, label = m.places.Resolve(dest)
		return dir, label, ok("", dir, label)
	}

	found := m.finder.Find(dest, locator.DefaultMaxResults)
	var folders, exact []locator.Match
	for _, mt := range found.Matches {
		if mt.Kind != locator.Folder {
			continue
		}
		folders = append(folders, mt)
		if strings.EqualFold(mt.Name, dest) {
			exact = append(exact, mt)
		}
	}
	if len(exact) > 0 {
		folders = exact
	}

	switch len(folders) {
	case 0:
		return "", "", fail(KindInvalid, "Could not find folder '%s', sir.", dest)
	case 1:
		return folders[0].Path, folders[0].Name, ok("", folders[0].Path, folders[0].Name)
	}
	return "", "", fail(KindAmbiguous, "Multiple folders named '%s' found:\n%s\nPlease be more specific.", dest, listMatches(folders))
}

// Open hands a path, or a 1-based number into the last search results, to
// the OS default application.
func (m *Mutator) Open(ctx context.Context, target string) Result {
	target = strings.TrimSpace(target)
	if target == "" {
		return fail(KindInvalid, "File path or number is required")
	}
	if n, err := strconv.Atoi(target); err == nil {
		return m.OpenIndex(ctx, n)
	}
	return m.openPath(ctx, target)
}

func (m *Mutator) OpenIndex(ctx context.Context, n int) Result {
	match, res := m.byIndex(n)
	if !res.Success {
		return res
	}
	return m.openPath(ctx, match.Path)
}

func (m *Mutator) openPath(ctx context.Context, path string) Result {
	if _, err := os.Stat(path); err != nil {
		return fail(KindNotFound, "File not found: %s", path)
	}
	if m.opener == nil || !m.opener.Available() {
		return fail(KindUnavailable, "I can't open files on this system, sir.")
	}

	name := filepath.Base(path)
	if err := m.opener.Open(ctx, path); err != nil {
		return fail(KindOf(err), "Failed to open file: %v", err)
	}
	return ok(fmt.Sprintf("Opened '%s' successfully", name), path, name)
}

// CapturePhotoAndOpen takes one camera frame into the pictures folder and
// opens it.
func (m *Mutator) CapturePhotoAndOpen(ctx context.Context) Result {
	if m.camera == nil || !m.camera.Available() {
		return fail(KindUnavailable, "No camera found or camera not accessible.")
	}

	dir, _ := m.places.Resolve("pictures")
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return fail(KindOf(err), "Photo capture failed: %v", err)
	}

	name := photoPrefix + m.now().Format(fileNameLayout) + ".jpg"
	path := filepath.Join(dir, name)

	if err := m.camera.Capture(ctx, path); err != nil {
		log.Warn("Camera capture failed", "err", err)
		return fail(KindUnavailable, "No camera found or camera not accessible.")
	}

	opened := m.openPath(ctx, path)
	msg := fmt.Sprintf("Photo captured and saved as %s", name)
	if opened.Success {
		msg += " and opened"
	}
	return ok(msg+", sir.", path, name)
}

// Screenshot saves the screen to the desktop.
func (m *Mutator) Screenshot(ctx context.Context) Result {
	if m.screen == nil || !m.screen.Available() {
		return fail(KindUnavailable, "Screenshot tool is not available on this system, sir.")
	}

	dir, _ := m.places.Resolve(places.DefaultKey)
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return fail(KindOf(err), "Screenshot failed: %v", err)
	}

	name := shotPrefix + m.now().Format(fileNameLayout) + ".png"
	path := filepath.Join(dir, name)
	if err := m.screen.Capture(ctx, path); err != nil {
		return fail(KindOf(err), "Screenshot failed: %v", err)
	}
	return ok(fmt.Sprintf("Screenshot saved as %s on your desktop, sir.", name), path, name)
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return ErrInvalid
	}
	return nil
}

// suffixed inserts _s between a file's stem and its extension.
func suffixed(name, s string) string {
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	return strings.TrimSuffix(name, ext) + "_" + s + ext
}
