// Package places maps spoken location keywords (desktop, documents, ...) to
// directories under the user's home.
package places

import (
	"path/filepath"
	"strings"
)

// Place is one well-known user folder.
type Place struct {
	Key string
	Dir string
}

// Places is ordered by search priority.
type Places []Place

const DefaultKey = "desktop"

// Known returns the user folders for home on goos, in search priority order.
func Known(home, goos string) Places {
	videos := "Videos"
	if goos == "darwin" {
		videos = "Movies"
	}

	return Places{
		{Key: "desktop", Dir: filepath.Join(home, "Desktop")},
		{Key: "documents", Dir: filepath.Join(home, "Documents")},
		{Key: "downloads", Dir: filepath.Join(home, "Downloads")},
		{Key: "pictures", Dir: filepath.Join(home, "Pictures")},
		{Key: "music", Dir: filepath.Join(home, "Music")},
		{Key: "videos", Dir: filepath.Join(home, videos)},
	}
}

// Under builds the same folder set rooted at base. Used by tests and by
// deployments that keep the assistant's files away from the real home.
func Under(base string) Places {
	return Known(base, "linux")
}

func (p Places) Dir(key string) (string, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, pl := range p {
		if pl.Key == key {
			return pl.Dir, true
		}
	}
	return "", false
}

func (p Places) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, pl := range p {
		keys = append(keys, pl.Key)
	}
	return keys
}

// Resolve turns a location keyword or absolute path into a directory and a
// label suitable for a spoken reply. Anything else falls back to the desktop.
func (p Places) Resolve(location string) (dir, label string) {
	loc := strings.TrimSpace(location)
	if loc == "" {
		loc = DefaultKey
	}

	if d, ok := p.Dir(loc); ok {
		return d, strings.ToLower(loc)
	}

	if filepath.IsAbs(loc) {
		return filepath.Clean(loc), loc
	}

	d, _ := p.Dir(DefaultKey)
	return d, DefaultKey
}
