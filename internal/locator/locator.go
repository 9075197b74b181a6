// Package locator finds files and folders by name fragment across the user's
// folders and a few system roots.
package locator

import (
	"errors"
	"io/fs"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
)

type Kind string

const (
	File   Kind = "file"
	Folder Kind = "folder"
)

const (
	DefaultMaxResults = 20
	maxDepth          = 3
)

// Match is one located filesystem entry.
type Match struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	Size     int64  `json:"size_bytes"`
	Parent   string `json:"containing_directory"`
	Location string `json:"location"`
}

type Result struct {
	Success bool    `json:"success"`
	Matches []Match `json:"matches"`
	Count   int     `json:"count"`
	Message string  `json:"message,omitempty"`
}

type Locator struct {
	roots []Root
	cache *Cache
}

func New(roots []Root, cache *Cache) *Locator {
	if cache == nil {
		cache = NewCache()
	}
	return &Locator{roots: roots, cache: cache}
}

func (l *Locator) Cache() *Cache { return l.cache }

// Find scans the roots in priority order and returns at most max entries
// whose name contains term (case-insensitive). The result replaces the cache.
func (l *Locator) Find(term string, max int) Result {
	if max <= 0 {
		max = DefaultMaxResults
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		l.cache.Replace(nil)
		return Result{Matches: []Match{}, Message: "Nothing to search for."}
	}

	s := &scan{needle: needle, max: max, seen: make(map[string]bool)}

	for _, root := range l.roots {
		if s.full() {
			break
		}
		s.shallow(root)
		if root.Recursive && !s.full() {
			s.deep(root)
		}
	}

	log.Debug("Search finished", "term", term, "count", len(s.matches))

	l.cache.Replace(s.matches)

	matches := s.matches
	if matches == nil {
		matches = []Match{}
	}
	return Result{Success: true, Matches: matches, Count: len(matches)}
}

type scan struct {
	needle  string
	max     int
	seen    map[string]bool
	matches []Match
}

func (s *scan) full() bool { return len(s.matches) >= s.max }

func (s *scan) shallow(root Root) {
	entries, err := os.ReadDir(root.Path)
	if err != nil {
		log.Debug("Skipping search root", "root", root.Path, "err", err)
		return
	}

	for _, e := range entries {
		if s.full() {
			return
		}
		s.consider(root, filepath.Join(root.Path, e.Name()), e)
	}
}

func (s *scan) deep(root Root) {
	// WalkDir does not follow a root that is itself a symlink, so walk its
	// target and report paths under the root as configured.
	walk := root.Path
	if resolved, err := filepath.EvalSymlinks(root.Path); err == nil {
		walk = resolved
	}

	err := filepath.WalkDir(walk, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug("Walk error", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if s.full() {
			return fs.SkipAll
		}
		if path == walk {
			return nil
		}

		rel, err := filepath.Rel(walk, path)
		if err != nil {
			return nil
		}
		path = filepath.Join(root.Path, rel)

		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		depth := len(strings.Split(rel, string(filepath.Separator)))
		if depth > 1 {
			s.consider(root, path, d)
		}
		if d.IsDir() && depth >= maxDepth {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		log.Debug("Walk aborted", "root", root.Path, "walked", walk, "err", err)
	}
}

func (s *scan) consider(root Root, path string, d fs.DirEntry) {
	if s.seen[path] || !strings.Contains(strings.ToLower(d.Name()), s.needle) {
		return
	}
	s.seen[path] = true

	m := Match{
		Path:     path,
		Name:     d.Name(),
		Kind:     File,
		Parent:   filepath.Dir(path),
		Location: root.Path,
	}

	// Stat follows symlinks so a link to a folder reports as a folder.
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		m.Kind = Folder
	case err == nil:
		m.Size = info.Size()
	case d.IsDir():
		m.Kind = Folder
	}

	s.matches = append(s.matches, m)
}
