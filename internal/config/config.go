// Package config loads the assistant's lookup tables (wake words, websites,
// applications, knowledge base, songs) from YAML layered over built-in
// defaults, and reloads them when the file changes.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "log/slog"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Song struct {
	Title    string   `yaml:"title"`
	Artist   string   `yaml:"artist"`
	Keywords []string `yaml:"keywords"`
	Search   string   `yaml:"search"`
}

type Assistant struct {
	Model       string  `yaml:"model"`
	MaxTokens   int64   `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
	WikiURL     string  `yaml:"wiki_url"`
}

type Speech struct {
	Enabled bool   `yaml:"enabled"`
	Voice   string `yaml:"voice"`
	Rate    int    `yaml:"rate"`
	Duck    bool   `yaml:"duck"`
}

type Config struct {
	WakeWords []string `yaml:"wake_words"`
	// Websites maps a spoken site name to its URL.
	Websites map[string]string `yaml:"websites"`
	// Search maps an engine to a URL with a {query} placeholder.
	Search map[string]string `yaml:"search"`
	// Apps maps GOOS -> app name -> candidate command lines, tried in order.
	Apps      map[string]map[string][]string `yaml:"apps"`
	Knowledge map[string]string              `yaml:"knowledge"`
	Songs     []Song                         `yaml:"songs"`
	Assistant Assistant                      `yaml:"assistant"`
	Speech    Speech                         `yaml:"speech"`
}

// AppsFor returns the application table for goos.
func (c *Config) AppsFor(goos string) map[string][]string {
	if apps, ok := c.Apps[goos]; ok {
		return apps
	}
	return map[string][]string{}
}

func (c *Config) AssistantTimeout() time.Duration {
	d, err := time.ParseDuration(c.Assistant.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Store holds the current configuration and swaps it on reload.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
}

func NewStore(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cfg: cfg}, nil
}

// Static wraps an already built config; Reload and Watch are no-ops.
func Static(cfg *Config) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

// Reload re-reads the file. On a parse error the previous config stays.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	cfg, err := Load(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	return nil
}

const reloadDelay = 200 * time.Millisecond

// Watch reloads the config whenever the file changes, until ctx is done.
// The parent directory is watched so editors that replace the file on save
// are still noticed.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(reloadDelay)
			trigger = timer.C

		case <-trigger:
			trigger = nil
			if err := s.Reload(); err != nil {
				log.Warn("Config reload failed", "path", target, "err", err)
				continue
			}
			log.Info("Config reloaded", "path", target)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Config watcher error", "err", err)
		}
	}
}
