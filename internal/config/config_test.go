package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
wake_words: ["computer"]
websites:
  intranet: https://intranet.example.com
apps:
  linux:
    editor: ["emacs"]
assistant:
  model: gpt-4o-mini
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"computer"}, cfg.WakeWords)
	assert.Equal(t, "https://intranet.example.com", cfg.Websites["intranet"])
	assert.Equal(t, "https://www.google.com", cfg.Websites["google"])
	assert.Equal(t, []string{"emacs"}, cfg.AppsFor("linux")["editor"])
	assert.Equal(t, "gpt-4o-mini", cfg.Assistant.Model)
	assert.Equal(t, int64(200), cfg.Assistant.MaxTokens)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("websites: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestAssistantTimeout(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10*time.Second, cfg.AssistantTimeout())

	cfg.Assistant.Timeout = "3s"
	assert.Equal(t, 3*time.Second, cfg.AssistantTimeout())

	cfg.Assistant.Timeout = "soon"
	assert.Equal(t, 10*time.Second, cfg.AssistantTimeout())
}

func TestStoreReloadKeepsPreviousOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`wake_words: ["friday"]`), 0o644))

	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"friday"}, s.Get().WakeWords)

	require.NoError(t, os.WriteFile(path, []byte("wake_words: [broken"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, []string{"friday"}, s.Get().WakeWords)
}

func TestStoreWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jarvis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`wake_words: ["friday"]`), 0o644))

	s, err := NewStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`wake_words: ["karen"]`), 0o644))

	assert.Eventually(t, func() bool {
		words := s.Get().WakeWords
		return len(words) == 1 && words[0] == "karen"
	}, 3*time.Second, 50*time.Millisecond)
}
