package places

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnown(t *testing.T) {
	linux := Known("/home/tony", "linux")
	assert.Equal(t, []string{"desktop", "documents", "downloads", "pictures", "music", "videos"}, linux.Keys())

	dir, ok := linux.Dir("videos")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/home/tony", "Videos"), dir)

	mac := Known("/Users/tony", "darwin")
	dir, _ = mac.Dir("videos")
	assert.Equal(t, filepath.Join("/Users/tony", "Movies"), dir)
}

func TestResolve(t *testing.T) {
	p := Known("/home/tony", "linux")

	tests := []struct {
		name      string
		location  string
		wantDir   string
		wantLabel string
	}{
		{"empty_defaults_to_desktop", "", "/home/tony/Desktop", "desktop"},
		{"keyword", "Documents", "/home/tony/Documents", "documents"},
		{"absolute_path", "/tmp/work/", "/tmp/work", "/tmp/work/"},
		{"unknown_keyword_defaults_to_desktop", "garage", "/home/tony/Desktop", "desktop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, label := p.Resolve(tt.location)
			assert.Equal(t, filepath.FromSlash(tt.wantDir), dir)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}
