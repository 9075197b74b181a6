package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func names(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Name)
	}
	return out
}

func TestFindRespectsRootPriorityAndLimit(t *testing.T) {
	tmp := t.TempDir()
	desktop := filepath.Join(tmp, "Desktop")
	documents := filepath.Join(tmp, "Documents")

	touch(t, filepath.Join(desktop, "budget_a.txt"), "a")
	touch(t, filepath.Join(desktop, "budget_b.txt"), "b")
	touch(t, filepath.Join(desktop, "budget_c.txt"), "c")
	touch(t, filepath.Join(documents, "budget_d.txt"), "d")
	touch(t, filepath.Join(documents, "budget_e.txt"), "e")

	cache := NewCache()
	l := New([]Root{{Path: desktop, Recursive: true}, {Path: documents, Recursive: true}}, cache)

	res := l.Find("budget", 2)
	require.True(t, res.Success)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{"budget_a.txt", "budget_b.txt"}, names(res.Matches))

	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, res.Matches, cache.Snapshot())
}

func TestFindMetadata(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "Report.TXT"), "12345")
	require.NoError(t, os.Mkdir(filepath.Join(tmp, "reports"), 0o755))

	l := New([]Root{{Path: tmp}}, nil)
	res := l.Find("report", 10)

	require.Equal(t, 2, res.Count)

	byName := map[string]Match{}
	for _, m := range res.Matches {
		byName[m.Name] = m
	}

	file := byName["Report.TXT"]
	assert.Equal(t, File, file.Kind)
	assert.Equal(t, int64(5), file.Size)
	assert.Equal(t, tmp, file.Parent)
	assert.Equal(t, tmp, file.Location)

	folder := byName["reports"]
	assert.Equal(t, Folder, folder.Kind)
	assert.Equal(t, int64(0), folder.Size)
}

func TestFindRecursionRules(t *testing.T) {
	tmp := t.TempDir()
	user := filepath.Join(tmp, "Documents")
	system := filepath.Join(tmp, "opt")

	touch(t, filepath.Join(user, "a", "b", "plan_depth3.md"), "")
	touch(t, filepath.Join(user, "a", "b", "c", "plan_depth4.md"), "")
	touch(t, filepath.Join(user, ".hidden", "plan_hidden.md"), "")
	touch(t, filepath.Join(system, "tools", "plan_nested.md"), "")

	l := New([]Root{{Path: user, Recursive: true}, {Path: system}}, nil)
	res := l.Find("plan", 10)

	assert.Equal(t, []string{"plan_depth3.md"}, names(res.Matches))
}

func TestFindDoesNotDuplicateImmediateChildren(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "notes.txt"), "")
	touch(t, filepath.Join(tmp, "work", "notes-old.txt"), "")

	l := New([]Root{{Path: tmp, Recursive: true}}, nil)
	res := l.Find("notes", 10)

	assert.Equal(t, []string{"notes.txt", "notes-old.txt"}, names(res.Matches))
}

func TestFindSkipsMissingRoots(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "present.txt"), "")

	l := New([]Root{{Path: filepath.Join(tmp, "missing"), Recursive: true}, {Path: tmp}}, nil)
	res := l.Find("present", 5)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Count)
}

func TestFindReplacesCache(t *testing.T) {
	tmp := t.TempDir()
	touch(t, filepath.Join(tmp, "alpha.txt"), "")
	touch(t, filepath.Join(tmp, "beta.txt"), "")

	l := New([]Root{{Path: tmp}}, nil)

	l.Find("alpha", 5)
	require.Equal(t, 1, l.Cache().Len())

	res := l.Find("nothing-matches-this", 5)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Matches)
	assert.Equal(t, 0, l.Cache().Len())
}

func TestCacheAt(t *testing.T) {
	c := NewCache()
	c.Replace([]Match{{Name: "one"}, {Name: "two"}})

	m, ok := c.At(2)
	assert.True(t, ok)
	assert.Equal(t, "two", m.Name)

	_, ok = c.At(0)
	assert.False(t, ok)
	_, ok = c.At(3)
	assert.False(t, ok)
}

func TestFindWalksSymlinkedRoot(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "disk2", "Documents")
	touch(t, filepath.Join(target, "taxes", "2024", "receipt.pdf"), "r")

	docs := filepath.Join(tmp, "home", "Documents")
	require.NoError(t, os.MkdirAll(filepath.Dir(docs), 0o755))
	if err := os.Symlink(target, docs); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	l := New([]Root{{Path: docs, Recursive: true}}, nil)
	res := l.Find("receipt", 10)

	require.Equal(t, 1, res.Count)
	assert.Equal(t, filepath.Join(docs, "taxes", "2024", "receipt.pdf"), res.Matches[0].Path)
	assert.Equal(t, docs, res.Matches[0].Location)
}
