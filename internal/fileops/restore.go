package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "log/slog"

	"jarvis/internal/places"
)

// trashSuffix matches the _<unix-timestamp> and _restored_N markers added
// when an entry went through the trash folder.
var trashSuffix = regexp.MustCompile(`_(\d{9,}|restored_\d+)$`)

// Restore brings an entry back from the trash folder to the desktop.
func (m *Mutator) Restore(name string) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail(KindInvalid, "Please tell me what to restore, sir.")
	}
	if m.trashDir == "" {
		return fail(KindUnavailable, "Could not access trash.")
	}

	entries, err := os.ReadDir(m.trashDir)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return fail(KindNotFound, "Could not find '%s' in trash", name)
		}
		return fail(KindOf(err), "Could not access trash: %v", err)
	}

	needle := strings.ToLower(name)
	var hits []string
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			hits = append(hits, e.Name())
		}
	}

	switch {
	case len(hits) == 0:
		return fail(KindNotFound, "Could not find '%s' in trash", name)
	case len(hits) > 1:
		var b strings.Builder
		for i, h := range hits {
			if i == resolveLimit {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, h)
		}
		return fail(KindAmbiguous, "Multiple items found in trash:\n%sPlease be more specific.", b.String())
	}

	src := filepath.Join(m.trashDir, hits[0])
	restored := originalName(m.trashDir, hits[0])
	if restored == "" {
		restored = stripTrashSuffix(hits[0])
	}

	dir, label := m.places.Resolve(places.DefaultKey)
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return fail(KindOf(err), "Could not restore '%s': %v", restored, err)
	}

	final := restored
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, final)); err != nil {
			break
		}
		final = suffixed(restored, "restored_"+strconv.Itoa(i))
	}
	dst := filepath.Join(dir, final)

	if err := moveEntry(src, dst); err != nil {
		if KindOf(err) == KindPermission {
			return fail(KindPermission, "Permission denied: Cannot restore '%s'", restored)
		}
		return fail(KindOf(err), "Could not restore '%s': %v", restored, err)
	}
	if filepath.Base(m.trashDir) == "files" {
		_ = os.Remove(filepath.Join(filepath.Dir(m.trashDir), "info", hits[0]+".trashinfo"))
	}

	log.Info("Entry restored", "from", src, "to", dst)
	return ok(fmt.Sprintf("Restored '%s' to %s", final, label), dst, final)
}

func stripTrashSuffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)
	for {
		next := trashSuffix.ReplaceAllString(stem, "")
		if next == stem || next == "" {
			break
		}
		stem = next
	}
	return stem + ext
}
