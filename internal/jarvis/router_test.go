package jarvis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/internal/audio"
	"jarvis/internal/config"
	"jarvis/internal/confirm"
	"jarvis/internal/fileops"
	"jarvis/internal/locator"
	"jarvis/internal/places"
	"jarvis/internal/songs"
	"jarvis/internal/sysinfo"
	"jarvis/internal/system"
)

type fakeOpener struct{ opened []string }

func (f *fakeOpener) Available() bool { return true }
func (f *fakeOpener) Open(_ context.Context, target string) error {
	f.opened = append(f.opened, target)
	return nil
}

type fakeLauncher struct {
	ok       map[string]bool
	launched []string
}

func (f *fakeLauncher) Launch(_ context.Context, cmd string) error {
	f.launched = append(f.launched, cmd)
	if f.ok[cmd] {
		return nil
	}
	return errors.New("not found")
}

type fakeVolume struct{ applied []audio.Action }

func (f *fakeVolume) Apply(_ context.Context, a audio.Action) error {
	f.applied = append(f.applied, a)
	return nil
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) ReadAll() (string, error)   { return f.text, nil }
func (f *fakeClipboard) WriteAll(text string) error { f.text = text; return nil }

type fakeStatus struct{}

func (fakeStatus) Collect(context.Context) (sysinfo.Snapshot, error) {
	return sysinfo.Snapshot{CPUUsage: 12.5, MemoryUsage: 40, DiskUsage: 71.2}, nil
}

type fakeScheduler struct{ reminders []string }

func (f *fakeScheduler) Remind(task string, d time.Duration) string {
	f.reminders = append(f.reminders, task)
	return "reminder " + task + " " + d.String()
}

func (f *fakeScheduler) Timer(d time.Duration) string { return "timer " + d.String() }

type fakeResponder struct{ answers map[string]string }

func (f fakeResponder) Answer(_ context.Context, q string) (string, bool) {
	a, ok := f.answers[strings.ToLower(q)]
	return a, ok
}

type fakeSpeaker struct {
	mu    sync.Mutex
	spoke []string
}

func (f *fakeSpeaker) Say(text, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoke = append(f.spoke, text)
}

type fixture struct {
	home    string
	places  places.Places
	opener  *fakeOpener
	apps    *fakeLauncher
	volume  *fakeVolume
	clip    *fakeClipboard
	sched   *fakeScheduler
	speaker *fakeSpeaker
	trash   string
	r       *Router
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	home := t.TempDir()
	p := places.Under(home)
	roots := make([]locator.Root, 0, len(p))
	for _, pl := range p {
		roots = append(roots, locator.Root{Path: pl.Dir, Recursive: true})
	}
	loc := locator.New(roots, nil)

	f := &fixture{
		home:    home,
		places:  p,
		opener:  &fakeOpener{},
		apps:    &fakeLauncher{ok: map[string]bool{"firefox": true}},
		volume:  &fakeVolume{},
		clip:    &fakeClipboard{},
		sched:   &fakeScheduler{},
		speaker: &fakeSpeaker{},
		trash:   filepath.Join(home, ".Trash"),
	}

	files := fileops.New(p, loc, loc.Cache(),
		fileops.WithOpener(f.opener),
		fileops.WithTrash(&fileops.FolderTrash{Dir: f.trash}, f.trash),
	)

	f.r = New(Deps{
		Config:    config.Static(config.Default()),
		Locator:   loc,
		Files:     files,
		Caps:      system.Capabilities{Opener: f.opener, Launcher: f.apps},
		GOOS:      "linux",
		Responder: fakeResponder{answers: map[string]string{"who are you": "I am JARVIS, sir."}},
		Speaker:   f.speaker,
		Volume:    f.volume,
		Clipboard: f.clip,
		Status:    fakeStatus{},
		Scheduler: f.sched,
	})
	return f
}

func (f *fixture) dir(key string) string {
	d, _ := f.places.Dir(key)
	return d
}

func (f *fixture) say(t *testing.T, cmd string) Reply {
	t.Helper()
	return f.r.Route(t.Context(), cmd)
}

func write(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestEmptyAndGreeting(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, emptyReply, f.say(t, "   ").Text)
	assert.Equal(t, greetingReply, f.say(t, "Jarvis").Text)
	assert.Equal(t, greetingReply, f.say(t, "hey jarvis!").Text)
	assert.Equal(t, []string{emptyReply, greetingReply, greetingReply}, f.speaker.spoke)
}

func TestStripWakeWord(t *testing.T) {
	words := []string{"hey jarvis", "jarvis"}
	assert.Equal(t, "Open YouTube", stripWakeWord("Jarvis, Open YouTube", words))
	assert.Equal(t, "what time is it", stripWakeWord("hey jarvis what time is it", words))
	assert.Equal(t, "jarvisfoo", stripWakeWord("jarvisfoo", words))
	assert.Equal(t, "", stripWakeWord("JARVIS", words))
}

func TestCreateFileOffersToOpen(t *testing.T) {
	f := newFixture(t)

	reply := f.say(t, "create file notes")
	assert.Equal(t, "create_file", reply.Intent)
	assert.Equal(t, "Successfully created 'notes.txt' in desktop\n\nWould you like me to open 'notes.txt' now, sir? (yes/no)", reply.Text)

	path := filepath.Join(f.dir("desktop"), "notes.txt")
	assert.FileExists(t, path)

	p, ok := f.r.Session().Gate.Pending()
	require.True(t, ok)
	assert.Equal(t, confirm.OpenCreatedFile, p.Kind)
	assert.Equal(t, path, p.Path)

	reply = f.say(t, "yes")
	assert.Equal(t, "confirmation", reply.Intent)
	assert.Equal(t, "Opening 'notes.txt', sir. Opened 'notes.txt' successfully", reply.Text)
	assert.Equal(t, []string{path}, f.opener.opened)
	assert.False(t, f.r.Session().Gate.Awaiting())
}

func TestCreateFileWithoutName(t *testing.T) {
	f := newFixture(t)
	assert.Contains(t, f.say(t, "create file").Text, "Please specify a filename, sir.")
	assert.False(t, f.r.Session().Gate.Awaiting())
}

func TestCreateFolderDeclined(t *testing.T) {
	f := newFixture(t)

	reply := f.say(t, "create folder projects in documents")
	assert.Contains(t, reply.Text, "Would you like me to open the folder now, sir? (yes/no)")
	assert.DirExists(t, filepath.Join(f.dir("documents"), "projects"))

	assert.Equal(t, "Understood, sir. Operation cancelled.", f.say(t, "no").Text)
	assert.Empty(t, f.opener.opened)
}

func TestDeleteAwaitsConfirmation(t *testing.T) {
	t.Run("yes moves to trash", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.dir("documents"), "notes.txt")
		write(t, path)

		reply := f.say(t, "delete file notes.txt")
		assert.Equal(t, "Are you sure you want to move to trash 'notes.txt', sir? This action cannot be undone. (yes/no)", reply.Text)
		assert.FileExists(t, path)

		p, ok := f.r.Session().Gate.Pending()
		require.True(t, ok)
		assert.Equal(t, confirm.Pending{Kind: confirm.Delete, Path: path, Name: "notes.txt"}, p)

		f.say(t, "yes")
		assert.NoFileExists(t, path)
		entries, err := os.ReadDir(f.trash)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("no keeps the file", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(f.dir("desktop"), "notes.txt")
		write(t, path)

		f.say(t, "delete file notes.txt")
		assert.Equal(t, "Understood, sir. Operation cancelled.", f.say(t, "no").Text)
		assert.FileExists(t, path)
		assert.NoDirExists(t, f.trash)
	})

	t.Run("anything else reprompts", func(t *testing.T) {
		f := newFixture(t)
		write(t, filepath.Join(f.dir("desktop"), "notes.txt"))

		f.say(t, "delete notes.txt permanently")
		p, _ := f.r.Session().Gate.Pending()
		assert.True(t, p.Permanent)

		assert.Equal(t, "Please answer with 'yes' or 'no', sir.", f.say(t, "what time is it").Text)
		assert.True(t, f.r.Session().Gate.Awaiting())
	})

	t.Run("unknown target arms nothing", func(t *testing.T) {
		f := newFixture(t)
		assert.Equal(t, "Could not find 'ghost.txt' to delete", f.say(t, "delete file ghost.txt").Text)
		assert.False(t, f.r.Session().Gate.Awaiting())
	})
}

func TestStrayConfirmation(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "I'm not waiting for any confirmation, sir.", f.say(t, "yes").Text)
}

func TestRenameNeedsTo(t *testing.T) {
	f := newFixture(t)
	write(t, filepath.Join(f.dir("desktop"), "report.txt"))

	assert.Equal(t, "Please use the format 'rename [old name] to [new name]', sir. For example: 'rename document.txt to report.txt'",
		f.say(t, "rename report.txt newreport.txt").Text)

	assert.Equal(t, "Renamed 'report.txt' to 'newreport.txt'", f.say(t, "rename report.txt to newreport.txt").Text)
	assert.FileExists(t, filepath.Join(f.dir("desktop"), "newreport.txt"))
}

func TestFindThenOpenByNumber(t *testing.T) {
	f := newFixture(t)
	write(t, filepath.Join(f.dir("desktop"), "budget_2024.csv"))
	write(t, filepath.Join(f.dir("documents"), "budget_2025.csv"))

	reply := f.say(t, "find file budget")
	assert.Equal(t, "find_file", reply.Intent)
	assert.True(t, strings.HasPrefix(reply.Text, "I found 2 file(s) matching 'budget', sir:\n\n1. budget_2024.csv (1 bytes)\n"), reply.Text)
	assert.True(t, strings.HasSuffix(reply.Text, "Just say 'open 1' or 'open file 2' to open a specific file."))

	f.say(t, "open 2")
	assert.Equal(t, []string{filepath.Join(f.dir("documents"), "budget_2025.csv")}, f.opener.opened)

	assert.Contains(t, f.say(t, "find file nothing-like-this").Text, "Sorry sir, I couldn't find any files matching 'nothing-like-this'.")
}

func TestFormatFoundTruncates(t *testing.T) {
	var matches []locator.Match
	for i := 0; i < 12; i++ {
		matches = append(matches, locator.Match{Name: "a", Path: "/a", Kind: locator.Folder})
	}
	matches[0] = locator.Match{Name: "big.iso", Path: "/big.iso", Kind: locator.File, Size: 3 * megabyte / 2}

	out := formatFound("a", matches)
	assert.Contains(t, out, "1. big.iso (1.5 MB)\n   /big.iso\n\n")
	assert.Contains(t, out, "10. a\n")
	assert.NotContains(t, out, "11. ")
	assert.Contains(t, out, "... and 2 more files.\n\n")
}

func TestOpenByNameAmbiguous(t *testing.T) {
	f := newFixture(t)
	write(t, filepath.Join(f.dir("desktop"), "plan.md"))
	write(t, filepath.Join(f.dir("music"), "plan.md"))

	reply := f.say(t, "open file plan.md")
	assert.True(t, strings.HasPrefix(reply.Text, "Found 2 files named 'plan.md':\n1. plan.md ("), reply.Text)
	assert.Empty(t, f.opener.opened)

	assert.Contains(t, f.say(t, "open file missing.md").Text, "Could not find file 'missing.md', sir.")
}

func TestVolume(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Volume unmuted, sir.", f.say(t, "unmute").Text)
	assert.Equal(t, "Volume muted, sir.", f.say(t, "mute the sound").Text)
	assert.Equal(t, "Volume increased, sir.", f.say(t, "volume up").Text)
	assert.Equal(t, "Volume decreased, sir.", f.say(t, "turn down the volume").Text)
	assert.Equal(t, []audio.Action{audio.Unmute, audio.Mute, audio.Up, audio.Down}, f.volume.applied)
}

func TestWebsitesAndSearch(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Opening YouTube, sir.", f.say(t, "open youtube").Text)
	assert.Equal(t, "Searching Google for 'python tutorials', sir.", f.say(t, "search for python tutorials").Text)
	assert.Equal(t, "Searching YouTube for 'lofi beats', sir.", f.say(t, "search youtube for lofi beats").Text)

	assert.Equal(t, []string{
		"https://www.youtube.com",
		"https://www.google.com/search?q=python+tutorials",
		"https://www.youtube.com/results?search_query=lofi+beats",
	}, f.opener.opened)
}

func TestLaunchApp(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Opening Firefox, sir.", f.say(t, "open firefox").Text)
	assert.Equal(t, "I couldn't find calculator on your system, sir.", f.say(t, "launch calculator").Text)
	assert.Equal(t, []string{"firefox", "gnome-calculator", "kcalc", "galculator"}, f.apps.launched)
}

func TestClipboard(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "Copied to clipboard: Hello World", f.say(t, "copy Hello World to clipboard").Text)
	assert.Equal(t, "Clipboard content: Hello World", f.say(t, "what's in my clipboard").Text)
	assert.Equal(t, "Clipboard cleared, sir.", f.say(t, "clear clipboard").Text)
	assert.Equal(t, "", f.clip.text)
}

func TestSchedulingAndStatus(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, "reminder call mom 10m0s", f.say(t, "remind me to call mom in 10 minutes").Text)
	assert.Equal(t, "timer 5m0s", f.say(t, "set a timer for 5 minutes").Text)
	assert.Contains(t, f.say(t, "remind me to call mom").Text, "Please tell me what to remind you about")
	assert.Equal(t, "System Performance: CPU 12.5%, Memory 40%, Disk 71.2% used", f.say(t, "system status").Text)
}

func TestSongLyrics(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, songs.ListenReply, f.say(t, "what song is this").Text)

	reply := f.say(t, "the song goes I'm in love with the shape of you")
	assert.Equal(t, "song_lyrics", reply.Intent)
	assert.Equal(t, "Found it! Playing 'Shape Of You' by Ed Sheeran on YouTube, sir.", reply.Text)
	assert.Equal(t, []string{"https://www.youtube.com/results?search_query=Ed+Sheeran+Shape+of+You+official+video"}, f.opener.opened)
}

func TestResponderAndFallback(t *testing.T) {
	f := newFixture(t)

	reply := f.say(t, "Who are you")
	assert.Equal(t, "assistant", reply.Intent)
	assert.Equal(t, "I am JARVIS, sir.", reply.Text)

	reply = f.say(t, "flibbertigibbet")
	assert.Equal(t, "fallback", reply.Intent)
	assert.Equal(t, "I understand you said 'flibbertigibbet', but I'm not sure how to help with that, sir. Could you try rephrasing it or ask me something else?", reply.Text)
}

type panickyResponder struct{}

func (panickyResponder) Answer(context.Context, string) (string, bool) { panic("boom") }

func TestPanicBecomesApology(t *testing.T) {
	f := newFixture(t)
	f.r.Responder = panickyResponder{}

	reply := f.say(t, "flibbertigibbet")
	assert.Equal(t, crashReply, reply.Text)
	assert.Equal(t, "error", reply.Intent)

	// the router stays usable
	assert.Equal(t, greetingReply, f.say(t, "jarvis").Text)
}
