package jarvis

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	log "log/slog"

	"jarvis/internal/audio"
	"jarvis/internal/scheduler"
	"jarvis/internal/songs"
	"jarvis/internal/sysinfo"
	"jarvis/internal/system"
)

// command is one entry of the ordered system-command chain.
type command struct {
	name  string
	match func(in input) bool
	run   func(ctx context.Context, in input) string
}

func matches(re *regexp.Regexp) func(in input) bool {
	return func(in input) bool { return re.MatchString(in.lower) }
}

var (
	screenshotRe = regexp.MustCompile(`\b(?:screenshot|screen shot|capture (?:the )?screen)\b`)
	photoRe      = regexp.MustCompile(`^(?:a\s+)?(?:photo|picture|selfie)$|\b(?:take|capture|click|snap)\b.*\b(?:photo|picture|selfie)\b`)

	unmuteRe     = regexp.MustCompile(`\b(?:unmute|turn on (?:the )?(?:sound|volume|audio))\b`)
	muteRe       = regexp.MustCompile(`\b(?:mute|silent|silence)\b`)
	volumeUpRe   = regexp.MustCompile(`\b(?:(?:volume|sound) (?:up|higher)|(?:increase|raise|turn up) (?:the )?(?:volume|sound)|louder)\b`)
	volumeDownRe = regexp.MustCompile(`\b(?:(?:volume|sound) (?:down|lower)|(?:decrease|reduce|lower|turn down) (?:the )?(?:volume|sound)|quieter)\b`)

	remindRe    = regexp.MustCompile(`\bremind me\b`)
	timerRe     = regexp.MustCompile(`\btimer\b`)
	statusRe    = regexp.MustCompile(`\b(?:system (?:status|performance|info)|cpu usage|memory usage|disk usage|how is (?:my |the )?(?:system|computer) doing)\b`)
	clearClipRe = regexp.MustCompile(`\bclear (?:the |my )?clipboard\b`)
	pasteRe     = regexp.MustCompile(`\b(?:paste|what'?s (?:in|on) (?:the |my )?clipboard|read (?:the |my )?clipboard|show (?:the |my )?clipboard)\b`)
	copyClipRe  = regexp.MustCompile(`(?i)^copy\s+(.+?)(?:\s+(?:to|into|in)\s+(?:the\s+|my\s+)?clipboard)?$`)

	websiteRe  = regexp.MustCompile(`^(?:please\s+)?(?:open|go to|visit|launch)\s+(?:the\s+)?(.+?)(?:\s+website)?(?:\.com)?$`)
	engineFor  = regexp.MustCompile(`^(?:please\s+)?search\s+(\w+)\s+for\s+(.+)$`)
	searchOnRe = regexp.MustCompile(`^(?:please\s+)?(?:search for|search|look up|google)\s+(.+?)(?:\s+on\s+(\w+))?$`)
	appRe      = regexp.MustCompile(`^(?:please\s+)?(?:open|launch|start|run)\s+(?:the\s+)?(.+?)(?:\s+app(?:lication)?)?$`)
)

var engineNames = map[string]string{
	"youtube":       "YouTube",
	"github":        "GitHub",
	"stackoverflow": "Stack Overflow",
}

// commands is evaluated in order after the file intents; the first match
// answers.
func (r *Router) commands() []command {
	return []command{
		{"song_listen", func(in input) bool { return songs.ContainsAny(in.lower, songs.ListenPhrases) }, fixedReply(songs.ListenReply)},
		{"song_sing", func(in input) bool { return songs.ContainsAny(in.lower, songs.SingPhrases) }, fixedReply(songs.SingReply)},
		{"song_lyrics", func(in input) bool { return songs.ContainsAny(in.lower, songs.LyricsPhrases) }, r.recognizeSong},
		{"screenshot", matches(screenshotRe), r.screenshot},
		{"photo", matches(photoRe), r.takePhoto},
		{"volume", func(in input) bool { _, ok := volumeAction(in.lower); return ok }, r.volume},
		{"reminder", matches(remindRe), r.reminder},
		{"timer", matches(timerRe), r.timer},
		{"clipboard", isClipboard, r.clipboard},
		{"status", matches(statusRe), r.status},
		{"website", r.isWebsite, r.website},
		{"search", func(in input) bool { _, _, ok := r.searchQuery(in); return ok }, r.search},
		{"app", matches(appRe), r.launchApp},
	}
}

func fixedReply(s string) func(context.Context, input) string {
	return func(context.Context, input) string { return s }
}

func (r *Router) open(ctx context.Context, target string) error {
	o := r.Caps.Opener
	if o == nil || !o.Available() {
		return system.ErrUnavailable
	}
	return o.Open(ctx, target)
}

func (r *Router) recognizeSong(ctx context.Context, in input) string {
	reply, link := songs.Recognize(r.Config.Get().Songs, songs.Lyrics(in.original))
	if link != "" {
		if err := r.open(ctx, link); err != nil {
			log.Warn("Could not open song link", "url", link, "err", err)
		}
	}
	return reply
}

func (r *Router) screenshot(ctx context.Context, _ input) string {
	res := record("screenshot", r.Files.Screenshot(ctx))
	if res.Success && r.Notifier != nil {
		if err := r.Notifier.Notify(ctx, "Screenshot Captured", res.Message); err != nil {
			log.Debug("Screenshot notification failed", "err", err)
		}
	}
	return res.Message
}

// volumeAction checks unmute before mute so "unmute" is not read as "mute".
func volumeAction(cmd string) (audio.Action, bool) {
	switch {
	case unmuteRe.MatchString(cmd):
		return audio.Unmute, true
	case muteRe.MatchString(cmd):
		return audio.Mute, true
	case volumeUpRe.MatchString(cmd):
		return audio.Up, true
	case volumeDownRe.MatchString(cmd):
		return audio.Down, true
	}
	return 0, false
}

var volumeReplies = map[audio.Action]string{
	audio.Mute:   "Volume muted, sir.",
	audio.Unmute: "Volume unmuted, sir.",
	audio.Up:     "Volume increased, sir.",
	audio.Down:   "Volume decreased, sir.",
}

func (r *Router) volume(ctx context.Context, in input) string {
	a, _ := volumeAction(in.lower)
	if r.Volume == nil {
		return "Volume control is not available on this system, sir."
	}
	if err := r.Volume.Apply(ctx, a); err != nil {
		log.Warn("Volume change failed", "action", a, "err", err)
		return "I couldn't change the volume, sir."
	}
	return volumeReplies[a]
}

func (r *Router) reminder(_ context.Context, in input) string {
	if r.Scheduler == nil {
		return "Reminders are not available right now, sir."
	}
	task, d, ok := scheduler.ParseReminder(in.lower)
	if !ok || task == "" {
		return "Please tell me what to remind you about and when, sir. For example: 'remind me to call mom in 10 minutes'"
	}
	return r.Scheduler.Remind(task, d)
}

func (r *Router) timer(_ context.Context, in input) string {
	if r.Scheduler == nil {
		return "Timers are not available right now, sir."
	}
	d, ok := scheduler.ParseTimer(in.lower)
	if !ok {
		return "Please tell me how long the timer should be, sir. For example: 'set a timer for 5 minutes'"
	}
	return r.Scheduler.Timer(d)
}

func isClipboard(in input) bool {
	return clearClipRe.MatchString(in.lower) ||
		pasteRe.MatchString(in.lower) ||
		copyClipRe.MatchString(in.lower)
}

func (r *Router) clipboard(_ context.Context, in input) string {
	if r.Clipboard == nil {
		return "Clipboard is not available on this system, sir."
	}

	switch {
	case clearClipRe.MatchString(in.lower):
		if err := r.Clipboard.WriteAll(""); err != nil {
			return fmt.Sprintf("I couldn't clear the clipboard, sir: %v", err)
		}
		return "Clipboard cleared, sir."

	case pasteRe.MatchString(in.lower):
		text, err := r.Clipboard.ReadAll()
		if err != nil {
			return fmt.Sprintf("I couldn't read the clipboard, sir: %v", err)
		}
		if strings.TrimSpace(text) == "" {
			return "The clipboard is empty, sir."
		}
		return "Clipboard content: " + text
	}

	m := copyClipRe.FindStringSubmatch(in.text)
	if m == nil {
		return "Please tell me what to copy, sir."
	}
	if err := r.Clipboard.WriteAll(m[1]); err != nil {
		return fmt.Sprintf("I couldn't copy to the clipboard, sir: %v", err)
	}
	return "Copied to clipboard: " + m[1]
}

func (r *Router) status(ctx context.Context, _ input) string {
	if r.Status == nil {
		return "System monitoring is not available, sir."
	}
	snap, err := r.Status.Collect(ctx)
	if err != nil {
		log.Warn("System status failed", "err", err)
		return "I couldn't read the system status, sir."
	}
	return sysinfo.Summary(snap)
}

func (r *Router) websiteKey(in input) (string, string, bool) {
	m := websiteRe.FindStringSubmatch(in.lower)
	if m == nil {
		return "", "", false
	}
	key := strings.ReplaceAll(m[1], " ", "")
	site, ok := r.Config.Get().Websites[key]
	return key, site, ok
}

func (r *Router) isWebsite(in input) bool {
	_, _, ok := r.websiteKey(in)
	return ok
}

func (r *Router) website(ctx context.Context, in input) string {
	key, site, _ := r.websiteKey(in)
	if err := r.open(ctx, site); err != nil {
		log.Warn("Could not open website", "url", site, "err", err)
		return fmt.Sprintf("I couldn't open %s, sir.", displayName(key))
	}
	return fmt.Sprintf("Opening %s, sir.", displayName(key))
}

// searchQuery returns the engine key and the query, defaulting to google.
func (r *Router) searchQuery(in input) (engine, query string, ok bool) {
	engines := r.Config.Get().Search

	if m := engineFor.FindStringSubmatch(in.lower); m != nil {
		if _, known := engines[m[1]]; known {
			return m[1], m[2], true
		}
	}

	m := searchOnRe.FindStringSubmatch(in.lower)
	if m == nil {
		return "", "", false
	}
	engine, query = "google", m[1]
	if _, known := engines[m[2]]; known {
		engine = m[2]
	} else if m[2] != "" {
		query = m[1] + " on " + m[2]
	}
	if strings.Contains(in.lower, "youtube") && m[2] == "" {
		engine = "youtube"
		query = strings.TrimSpace(strings.ReplaceAll(query, "youtube", ""))
	}
	if _, known := engines[engine]; !known || query == "" {
		return "", "", false
	}
	return engine, query, true
}

func (r *Router) search(ctx context.Context, in input) string {
	engine, query, _ := r.searchQuery(in)
	link := strings.ReplaceAll(r.Config.Get().Search[engine], "{query}", url.QueryEscape(query))
	if err := r.open(ctx, link); err != nil {
		log.Warn("Could not open search", "url", link, "err", err)
		return fmt.Sprintf("I couldn't open the browser to search for '%s', sir.", query)
	}
	return fmt.Sprintf("Searching %s for '%s', sir.", displayName(engine), query)
}

func (r *Router) launchApp(ctx context.Context, in input) string {
	app := appRe.FindStringSubmatch(in.lower)[1]
	candidates := r.Config.Get().AppsFor(r.GOOS)[strings.ReplaceAll(app, " ", "")]
	if len(candidates) == 0 || r.Caps.Launcher == nil {
		return fmt.Sprintf("I couldn't find %s on your system, sir.", app)
	}

	for _, line := range candidates {
		if err := r.Caps.Launcher.Launch(ctx, line); err != nil {
			log.Debug("Launch candidate failed", "app", app, "cmd", line, "err", err)
			continue
		}
		return fmt.Sprintf("Opening %s, sir.", displayName(app))
	}
	return fmt.Sprintf("I couldn't find %s on your system, sir.", app)
}

func displayName(key string) string {
	if name, ok := engineNames[key]; ok {
		return name
	}
	return songs.Title(key)
}
