// Package scheduler fires reminders and timers after a delay. Scheduled
// tasks cannot be cancelled.
package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Fire delivers a due task: a notification title and the sentence to speak.
type Fire func(title, message string)

type Scheduler struct {
	fire  Fire
	after func(d time.Duration, f func())

	mu      sync.Mutex
	pending int
}

func New(fire Fire) *Scheduler {
	return &Scheduler{
		fire: fire,
		after: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Pending reports how many tasks are still waiting.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

func (s *Scheduler) schedule(d time.Duration, title, message string) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()

	s.after(d, func() {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()

		s.fire(title, message)
	})
}

// Remind schedules "Reminder: task" after d and returns the acknowledgement.
func (s *Scheduler) Remind(task string, d time.Duration) string {
	s.schedule(d, "JARVIS Reminder", "Reminder: "+task)
	return fmt.Sprintf("Reminder set for %s from now, sir.", Humanize(d))
}

// Timer schedules a plain timer.
func (s *Scheduler) Timer(d time.Duration) string {
	h := Humanize(d)
	s.schedule(d, "JARVIS Timer", fmt.Sprintf("Timer for %s has finished, sir.", h))
	return fmt.Sprintf("Timer set for %s, sir.", h)
}

var (
	remindRe = regexp.MustCompile(`\bremind me (?:to |about )?(.+?)\s+in\s+(\d+)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)\b`)
	remindIn = regexp.MustCompile(`\bremind me in\s+(\d+)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)\s+(?:to |about )?(.+)$`)
	timerRe  = regexp.MustCompile(`\b(?:set (?:a )?)?timer (?:for )?(\d+)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)?\b`)
)

// ParseReminder understands "remind me to X in N minutes" and
// "remind me in N minutes to X".
func ParseReminder(cmd string) (string, time.Duration, bool) {
	if m := remindRe.FindStringSubmatch(cmd); m != nil {
		d, ok := duration(m[2], m[3])
		return strings.TrimSpace(m[1]), d, ok
	}
	if m := remindIn.FindStringSubmatch(cmd); m != nil {
		d, ok := duration(m[1], m[2])
		return strings.TrimSpace(m[3]), d, ok
	}
	return "", 0, false
}

// ParseTimer understands "set a timer for N minutes". A bare number means
// minutes.
func ParseTimer(cmd string) (time.Duration, bool) {
	m := timerRe.FindStringSubmatch(cmd)
	if m == nil {
		return 0, false
	}
	unit := m[2]
	if unit == "" {
		unit = "minutes"
	}
	return duration(m[1], unit)
}

func duration(n, unit string) (time.Duration, bool) {
	v, err := strconv.Atoi(n)
	if err != nil || v <= 0 {
		return 0, false
	}

	switch {
	case strings.HasPrefix(unit, "s"):
		return time.Duration(v) * time.Second, true
	case strings.HasPrefix(unit, "m"):
		return time.Duration(v) * time.Minute, true
	case strings.HasPrefix(unit, "h"):
		return time.Duration(v) * time.Hour, true
	}
	return 0, false
}

// Humanize renders d the way it is spoken: "5 minutes", "1 hour".
func Humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
