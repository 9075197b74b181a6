package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fired struct{ title, message string }

func manual(t *testing.T) (*Scheduler, *[]func(), *[]time.Duration, *[]fired) {
	t.Helper()

	var (
		queued []func()
		delays []time.Duration
		got    []fired
	)
	s := New(func(title, message string) { got = append(got, fired{title, message}) })
	s.after = func(d time.Duration, f func()) {
		delays = append(delays, d)
		queued = append(queued, f)
	}
	return s, &queued, &delays, &got
}

func TestRemind(t *testing.T) {
	s, queued, delays, got := manual(t)

	assert.Equal(t, "Reminder set for 5 minutes from now, sir.", s.Remind("stretch", 5*time.Minute))
	assert.Equal(t, []time.Duration{5 * time.Minute}, *delays)
	assert.Equal(t, 1, s.Pending())
	assert.Empty(t, *got)

	(*queued)[0]()
	assert.Equal(t, []fired{{"JARVIS Reminder", "Reminder: stretch"}}, *got)
	assert.Zero(t, s.Pending())
}

func TestTimer(t *testing.T) {
	s, queued, _, got := manual(t)

	assert.Equal(t, "Timer set for 1 minute, sir.", s.Timer(time.Minute))
	(*queued)[0]()
	assert.Equal(t, []fired{{"JARVIS Timer", "Timer for 1 minute has finished, sir."}}, *got)
}

func TestRealTimerFires(t *testing.T) {
	done := make(chan string, 1)
	s := New(func(_, message string) { done <- message })

	s.Remind("tea", 10*time.Millisecond)
	select {
	case msg := <-done:
		assert.Equal(t, "Reminder: tea", msg)
	case <-time.After(2 * time.Second):
		t.Fatal("reminder never fired")
	}
}

func TestParseReminder(t *testing.T) {
	tests := []struct {
		cmd  string
		task string
		d    time.Duration
		ok   bool
	}{
		{"remind me to call mom in 10 minutes", "call mom", 10 * time.Minute, true},
		{"remind me about the meeting in 1 hour", "the meeting", time.Hour, true},
		{"remind me in 30 seconds to check the oven", "check the oven", 30 * time.Second, true},
		{"remind me to call mom", "", 0, false},
		{"remind me to nap in 0 minutes", "nap", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			task, d, ok := ParseReminder(tt.cmd)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.task, task)
				assert.Equal(t, tt.d, d)
			}
		})
	}
}

func TestParseTimer(t *testing.T) {
	d, ok := ParseTimer("set a timer for 5 minutes")
	require.True(t, ok)
	assert.Equal(t, 5*time.Minute, d)

	d, ok = ParseTimer("timer 90 seconds")
	require.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	d, ok = ParseTimer("set timer for 3")
	require.True(t, ok)
	assert.Equal(t, 3*time.Minute, d)

	_, ok = ParseTimer("set a timer")
	assert.False(t, ok)
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "90 seconds", Humanize(90*time.Second))
	assert.Equal(t, "2 hours", Humanize(2*time.Hour))
	assert.Equal(t, "1 second", Humanize(time.Second))
}
