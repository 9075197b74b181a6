// Package confirm holds the single outstanding yes/no question the assistant
// may have asked, and the action to run once it is answered.
package confirm

import (
	"strings"
	"sync"
)

type Kind string

const (
	OpenCreatedFile   Kind = "open-created-file"
	OpenCreatedFolder Kind = "open-created-folder"
	Delete            Kind = "delete"
)

// Pending describes what the gate is waiting on.
type Pending struct {
	Kind      Kind
	Path      string
	Name      string
	Permanent bool
}

type Outcome int

const (
	NotWaiting Outcome = iota
	Confirmed
	Cancelled
	Reprompted
)

const (
	notWaitingReply = "I'm not waiting for any confirmation, sir."
	repromptReply   = "Please answer with 'yes' or 'no', sir."
	cancelledReply  = "Understood, sir. Operation cancelled."
)

var (
	affirmative = map[string]bool{"yes": true, "y": true, "ok": true, "okay": true, "sure": true}
	negative    = map[string]bool{"no": true, "n": true, "cancel": true, "abort": true}
)

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func Affirmative(s string) bool { return affirmative[normalize(s)] }
func Negative(s string) bool    { return negative[normalize(s)] }

// IsAnswer reports whether s resolves a pending question.
func IsAnswer(s string) bool { return Affirmative(s) || Negative(s) }

// Gate is either idle or awaiting one answer. Arming replaces whatever was
// pending.
type Gate struct {
	mu      sync.Mutex
	pending *Pending
	action  func() string
}

func NewGate() *Gate { return &Gate{} }

func (g *Gate) Arm(p Pending, action func() string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = &p
	g.action = action
}

func (g *Gate) Awaiting() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pending != nil
}

func (g *Gate) Pending() (Pending, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		return Pending{}, false
	}
	return *g.pending, true
}

// Resolve consumes an answer. The deferred action runs after the gate is
// back to idle, outside the lock.
func (g *Gate) Resolve(input string) (Outcome, string) {
	g.mu.Lock()

	if g.pending == nil {
		g.mu.Unlock()
		return NotWaiting, notWaitingReply
	}

	switch {
	case Affirmative(input):
		action := g.action
		g.pending, g.action = nil, nil
		g.mu.Unlock()

		if action == nil {
			return Confirmed, ""
		}
		return Confirmed, action()

	case Negative(input):
		g.pending, g.action = nil, nil
		g.mu.Unlock()
		return Cancelled, cancelledReply

	default:
		g.mu.Unlock()
		return Reprompted, repromptReply
	}
}

// Reset drops any pending question.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending, g.action = nil, nil
}
