// Package protocol is the websocket command channel between jarvis clients
// and the daemon: one JSON frame per message.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	// KindCommand carries user input to the daemon.
	KindCommand Kind = "command"
	// KindReply answers a command frame with the same ID.
	KindReply Kind = "reply"
	// KindEvent is pushed by the daemon unprompted (a reminder firing).
	KindEvent Kind = "event"
	KindError Kind = "error"
)

type Frame struct {
	ID       string `json:"id,omitempty"`
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Intent   string `json:"intent,omitempty"`
}

func (f Frame) String() string {
	return fmt.Sprintf("%s[%s] %s", f.Kind, f.ID, f.Text)
}

// Parse decodes and validates one frame.
func Parse(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}

	switch f.Kind {
	case KindCommand:
		if strings.TrimSpace(f.Text) == "" {
			return Frame{}, errors.New("empty command")
		}
	case KindReply, KindEvent, KindError:
	default:
		return Frame{}, fmt.Errorf("unknown frame kind %q", f.Kind)
	}
	return f, nil
}

func Command(id, text string) Frame { return Frame{ID: id, Kind: KindCommand, Text: text} }

func Error(id, reason string) Frame { return Frame{ID: id, Kind: KindError, Text: reason} }
