package lang

import (
	"context"
	"fmt"
	"strings"

	log "log/slog"
)

// Completer is the chat model used for translation.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var names = map[string]string{
	English:  "English",
	Hindi:    "Hindi",
	Gujarati: "Gujarati",
}

// Translator asks a chat model for translations. Any failure returns the
// input unchanged.
type Translator struct {
	llm Completer
}

func NewTranslator(llm Completer) *Translator {
	return &Translator{llm: llm}
}

func (t *Translator) Translate(ctx context.Context, text, target string) string {
	text = strings.TrimSpace(text)
	if text == "" || t == nil || t.llm == nil {
		return text
	}
	if target == "" || target == English && Detect(text) == English {
		return text
	}

	name, ok := names[target]
	if !ok {
		name = target
	}

	system := fmt.Sprintf("Translate the user's message into %s. Reply with the translation only.", name)
	out, err := t.llm.Complete(ctx, system, text)
	if err != nil {
		log.Debug("Translation failed", "target", target, "err", err)
		return text
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return text
	}
	return out
}
