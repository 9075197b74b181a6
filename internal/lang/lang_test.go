package lang

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"create file notes", English},
		{"", English},
		{"समय क्या है", Hindi},
		{"नमस्ते", Hindi},
		{"સમય શું છે", Gujarati},
		{"નમસ્તે", Gujarati},
		{"open फाइल", Hindi},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what time is it", Normalize("समय क्या है"))
	assert.Equal(t, "create file notes", Normalize("फाइल बनाओ notes"))
	assert.Equal(t, "volume down", Normalize("અવાજ ઘટાડો"))
	assert.Equal(t, "open google", Normalize("Open Google"))
}

type fakeLLM struct {
	out    string
	err    error
	system string
}

func (f *fakeLLM) Complete(_ context.Context, system, _ string) (string, error) {
	f.system = system
	return f.out, f.err
}

func TestTranslate(t *testing.T) {
	ctx := t.Context()

	llm := &fakeLLM{out: " नमस्ते "}
	assert.Equal(t, "नमस्ते", NewTranslator(llm).Translate(ctx, "hello", Hindi))
	assert.Contains(t, llm.system, "Hindi")

	failing := &fakeLLM{err: errors.New("offline")}
	assert.Equal(t, "hello", NewTranslator(failing).Translate(ctx, "hello", Gujarati))

	assert.Equal(t, "hello", NewTranslator(nil).Translate(ctx, "hello", Hindi))

	untouched := &fakeLLM{out: "should not be used"}
	assert.Equal(t, "hello", NewTranslator(untouched).Translate(ctx, "hello", English))
	assert.Empty(t, untouched.system)
}
