package voice

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jarvis/pkg/stt"
)

type fakeSTT struct {
	text string
	got  []float32
	opt  stt.Options
}

func (f *fakeSTT) Transcribe(_ context.Context, pcm []float32, opt stt.Options) (stt.Result, error) {
	f.got, f.opt = pcm, opt
	return stt.Result{Text: f.text, Language: "en"}, nil
}

type fakeRecorder struct {
	pcm []float32
	err error
}

func (f fakeRecorder) RecordUtterance(context.Context) ([]float32, error) { return f.pcm, f.err }

type fakeNotifier struct{ bodies []string }

func (f *fakeNotifier) Notify(_ context.Context, _, body string) error {
	f.bodies = append(f.bodies, body)
	return nil
}

func TestListen(t *testing.T) {
	tr := &fakeSTT{text: "  open youtube \n"}
	n := &fakeNotifier{}
	v := New(tr, WithRecorder(fakeRecorder{pcm: []float32{0.1, 0.2}}), WithNotifier(n))

	text, err := v.Listen(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "open youtube", text)
	assert.Equal(t, []float32{0.1, 0.2}, tr.got)
	assert.Equal(t, "auto", tr.opt.Language)
	assert.Equal(t, []string{"Listening..."}, n.bodies)
}

func TestListenFailures(t *testing.T) {
	_, err := New(&fakeSTT{}).Listen(t.Context())
	assert.ErrorIs(t, err, ErrNoMicrophone)

	_, err = New(nil, WithRecorder(fakeRecorder{})).Listen(t.Context())
	assert.ErrorIs(t, err, ErrNoRecognizer)

	boom := errors.New("device busy")
	_, err = New(&fakeSTT{}, WithRecorder(fakeRecorder{err: boom})).Listen(t.Context())
	assert.ErrorIs(t, err, boom)

	_, err = New(&fakeSTT{text: "   "}, WithRecorder(fakeRecorder{pcm: []float32{0}})).Listen(t.Context())
	assert.ErrorIs(t, err, ErrNothingHeard)
}

func TestTranscribeFileRejectsGarbage(t *testing.T) {
	v := New(&fakeSTT{text: "hi"})
	_, err := v.TranscribeFile(t.Context(), bytes.NewReader([]byte("not audio")), "clip.txt")
	assert.Error(t, err)

	_, err = New(nil).TranscribeFile(t.Context(), bytes.NewReader(nil), "clip.wav")
	assert.ErrorIs(t, err, ErrNoRecognizer)
}
