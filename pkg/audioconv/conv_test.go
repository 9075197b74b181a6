package audioconv

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, rate, channels int, samples []int) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           samples,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestDecodeWAV(t *testing.T) {
	t.Run("already 16k mono", func(t *testing.T) {
		data := writeWAV(t, 16000, 1, []int{0, 16384, -16384, 32767})

		pcm, err := Decode(bytes.NewReader(data), "clip.wav", Options{})
		require.NoError(t, err)
		require.Len(t, pcm, 4)
		assert.InDelta(t, 0.5, pcm[1], 1e-4)
		assert.InDelta(t, -0.5, pcm[2], 1e-4)
	})

	t.Run("stereo 32k is downmixed and halved", func(t *testing.T) {
		samples := make([]int, 0, 200)
		for range 100 {
			samples = append(samples, 16384, 0)
		}
		data := writeWAV(t, 32000, 2, samples)

		// no extension: the RIFF header is sniffed
		pcm, err := Decode(bytes.NewReader(data), "upload", Options{})
		require.NoError(t, err)
		assert.Len(t, pcm, 50)
		assert.InDelta(t, 0.25, pcm[10], 1e-4)
	})

	t.Run("max samples", func(t *testing.T) {
		data := writeWAV(t, 16000, 1, make([]int, 100))
		pcm, err := Decode(bytes.NewReader(data), "clip.wav", Options{MaxSamples: 10})
		require.NoError(t, err)
		assert.Len(t, pcm, 10)
	})
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil), "clip.wav", Options{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(bytes.NewReader([]byte("plain text, not audio")), "notes.txt", Options{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestResampleAndDownmix(t *testing.T) {
	assert.Equal(t, []float32{0.5, 1}, downmix([]float32{0, 1, 1, 1}, 2))

	out := resampleLinear([]float32{0, 1, 2, 3}, 16000, 32000)
	require.Len(t, out, 8)
	assert.InDelta(t, 0.5, out[1], 1e-6)
	assert.InDelta(t, 3, out[7], 1e-6)

	assert.Equal(t, []float32{1, 2}, resampleLinear([]float32{1, 2}, 16000, 16000))
}
