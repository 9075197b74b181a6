package ipc

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	path := filepath.Join(t.TempDir(), "j.sock")
	_, err := Listen(ctx, path, func(_ context.Context, msg ControlMessage) Reply {
		switch msg.Cmd {
		case CmdSay:
			return Reply{OK: true, Response: strings.ToUpper(msg.Text)}
		default:
			return Reply{Error: "unknown command " + msg.Cmd}
		}
	})
	require.NoError(t, err)

	reply, err := Send(ctx, path, ControlMessage{Cmd: CmdSay, Text: "open google"})
	require.NoError(t, err)
	assert.Equal(t, Reply{OK: true, Response: "OPEN GOOGLE"}, reply)

	reply, err = Send(ctx, path, ControlMessage{Cmd: "dance"})
	require.NoError(t, err)
	assert.False(t, reply.OK)
	assert.Equal(t, "unknown command dance", reply.Error)
}

func TestSendWithoutDaemon(t *testing.T) {
	_, err := Send(t.Context(), filepath.Join(t.TempDir(), "missing.sock"), ControlMessage{Cmd: CmdListen})
	assert.Error(t, err)
}
