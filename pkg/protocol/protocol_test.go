package protocol

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	f, err := Parse([]byte(`{"id":"1","kind":"command","text":"open youtube"}`))
	require.NoError(t, err)
	assert.Equal(t, Command("1", "open youtube"), f)

	_, err = Parse([]byte(`{"kind":"command","text":"  "}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"kind":"shout","text":"hi"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

// echoServer replies to every command with its upper-cased text and pushes
// one event first.
func echoServer(t *testing.T) string {
	t.Helper()

	up := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(Frame{Kind: KindEvent, Text: "Reminder: tea"})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var in Frame
			if json.Unmarshal(data, &in) != nil {
				return
			}
			reply := Frame{ID: in.ID, Kind: KindReply, Text: strings.ToUpper(in.Text), Language: "en"}
			if in.Text == "fail" {
				reply = Error(in.ID, "bad command")
			}
			if conn.WriteJSON(reply) != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientAsk(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()

	events := make(chan Frame, 1)
	c, err := Dial(ctx, Config{URL: echoServer(t), EmitOut: func(f Frame) { events <- f }})
	require.NoError(t, err)

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		c.Run(runCtx)
		close(done)
	}()

	reply, err := c.Ask(ctx, "open youtube")
	require.NoError(t, err)
	assert.Equal(t, KindReply, reply.Kind)
	assert.Equal(t, "OPEN YOUTUBE", reply.Text)

	_, err = c.Ask(ctx, "fail")
	assert.EqualError(t, err, "bad command")

	select {
	case ev := <-events:
		assert.Equal(t, "Reminder: tea", ev.Text)
	case <-ctx.Done():
		t.Fatal("event never delivered")
	}

	stop()
	<-done
}
