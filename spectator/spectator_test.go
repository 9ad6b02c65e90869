package spectator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/match"
)

func frame(id string, tick int, over bool) match.Frame {
	snap := game.Snapshot{
		Width: 4, Height: 4, Tick: tick,
		Snakes: [2]game.Snake{
			{ID: "A", Alive: true, Body: []game.Point{{X: 0, Y: 0}}},
			{ID: "B", Alive: true, Body: []game.Point{{X: 3, Y: 3}}},
		},
	}
	if over {
		snap.Phase = game.PhaseGameOver
		snap.Result = &game.Result{Outcome: game.OutcomeTie, Reason: game.EndAllDead}
	}
	return match.Frame{MatchID: id, Snapshot: snap}
}

func decode(t *testing.T, b []byte) match.Frame {
	t.Helper()
	var f match.Frame
	require.NoError(t, json.Unmarshal(b, &f))
	return f
}

func TestHubSubscribeAndFanOut(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()

	_, _, err := hub.Subscribe("nope")
	require.ErrorIs(t, err, ErrUnknownMatch)

	hub.Publish(ctx, frame("m1", 0, false))
	ch, unsubscribe, err := hub.Subscribe("m1")
	require.NoError(t, err)
	defer unsubscribe()

	assert.Equal(t, 0, decode(t, <-ch).Snapshot.Tick, "primed with the latest frame")
	hub.Publish(ctx, frame("m1", 1, false))
	assert.Equal(t, 1, decode(t, <-ch).Snapshot.Tick)

	hub.Publish(ctx, frame("m1", 2, true))
	assert.Equal(t, 2, decode(t, <-ch).Snapshot.Tick)
	_, open := <-ch
	assert.False(t, open, "finished match closes subscribers")

	late, _, err := hub.Subscribe("m1")
	require.NoError(t, err)
	assert.Equal(t, 2, decode(t, <-late).Snapshot.Tick)
	_, open = <-late
	assert.False(t, open)

	assert.Equal(t, []string{"m1"}, hub.Matches())
}

func TestHubDropsSlowSubscribers(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()
	hub.Publish(ctx, frame("m1", 0, false))
	ch, unsubscribe, err := hub.Subscribe("m1")
	require.NoError(t, err)
	defer unsubscribe()

	for i := 1; i <= subscriberBuffer+5; i++ {
		hub.Publish(ctx, frame("m1", i, false))
	}
	n := 0
	for range ch {
		n++
	}
	assert.Equal(t, subscriberBuffer, n, "buffer drained then closed")

	// The publisher is not affected.
	hub.Publish(ctx, frame("m1", 100, false))
	latest, err := hub.Latest("m1")
	require.NoError(t, err)
	assert.Equal(t, 100, decode(t, latest).Snapshot.Tick)
}

func TestServerRoutes(t *testing.T) {
	hub := NewHub(nil)
	hub.Publish(context.Background(), frame("m1", 3, false))
	srv := httptest.NewServer(NewServer(hub))
	defer srv.Close()

	get := func(path string) (int, []byte) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", string(body))

	code, body = get("/matches")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"matches":["m1"]}`, string(body))

	code, body = get("/matches/m1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, decode(t, body).Snapshot.Tick)

	code, _ = get("/matches/unknown")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = get("/matches/unknown/ws")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWebsocketStreamsFrames(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()
	hub.Publish(ctx, frame("m1", 0, false))
	srv := httptest.NewServer(NewServer(hub))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/m1/ws"
	dialer := websocket.Dialer{HandshakeTimeout: time.Second}
	conn, _, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() match.Frame {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		kind, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.TextMessage, kind)
		return decode(t, msg)
	}

	assert.Equal(t, 0, read().Snapshot.Tick)
	hub.Publish(ctx, frame("m1", 1, false))
	assert.Equal(t, 1, read().Snapshot.Tick)
	hub.Publish(ctx, frame("m1", 2, true))
	last := read()
	assert.Equal(t, game.PhaseGameOver, last.Snapshot.Phase)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
