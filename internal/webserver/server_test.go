package webserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psidex/convgraph/internal/engine"
	"github.com/psidex/convgraph/internal/graph"
)

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type receivedFrame struct {
	Seq       uint64 `json:"seq"`
	Dragged   string `json:"dragged"`
	Hovered   string `json:"hovered"`
	Positions []struct {
		Key string  `json:"key"`
		X   float64 `json:"x"`
		Y   float64 `json:"y"`
	} `json:"positions"`
}

func newTestServer(t *testing.T, staticDir string) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(engine.Options{
		Dimensions:    graph.Dimensions{Width: 400, Height: 320},
		FrameInterval: time.Millisecond,
	}, staticDir, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func read(t *testing.T, c *websocket.Conn) received {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg received
	require.NoError(t, c.ReadJSON(&msg))
	return msg
}

// readUntil reads messages until one of type typ satisfies ok.
func readUntil(t *testing.T, c *websocket.Conn, typ string, ok func(json.RawMessage) bool) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		msg := read(t, c)
		if msg.Type == typ && ok(msg.Data) {
			return msg.Data
		}
	}
	t.Fatalf("no %s message arrived", typ)
	return nil
}

func start(t *testing.T, c *websocket.Conn) {
	t.Helper()
	require.NoError(t, c.WriteJSON(SessionConfig{
		Title: "Q4 Review",
		Entities: []graph.Entity{
			{ID: "1", Name: "Sarah Chen", Type: "person"},
			{ID: "2", Name: "Acme Corp", Type: "company"},
		},
		Width:  400,
		Height: 320,
	}))

	msg := read(t, c)
	require.Equal(t, "session", msg.Type)
	var data sessionData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.NotEmpty(t, data.ID)
}

func TestSession_StreamsGraph(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := dial(t, ts)
	start(t, c)

	assert.Equal(t, "clear", read(t, c).Type)
	types := map[string]int{}
	for {
		msg := read(t, c)
		types[msg.Type]++
		if msg.Type == "frame" {
			break
		}
	}
	assert.Equal(t, 3, types["node"])
	assert.Equal(t, 2, types["edge"])
}

func TestSession_Drag(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := dial(t, ts)
	start(t, c)

	require.NoError(t, c.WriteJSON(Event{Type: "pointerdown", Node: "entity-1"}))
	require.NoError(t, c.WriteJSON(Event{Type: "pointermove", X: 100, Y: 90}))

	readUntil(t, c, "frame", func(data json.RawMessage) bool {
		var f receivedFrame
		require.NoError(t, json.Unmarshal(data, &f))
		if f.Dragged != "entity-1" {
			return false
		}
		for _, p := range f.Positions {
			if p.Key == "entity-1" {
				return p.X == 100 && p.Y == 90
			}
		}
		return false
	})

	require.NoError(t, c.WriteJSON(Event{Type: "pointerup"}))
	readUntil(t, c, "frame", func(data json.RawMessage) bool {
		var f receivedFrame
		require.NoError(t, json.Unmarshal(data, &f))
		return f.Dragged == ""
	})
}

func TestSession_Rebuild(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := dial(t, ts)
	start(t, c)

	require.NoError(t, c.WriteJSON(Event{
		Type:     "rebuild",
		Title:    "Standup",
		Entities: []graph.Entity{{Name: "Pricing", Type: "topic"}},
	}))

	readUntil(t, c, "clear", func(data json.RawMessage) bool {
		return strings.Contains(string(data), "Standup")
	})
}

func TestSession_BadEventKeepsSession(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := dial(t, ts)
	start(t, c)

	require.NoError(t, c.WriteJSON(Event{Type: "explode"}))
	readUntil(t, c, "error", func(json.RawMessage) bool { return true })

	require.NoError(t, c.WriteJSON(Event{Type: "pointerenter", Node: "entity-0"}))
	readUntil(t, c, "frame", func(data json.RawMessage) bool {
		var f receivedFrame
		require.NoError(t, json.Unmarshal(data, &f))
		return f.Hovered == "entity-0"
	})
}

func TestSession_BadConfig(t *testing.T) {
	srv, ts := newTestServer(t, "")
	c := dial(t, ts)

	require.NoError(t, c.WriteMessage(websocket.TextMessage, []byte("not json")))
	assert.Equal(t, "error", read(t, c).Type)

	// The server closes the connection.
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
	assert.Zero(t, srv.Sessions())
}

func TestSession_HalfCanvasRejected(t *testing.T) {
	tests := []struct {
		name string
		cfg  SessionConfig
	}{
		{"width without height", SessionConfig{Width: 400}},
		{"height without width", SessionConfig{Height: 320}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, ts := newTestServer(t, "")
			c := dial(t, ts)

			require.NoError(t, c.WriteJSON(tt.cfg))
			assert.Equal(t, "error", read(t, c).Type)

			require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
			_, _, err := c.ReadMessage()
			assert.Error(t, err)
			assert.Zero(t, srv.Sessions())
		})
	}
}

func TestSession_NamelessEntityRejected(t *testing.T) {
	_, ts := newTestServer(t, "")
	c := dial(t, ts)

	require.NoError(t, c.WriteJSON(SessionConfig{Entities: []graph.Entity{{Type: "person"}}}))
	assert.Equal(t, "error", read(t, c).Type)
}

func TestSession_ClosedByClient(t *testing.T) {
	srv, ts := newTestServer(t, "")
	c := dial(t, ts)
	start(t, c)

	require.Eventually(t, func() bool { return srv.Sessions() == 1 }, 5*time.Second, time.Millisecond)
	srv.SetParams(graph.DefaultParams())

	require.NoError(t, c.Close())
	require.Eventually(t, func() bool { return srv.Sessions() == 0 }, 5*time.Second, time.Millisecond)
}

func TestRouter_MetricsAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>graph</h1>"), 0o644))
	_, ts := newTestServer(t, dir)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "convgraph_ws_sessions")

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "<h1>graph</h1>")

	resp, err = http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
