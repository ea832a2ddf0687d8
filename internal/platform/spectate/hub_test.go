package spectate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil {
		t.Cleanup(func() { resp.Body.Close() })
	}
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) Update {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var u Update
	require.NoError(t, json.Unmarshal(payload, &u))
	return u
}

func waitForSpectators(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.Spectators() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestSpectatorReceivesUpdates(t *testing.T) {
	hub := NewHub(Config{Every: 1})
	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	waitForSpectators(t, hub, 1)

	pub := hub.Publisher("s-1", "ada", "stem")
	pub.PublishStats(sim.Stats{Score: 12.5, Knowledge: 5, Semester: 1, Running: true})

	u := readUpdate(t, conn)
	assert.Equal(t, "s-1", u.Session)
	assert.Equal(t, "ada", u.Player)
	assert.Equal(t, "stem", u.Character)
	assert.Equal(t, 12.5, u.Stats.Score)
	assert.False(t, u.Ended)

	pub.End()
	u = readUpdate(t, conn)
	assert.True(t, u.Ended)
	assert.Empty(t, hub.Sessions())
}

func TestLateSpectatorGetsLatestState(t *testing.T) {
	hub := NewHub(Config{Every: 1})
	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	hub.Publisher("b", "bob", "medical").PublishStats(sim.Stats{Semester: 2, Running: true})
	hub.Publisher("a", "ada", "stem").PublishStats(sim.Stats{Semester: 1, Running: true})

	conn := dial(t, srv)
	assert.Equal(t, "a", readUpdate(t, conn).Session)
	assert.Equal(t, "b", readUpdate(t, conn).Session)
}

func TestPublisherThrottles(t *testing.T) {
	hub := NewHub(Config{Every: 10})
	pub := hub.Publisher("s", "ada", "stem")

	pub.PublishStats(sim.Stats{Score: 1, Running: true}) // state change: published
	require.Len(t, hub.Sessions(), 1)

	for i := 2; i <= 9; i++ {
		pub.PublishStats(sim.Stats{Score: float64(i), Running: true})
	}
	assert.Equal(t, 1.0, hub.Sessions()[0].Stats.Score, "intermediate frames are skipped")

	pub.PublishStats(sim.Stats{Score: 10, Running: true})
	assert.Equal(t, 10.0, hub.Sessions()[0].Stats.Score)

	pub.PublishStats(sim.Stats{Score: 10.1, Running: false})
	assert.False(t, hub.Sessions()[0].Stats.Running, "game over is always published")
}

func TestSessionsEndpoint(t *testing.T) {
	hub := NewHub(Config{Every: 1})
	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	hub.Publisher("s", "ada", "humanities").PublishStats(sim.Stats{Semester: 3, Running: true})

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var sessions []Update
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].Stats.Semester)
}

func TestCloseDisconnectsSpectators(t *testing.T) {
	hub := NewHub(Config{})
	srv := httptest.NewServer(Handler(hub))
	t.Cleanup(srv.Close)

	conn := dial(t, srv)
	waitForSpectators(t, hub, 1)

	hub.Close()
	assert.Zero(t, hub.Spectators())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
