// Package spectate broadcasts live run stats to WebSocket spectators.
// Every playing session gets a Publisher; every connected spectator receives
// the latest state of all sessions on connect and then a stream of updates.
package spectate

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/campus-runner/internal/games/campus/sim"
)

const (
	writeWait     = 2 * time.Second
	clientBacklog = 64
)

// Update is the message sent to spectators.
type Update struct {
	Session   string    `json:"session"`
	Player    string    `json:"player"`
	Character string    `json:"character"`
	Stats     sim.Stats `json:"stats"`
	Ended     bool      `json:"ended,omitempty"`
}

// Config tunes a Hub.
type Config struct {
	Logger *log.Logger
	// Every publishes one in N frames per session. State changes (run start,
	// game over, exam start) are always published.
	Every int
}

// Hub fans session updates out to spectators. It is safe for concurrent use.
type Hub struct {
	log      *log.Logger
	every    int
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  map[string]Update
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub creates an empty hub.
func NewHub(cfg Config) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	every := cfg.Every
	if every <= 0 {
		every = 6
	}
	return &Hub{
		log:   logger,
		every: every,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
		latest:  make(map[string]Update),
	}
}

// ServeHTTP upgrades the request and streams updates until the spectator
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("spectator upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBacklog)}
	if !h.register(c) {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}
	h.log.Debug("spectator connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)

	// Spectators only listen; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	h.log.Debug("spectator disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}

	// Initial state of every live session, in a stable order
	ids := make([]string, 0, len(h.latest))
	for id := range h.latest {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if len(c.send) == cap(c.send) {
			break
		}
		if data, err := json.Marshal(h.latest[id]); err == nil {
			c.send <- data
		}
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	c.conn.Close()
}

func (h *Hub) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("spectator write failed", "err", err)
			c.conn.Close()
			return
		}
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (h *Hub) broadcast(u Update) {
	data, err := json.Marshal(u)
	if err != nil {
		h.log.Warn("cannot encode spectator update", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if u.Ended {
		delete(h.latest, u.Session)
	} else {
		h.latest[u.Session] = u
	}

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Too slow to keep up; drop it rather than stall the game loop.
			delete(h.clients, c)
			c.close()
			h.log.Warn("dropping slow spectator")
		}
	}
}

// Sessions returns the latest update of every live session.
func (h *Hub) Sessions() []Update {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Update, 0, len(h.latest))
	for _, u := range h.latest {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Session < out[j].Session })
	return out
}

// Spectators returns the number of connected spectators.
func (h *Hub) Spectators() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every spectator and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// Publisher streams one session's stats to the hub. It implements
// sim.StatsPublisher.
type Publisher struct {
	hub     *Hub
	session string
	player  string

	mu        sync.Mutex
	character string
	frames    int
	last      sim.Stats
	ended     bool
}

// Publisher creates a publisher for a playing session.
func (h *Hub) Publisher(session, player, character string) *Publisher {
	return &Publisher{hub: h, session: session, player: player, character: character}
}

// SetCharacter changes the character reported with later updates.
func (p *Publisher) SetCharacter(character string) {
	p.mu.Lock()
	p.character = character
	p.mu.Unlock()
}

// PublishStats forwards throttled stats to spectators.
func (p *Publisher) PublishStats(st sim.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return
	}
	p.frames++
	changed := st.Running != p.last.Running ||
		st.ExamActive != p.last.ExamActive ||
		st.Semester != p.last.Semester
	p.last = st
	if !changed && p.frames%p.hub.every != 0 {
		return
	}
	p.hub.broadcast(p.update(st, false))
}

// End announces that the session has left. Later stats are ignored.
func (p *Publisher) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return
	}
	p.ended = true
	p.hub.broadcast(p.update(p.last, true))
}

func (p *Publisher) update(st sim.Stats, ended bool) Update {
	return Update{
		Session:   p.session,
		Player:    p.player,
		Character: p.character,
		Stats:     st,
		Ended:     ended,
	}
}
