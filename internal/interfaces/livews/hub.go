package livews

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/hockey-dashboard/internal/domain/livegame"
	"github.com/riskibarqy/hockey-dashboard/internal/platform/logging"
)

const messageTypeDashboard = "dashboard"

type message struct {
	Type      string              `json:"type"`
	GameID    int64               `json:"game_id"`
	Dashboard *livegame.Dashboard `json:"dashboard"`
	SentAt    time.Time           `json:"sent_at"`
}

// Hub pushes every accepted dashboard to the browsers watching that game.
type Hub struct {
	logger   *logging.Logger
	upgrader websocket.Upgrader
	now      func() time.Time

	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
	closed  bool
}

func NewHub(allowedOrigins []string, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		now:     time.Now,
		clients: make(map[int64]map[*client]struct{}),
	}
}

// ServeGame upgrades the request and subscribes it to gameID. current, when
// set, is sent right away so the browser does not wait for the next poll; a
// newer dashboard broadcast in between wins over it.
func (h *Hub) ServeGame(w http.ResponseWriter, r *http.Request, gameID int64, current *livegame.Dashboard) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade websocket game_id=%d: %w", gameID, err)
	}

	c := newClient(uuid.NewString(), gameID, conn)
	if !h.register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return nil
	}
	h.logger.InfoContext(r.Context(), "live stream subscribed", "client_id", c.id, "game_id", gameID)

	if current != nil {
		if msg, err := h.encode(current); err == nil {
			c.trySend(current.Sequence, msg)
		}
	}

	go c.writePump()
	go c.readPump(h.unregister)
	return nil
}

func (h *Hub) DashboardUpdated(ctx context.Context, d *livegame.Dashboard) error {
	if d == nil {
		return nil
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients[d.GameID]))
	for c := range h.clients[d.GameID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	if len(targets) == 0 {
		return nil
	}

	msg, err := h.encode(d)
	if err != nil {
		return err
	}
	for _, c := range targets {
		if !c.trySend(d.Sequence, msg) {
			h.logger.WarnContext(ctx, "live stream client too slow, disconnecting", "client_id", c.id, "game_id", d.GameID)
			h.unregister(c)
		}
	}
	return nil
}

// Subscribers reports how many browsers watch gameID.
func (h *Hub) Subscribers(gameID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[gameID])
}

// Close disconnects every client; later ServeGame calls are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for gameID, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, gameID)
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.gameID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.gameID] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.gameID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.gameID)
	}
	c.close()
}

func (h *Hub) encode(d *livegame.Dashboard) ([]byte, error) {
	msg, err := sonic.Marshal(message{
		Type:      messageTypeDashboard,
		GameID:    d.GameID,
		Dashboard: d,
		SentAt:    h.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode live stream message game_id=%d: %w", d.GameID, err)
	}
	return msg, nil
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		candidate := strings.TrimSpace(origin)
		if candidate == "*" {
			allowAll = true
			continue
		}
		if candidate != "" {
			allowed[candidate] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
