package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/campusvote/internal/kiosk"
	"github.com/abrezinsky/campusvote/internal/logger"
	"github.com/abrezinsky/campusvote/internal/models"
	"github.com/abrezinsky/campusvote/internal/services"
)

// Message types pushed to screens
const (
	MsgPhase          = "phase"
	MsgResultsUpdated = "results_updated"
	MsgKiosk          = "kiosk"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // screens are served from the same LAN host
	},
}

// Hub keeps the connected screens of every school and fans messages out
// to the screens of one school
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	settings   services.SettingsServicer
}

type envelope struct {
	schoolID string
	msg      models.WSMessage
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	schoolID string
	send     chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, settings services.SettingsServicer) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   settings,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "school", client.schoolID, "total_clients", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "school", client.schoolID, "total_clients", total)

		case e := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.schoolID != e.schoolID {
					continue
				}
				select {
				case client.send <- e.msg:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastMessage sends a message to every screen of a school
func (h *Hub) BroadcastMessage(schoolID, msgType string, payload interface{}) {
	h.broadcast <- envelope{
		schoolID: models.Key(schoolID),
		msg:      models.WSMessage{Type: msgType, Payload: payload},
	}
}

// BroadcastPhase implements services.Broadcaster
func (h *Hub) BroadcastPhase(schoolID string, status *services.ElectionStatus) {
	h.BroadcastMessage(schoolID, MsgPhase, status)
}

// BroadcastResultsUpdated implements services.Broadcaster
func (h *Hub) BroadcastResultsUpdated(schoolID string) {
	h.BroadcastMessage(schoolID, MsgResultsUpdated, map[string]string{"school_id": models.Key(schoolID)})
}

// BroadcastKiosk implements kiosk.Notifier
func (h *Hub) BroadcastKiosk(schoolID string, snap kiosk.Snapshot) {
	h.BroadcastMessage(schoolID, MsgKiosk, snap)
}

// ConnectedSchools returns the schools that have at least one open screen
func (h *Hub) ConnectedSchools() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	seen := make(map[string]bool)
	schools := []string{}
	for client := range h.clients {
		if !seen[client.schoolID] {
			seen[client.schoolID] = true
			schools = append(schools, client.schoolID)
		}
	}
	return schools
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Screens only listen; anything they send is logged and dropped.
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from screens of the school named by
// the school query parameter. The current phase is the first message.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	schoolID := models.Key(r.URL.Query().Get("school"))
	if schoolID == "" {
		http.Error(w, "school query parameter is required", http.StatusBadRequest)
		return
	}

	status, err := h.settings.GetStatus(r.Context(), schoolID)
	if err != nil {
		h.log.Error("Failed to load election status", "school", schoolID, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		schoolID: schoolID,
		send:     make(chan models.WSMessage, 256),
	}
	client.send <- models.WSMessage{Type: MsgPhase, Payload: status}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}

// StartPhaseTicker pushes the current phase to every connected school on
// each tick, so screens see Scheduled turn Open and Open turn Ended without
// anyone touching the settings. It returns when ctx is done.
func (h *Hub) StartPhaseTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info("Phase ticker stopped")
			return
		case <-ticker.C:
			h.pushPhases(ctx)
		}
	}
}

func (h *Hub) pushPhases(ctx context.Context) {
	for _, schoolID := range h.ConnectedSchools() {
		status, err := h.settings.GetStatus(ctx, schoolID)
		if err != nil {
			h.log.Warn("Failed to load election status", "school", schoolID, "error", err)
			continue
		}
		h.BroadcastPhase(schoolID, status)
	}
}

var (
	_ services.Broadcaster = (*Hub)(nil)
	_ kiosk.Notifier       = (*Hub)(nil)
)
