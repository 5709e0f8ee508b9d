// Package ws is the websocket transport: it upgrades connections,
// assigns each one a session ID, dispatches inbound messages to the
// game service and implements the service's Broadcaster.
package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/geonobo/geonobo/internal/common/uuid"
	"github.com/geonobo/geonobo/internal/protocol"
	"github.com/geonobo/geonobo/internal/services/game"
	"github.com/gorilla/websocket"
)

// Config holds the configuration for the websocket hub
type Config struct {
	// UUIDGenerator mints session IDs for new connections
	UUIDGenerator uuid.Generator
}

// Hub tracks all live connections. It is constructed before the game
// service so the service can take it as its Broadcaster; SetService
// closes the loop afterwards.
type Hub struct {
	uuidGen  uuid.Generator
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	service game.Service
}

// New creates a new websocket hub
func New(cfg *Config) (*Hub, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}

	return &Hub{
		uuidGen: cfg.UUIDGenerator,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}, nil
}

// SetService wires the game service in after construction. Must be
// called before the hub starts serving connections.
func (h *Hub) SetService(svc game.Service) {
	h.mu.Lock()
	h.service = svc
	h.mu.Unlock()
}

// HandleWebSocket upgrades the request and runs the connection's read
// loop until the peer goes away.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   h.uuidGen.NewUUID(),
		conn: conn,
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	log.Printf("[ws] connected session=%s remote=%s", c.id, conn.RemoteAddr())

	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer h.disconnect(c)

	for {
		var msg protocol.ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error session=%s: %v", c.id, err)
			}
			return
		}

		h.dispatch(c, msg)
	}
}

func (h *Hub) disconnect(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	svc := h.service
	h.mu.Unlock()

	c.close()
	log.Printf("[ws] disconnected session=%s", c.id)

	if svc != nil {
		if _, err := svc.HandleDisconnect(context.Background(), &game.HandleDisconnectInput{PlayerID: c.id}); err != nil {
			log.Printf("[ws] disconnect cleanup failed session=%s: %v", c.id, err)
		}
	}
}

// SendToPlayer implements game.Broadcaster.
func (h *Hub) SendToPlayer(playerID string, event protocol.Event) {
	h.mu.RLock()
	c, ok := h.clients[playerID]
	h.mu.RUnlock()

	if !ok {
		return
	}
	if err := c.send(event); err != nil {
		log.Printf("[ws] send failed session=%s event=%s: %v", playerID, event.Type, err)
	}
}

// SendToPlayers implements game.Broadcaster.
func (h *Hub) SendToPlayers(playerIDs []string, event protocol.Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(playerIDs))
	for _, id := range playerIDs {
		if c, ok := h.clients[id]; ok {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(event); err != nil {
			log.Printf("[ws] send failed session=%s event=%s: %v", c.id, event.Type, err)
		}
	}
}

// SendToAll implements game.Broadcaster.
func (h *Hub) SendToAll(event protocol.Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(event); err != nil {
			log.Printf("[ws] send failed session=%s event=%s: %v", c.id, event.Type, err)
		}
	}
}
