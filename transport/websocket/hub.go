package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/hashfront-movement/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Event names
const (
	EventBoardUpdate      = "board_update"
	EventReachableOverlay = "reachable_overlay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message represents a WebSocket message
type Message struct {
	BoardID string             `json:"board_id"`
	Board   *service.BoardInfo `json:"board,omitempty"`
	Event   string             `json:"event,omitempty"`
	Data    interface{}        `json:"data,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	boardID string
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by board ID
	boards map[string]map[*Client]bool
	mu     sync.RWMutex

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		boards:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, boardID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		boardID: boardID,
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// BroadcastBoard sends the current board to all clients watching it
func (h *Hub) BroadcastBoard(boardID string, info *service.BoardInfo) {
	h.deliver(&Message{
		BoardID: boardID,
		Board:   info,
		Event:   EventBoardUpdate,
	})
}

// BroadcastEvent sends a custom event to all clients watching a board
func (h *Hub) BroadcastEvent(boardID string, event string, data interface{}) {
	h.deliver(&Message{
		BoardID: boardID,
		Event:   event,
		Data:    data,
	})
}

// ClientCount returns the number of clients watching a board
func (h *Hub) ClientCount(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

// registerClient adds a client to a board
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.boards[client.boardID] == nil {
		h.boards[client.boardID] = make(map[*Client]bool)
	}
	h.boards[client.boardID][client] = true

	log.Printf("Client registered for board %s (total clients: %d)",
		client.boardID, len(h.boards[client.boardID]))
}

// unregisterClient removes a client from a board
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. Callers hold h.mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.boards[client.boardID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	// Clean up empty boards
	if len(clients) == 0 {
		delete(h.boards, client.boardID)
	}

	log.Printf("Client unregistered from board %s (remaining clients: %d)",
		client.boardID, len(clients))
}

// deliver sends a message to all clients of its board. Slow clients whose
// send buffer is full are dropped.
func (h *Hub) deliver(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.boards[message.BoardID] {
		select {
		case client.send <- data:
		default:
			h.removeLocked(client)
		}
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Incoming frames only keep the connection alive
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
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
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON message per frame
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
