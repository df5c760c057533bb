package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/hashfront-movement/game/movement"
	"github.com/wricardo/hashfront-movement/game/service"
)

func newTestClient(hub *Hub, boardID string, buffer int) *Client {
	return &Client{
		hub:     hub,
		boardID: boardID,
		send:    make(chan []byte, buffer),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.boards == nil {
		t.Error("Hub boards map is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-board", 256)

	hub.registerClient(client)

	if !hub.boards["test-board"][client] {
		t.Error("Client was not registered on board")
	}
	if got := hub.ClientCount("test-board"); got != 1 {
		t.Errorf("Expected 1 client on board, got %d", got)
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "test-board", 256)

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.boards["test-board"]; exists {
		t.Error("Board should have been cleaned up after last client left")
	}

	// Unregistering twice must not panic on a closed channel
	hub.unregisterClient(client)
}

func TestHubMultipleClientsOnBoard(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "multi", 256)
	client2 := newTestClient(hub, "multi", 256)

	hub.registerClient(client1)
	hub.registerClient(client2)

	if got := hub.ClientCount("multi"); got != 2 {
		t.Errorf("Expected 2 clients on board, got %d", got)
	}

	hub.unregisterClient(client1)

	if got := hub.ClientCount("multi"); got != 1 {
		t.Errorf("Expected 1 client remaining on board, got %d", got)
	}
	if !hub.boards["multi"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastBoard(t *testing.T) {
	hub := NewHub()
	watcher := newTestClient(hub, "b1", 256)
	other := newTestClient(hub, "b2", 256)
	hub.registerClient(watcher)
	hub.registerClient(other)

	info := &service.BoardInfo{
		ID:     "b1",
		MapID:  "crossroads",
		Width:  3,
		Height: 1,
		Layout: []string{"RR."},
		Units: []service.Unit{
			{ID: "p1-tank", Class: movement.Tank, Player: 1, Position: movement.Position{X: 1, Y: 0}},
		},
	}

	hub.BroadcastBoard("b1", info)

	select {
	case data := <-watcher.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.BoardID != "b1" {
			t.Errorf("Expected board b1, got %s", message.BoardID)
		}
		if message.Event != EventBoardUpdate {
			t.Errorf("Expected event %q, got %q", EventBoardUpdate, message.Event)
		}
		if message.Board == nil || len(message.Board.Units) != 1 || message.Board.Units[0].Position.X != 1 {
			t.Errorf("Board not correctly transmitted: %+v", message.Board)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client on another board should not receive the update")
	default:
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "event-test", 256)
	hub.registerClient(client)

	hub.BroadcastEvent("event-test", EventReachableOverlay, []string{"tile"})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Event != EventReachableOverlay {
			t.Errorf("Expected event %q, got %q", EventReachableOverlay, message.Event)
		}
		if message.Board != nil {
			t.Error("Event message should not carry a board")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "slow", 1)
	hub.registerClient(slow)

	hub.BroadcastEvent("slow", "first", nil)
	hub.BroadcastEvent("slow", "second", nil)

	if got := hub.ClientCount("slow"); got != 0 {
		t.Errorf("Expected slow client to be dropped, %d remain", got)
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("board"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?board=ws-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	// Give some time for registration
	time.Sleep(50 * time.Millisecond)

	if got := hub.ClientCount("ws-test"); got != 1 {
		t.Errorf("Expected 1 client on board, got %d", got)
	}

	conn.Close()

	// Give some time for unregistration
	time.Sleep(50 * time.Millisecond)

	if got := hub.ClientCount("ws-test"); got != 0 {
		t.Errorf("Board should have been cleaned up after WebSocket close, %d remain", got)
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("board"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?board=msg-test"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	// Give time for connection to establish
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastBoard("msg-test", &service.BoardInfo{ID: "msg-test", MapID: "ridge"})

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.Board == nil || message.Board.MapID != "ridge" {
		t.Errorf("Unexpected board in message: %+v", message.Board)
	}
}
