package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

type ChatClient struct {
	DeviceID string
	Conn     *websocket.Conn

	// Guards Conn writes. gorilla/websocket allows at most one concurrent
	// writer, but replies and keep-alive pings come from different
	// goroutines.
	writeMu sync.Mutex
}

// Write sends one frame, serialized against all other writers of this
// connection.
func (c *ChatClient) Write(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a keep-alive control frame.
func (c *ChatClient) Ping() error {
	return c.Write(websocket.PingMessage, nil)
}

// ChatHub tracks open chat websockets per device so answers reach every
// open session of that device.
type ChatHub struct {
	mu      sync.RWMutex
	clients map[string]map[*ChatClient]struct{}
}

func NewChatHub() *ChatHub {
	return &ChatHub{clients: make(map[string]map[*ChatClient]struct{})}
}

func (h *ChatHub) Register(c *ChatClient) {
	h.mu.Lock()
	if h.clients[c.DeviceID] == nil {
		h.clients[c.DeviceID] = make(map[*ChatClient]struct{})
	}
	h.clients[c.DeviceID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *ChatHub) Unregister(c *ChatClient) {
	h.mu.Lock()
	if set := h.clients[c.DeviceID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.DeviceID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Send pushes a payload to all open sessions of one device.
func (h *ChatHub) Send(deviceID string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[deviceID] {
		_ = c.Write(websocket.TextMessage, msg)
	}
}
