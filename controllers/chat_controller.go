package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HTW-PMA/Kantino-App-grp12/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChatController owns the chat endpoints; it is a struct because the
// websocket path needs the hub.
type ChatController struct {
	Hub *services.ChatHub
}

func NewChatController(hub *services.ChatHub) *ChatController {
	return &ChatController{Hub: hub}
}

type chatMessage struct {
	ID        string `json:"id"`
	Response  string `json:"response"`
	IsLocal   bool   `json:"isLocal"`
	Timestamp string `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

func newChatMessage(resp services.ChatResponse) chatMessage {
	return chatMessage{
		ID:        uuid.NewString(),
		Response:  resp.Response,
		IsLocal:   resp.IsLocal,
		Timestamp: time.Now().Format(time.RFC3339),
		Error:     resp.Error,
	}
}

// PostMessage answers one chat message over plain HTTP.
func (cc *ChatController) PostMessage(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := c.GetString("deviceID")
	profile, err := deps.Preferences.Profile(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := deps.Chatbot.Reply(c.Request.Context(), profile, body.Message)
	c.JSON(http.StatusOK, newChatMessage(resp))
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatWS runs a chat session over a websocket. Incoming frames are
// {"message": "..."}; every answer goes to all open sessions of the device.
func (cc *ChatController) ChatWS(c *gin.Context) {
	deviceID := c.GetString("deviceID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := &services.ChatClient{DeviceID: deviceID, Conn: conn}
	cc.Hub.Register(client)

	// Keep connections alive through proxies. Ping goes through the
	// client so it cannot interleave with a reply frame.
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := client.Ping(); err != nil {
				cc.Hub.Unregister(client)
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			cc.Hub.Unregister(client)
			return
		}

		var frame struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &frame); err != nil || frame.Message == "" {
			cc.Hub.Send(deviceID, chatMessage{
				ID:        uuid.NewString(),
				Response:  "Ich konnte deine Nachricht nicht lesen.",
				IsLocal:   true,
				Timestamp: time.Now().Format(time.RFC3339),
			})
			continue
		}

		profile, err := deps.Preferences.Profile(deviceID)
		if err != nil {
			deps.Log.Warn("chat profile load failed", zap.String("device", deviceID), zap.Error(err))
		}
		resp := deps.Chatbot.Reply(c.Request.Context(), profile, frame.Message)
		cc.Hub.Send(deviceID, newChatMessage(resp))
	}
}
