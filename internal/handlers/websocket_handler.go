package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// WebSocketHandler pushes live events (new reservations, status changes, visits)
// to the admin dashboards.
type WebSocketHandler struct {
	upgrader   websocket.Upgrader
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
}

func NewWebSocketHandler() *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// HandleConnections upgrades the request and serves the connection until it closes
// @Summary Live admin feed
// @Description WebSocket stream of reservation_created, reservation_status_changed and visit_tracked events
// @Tags admin
// @Router /ws [get]
func (h *WebSocketHandler) HandleConnections(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: ws, send: make(chan []byte, sendBuffer)}
	h.register <- client
	logger.Debug("websocket client connected", "remote_addr", c.Request.RemoteAddr)

	go h.writePump(client)
	h.readPump(client)
}

func (h *WebSocketHandler) readPump(client *wsClient) {
	defer func() {
		h.unregister <- client
	}()

	for {
		var msg map[string]interface{}
		if err := client.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", "error", err)
			}
			return
		}

		var response map[string]interface{}
		switch msg["type"] {
		case "subscribe":
			response = map[string]interface{}{
				"type":      "subscribed",
				"message":   "Successfully subscribed to updates",
				"timestamp": time.Now().Unix(),
			}
		case "ping":
			response = map[string]interface{}{
				"type": "pong",
				"time": time.Now().Unix(),
			}
		default:
			response = map[string]interface{}{
				"type":      "error",
				"message":   "Unknown message type",
				"timestamp": time.Now().Unix(),
			}
		}

		data, _ := json.Marshal(response)
		select {
		case client.send <- data:
		default:
		}
	}
}

// writePump is the only writer on the connection.
func (h *WebSocketHandler) writePump(client *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) RunHub() {
	logger.Info("starting websocket hub")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Debug("websocket client registered", "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				logger.Debug("websocket client unregistered", "clients", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer. Closing the connection ends its read loop.
					delete(h.clients, client)
					client.conn.Close()
				}
			}
		}
	}
}

// BroadcastUpdate forwards a cache update to every connected dashboard. It never blocks
// the publisher: updates are dropped when the hub is saturated.
func (h *WebSocketHandler) BroadcastUpdate(update cache.Update) {
	jsonData, err := json.Marshal(map[string]interface{}{
		"type":      update.Type,
		"data":      update.Payload,
		"timestamp": update.Timestamp,
	})
	if err != nil {
		logger.Warn("failed to marshal broadcast message", "error", err)
		return
	}

	select {
	case h.broadcast <- jsonData:
	default:
		logger.Warn("websocket broadcast queue full, dropping update", "type", update.Type)
	}
}
