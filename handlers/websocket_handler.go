package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering is the deployment's job (reverse proxy / CORS).
		return true
	},
}

type WebSocketHandler struct {
	hub *brackets.Hub
}

func NewWebSocketHandler(hub *brackets.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs subscribes the caller to a division's live events. The room ID is
// the division ID; generation commits, schedule updates and reported results
// are all pushed here.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	divisionID := chi.URLParam(r, "divisionID")
	if divisionID == "" {
		http.Error(w, "missing divisionID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade websocket connection", "division_id", divisionID, "error", err)
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: divisionID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
