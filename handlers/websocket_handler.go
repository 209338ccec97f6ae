package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/opencourt/tennis-tour/live"
	"github.com/opencourt/tennis-tour/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the front-end origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub             *live.Hub
	calendarService services.CalendarService
	logger          *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, calendarService services.CalendarService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:             hub,
		calendarService: calendarService,
		logger:          logger,
	}
}

// ServeWs subscribes the caller to live updates of one calendar entry.
// Clients connect to /ws/calendar/{calendarID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	calendarID, err := getIDFromURL(r, "calendarID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := h.calendarService.GetByID(r.Context(), calendarID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			slog.Int("calendar_id", calendarID),
			slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.CalendarRoom(calendarID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
