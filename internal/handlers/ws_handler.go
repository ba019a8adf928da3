package handlers

import (
	"net/http"

	"github.com/carepulse/carepulse/internal/models"
	"github.com/carepulse/carepulse/internal/realtime"
	"github.com/carepulse/carepulse/internal/services"
	jwtutil "github.com/carepulse/carepulse/pkg/jwt"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// wsClientMessage is what clients may send over the socket. Everything a
// client sends through here is also reachable over REST; the socket just
// saves a round trip for chat and manual alerts.
type wsClientMessage struct {
	Event string `json:"event"` // "join:group", "message:send", "alert:create"

	// message:send
	ThreadID string `json:"thread_id,omitempty"`
	Content  string `json:"content,omitempty"`

	// alert:create
	Type    string `json:"type,omitempty"`
	Urgency string `json:"urgency,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// WSHandler upgrades connections and bridges client socket events into
// the chat and alert services. Broadcasts flow back out through the hub.
type WSHandler struct {
	Hub       *realtime.Hub
	Users     *services.UserService
	Chat      *services.ChatService
	Alerts    *services.AlertService
	JWTSecret string
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewWSHandler creates a new instance of WSHandler.
func NewWSHandler(hub *realtime.Hub, users *services.UserService, chat *services.ChatService, alerts *services.AlertService, jwtSecret string) *WSHandler {
	return &WSHandler{Hub: hub, Users: users, Chat: chat, Alerts: alerts, JWTSecret: jwtSecret}
}

// ServeWS handles GET /ws?token=<jwt>. Browsers cannot set an
// Authorization header on a websocket handshake, so the token rides in
// the query string.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket auth failed")
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Error("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	defer h.Hub.Unsubscribe(conn)

	logrus.WithField("userID", claims.UserID).Info("WebSocket connected")

	// Users already in a group land on its channel straight away. The
	// explicit join:group event exists for clients that join a group
	// mid-session.
	if user.Group != nil {
		h.Hub.Subscribe(conn, user.Group.Hex())
	}

	for {
		var msg wsClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logrus.WithField("userID", claims.UserID).Debug("WebSocket disconnected")
			return
		}
		h.handleClientMessage(r, conn, user, msg)
	}
}

func (h *WSHandler) handleClientMessage(r *http.Request, conn *websocket.Conn, user *models.User, msg wsClientMessage) {
	switch msg.Event {
	case "join:group":
		// Re-resolve the user in case they joined a group after the
		// socket was opened.
		fresh, err := h.Users.GetUser(r.Context(), user.ID.Hex())
		if err == nil && fresh.Group != nil {
			*user = *fresh
			h.Hub.Subscribe(conn, fresh.Group.Hex())
		}

	case "message:send":
		if _, err := h.Chat.SendMessage(r.Context(), user, msg.ThreadID, msg.Content); err != nil {
			h.writeError(conn, err)
		}

	case "alert:create":
		alert := &models.Alert{
			Type:    msg.Type,
			Urgency: msg.Urgency,
			Title:   msg.Title,
			Message: msg.Message,
		}
		if _, err := h.Alerts.CreateAlert(r.Context(), user, alert); err != nil {
			h.writeError(conn, err)
		}

	default:
		h.writeError(conn, nil)
	}
}

// writeError reports a failure back to one client. The write goes
// through the hub so it cannot race a group broadcast on the same
// connection.
func (h *WSHandler) writeError(conn *websocket.Conn, err error) {
	message := "Unsupported event"
	if err != nil {
		message = err.Error()
	}
	h.Hub.Send(conn, "error", map[string]string{"message": message})
}
