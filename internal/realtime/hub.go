package realtime

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Events published to group channels.
const (
	EventAlertNew   = "alert:new"
	EventFeedNew    = "feed:new"
	EventMessageNew = "message:new"
)

// Conn is the subset of a websocket connection the hub needs. Keeping it
// an interface lets tests subscribe fake connections.
type Conn interface {
	WriteJSON(v interface{}) error
}

// Event is the wire shape of a published domain event.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub is the registry of socket-to-group subscriptions, owned by the
// server process. Subscribe, Unsubscribe and Publish are its only
// mutating operations. Delivery is best-effort: a failed write evicts
// the connection and the event is not retried.
type Hub struct {
	mu     sync.Mutex
	groups map[string]map[Conn]struct{}
	conns  map[Conn]string
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]map[Conn]struct{}),
		conns:  make(map[Conn]string),
	}
}

// Subscribe adds conn to the group's channel. A connection subscribes to
// one group at a time; subscribing again moves it.
func (h *Hub) Subscribe(conn Conn, groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(conn)

	if h.groups[groupID] == nil {
		h.groups[groupID] = make(map[Conn]struct{})
	}
	h.groups[groupID][conn] = struct{}{}
	h.conns[conn] = groupID

	logrus.WithField("groupID", groupID).Debug("Connection subscribed to group channel")
}

// Unsubscribe removes conn from whatever group it is subscribed to.
// Called implicitly on disconnect.
func (h *Hub) Unsubscribe(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

// Publish delivers an event to every connection currently subscribed to
// the group's channel. Connections whose write fails are dropped.
func (h *Hub) Publish(groupID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers := h.groups[groupID]
	if len(subscribers) == 0 {
		return
	}

	msg := Event{Event: event, Data: payload}
	var failed []Conn
	for conn := range subscribers {
		if err := conn.WriteJSON(msg); err != nil {
			logrus.WithError(err).Warn("Dropping subscriber after failed write")
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		h.removeLocked(conn)
	}

	logrus.WithFields(logrus.Fields{
		"groupID": groupID,
		"event":   event,
		"count":   len(subscribers) - len(failed),
	}).Debug("Event published")
}

// Send delivers an event to a single connection. Writes go through the
// hub's lock so they never interleave with a concurrent Publish on the
// same connection; gorilla conns allow only one writer at a time. A
// failed write evicts the connection.
func (h *Hub) Send(conn Conn, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := conn.WriteJSON(Event{Event: event, Data: payload}); err != nil {
		logrus.WithError(err).Warn("Dropping connection after failed write")
		h.removeLocked(conn)
	}
}

func (h *Hub) removeLocked(conn Conn) {
	groupID, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)
	if subscribers := h.groups[groupID]; subscribers != nil {
		delete(subscribers, conn)
		if len(subscribers) == 0 {
			delete(h.groups, groupID)
		}
	}
}
