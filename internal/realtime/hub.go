package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Topics clients can subscribe to.
const (
	TopicKioskStatus = "kiosk_status"
	TopicAttendance  = "attendance"
)

// Client represents a single websocket client connection.
// The actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Message is the envelope pushed to every subscriber.
type Message struct {
	Type   string    `json:"type"`
	Data   any       `json:"data"`
	SentAt time.Time `json:"sentAt"`
}

// Hub maintains active connections per topic and broadcasts events to them.
type Hub struct {
	mu             sync.RWMutex
	topicToClients map[string]map[Client]struct{}
}

func NewHub() *Hub {
	return &Hub{topicToClients: make(map[string]map[Client]struct{})}
}

// Register adds a client under a topic.
func (h *Hub) Register(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topicToClients[topic]; !ok {
		h.topicToClients[topic] = make(map[Client]struct{})
	}
	h.topicToClients[topic][client] = struct{}{}
}

// Unregister removes a client; an empty topic is cleaned up.
func (h *Hub) Unregister(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topicToClients[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topicToClients, topic)
		}
	}
}

// Subscribers returns the number of clients registered under topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topicToClients[topic])
}

// Broadcast sends a raw message to every client of a topic and returns how
// many accepted it. Failed clients are cleaned up by their handler.
func (h *Hub) Broadcast(topic string, message []byte) int {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.topicToClients[topic]))
	for c := range h.topicToClients[topic] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c.Send(message) {
			delivered++
		}
	}
	return delivered
}

// Encode wraps data in a Message of the given type.
func Encode(eventType string, data any) ([]byte, error) {
	return json.Marshal(Message{Type: eventType, Data: data, SentAt: time.Now().UTC()})
}

// Publish encodes data and broadcasts it to topic.
func (h *Hub) Publish(topic, eventType string, data any) (int, error) {
	raw, err := Encode(eventType, data)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(topic, raw), nil
}
