package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TopicKitchen receives every change
const TopicKitchen = "kitchen"

// EventTopic is the topic for changes to the tasks of one event
func EventTopic(eventID int) string {
	return fmt.Sprintf("event:%d", eventID)
}

// MessageType names the change a message reports
type MessageType string

const (
	TaskCreated  MessageType = "task_created"
	TaskUpdated  MessageType = "task_updated"
	TaskDeleted  MessageType = "task_deleted"
	ShiftCreated MessageType = "shift_created"
	ShiftUpdated MessageType = "shift_updated"
	ShiftDeleted MessageType = "shift_deleted"
)

// Message is what subscribers receive
type Message struct {
	ID      string      `json:"id"`
	Type    MessageType `json:"type"`
	TaskID  int         `json:"taskId,omitempty"`
	ShiftID int         `json:"shiftId,omitempty"`
	EventID *int        `json:"eventId,omitempty"`
	Version int64       `json:"version"`
	At      time.Time   `json:"at"`
}

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub fans change notifications out to the clients subscribed to a topic.
type Hub struct {
	mu            sync.RWMutex
	topicToClient map[string]map[Client]struct{}
	version       atomic.Int64
}

func NewHub() *Hub {
	return &Hub{topicToClient: make(map[string]map[Client]struct{})}
}

// Subscribe adds a client to a topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topicToClient[topic]; !ok {
		h.topicToClient[topic] = make(map[Client]struct{})
	}
	h.topicToClient[topic][client] = struct{}{}
}

// Unsubscribe removes a client from a topic; empty topics are cleaned up.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.topicToClient[topic]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.topicToClient, topic)
		}
	}
}

// Subscribers counts the clients of a topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topicToClient[topic])
}

// Publish stamps msg with an id and version and sends it to the kitchen topic
// and, when the change belongs to an event, to that event's topic. A client
// subscribed to both receives it once.
func (h *Hub) Publish(msg Message) Message {
	msg.ID = uuid.NewString()
	msg.Version = h.version.Add(1)
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return msg
	}

	topics := []string{TopicKitchen}
	if msg.EventID != nil {
		topics = append(topics, EventTopic(*msg.EventID))
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := map[Client]struct{}{}
	for _, topic := range topics {
		for c := range h.topicToClient[topic] {
			if _, dup := sent[c]; dup {
				continue
			}
			sent[c] = struct{}{}
			// a failed write is cleaned up by the ws handler's reader loop
			c.Send(payload)
		}
	}
	return msg
}
