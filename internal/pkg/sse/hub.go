package sse

import (
	"sync"
	"time"
)

// Event is one server-sent event addressed to a dashboard session.
type Event struct {
	SessionID string
	Event     string
	Data      any
}

// Hub fans events out to the open event streams of each session. A session
// may have several streams, one per open tab.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for sessionID. The returned func unregisters
// it and closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)
	if h.subscribers[sessionID] == nil {
		h.subscribers[sessionID] = make(map[chan Event]struct{})
	}
	h.subscribers[sessionID][ch] = struct{}{}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[sessionID], ch)
			close(ch)
			if len(h.subscribers[sessionID]) == 0 {
				delete(h.subscribers, sessionID)
			}
		})
	}

	return ch, cancel
}

// Publish delivers event to every stream of sessionID. Full streams miss the
// event rather than block the publisher.
func (h *Hub) Publish(sessionID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.SessionID = sessionID
	for ch := range h.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Notifier returns a view notifier bound to sessionID.
func (h *Hub) Notifier(sessionID string) *SessionNotifier {
	return &SessionNotifier{hub: h, sessionID: sessionID}
}

// SubscriberCount returns the number of open streams of sessionID.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}

// SessionNotifier publishes view change events of one session.
type SessionNotifier struct {
	hub       *Hub
	sessionID string
}

func (n *SessionNotifier) Notify(event string) {
	n.hub.Publish(n.sessionID, Event{
		Event: event,
		Data:  map[string]any{"at": time.Now().UTC().Format(time.RFC3339Nano)},
	})
}
