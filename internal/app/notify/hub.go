package notify

import (
	"sync"

	"farmtycoon/internal/app/ports"
)

// Hub owns one Queue per farm session.
type Hub struct {
	mu              sync.Mutex
	clock           Clock
	queues          map[string]*Queue
	defaultDuration int
}

func NewHub(clock Clock, defaultDurationMs int) *Hub {
	if defaultDurationMs <= 0 {
		defaultDurationMs = DefaultDurationMs
	}
	return &Hub{
		clock:           clock,
		queues:          make(map[string]*Queue),
		defaultDuration: defaultDurationMs,
	}
}

func (h *Hub) Queue(sessionID string) *Queue {
	h.mu.Lock()
	defer h.mu.Unlock()
	q, ok := h.queues[sessionID]
	if !ok {
		q = NewQueue(h.clock)
		q.DefaultDuration = h.defaultDuration
		h.queues[sessionID] = q
	}
	return q
}

func (h *Hub) Notify(sessionID, message string, typ ports.NotificationType) {
	h.Queue(sessionID).Add(message, typ, -1)
}

// Drop clears and forgets the session queue.
func (h *Hub) Drop(sessionID string) {
	h.mu.Lock()
	q, ok := h.queues[sessionID]
	delete(h.queues, sessionID)
	h.mu.Unlock()
	if ok {
		q.Clear()
	}
}
