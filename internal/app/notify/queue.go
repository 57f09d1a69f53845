package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"farmtycoon/internal/app/ports"
)

const DefaultDurationMs = 3000

type Notification struct {
	ID        string                 `json:"id"`
	Message   string                 `json:"message"`
	Type      ports.NotificationType `json:"type"`
	Duration  int                    `json:"duration"`
	CreatedAt time.Time              `json:"created_at"`
}

type Listener func([]Notification)

// Queue is a pub/sub list of transient notifications. Every change fans the
// full list out to all subscribers, in the order the changes were made.
// Listeners must not call back into the queue's mutating methods.
type Queue struct {
	// pubMu serializes change+fan-out so listeners never see an older
	// snapshot after a newer one.
	pubMu     sync.Mutex
	mu        sync.Mutex
	clock     Clock
	items     []Notification
	timers    map[string]Timer
	listeners map[uint64]Listener
	nextSub   uint64
	newID     func() string

	DefaultDuration int
}

func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = RealClock()
	}
	return &Queue{
		clock:           clock,
		timers:          make(map[string]Timer),
		listeners:       make(map[uint64]Listener),
		newID:           uuid.NewString,
		DefaultDuration: DefaultDurationMs,
	}
}

// Add appends a notification and returns its id. An empty type means info
// and a negative duration means the queue default. A zero duration keeps
// the notification until it is removed.
func (q *Queue) Add(message string, typ ports.NotificationType, durationMs int) string {
	if typ == "" {
		typ = ports.NotifyInfo
	}
	q.pubMu.Lock()
	defer q.pubMu.Unlock()

	q.mu.Lock()
	if durationMs < 0 {
		durationMs = q.DefaultDuration
	}
	n := Notification{
		ID:        q.newID(),
		Message:   message,
		Type:      typ,
		Duration:  durationMs,
		CreatedAt: q.clock.Now(),
	}
	q.items = append(q.items, n)
	if durationMs > 0 {
		id := n.ID
		q.timers[id] = q.clock.AfterFunc(time.Duration(durationMs)*time.Millisecond, func() { q.expire(id) })
	}
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	publish(listeners, snapshot)
	return n.ID
}

// Info adds an info notification with the default duration.
func (q *Queue) Info(message string) string {
	return q.Add(message, ports.NotifyInfo, -1)
}

// Remove drops id from the queue. Unknown ids are ignored.
func (q *Queue) Remove(id string) {
	q.pubMu.Lock()
	defer q.pubMu.Unlock()
	q.mu.Lock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	if !q.removeLocked(id) {
		q.mu.Unlock()
		return
	}
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	publish(listeners, snapshot)
}

func (q *Queue) expire(id string) {
	q.pubMu.Lock()
	defer q.pubMu.Unlock()
	q.mu.Lock()
	delete(q.timers, id)
	if !q.removeLocked(id) {
		q.mu.Unlock()
		return
	}
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	publish(listeners, snapshot)
}

func (q *Queue) Clear() {
	q.pubMu.Lock()
	defer q.pubMu.Unlock()
	q.mu.Lock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	publish(listeners, snapshot)
}

func (q *Queue) Notifications() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notification(nil), q.items...)
}

// Subscribe registers l and returns a func that unregisters it.
func (q *Queue) Subscribe(l Listener) func() {
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.listeners[id] = l
	q.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.mu.Lock()
			delete(q.listeners, id)
			q.mu.Unlock()
		})
	}
}

func (q *Queue) removeLocked(id string) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) snapshotLocked() ([]Notification, []Listener) {
	snapshot := append([]Notification(nil), q.items...)
	listeners := make([]Listener, 0, len(q.listeners))
	for _, l := range q.listeners {
		listeners = append(listeners, l)
	}
	return snapshot, listeners
}

func publish(listeners []Listener, snapshot []Notification) {
	for _, l := range listeners {
		l(snapshot)
	}
}
