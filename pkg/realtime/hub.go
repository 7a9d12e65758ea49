package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultBuffer = 64

// Subscription receives changes for the tables it asked for
type Subscription struct {
	id     uint64
	tables map[string]struct{}
	C      <-chan Change
	ch     chan Change
}

func (s *Subscription) wants(table string) bool {
	if len(s.tables) == 0 {
		return true
	}
	_, ok := s.tables[table]
	return ok
}

// Hub fans out published changes to subscribers. A subscriber whose buffer
// is full misses the change; Publish never blocks.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
	buffer int
	closed bool
	now    func() time.Time
}

// NewHub creates a hub whose subscriptions buffer up to buffer changes
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe registers interest in the given tables. No tables means all.
func (h *Hub) Subscribe(tables ...string) *Subscription {
	ch := make(chan Change, h.buffer)
	sub := &Subscription{
		tables: make(map[string]struct{}, len(tables)),
		C:      ch,
		ch:     ch,
	}
	for _, t := range tables {
		if t != "" {
			sub.tables[t] = struct{}{}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.nextID++
	sub.id = h.nextID
	h.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes the subscription and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.id]; !ok {
		return
	}
	delete(h.subs, sub.id)
	close(sub.ch)
}

// Close ends every subscription and refuses new ones, so open streams
// finish before the server shuts down.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Publish delivers a change to every interested subscriber
func (h *Hub) Publish(c Change) {
	if h == nil {
		return
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = h.now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(c.Table) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			log.Printf("realtime: dropped %s %s for slow subscriber %d", c.Table, c.Type, sub.id)
		}
	}
}

// Inserted publishes an INSERT of record into table
func (h *Hub) Inserted(table string, record Identifiable) {
	h.Publish(Change{Table: table, Type: Insert, ID: record.GetID(), Record: record})
}

// Updated publishes an UPDATE of record in table
func (h *Hub) Updated(table string, record Identifiable) {
	h.Publish(Change{Table: table, Type: Update, ID: record.GetID(), Record: record})
}

// Deleted publishes a DELETE of id from table
func (h *Hub) Deleted(table string, id uuid.UUID) {
	h.Publish(Change{Table: table, Type: Delete, ID: id})
}

// Subscribers returns the number of live subscriptions
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
