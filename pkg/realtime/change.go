// Package realtime carries row change notifications from the store to
// subscribed clients and merges them into locally held collections.
package realtime

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType is the kind of row mutation that produced a change
type ChangeType string

const (
	Insert ChangeType = "INSERT"
	Update ChangeType = "UPDATE"
	Delete ChangeType = "DELETE"
)

// Change is the transport form of a row mutation. Record is nil for deletes.
type Change struct {
	Table     string     `json:"table"`
	Type      ChangeType `json:"type"`
	ID        uuid.UUID  `json:"id"`
	Record    any        `json:"record,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Identifiable is any row keyed by a UUID primary key
type Identifiable interface {
	GetID() uuid.UUID
}

// ChangeEvent is a typed change ready to be merged into a collection of T
type ChangeEvent[T Identifiable] struct {
	Type   ChangeType
	ID     uuid.UUID
	Record T
}

// Apply merges a change into collection and returns the result. Inserts
// append, updates replace the row with the same id (appending when it is
// absent) and deletes filter the id out. The input slice is not modified,
// and replaying an update or delete yields the same collection.
func Apply[T Identifiable](collection []T, ev ChangeEvent[T]) []T {
	out := make([]T, 0, len(collection)+1)

	switch ev.Type {
	case Insert:
		out = append(out, collection...)
		for _, row := range collection {
			if row.GetID() == ev.Record.GetID() {
				return out
			}
		}
		return append(out, ev.Record)

	case Update:
		replaced := false
		for _, row := range collection {
			if row.GetID() == ev.Record.GetID() {
				out = append(out, ev.Record)
				replaced = true
				continue
			}
			out = append(out, row)
		}
		if !replaced {
			out = append(out, ev.Record)
		}
		return out

	case Delete:
		id := ev.ID
		if id == uuid.Nil {
			id = ev.Record.GetID()
		}
		for _, row := range collection {
			if row.GetID() != id {
				out = append(out, row)
			}
		}
		return out
	}

	return append(out, collection...)
}
