// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried in RecordEvent.Type.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// RecordEvent is published after a record is created, updated or deleted.
// It carries enough to build an activity trail without querying the primary
// database.  UserID is empty for unowned records.
type RecordEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	Resource   string `json:"resource"`
	RecordID   int64  `json:"record_id"`
	UserID     string `json:"user_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewRecordEvent stamps an event with a fresh id and the current UTC time.
func NewRecordEvent(typ, resource string, recordID int64, userID string) RecordEvent {
	return RecordEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		Resource:   resource,
		RecordID:   recordID,
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
