package model

import "time"

const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionCancelled = "cancelled"
)

// ChangeEvent is emitted after every committed reservation write. It carries
// enough for a subscriber to invalidate just the affected bay/date slice.
// Events are not persisted by the engine.
type ChangeEvent struct {
	ReservationID string    `json:"reservation_id"`
	BayID         string    `json:"bay_id"`
	Date          string    `json:"date"`
	Action        string    `json:"action"`
	OccurredAt    time.Time `json:"occurred_at"`
}
