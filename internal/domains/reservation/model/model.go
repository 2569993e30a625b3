package model

import (
	"teesheet/shared/interval"
	"teesheet/shared/model"
	"time"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID          = "id"
	FieldBayID       = "bay_id"
	FieldReserveDate = "reserve_date"
	FieldStartMin    = "start_min"
	FieldEndMin      = "end_min"
	FieldStatus      = "status"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation is a claim on a bay for a half-open minute interval
// [StartMin, EndMin) on one calendar date. Cancelled reservations are kept as
// history and never take part in overlap checks.
type Reservation struct {
	ID       string    `db:"id"`
	BayID    string    `db:"bay_id"`
	Date     time.Time `db:"reserve_date"`
	StartMin int       `db:"start_min"`
	EndMin   int       `db:"end_min"`
	Status   string    `db:"status"`
	model.Metadata
}

func (r Reservation) DurationMinutes() int {
	return r.EndMin - r.StartMin
}

func (r Reservation) Span() interval.Span {
	return interval.Span{Start: r.StartMin, End: r.EndMin}
}
