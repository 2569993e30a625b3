package model

import "teesheet/shared/model"

const (
	TableName  = "bays"
	EntityName = "bay"

	FieldID       = "id"
	FieldName     = "name"
	FieldLocation = "location"
	FieldActive   = "active"
)

// Bay is a schedulable hitting bay. The directory is maintained by an external
// administrative application; this engine only reads it.
type Bay struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Location string `db:"location"`
	Active   bool   `db:"active"`
	model.Metadata
}
