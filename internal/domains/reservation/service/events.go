package service

import (
	"teesheet/internal/domains/reservation/model"
	"teesheet/shared/bus"
)

// NewChangeBus builds the in-process fan-out for reservation change events.
// The write gate publishes to it after every committed write; cache
// invalidation and the Kafka relay consume from it.
func NewChangeBus() *bus.Bus[model.ChangeEvent] {
	return bus.New[model.ChangeEvent]()
}
