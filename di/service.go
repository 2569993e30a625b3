package di

import (
	availabilityService "teesheet/internal/domains/availability/service"
	reservationService "teesheet/internal/domains/reservation/service"
	"teesheet/transport/http"
)

// Service bundles the HTTP server with the background workers that consume
// the reservation change bus.
type Service struct {
	HTTP        *http.HTTP
	Relay       *reservationService.KafkaRelay
	Invalidator *availabilityService.CacheInvalidator
}
