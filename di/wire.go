//go:build wireinject
// +build wireinject

package di

import (
	"teesheet/config"
	"teesheet/infras/kafka"
	"teesheet/infras/otel"
	"teesheet/infras/postgres"
	"teesheet/infras/redis"
	"teesheet/shared/cache"
	"teesheet/transport/http"
	"teesheet/transport/http/middleware"
	"teesheet/transport/http/router"

	bayRepository "teesheet/internal/domains/bay/repository"
	bayService "teesheet/internal/domains/bay/service"
	bayHandler "teesheet/internal/handlers/bay"

	reservationRepository "teesheet/internal/domains/reservation/repository"
	reservationService "teesheet/internal/domains/reservation/service"
	reservationHandler "teesheet/internal/handlers/reservation"

	availabilityService "teesheet/internal/domains/availability/service"
	availabilityHandler "teesheet/internal/handlers/availability"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bayDomain = wire.NewSet(
	bayRepository.New,
	bayService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.NewChangeBus,
	reservationService.New,
	reservationService.NewKafkaRelay,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
	availabilityService.NewCacheInvalidator,
)

var domains = wire.NewSet(
	bayDomain,
	reservationDomain,
	availabilityDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bayHandler.New,
	reservationHandler.New,
	availabilityHandler.New,
	router.New,
)

func InitializeService() *Service {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(Service), "*"),
	)

	return &Service{}
}
