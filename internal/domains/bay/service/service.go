package service

import (
	"context"
	"fmt"
	"teesheet/config"
	"teesheet/infras/otel"
	"teesheet/internal/domains/bay/model"
	"teesheet/internal/domains/bay/model/dto"
	"teesheet/internal/domains/bay/repository"
	"teesheet/shared"
	"teesheet/shared/cache"
	"teesheet/shared/constant"
	"teesheet/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBay     = "bay:get"
	cacheGetAllBays = "bay:gets"
)

type Bay interface {
	GetAll(ctx context.Context) (dto.GetBaysResponse, error)
	Get(ctx context.Context, id string) (dto.BayResponse, error)
}

type serviceImpl struct {
	repo  repository.Bay
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Bay, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Bay {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context) (res dto.GetBaysResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllBays, "active")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bays")

		return res, nil
	}

	models, err := s.repo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bays")

		return res, fmt.Errorf("failed to get bays: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bays to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BayResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBay, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bay")

		return res, nil
	}

	bay, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bay")

		return res, fmt.Errorf("failed to get bay: %w", err)
	}

	if bay.ID == constant.Empty {
		return res, failure.NotFound("bay not found") // nolint:wrapcheck
	}

	res.FromModel(bay)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bay to cache")
		}
	}()

	return res, nil
}
