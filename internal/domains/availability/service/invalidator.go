package service

import (
	"context"
	resModel "teesheet/internal/domains/reservation/model"
	"teesheet/shared"
	"teesheet/shared/bus"
	"teesheet/shared/cache"

	"github.com/rs/zerolog/log"
)

// CacheInvalidator subscribes to reservation change events and drops the slot
// caches for the affected bay/date slice. On a resync-flagged delivery the
// event stream has a gap, so every slot cache goes.
type CacheInvalidator struct {
	changeBus *bus.Bus[resModel.ChangeEvent]
	cache     cache.RedisCache
}

func NewCacheInvalidator(changeBus *bus.Bus[resModel.ChangeEvent], cache cache.RedisCache) *CacheInvalidator {
	return &CacheInvalidator{
		changeBus: changeBus,
		cache:     cache,
	}
}

func (i *CacheInvalidator) Run(ctx context.Context) {
	sub := i.changeBus.Subscribe("availability-cache", 64, nil)
	defer i.changeBus.Unsubscribe(sub)

	log.Info().Msg("Availability cache invalidator started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Availability cache invalidator stopped")

			return
		case envelope, open := <-sub.Events():
			if !open {
				return
			}

			if envelope.Resync {
				shared.InvalidateCaches(ctx, i.cache, cacheSlots)

				continue
			}

			prefix := shared.BuildCacheKey(cacheSlots, envelope.Event.BayID, envelope.Event.Date)
			shared.InvalidateCaches(ctx, i.cache, prefix)
		}
	}
}
