package service

import (
	"context"
	"fmt"
	"sort"
	"teesheet/config"
	"teesheet/infras/otel"
	availability "teesheet/internal/domains/availability/service"
	bayModel "teesheet/internal/domains/bay/model"
	bayRepo "teesheet/internal/domains/bay/repository"
	"teesheet/internal/domains/reservation/model"
	"teesheet/internal/domains/reservation/model/dto"
	"teesheet/internal/domains/reservation/repository"
	"teesheet/shared"
	"teesheet/shared/bus"
	"teesheet/shared/cache"
	"teesheet/shared/constant"
	gDto "teesheet/shared/dto"
	"teesheet/shared/failure"
	"teesheet/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetReservation     = "reservation:get"
	cacheGetAllReservations = "reservation:gets"
)

// Reservation is the write gate for the schedule. Every mutation runs inside
// one transaction that locks the affected bay/date slice, re-checks the
// schedule under that lock, and only then writes. Readers go straight to the
// store and may trail in-flight writes.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest, user string) (dto.ReservationResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateReservationRequest, user string) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id, user string) error
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, bayID, date string) (dto.GetReservationsResponse, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	bayRepo   bayRepo.Bay
	changeBus *bus.Bus[model.ChangeEvent]
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Reservation, bayRepo bayRepo.Bay, changeBus *bus.Bus[model.ChangeEvent], cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Reservation {
	return &serviceImpl{
		repo:      repo,
		bayRepo:   bayRepo,
		changeBus: changeBus,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest, user string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	if _, err = availability.ValidateSpan(reservation.StartMin, reservation.DurationMinutes()); err != nil {
		return res, err
	}

	if err = s.requireActiveBay(ctx, reservation.BayID); err != nil {
		return res, err
	}

	err = s.repo.InTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.LockSchedule(ctx, reservation.BayID, reservation.Date); err != nil {
			return err //nolint:wrapcheck
		}

		confirmed, err := tx.ListConfirmed(ctx, reservation.BayID, reservation.Date, constant.Empty)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if availability.Conflicts(confirmed, reservation.Span()) {
			return failure.Conflict("bay is already reserved for the requested time") //nolint:wrapcheck
		}

		return tx.Insert(ctx, reservation) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("bayID", reservation.BayID).Msg("failed to create reservation")

		return res, err
	}

	s.publishChange(ctx, model.ActionCreated, reservation)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateReservationRequest, user string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.BayID != constant.Empty {
		if err = s.requireActiveBay(ctx, req.BayID); err != nil {
			return res, err
		}
	}

	var next, previous model.Reservation

	err = s.repo.InTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			return failure.NotFound("reservation not found") //nolint:wrapcheck
		}

		if current.Status == model.StatusCancelled {
			return failure.BadRequestFromString("cancelled reservation cannot be updated") //nolint:wrapcheck
		}

		next, err = req.ApplyTo(current)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if _, err := availability.ValidateSpan(next.StartMin, next.DurationMinutes()); err != nil {
			return err //nolint:wrapcheck
		}

		if err := lockSchedules(ctx, tx, current, next); err != nil {
			return err //nolint:wrapcheck
		}

		// The reservation's own current interval never blocks its new one.
		confirmed, err := tx.ListConfirmed(ctx, next.BayID, next.Date, current.ID)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if availability.Conflicts(confirmed, next.Span()) {
			return failure.Conflict("bay is already reserved for the requested time") //nolint:wrapcheck
		}

		previous = current

		fields := map[string]any{
			model.FieldBayID:         next.BayID,
			model.FieldReserveDate:   next.Date,
			model.FieldStartMin:      next.StartMin,
			model.FieldEndMin:        next.EndMin,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		return tx.Update(ctx, fields, current.ID) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("reservationID", id).Msg("failed to update reservation")

		return res, err
	}

	s.publishChange(ctx, model.ActionUpdated, next)

	// A move across bay or date frees the old slice too.
	if previous.BayID != next.BayID || !previous.Date.Equal(next.Date) {
		s.publishChange(ctx, model.ActionUpdated, previous)
	}

	res.FromModel(next)

	return res, nil
}

// Cancel marks the reservation cancelled and frees its interval. Cancelling an
// already-cancelled reservation succeeds without a second change event.
func (s *serviceImpl) Cancel(ctx context.Context, id, user string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	var cancelled model.Reservation

	alreadyCancelled := false

	err = s.repo.InTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if current.ID == constant.Empty {
			return failure.NotFound("reservation not found") //nolint:wrapcheck
		}

		if current.Status == model.StatusCancelled {
			alreadyCancelled = true

			return nil
		}

		if err := tx.LockSchedule(ctx, current.BayID, current.Date); err != nil {
			return err //nolint:wrapcheck
		}

		cancelled = current

		fields := map[string]any{
			model.FieldStatus:        model.StatusCancelled,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		return tx.Update(ctx, fields, current.ID) //nolint:wrapcheck
	})
	if err != nil {
		log.Error().Err(err).Str("reservationID", id).Msg("failed to cancel reservation")

		return err
	}

	if alreadyCancelled {
		return nil
	}

	s.publishChange(ctx, model.ActionCancelled, cancelled)

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") //nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, bayID, date string) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter, err := buildListFilter(bayID, date)
	if err != nil {
		return res, err
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.FieldStartMin
		params.SortDir = gDto.SortDirAsc
	}

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservations, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	reservations, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	res.FromModels(reservations, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) requireActiveBay(ctx context.Context, bayID string) error {
	bay, err := s.bayRepo.Get(ctx, shared.FilterByID(bayID, bayModel.FieldID, bayModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("bayID", bayID).Msg("failed to get bay")

		return fmt.Errorf("failed to get bay: %w", err)
	}

	if bay.ID == constant.Empty {
		return failure.NotFound("bay not found") //nolint:wrapcheck
	}

	if !bay.Active {
		return failure.BadRequestFromString("bay is not active") //nolint:wrapcheck
	}

	return nil
}

// publishChange fans the committed write out to subscribers and drops the
// affected read caches.
func (s *serviceImpl) publishChange(ctx context.Context, action string, reservation model.Reservation) {
	s.changeBus.Publish(model.ChangeEvent{
		ReservationID: reservation.ID,
		BayID:         reservation.BayID,
		Date:          reservation.Date.Format(constant.CalendarDateFormat),
		Action:        action,
		OccurredAt:    timezone.Now(),
	})

	shared.InvalidateCaches(ctx, s.cache, shared.BuildCacheKey(cacheGetReservation, reservation.ID))
	shared.InvalidateCaches(ctx, s.cache, cacheGetAllReservations)
}

// lockSchedules takes the advisory locks for every bay/date slice the update
// touches, in sorted key order so concurrent cross-slice moves never deadlock.
func lockSchedules(ctx context.Context, tx repository.Tx, current, next model.Reservation) error {
	type slice struct {
		bayID string
		date  time.Time
	}

	slices := []slice{{bayID: current.BayID, date: current.Date}}

	if next.BayID != current.BayID || !next.Date.Equal(current.Date) {
		slices = append(slices, slice{bayID: next.BayID, date: next.Date})
	}

	sort.Slice(slices, func(i, j int) bool {
		keyI := slices[i].bayID + ":" + slices[i].date.Format(constant.CalendarDateFormat)
		keyJ := slices[j].bayID + ":" + slices[j].date.Format(constant.CalendarDateFormat)

		return keyI < keyJ
	})

	for _, s := range slices {
		if err := tx.LockSchedule(ctx, s.bayID, s.date); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

func buildListFilter(bayID, date string) (gDto.FilterGroup, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if bayID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldBayID,
			Operator: gDto.FilterOperatorEq,
			Value:    bayID,
			Table:    model.TableName,
		})
	}

	if date != constant.Empty {
		parsed, err := time.Parse(constant.CalendarDateFormat, date)
		if err != nil {
			return filter, failure.BadRequestFromString("invalid date format, expected YYYY-MM-DD") //nolint:wrapcheck
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldReserveDate,
			Operator: gDto.FilterOperatorEq,
			Value:    parsed,
			Table:    model.TableName,
		})
	}

	return filter, nil
}
