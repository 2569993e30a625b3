package service

import (
	"context"
	"fmt"
	"strconv"
	"teesheet/config"
	"teesheet/infras/otel"
	"teesheet/internal/domains/availability/model/dto"
	bayRepo "teesheet/internal/domains/bay/repository"
	resModel "teesheet/internal/domains/reservation/model"
	resRepo "teesheet/internal/domains/reservation/repository"
	"teesheet/shared"
	"teesheet/shared/cache"
	"teesheet/shared/constant"
	"teesheet/shared/failure"
	"teesheet/shared/interval"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheSlots = "availability:slots"
)

type Availability interface {
	IsAvailable(ctx context.Context, req dto.CheckRequest) (dto.CheckResponse, error)
	CheckAllBays(ctx context.Context, req dto.CheckAllRequest) (dto.CheckAllResponse, error)
	GetSlots(ctx context.Context, req dto.SlotsRequest) (dto.SlotsResponse, error)
}

type serviceImpl struct {
	resRepo resRepo.Reservation
	bayRepo bayRepo.Bay
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
}

func New(resRepo resRepo.Reservation, bayRepo bayRepo.Bay, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		resRepo: resRepo,
		bayRepo: bayRepo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
	}
}

// ValidateSpan checks a candidate interval against the valid day range and
// returns it as a span. Violations are interval failures, never a plain
// "unavailable" answer.
func ValidateSpan(startMin, durationMinutes int) (interval.Span, error) {
	if durationMinutes <= 0 {
		return interval.Span{}, failure.InvalidInterval("duration must be positive") //nolint:wrapcheck
	}

	if startMin < 0 || startMin+durationMinutes > interval.MinutesPerDay {
		return interval.Span{}, failure.InvalidInterval("interval falls outside the valid day range") //nolint:wrapcheck
	}

	return interval.Span{Start: startMin, End: startMin + durationMinutes}, nil
}

// Conflicts reports whether the candidate span overlaps any of the given
// reservations. The write gate runs this same check inside its transaction.
func Conflicts(reservations []resModel.Reservation, candidate interval.Span) bool {
	for _, reservation := range reservations {
		if reservation.Span().Overlaps(candidate) {
			return true
		}
	}

	return false
}

func (s *serviceImpl) IsAvailable(ctx context.Context, req dto.CheckRequest) (res dto.CheckResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, span, err := parseCandidate(req.Date, req.StartTime, req.DurationMinutes)
	if err != nil {
		return res, err
	}

	reservations, err := s.resRepo.ListConfirmed(ctx, req.BayID, date, req.ExcludeReservationID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list confirmed reservations")

		return res, fmt.Errorf("failed to list confirmed reservations: %w", err)
	}

	return dto.CheckResponse{
		BayID:     req.BayID,
		Date:      req.Date,
		StartTime: interval.ToClock(span.Start),
		EndTime:   interval.ToClock(span.End),
		Available: !Conflicts(reservations, span),
	}, nil
}

// CheckAllBays is all-or-nothing: a caller offering bay choice must never see
// a silently missing bay, so any per-bay read error fails the whole call.
func (s *serviceImpl) CheckAllBays(ctx context.Context, req dto.CheckAllRequest) (res dto.CheckAllResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAllBays")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, span, err := parseCandidate(req.Date, req.StartTime, req.DurationMinutes)
	if err != nil {
		return res, err
	}

	bays, err := s.bayRepo.ListActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active bays")

		return res, fmt.Errorf("failed to list active bays: %w", err)
	}

	availability := make(map[string]bool, len(bays))

	for _, bay := range bays {
		reservations, err := s.resRepo.ListConfirmed(ctx, bay.ID, date, req.ExcludeReservationID)
		if err != nil {
			log.Error().Err(err).Str("bayID", bay.ID).Msg("failed to list confirmed reservations")

			return res, fmt.Errorf("failed to list confirmed reservations for bay %s: %w", bay.ID, err)
		}

		availability[bay.ID] = !Conflicts(reservations, span)
	}

	return dto.CheckAllResponse{
		Date:      req.Date,
		StartTime: interval.ToClock(span.Start),
		EndTime:   interval.ToClock(span.End),
		Bays:      availability,
	}, nil
}

func (s *serviceImpl) GetSlots(ctx context.Context, req dto.SlotsRequest) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	date, err := parseDate(req.Date)
	if err != nil {
		return res, err
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = s.cfg.Schedule.MinDurationMinutes
	}

	if duration <= 0 {
		return res, failure.InvalidInterval("duration must be positive") //nolint:wrapcheck
	}

	granularity := req.GranularityMinutes
	if granularity <= 0 {
		granularity = s.cfg.Schedule.GranularityMinutes
	}

	if granularity <= 0 {
		return res, failure.InvalidInterval("granularity must be positive") //nolint:wrapcheck
	}

	openClock := req.OpenTime
	if openClock == "" {
		openClock = s.cfg.Schedule.OpenTime
	}

	closeClock := req.CloseTime
	if closeClock == "" {
		closeClock = s.cfg.Schedule.CloseTime
	}

	open, err := interval.FromClock(openClock)
	if err != nil {
		return res, failure.InvalidInterval(err.Error()) //nolint:wrapcheck
	}

	closing, err := interval.FromClock(closeClock)
	if err != nil {
		return res, failure.InvalidInterval(err.Error()) //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheSlots, req.BayID, req.Date,
		strconv.Itoa(duration), strconv.Itoa(granularity),
		openClock, closeClock, strconv.FormatBool(req.FreeOnly))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for slots")

		return res, nil
	}

	reservations, err := s.resRepo.ListConfirmed(ctx, req.BayID, date, constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to list confirmed reservations")

		return res, fmt.Errorf("failed to list confirmed reservations: %w", err)
	}

	res = dto.SlotsResponse{
		BayID:           req.BayID,
		Date:            req.Date,
		DurationMinutes: duration,
		Slots:           []dto.Slot{},
	}

	// A duration longer than the business window is a legitimate "no slots"
	// answer, not an error.
	for start := open; start+duration <= closing; start += granularity {
		candidate := interval.Span{Start: start, End: start + duration}
		available := !Conflicts(reservations, candidate)

		if req.FreeOnly && !available {
			continue
		}

		res.Slots = append(res.Slots, dto.Slot{
			StartTime: interval.ToClock(candidate.Start),
			EndTime:   interval.ToClock(candidate.End),
			Available: available,
		})
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save slots to cache")
		}
	}()

	return res, nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(constant.CalendarDateFormat, value)
	if err != nil {
		return time.Time{}, failure.BadRequestFromString("invalid date format, expected YYYY-MM-DD") //nolint:wrapcheck
	}

	return date, nil
}

func parseCandidate(dateStr, startClock string, durationMinutes int) (time.Time, interval.Span, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return time.Time{}, interval.Span{}, err
	}

	startMin, err := interval.FromClock(startClock)
	if err != nil {
		return time.Time{}, interval.Span{}, failure.InvalidInterval(err.Error()) //nolint:wrapcheck
	}

	span, err := ValidateSpan(startMin, durationMinutes)
	if err != nil {
		return time.Time{}, interval.Span{}, err
	}

	return date, span, nil
}
