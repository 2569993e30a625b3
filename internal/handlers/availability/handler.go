package availability

import (
	"net/http"
	"strconv"
	"teesheet/infras/otel"
	"teesheet/internal/domains/availability/model/dto"
	"teesheet/internal/domains/availability/service"
	"teesheet/shared"
	"teesheet/shared/constant"
	"teesheet/shared/validator"
	"teesheet/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Post("/check", handler.Check)
		routerGroup.Post("/check-all", handler.CheckAll)
		routerGroup.Get("/slots", handler.GetSlots)
	})
}

// Check answers whether one bay is free for a candidate interval.
// @Summary Check availability for a bay
// @Description Check whether the bay is free for the given date, start time, and duration.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckRequest true "Availability Check Request"
// @Success 200 {object} response.Data[dto.CheckResponse] "Availability result"
// @Failure 400 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/check [post]
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Check")
	defer scope.End()

	req := dto.CheckRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.IsAvailable(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability checked for bay " + req.BayID)

	response.WithJSON(w, http.StatusOK, res)
}

// CheckAll answers the same candidate interval for every active bay.
// @Summary Check availability across all bays
// @Description Check every active bay for the given date, start time, and duration in one call.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckAllRequest true "Availability Check-All Request"
// @Success 200 {object} response.Data[dto.CheckAllResponse] "Per-bay availability map"
// @Failure 400 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/check-all [post]
func (handler *Handler) CheckAll(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAll")
	defer scope.End()

	req := dto.CheckAllRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CheckAllBays(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability across bays")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability checked across all bays")

	response.WithJSON(w, http.StatusOK, res)
}

// GetSlots enumerates bookable start times for one bay and date.
// @Summary Get bookable slots
// @Description Enumerate candidate slots for a bay and date. Granularity and the business window fall back to configuration when omitted.
// @Tags Availability
// @Accept json
// @Produce json
// @Param bay_id query string true "Bay ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration_minutes query int false "Slot duration in minutes, defaults to the configured minimum"
// @Param granularity_minutes query int false "Spacing between candidate start times"
// @Param open_time query string false "Window open (HH:MM)"
// @Param close_time query string false "Window close (HH:MM)"
// @Param free_only query bool false "Only return available slots"
// @Success 200 {object} response.Data[dto.SlotsResponse] "Slot list"
// @Failure 400 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	query := r.URL.Query()

	duration, _ := strconv.Atoi(query.Get("duration_minutes"))
	granularity, _ := strconv.Atoi(query.Get("granularity_minutes"))

	req := dto.SlotsRequest{
		BayID:              query.Get("bay_id"),
		Date:               query.Get("date"),
		DurationMinutes:    duration,
		GranularityMinutes: granularity,
		OpenTime:           query.Get("open_time"),
		CloseTime:          query.Get("close_time"),
	}

	if freeOnly := shared.ConvertStringToBool(query.Get("free_only")); freeOnly != nil {
		req.FreeOnly = *freeOnly
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetSlots(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slots generated for bay " + req.BayID)

	response.WithJSON(w, http.StatusOK, res)
}
