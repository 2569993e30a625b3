package bay

import (
	"net/http"
	"teesheet/infras/otel"
	"teesheet/internal/domains/bay/service"
	"teesheet/shared/constant"
	"teesheet/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Bay
	otel    otel.Otel
}

func New(service service.Bay, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bays", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBays)
		routerGroup.Get("/{id}", handler.GetBayByID)
	})
}

// GetBays retrieves all active bays.
// @Summary Get all active bays
// @Description Retrieve every active bay, ordered by name.
// @Tags Bay
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.GetBaysResponse] "List of bays"
// @Failure 500 {object} response.Error
// @Router /v1/bays [get]
func (handler *Handler) GetBays(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBays")
	defer scope.End()

	bays, err := handler.service.GetAll(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bays")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bays retrieved successfully")

	response.WithJSON(w, http.StatusOK, bays)
}

// GetBayByID retrieves a bay by its ID.
// @Summary Get a bay by ID
// @Description Retrieve a bay by its unique identifier.
// @Tags Bay
// @Accept json
// @Produce json
// @Param id path string true "Bay ID"
// @Success 200 {object} response.Data[dto.BayResponse] "Bay details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bays/{id} [get]
func (handler *Handler) GetBayByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBayByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	bay, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bay by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bay retrieved successfully")

	response.WithJSON(w, http.StatusOK, bay)
}
