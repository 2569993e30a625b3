package dto

import (
	"teesheet/internal/domains/reservation/model"
	"teesheet/shared"
	"teesheet/shared/constant"
	gDto "teesheet/shared/dto"
	"teesheet/shared/failure"
	"teesheet/shared/interval"
	gModel "teesheet/shared/model"
	"teesheet/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	BayID           string `json:"bay_id"           validate:"required,uuid"`
	Date            string `json:"date"             validate:"required"`
	StartTime       string `json:"start_time"       validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required"`
}

func (c *CreateReservationRequest) ToModel(user string) (model.Reservation, error) {
	date, err := time.Parse(constant.CalendarDateFormat, c.Date)
	if err != nil {
		return model.Reservation{}, failure.BadRequestFromString("invalid date format, expected YYYY-MM-DD") //nolint:wrapcheck
	}

	startMin, err := interval.FromClock(c.StartTime)
	if err != nil {
		return model.Reservation{}, failure.InvalidInterval(err.Error()) //nolint:wrapcheck
	}

	if c.DurationMinutes <= 0 {
		return model.Reservation{}, failure.InvalidInterval("duration must be positive") //nolint:wrapcheck
	}

	return model.Reservation{
		ID:       uuid.NewString(),
		BayID:    c.BayID,
		Date:     date,
		StartMin: startMin,
		EndMin:   startMin + c.DurationMinutes,
		Status:   model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// UpdateReservationRequest moves or resizes a reservation. Empty fields keep
// their current value; the merged interval is re-validated by the write gate.
type UpdateReservationRequest struct {
	BayID           string `json:"bay_id"           validate:"omitempty,uuid"`
	Date            string `json:"date"             validate:"omitempty"`
	StartTime       string `json:"start_time"       validate:"omitempty"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0"`
}

// ApplyTo merges the request onto the current reservation and returns the
// candidate new state.
func (u *UpdateReservationRequest) ApplyTo(current model.Reservation) (model.Reservation, error) {
	next := current

	if u.BayID != "" {
		next.BayID = u.BayID
	}

	if u.Date != "" {
		date, err := time.Parse(constant.CalendarDateFormat, u.Date)
		if err != nil {
			return model.Reservation{}, failure.BadRequestFromString("invalid date format, expected YYYY-MM-DD") //nolint:wrapcheck
		}

		next.Date = date
	}

	duration := current.DurationMinutes()
	if u.DurationMinutes > 0 {
		duration = u.DurationMinutes
	}

	if u.StartTime != "" {
		startMin, err := interval.FromClock(u.StartTime)
		if err != nil {
			return model.Reservation{}, failure.InvalidInterval(err.Error()) //nolint:wrapcheck
		}

		next.StartMin = startMin
	}

	next.EndMin = next.StartMin + duration

	return next, nil
}

type ReservationResponse struct {
	ID              string `json:"id"`
	BayID           string `json:"bay_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Status          string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.BayID = model.BayID
	r.Date = model.Date.Format(constant.CalendarDateFormat)
	r.StartTime = interval.ToClock(model.StartMin)
	r.EndTime = interval.ToClock(model.EndMin)
	r.DurationMinutes = model.DurationMinutes()
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
