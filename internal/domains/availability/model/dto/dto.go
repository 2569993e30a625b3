package dto

// CheckRequest asks whether one bay is free for a candidate interval.
// ExcludeReservationID lets an edit-in-place ignore its own current interval.
type CheckRequest struct {
	BayID                string `json:"bay_id"                 validate:"required,uuid"`
	Date                 string `json:"date"                   validate:"required"`
	StartTime            string `json:"start_time"             validate:"required"`
	DurationMinutes      int    `json:"duration_minutes"       validate:"required,gt=0"`
	ExcludeReservationID string `json:"exclude_reservation_id" validate:"omitempty,uuid"`
}

type CheckResponse struct {
	BayID     string `json:"bay_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// CheckAllRequest fans the same candidate interval across every active bay.
type CheckAllRequest struct {
	Date                 string `json:"date"                   validate:"required"`
	StartTime            string `json:"start_time"             validate:"required"`
	DurationMinutes      int    `json:"duration_minutes"       validate:"required,gt=0"`
	ExcludeReservationID string `json:"exclude_reservation_id" validate:"omitempty,uuid"`
}

type CheckAllResponse struct {
	Date      string          `json:"date"`
	StartTime string          `json:"start_time"`
	EndTime   string          `json:"end_time"`
	Bays      map[string]bool `json:"bays"`
}

// SlotsRequest enumerates candidate start times for one bay and date. Zero
// values for duration, granularity, and the business window fall back to
// configuration.
type SlotsRequest struct {
	BayID              string `json:"bay_id"              validate:"required,uuid"`
	Date               string `json:"date"                validate:"required"`
	DurationMinutes    int    `json:"duration_minutes"    validate:"omitempty,gt=0"`
	GranularityMinutes int    `json:"granularity_minutes" validate:"omitempty,gt=0"`
	OpenTime           string `json:"open_time"           validate:"omitempty"`
	CloseTime          string `json:"close_time"          validate:"omitempty"`
	FreeOnly           bool   `json:"free_only"`
}

type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type SlotsResponse struct {
	BayID           string `json:"bay_id"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Slots           []Slot `json:"slots"`
}
