package dto

import (
	"teesheet/internal/domains/bay/model"
	gDto "teesheet/shared/dto"
)

type BayResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *BayResponse) FromModel(model model.Bay) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetBaysResponse struct {
	Bays      []BayResponse `json:"bays"`
	TotalData int           `json:"total_data"`
}

func (r *GetBaysResponse) FromModels(models []model.Bay) {
	r.TotalData = len(models)

	r.Bays = make([]BayResponse, len(models))
	for i, mod := range models {
		r.Bays[i].FromModel(mod)
	}
}
