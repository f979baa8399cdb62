package dto

import "github.com/aarondl/null/v8"

type ProjectDTO struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Partner *ShortPartnerDTO `json:"partner,omitempty"`
	IsAMS   bool             `json:"is_ams"`
	Active  bool             `json:"active"`
}

type CreateProjectDTO struct {
	Name      string      `json:"name" validate:"required"`
	PartnerID null.String `json:"partner_id"`
	IsAMS     bool        `json:"is_ams"`
}

type UpdateProjectDTO struct {
	Name   string `json:"name"`
	IsAMS  *bool  `json:"is_ams"`
	Active *bool  `json:"active"`
}
