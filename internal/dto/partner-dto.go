package dto

type PartnerDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id"`
	Active bool   `json:"active"`
}

type CreatePartnerDTO struct {
	Name  string `json:"name" validate:"required"`
	TaxID string `json:"tax_id" validate:"required"`
}

type UpdatePartnerDTO struct {
	Name   string `json:"name"`
	TaxID  string `json:"tax_id"`
	Active *bool  `json:"active"`
}
