package entities

import "ams-portal/pkg/types"

// Partner is a client organization served through the portal.
type Partner struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	TaxID  string `json:"tax_id" db:"tax_id"`
	Active bool   `json:"active" db:"active"`
	types.BaseEntity
}
