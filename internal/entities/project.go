package entities

import (
	"github.com/aarondl/null/v8"

	"ams-portal/pkg/types"
)

// Project is a SmartCare (AMS) or SmartBuild engagement for a partner.
type Project struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	PartnerID null.String `json:"partner_id" db:"partner_id"`
	IsAMS     bool        `json:"is_ams" db:"is_ams"`
	Active    bool        `json:"active" db:"active"`
	types.BaseEntity
}
