package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type TicketDTO struct {
	ID          string            `json:"id"`
	ExternalID  int64             `json:"external_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Partner     ShortPartnerDTO   `json:"partner"`
	Project     ShortProjectDTO   `json:"project"`
	Category    ReferenceItemDTO  `json:"category"`
	Status      ReferenceItemDTO  `json:"status"`
	Priority    ReferenceItemDTO  `json:"priority"`
	Creator     ShortUserDTO      `json:"creator"`
	MainResource *ShortUserDTO    `json:"main_resource,omitempty"`
	IsPrivate   bool              `json:"is_private"`
	CreatedAt   string            `json:"created_at"`
}

type CreateTicketDTO struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	PartnerID   string      `json:"partner_id" validate:"required"`
	ProjectID   string      `json:"project_id" validate:"required"`
	CategoryID  string      `json:"category_id" validate:"required"`
	TypeID      null.String `json:"type_id"`
	PriorityID  string      `json:"priority_id" validate:"required"`
	IsPrivate   bool        `json:"is_private"`
}

type UpdateTicketDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
	StatusID    string `json:"status_id"`
	PriorityID  string `json:"priority_id"`
	StatusNote  string `json:"status_note"`
	IsPrivate   *bool  `json:"is_private"`
}

type AssignResourceDTO struct {
	UserID string `json:"user_id" validate:"required"`
	IsMain bool   `json:"is_main"`
}

// TicketQueryDTO carries the caller-supplied optional filters parsed from
// the list endpoint's query string. Which of them are honored depends on
// the caller's profile; see the ticket service.
type TicketQueryDTO struct {
	ExternalID     *int64
	Title          string
	CategoryID     string
	StatusID       string
	PriorityID     string
	ProjectID      string
	CreatedBy      string
	PartnerID      string
	UserTickets    string
	ResourceUserID string
	IsPrivate      *bool
	CreatedAfter   *time.Time
}
