package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"ams-portal/pkg/types"
)

type Ticket struct {
	ID          string      `json:"id" db:"id"`
	ExternalID  int64       `json:"external_id" db:"external_id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	PartnerID   string      `json:"partner_id" db:"partner_id"`
	ProjectID   string      `json:"project_id" db:"project_id"`
	CategoryID  string      `json:"category_id" db:"category_id"`
	TypeID      null.String `json:"type_id" db:"type_id"`
	StatusID    string      `json:"status_id" db:"status_id"`
	PriorityID  string      `json:"priority_id" db:"priority_id"`
	CreatedBy   string      `json:"created_by" db:"created_by"`
	IsPrivate   bool        `json:"is_private" db:"is_private"`
	types.BaseEntity
	types.SoftDelete
}

// TicketResource links a ticket to an allocated administrative user.
// At most one row per (ticket, user) should carry is_main; enforcement is
// a data concern, not this layer's.
type TicketResource struct {
	TicketID string `json:"ticket_id" db:"ticket_id"`
	UserID   string `json:"user_id" db:"user_id"`
	IsMain   bool   `json:"is_main" db:"is_main"`
}

// TicketHistory records a status transition on a ticket.
type TicketHistory struct {
	ID           string    `json:"id" db:"id"`
	TicketID     string    `json:"ticket_id" db:"ticket_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	FromStatusID string    `json:"from_status_id" db:"from_status_id"`
	ToStatusID   string    `json:"to_status_id" db:"to_status_id"`
	Note         string    `json:"note" db:"note"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TicketFilter is the combined predicate executed by the ticket repository.
// The mandatory fields come from the visibility filter and are set only by
// the ticket service; the optional fields mirror caller-supplied query
// parameters. All conditions are conjunctive.
type TicketFilter struct {
	// Mandatory (visibility) predicate.
	ForceEmpty bool     // fail-closed: result set is empty no matter what
	PartnerID  string   // restrict to this partner when non-empty
	TicketIDs  []string // restrict to this id set when non-nil

	// Optional caller predicates.
	ExternalID   *int64
	TitleSearch  string
	CategoryID   string
	StatusID     string
	PriorityID   string
	ProjectID    string
	CreatedBy    string
	IsPrivate    *bool
	CreatedAfter *time.Time
}
