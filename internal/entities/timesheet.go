package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"ams-portal/pkg/types"
)

// TimesheetEntry is a single appointment of hours by a user against a
// project, optionally tied to a ticket.
type TimesheetEntry struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	ProjectID string      `json:"project_id" db:"project_id"`
	TicketID  null.String `json:"ticket_id" db:"ticket_id"`
	Date      time.Time   `json:"date" db:"date"`
	Hours     float64     `json:"hours" db:"hours"`
	Note      string      `json:"note" db:"note"`
	types.BaseEntity
}
