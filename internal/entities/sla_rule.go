package entities

import "ams-portal/pkg/types"

// SlaRule is one persisted cell of the SLA matrix. Identity is the tuple
// (project_id, ticket_category_id, status_group_id, priority_id, weekday_id);
// the surrogate id only exists so the reconciliation can address rows.
type SlaRule struct {
	ID               string `json:"id" db:"id"`
	ProjectID        string `json:"project_id" db:"project_id"`
	TicketCategoryID string `json:"ticket_category_id" db:"ticket_category_id"`
	StatusGroupID    int    `json:"status_group_id" db:"status_group_id"`
	PriorityID       string `json:"priority_id" db:"priority_id"`
	WeekdayID        int    `json:"weekday_id" db:"weekday_id"`
	SlaHours         int    `json:"sla_hours" db:"sla_hours"`
	Warning          bool   `json:"warning" db:"warning"`
	types.BaseEntity
}
