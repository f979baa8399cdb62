package dto

// SlaRuleDTO mirrors one persisted rule row.
type SlaRuleDTO struct {
	ID               string `json:"id"`
	ProjectID        string `json:"project_id"`
	TicketCategoryID string `json:"ticket_category_id"`
	StatusGroupID    int    `json:"status_group_id"`
	PriorityID       string `json:"priority_id"`
	WeekdayID        int    `json:"weekday_id"`
	SlaHours         int    `json:"sla_hours"`
	Warning          bool   `json:"warning"`
}

// SlaMatrixRowDTO is one working row of the editable matrix: a
// (category, status group) pair with one cell per priority. A cell value is
// either a digit string or the empty sentinel meaning "no rule".
type SlaMatrixRowDTO struct {
	TicketCategoryID string            `json:"ticket_category_id" validate:"required"`
	StatusGroupID    int               `json:"status_group_id" validate:"required,min=1,max=4"`
	HoursByPriority  map[string]string `json:"sla_hours_by_priority"`
	RuleIDByPriority map[string]string `json:"rule_id_by_priority,omitempty"`
	Warning          bool              `json:"warning"`
}

// SaveSlaMatrixDTO is the save payload for one (project, weekday) pair.
type SaveSlaMatrixDTO struct {
	ProjectID string            `json:"project_id" validate:"required"`
	WeekdayID int               `json:"weekday_id" validate:"required,min=1,max=7"`
	Rows      []SlaMatrixRowDTO `json:"rows"`
}
