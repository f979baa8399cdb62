package dto

import "github.com/aarondl/null/v8"

type TimesheetEntryDTO struct {
	ID      string          `json:"id"`
	User    ShortUserDTO    `json:"user"`
	Project ShortProjectDTO `json:"project"`
	TicketID null.String    `json:"ticket_id"`
	Date    string          `json:"date"`
	Hours   float64         `json:"hours"`
	Note    string          `json:"note"`
}

type CreateTimesheetEntryDTO struct {
	ProjectID string      `json:"project_id" validate:"required"`
	TicketID  null.String `json:"ticket_id"`
	Date      string      `json:"date" validate:"required,datetime=2006-01-02"`
	Hours     float64     `json:"hours" validate:"required,gt=0,lte=24"`
	Note      string      `json:"note"`
}

type UpdateTimesheetEntryDTO struct {
	Date  string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Hours float64 `json:"hours" validate:"omitempty,gt=0,lte=24"`
	Note  string  `json:"note"`
}
