package entities

// Status groups are a fixed enumeration over ticket statuses; SLA rules are
// keyed by group, not by individual status.
const (
	StatusGroupNew        = 1
	StatusGroupInProgress = 2
	StatusGroupWaiting    = 3
	StatusGroupResolved   = 4
)

func ValidStatusGroup(id int) bool {
	return id >= StatusGroupNew && id <= StatusGroupResolved
}

// Weekday ids follow ISO-8601: 1=Monday .. 7=Sunday.
func ValidWeekday(id int) bool {
	return id >= 1 && id <= 7
}

type TicketCategory struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	IsAMS bool   `json:"is_ams" db:"is_ams"`
}

type TicketStatus struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	StatusGroupID int    `json:"status_group_id" db:"status_group_id"`
}

type Priority struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Weight int    `json:"weight" db:"weight"`
}

type TicketType struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
