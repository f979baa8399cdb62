package entities

import (
	"github.com/aarondl/null/v8"

	"ams-portal/pkg/types"
)

// Role is the small integer role enum carried by every user record.
type Role int

const (
	RoleAdministrator Role = 1
	RoleManager       Role = 2
	RoleFunctional    Role = 3
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleManager, RoleFunctional:
		return true
	}
	return false
}

type User struct {
	ID        string      `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Email     string      `json:"email" db:"email"`
	Password  string      `json:"-" db:"password"`
	Role      Role        `json:"role" db:"role"`
	IsClient  bool        `json:"is_client" db:"is_client"`
	PartnerID null.String `json:"partner_id" db:"partner_id"`
	Active    bool        `json:"active" db:"active"`
	types.BaseEntity
}
