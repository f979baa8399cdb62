package dto

import "github.com/aarondl/null/v8"

type UserDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      int              `json:"role"`
	IsClient  bool             `json:"is_client"`
	Partner   *ShortPartnerDTO `json:"partner,omitempty"`
	Active    bool             `json:"active"`
	CreatedAt string           `json:"created_at"`
}

type CreateUserDTO struct {
	Name      string      `json:"name" validate:"required"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=6"`
	Role      int         `json:"role" validate:"required,oneof=1 2 3"`
	IsClient  bool        `json:"is_client"`
	PartnerID null.String `json:"partner_id"`
}

type UpdateUserDTO struct {
	Name      string      `json:"name"`
	Email     string      `json:"email" validate:"omitempty,email"`
	Role      int         `json:"role" validate:"omitempty,oneof=1 2 3"`
	IsClient  *bool       `json:"is_client"`
	PartnerID null.String `json:"partner_id"`
	Active    *bool       `json:"active"`
}
