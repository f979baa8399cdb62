package dto

type ShortUserDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ShortPartnerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ShortProjectDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReferenceItemDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReferenceFormDataDTO bundles the lookup lists the ticket form renders.
type ReferenceFormDataDTO struct {
	Priorities []ReferenceItemDTO `json:"priorities"`
	Categories []ReferenceItemDTO `json:"categories"`
	Statuses   []ReferenceItemDTO `json:"statuses"`
	Types      []ReferenceItemDTO `json:"types"`
}
