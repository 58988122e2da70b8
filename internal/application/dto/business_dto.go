package dto

import "time"

// CreateBusinessRequest body para POST /api/businesses (solo superuser).
type CreateBusinessRequest struct {
	Name         string `json:"name"`
	ManagerEmail string `json:"manager_email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
}

// BusinessResponse negocio para respuestas HTTP.
type BusinessResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ManagerEmail string    `json:"manager_email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
