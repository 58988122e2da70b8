package entity

import "time"

// Business representa un negocio/tenant del sistema (multi-tenant).
// Cada negocio es dueño de sus productos, categorías, ventas y usuarios.
type Business struct {
	ID           string
	Name         string
	ManagerEmail string // destino de las alertas de stock bajo (vacío = sin alertas)
	Phone        string
	Address      string
	Status       string // active, suspended, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
