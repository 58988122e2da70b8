package entity

import "time"

// Category representa una categoría de productos. Nombre único por negocio.
type Category struct {
	ID         string
	BusinessID string
	Name       string
	CreatedAt  time.Time
}
