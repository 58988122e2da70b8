package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperuser = "superuser" // crea negocios
	RoleManager   = "manager"   // catálogo, inventario, reportes
	RoleCashier   = "cashier"   // registro de ventas
)

// User representa un usuario del sistema (pertenece a un Business).
type User struct {
	ID           string
	BusinessID   string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // superuser, manager, cashier
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
