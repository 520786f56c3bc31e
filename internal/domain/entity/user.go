package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleFloorStaff = "floor_staff"
)

// ValidRole indica si el rol pertenece a la enumeración fija.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleFloorStaff:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Organization).
// IsActive se re-verifica contra la DB en cada request autenticado: un token
// criptográficamente válido muere cuando el registro se desactiva.
type User struct {
	ID             int64
	OrganizationID int64
	Username       string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           string // super_admin, admin, floor_staff
	Language       string // preferencia de idioma de la UI (en, es, tr, ...)
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
