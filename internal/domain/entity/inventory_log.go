package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EditWindow ventana durante la cual floor_staff puede corregir sus propios
// registros; admin y super_admin no tienen restricción.
const EditWindow = 24 * time.Hour

// InventoryLog registro de producción: cantidad producida de un producto,
// anotada por un usuario. LoggedAt es el momento de producción declarado;
// CreatedAt ancla la ventana de edición.
type InventoryLog struct {
	ID             int64
	OrganizationID int64
	ProductID      int64
	UserID         int64
	Quantity       decimal.Decimal // > 0
	Note           string
	LoggedAt       time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Denormalizados para listados (no se persisten)
	ProductName string
	UserName    string
}

// EditableBy indica si el usuario puede modificar/eliminar este registro en
// el instante now: los administradores siempre; el autor solo dentro de la
// ventana de 24 horas.
func (l *InventoryLog) EditableBy(userID int64, role string, now time.Time) bool {
	if role == RoleAdmin || role == RoleSuperAdmin {
		return true
	}
	if l.UserID != userID {
		return false
	}
	return now.Sub(l.CreatedAt) <= EditWindow
}
