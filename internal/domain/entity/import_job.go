package entity

import "time"

// Estados de un ImportJob.
const (
	ImportStatusCompleted = "completed"
	ImportStatusRejected  = "rejected" // archivo con filas inválidas: no se importó nada
)

// ImportJob resultado de una importación CSV de productos. La importación es
// atómica: o entran todas las filas o ninguna, y el job queda como auditoría.
type ImportJob struct {
	ID             string // uuid
	OrganizationID int64
	UserID         int64
	FileName       string
	TotalRows      int
	ImportedRows   int
	Status         string
	CreatedAt      time.Time
}
