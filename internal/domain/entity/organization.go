package entity

import "time"

// Organization representa una fábrica/tenant del sistema. Todo dato de
// negocio (productos, registros de producción, medios) se filtra por
// OrganizationID tomado del contexto autenticado, nunca del cliente.
type Organization struct {
	ID        int64
	Name      string
	Language  string // idioma por defecto para nuevos usuarios
	CreatedAt time.Time
	UpdatedAt time.Time
}
