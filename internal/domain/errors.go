package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// La puerta de autenticación distingue tres salidas terminales más el fallo
// de infraestructura: Unauthenticated (401), InactiveUser (401 + limpiar
// cookie), Forbidden (403) y Unavailable (503). Nunca se reintenta dentro
// de la puerta.
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrUsernameAlreadyExists = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthenticated       = errors.New("no autenticado")
	ErrInactiveUser          = errors.New("cuenta inactiva")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrEditWindowClosed      = errors.New("ventana de edición de 24 horas cerrada")
	ErrProductInUse          = errors.New("el producto tiene registros de producción")
	ErrUnavailable           = errors.New("dependencia no disponible")
)
