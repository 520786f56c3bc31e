package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLogRequest alta de un registro de producción. LoggedAt opcional
// (default: ahora).
type CreateLogRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	Note      string          `json:"note" validate:"max=1000"`
	LoggedAt  *time.Time      `json:"logged_at"`
}

// UpdateLogRequest corrección de un registro dentro de la ventana de edición.
type UpdateLogRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	Note     *string          `json:"note" validate:"omitempty,max=1000"`
	LoggedAt *time.Time       `json:"logged_at"`
}

// LogResponse salida de un registro de producción.
type LogResponse struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organization_id"`
	ProductID      int64           `json:"product_id"`
	ProductName    string          `json:"product_name,omitempty"`
	UserID         int64           `json:"user_id"`
	UserName       string          `json:"user_name,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Note           string          `json:"note"`
	LoggedAt       time.Time       `json:"logged_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LogListResponse lista paginada de registros.
type LogListResponse struct {
	Items []LogResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}
