package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttributeDTO par nombre/valor de un atributo de producto.
type AttributeDTO struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"required,max=500"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=100"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Unit        string          `json:"unit" validate:"required,min=1,max=20"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	MediaID     *int64          `json:"media_id"`
	Attributes  []AttributeDTO  `json:"attributes" validate:"omitempty,max=50,dive"`
}

// UpdateProductRequest actualización parcial; Attributes no-nil reemplaza el
// conjunto completo.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Unit        *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
	MediaID     *int64           `json:"media_id"`
	Attributes  []AttributeDTO   `json:"attributes" validate:"omitempty,max=50,dive"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             int64           `json:"id"`
	OrganizationID int64           `json:"organization_id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	MediaID        *int64          `json:"media_id,omitempty"`
	Attributes     []AttributeDTO  `json:"attributes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
