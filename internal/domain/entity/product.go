package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto fabricado (SKU único por organización).
// MediaID apunta a la imagen de portada en la biblioteca de medios (opcional).
type Product struct {
	ID             int64
	OrganizationID int64
	SKU            string
	Name           string
	Description    string
	Unit           string          // unidad de medida: pcs, kg, lt, ...
	UnitPrice      decimal.Decimal // precio de venta unitario
	UnitCost       decimal.Decimal // costo de producción unitario
	MediaID        *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Attributes []ProductAttribute
}

// ProductAttribute par nombre/valor libre asociado a un producto
// (color, talla, material...). Se reemplazan en bloque al actualizar.
type ProductAttribute struct {
	ID        int64
	ProductID int64
	Name      string
	Value     string
}
