package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult producto ordenado por cantidad producida en el período.
type TopProductResult struct {
	ProductID   int64
	ProductName string
	SKU         string
	Quantity    decimal.Decimal
	LogCount    int64
}

// UserActivityResult registros anotados por usuario en el período.
type UserActivityResult struct {
	UserID   int64
	UserName string
	LogCount int64
	Quantity decimal.Decimal
}

// ProductionRow fila del reporte de producción agrupado por producto.
type ProductionRow struct {
	ProductID   int64
	ProductName string
	SKU         string
	Unit        string
	Quantity    decimal.Decimal
	LogCount    int64
	TotalValue  decimal.Decimal // cantidad × precio unitario
}

// DashboardRepository consultas read-only de agregados para dashboard y
// reportes. No accede a las tablas fuera del tenant indicado.
type DashboardRepository interface {
	// GetProductionTotals devuelve cantidad total producida y número de
	// registros del período. COALESCE a cero si no hay filas.
	GetProductionTotals(ctx context.Context, organizationID int64, start, end time.Time) (decimal.Decimal, int64, error)
	GetTopProducts(ctx context.Context, organizationID int64, start, end time.Time, limit int) ([]TopProductResult, error)
	GetUserActivity(ctx context.Context, organizationID int64, start, end time.Time) ([]UserActivityResult, error)
	GetProductionByProduct(ctx context.Context, organizationID int64, start, end time.Time) ([]ProductionRow, error)
}
