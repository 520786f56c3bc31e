package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProductDTO entrada del widget de top productos del mes.
type TopProductDTO struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    decimal.Decimal `json:"quantity"`
	LogCount    int64           `json:"log_count"`
}

// UserActivityDTO actividad de un usuario en el día.
type UserActivityDTO struct {
	UserID   int64           `json:"user_id"`
	UserName string          `json:"user_name"`
	LogCount int64           `json:"log_count"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DashboardSummaryDTO resumen agregado del dashboard.
type DashboardSummaryDTO struct {
	TodayQuantity decimal.Decimal   `json:"today_quantity"`
	TodayLogs     int64             `json:"today_logs"`
	WeekQuantity  decimal.Decimal   `json:"week_quantity"`
	WeekLogs      int64             `json:"week_logs"`
	MonthQuantity decimal.Decimal   `json:"month_quantity"`
	MonthLogs     int64             `json:"month_logs"`
	TopProducts   []TopProductDTO   `json:"top_products"`
	TodayByUser   []UserActivityDTO `json:"today_by_user"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

// ProductionReportRow fila del reporte de producción por producto.
type ProductionReportRow struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	LogCount    int64           `json:"log_count"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ProductionReportResponse reporte de producción de un rango de fechas.
type ProductionReportResponse struct {
	From        time.Time             `json:"from"`
	To          time.Time             `json:"to"`
	Rows        []ProductionReportRow `json:"rows"`
	TotalQty    decimal.Decimal       `json:"total_quantity"`
	TotalValue  decimal.Decimal       `json:"total_value"`
	GeneratedAt time.Time             `json:"generated_at"`
}
