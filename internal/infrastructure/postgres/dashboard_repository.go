package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de agregados para dashboard y reportes.
type DashboardRepo struct {
	db Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(db Querier) *DashboardRepo {
	return &DashboardRepo{db: db}
}

func (r *DashboardRepo) GetProductionTotals(ctx context.Context, organizationID int64, start, end time.Time) (decimal.Decimal, int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0), COUNT(*)
		FROM inventory_logs
		WHERE organization_id = $1 AND logged_at >= $2 AND logged_at < $3`
	var total decimal.Decimal
	var count int64
	err := r.db.QueryRow(ctx, query, organizationID, start, end).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("production totals: %w", err)
	}
	return total, count, nil
}

func (r *DashboardRepo) GetTopProducts(ctx context.Context, organizationID int64, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.name, p.sku, COALESCE(SUM(l.quantity), 0), COUNT(l.id)
		FROM inventory_logs l
		JOIN products p ON p.id = l.product_id
		WHERE l.organization_id = $1 AND l.logged_at >= $2 AND l.logged_at < $3
		GROUP BY p.id, p.name, p.sku
		ORDER BY SUM(l.quantity) DESC
		LIMIT $4`
	rows, err := r.db.Query(ctx, query, organizationID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var list []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.SKU, &t.Quantity, &t.LogCount); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *DashboardRepo) GetUserActivity(ctx context.Context, organizationID int64, start, end time.Time) ([]repository.UserActivityResult, error) {
	query := `
		SELECT u.id, u.name, COUNT(l.id), COALESCE(SUM(l.quantity), 0)
		FROM inventory_logs l
		JOIN users u ON u.id = l.user_id
		WHERE l.organization_id = $1 AND l.logged_at >= $2 AND l.logged_at < $3
		GROUP BY u.id, u.name
		ORDER BY COUNT(l.id) DESC`
	rows, err := r.db.Query(ctx, query, organizationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("user activity: %w", err)
	}
	defer rows.Close()
	var list []repository.UserActivityResult
	for rows.Next() {
		var a repository.UserActivityResult
		if err := rows.Scan(&a.UserID, &a.UserName, &a.LogCount, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan user activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *DashboardRepo) GetProductionByProduct(ctx context.Context, organizationID int64, start, end time.Time) ([]repository.ProductionRow, error) {
	query := `
		SELECT p.id, p.name, p.sku, p.unit,
		       COALESCE(SUM(l.quantity), 0), COUNT(l.id),
		       COALESCE(SUM(l.quantity * p.unit_price), 0)
		FROM inventory_logs l
		JOIN products p ON p.id = l.product_id
		WHERE l.organization_id = $1 AND l.logged_at >= $2 AND l.logged_at < $3
		GROUP BY p.id, p.name, p.sku, p.unit
		ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, organizationID, start, end)
	if err != nil {
		return nil, fmt.Errorf("production by product: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductionRow
	for rows.Next() {
		var p repository.ProductionRow
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.SKU, &p.Unit, &p.Quantity, &p.LogCount, &p.TotalValue); err != nil {
			return nil, fmt.Errorf("scan production row: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
