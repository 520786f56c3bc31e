package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

var _ repository.InventoryLogRepository = (*InventoryLogRepo)(nil)

// InventoryLogRepo implementación del puerto InventoryLogRepository sobre PostgreSQL.
type InventoryLogRepo struct {
	db Querier
}

// NewInventoryLogRepository construye el adaptador.
func NewInventoryLogRepository(db Querier) *InventoryLogRepo {
	return &InventoryLogRepo{db: db}
}

// Create persiste el registro de producción y asigna su ID.
func (r *InventoryLogRepo) Create(ctx context.Context, log *entity.InventoryLog) error {
	query := `
		INSERT INTO inventory_logs (organization_id, product_id, user_id, quantity, note, logged_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRow(ctx, query,
		log.OrganizationID, log.ProductID, log.UserID, log.Quantity, log.Note,
		log.LoggedAt, log.CreatedAt, log.UpdatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("insert inventory log: %w", err)
	}
	return nil
}

// GetByID obtiene un registro del tenant con nombres denormalizados.
func (r *InventoryLogRepo) GetByID(ctx context.Context, organizationID, id int64) (*entity.InventoryLog, error) {
	query := `
		SELECT l.id, l.organization_id, l.product_id, l.user_id, l.quantity, l.note,
		       l.logged_at, l.created_at, l.updated_at, p.name, u.name
		FROM inventory_logs l
		JOIN products p ON p.id = l.product_id
		JOIN users    u ON u.id = l.user_id
		WHERE l.organization_id = $1 AND l.id = $2`
	var l entity.InventoryLog
	err := r.db.QueryRow(ctx, query, organizationID, id).Scan(
		&l.ID, &l.OrganizationID, &l.ProductID, &l.UserID, &l.Quantity, &l.Note,
		&l.LoggedAt, &l.CreatedAt, &l.UpdatedAt, &l.ProductName, &l.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory log: %w", err)
	}
	return &l, nil
}

// Update actualiza cantidad, nota y logged_at.
func (r *InventoryLogRepo) Update(ctx context.Context, log *entity.InventoryLog) error {
	query := `
		UPDATE inventory_logs SET quantity = $3, note = $4, logged_at = $5, updated_at = $6
		WHERE organization_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query,
		log.OrganizationID, log.ID, log.Quantity, log.Note, log.LoggedAt, log.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory log: %w", err)
	}
	return nil
}

// Delete elimina un registro del tenant.
func (r *InventoryLogRepo) Delete(ctx context.Context, organizationID, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM inventory_logs WHERE organization_id = $1 AND id = $2`, organizationID, id)
	if err != nil {
		return fmt.Errorf("delete inventory log: %w", err)
	}
	return nil
}

// filterClause arma las condiciones opcionales del listado. Los argumentos
// $1..$2 quedan reservados para organization_id y los de paginación se
// agregan después.
const listBaseQuery = `
	FROM inventory_logs l
	JOIN products p ON p.id = l.product_id
	JOIN users    u ON u.id = l.user_id
	WHERE l.organization_id = $1
	  AND ($2::BIGINT IS NULL OR l.product_id = $2)
	  AND ($3::BIGINT IS NULL OR l.user_id = $3)
	  AND ($4::TIMESTAMPTZ IS NULL OR l.logged_at >= $4)
	  AND ($5::TIMESTAMPTZ IS NULL OR l.logged_at <= $5)`

// List lista registros del tenant, más recientes primero.
func (r *InventoryLogRepo) List(ctx context.Context, organizationID int64, filter repository.LogFilter) ([]*entity.InventoryLog, error) {
	query := `
		SELECT l.id, l.organization_id, l.product_id, l.user_id, l.quantity, l.note,
		       l.logged_at, l.created_at, l.updated_at, p.name, u.name` +
		listBaseQuery + `
		ORDER BY l.logged_at DESC, l.id DESC
		LIMIT $6 OFFSET $7`
	rows, err := r.db.Query(ctx, query,
		organizationID, filter.ProductID, filter.UserID, filter.From, filter.To,
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryLog
	for rows.Next() {
		var l entity.InventoryLog
		if err := rows.Scan(
			&l.ID, &l.OrganizationID, &l.ProductID, &l.UserID, &l.Quantity, &l.Note,
			&l.LoggedAt, &l.CreatedAt, &l.UpdatedAt, &l.ProductName, &l.UserName,
		); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Count cuenta registros con los mismos filtros de List.
func (r *InventoryLogRepo) Count(ctx context.Context, organizationID int64, filter repository.LogFilter) (int, error) {
	query := `SELECT COUNT(*)` + listBaseQuery
	var total int
	err := r.db.QueryRow(ctx, query,
		organizationID, filter.ProductID, filter.UserID, filter.From, filter.To,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count inventory logs: %w", err)
	}
	return total, nil
}
