package repository

import (
	"context"
	"time"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// LogFilter filtros del listado de registros de producción.
type LogFilter struct {
	ProductID *int64
	UserID    *int64
	From      *time.Time // sobre logged_at
	To        *time.Time
	Limit     int
	Offset    int
}

// InventoryLogRepository puerto de persistencia para InventoryLog.
type InventoryLogRepository interface {
	Create(ctx context.Context, log *entity.InventoryLog) error
	GetByID(ctx context.Context, organizationID, id int64) (*entity.InventoryLog, error)
	Update(ctx context.Context, log *entity.InventoryLog) error
	Delete(ctx context.Context, organizationID, id int64) error
	List(ctx context.Context, organizationID int64, filter LogFilter) ([]*entity.InventoryLog, error)
	Count(ctx context.Context, organizationID int64, filter LogFilter) (int, error)
}
