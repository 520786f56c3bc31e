package repository

import (
	"context"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// MediaRepository puerto de persistencia para la biblioteca de medios.
type MediaRepository interface {
	Create(ctx context.Context, media *entity.Media) error
	GetByID(ctx context.Context, organizationID, id int64) (*entity.Media, error)
	List(ctx context.Context, organizationID int64, limit, offset int) ([]*entity.Media, error)
	Count(ctx context.Context, organizationID int64) (int, error)
	Delete(ctx context.Context, organizationID, id int64) error
}

// ImportJobRepository puerto de persistencia para auditoría de imports CSV.
type ImportJobRepository interface {
	Create(ctx context.Context, job *entity.ImportJob) error
	ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*entity.ImportJob, error)
	CountByOrganization(ctx context.Context, organizationID int64) (int, error)
}
