package repository

import (
	"context"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// OrganizationRepository puerto de persistencia para Organization.
type OrganizationRepository interface {
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id int64) (*entity.Organization, error)
}
