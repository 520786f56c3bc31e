package repository

import (
	"context"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListByOrganization(ctx context.Context, organizationID int64, limit, offset int) ([]*entity.User, error)
	CountByOrganization(ctx context.Context, organizationID int64) (int, error)
}
