package repository

import (
	"context"

	"github.com/flowdash/flowdash-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product y sus atributos.
// Todas las operaciones están acotadas por organizationID: el aislamiento de
// tenant se aplica en la query, no en el handler.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, organizationID, id int64) (*entity.Product, error)
	GetByOrganizationAndSKU(ctx context.Context, organizationID int64, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ReplaceAttributes(ctx context.Context, productID int64, attrs []entity.ProductAttribute) error
	List(ctx context.Context, organizationID int64, search string, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context, organizationID int64, search string) (int, error)
	Delete(ctx context.Context, organizationID, id int64) error
	// ExistingSKUs devuelve cuáles de los SKUs dados ya existen en la
	// organización (validación previa del import CSV).
	ExistingSKUs(ctx context.Context, organizationID int64, skus []string) (map[string]bool, error)
}
