package usecase

import (
	"context"
	"time"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos y sus atributos.
// organizationID siempre viene del contexto autenticado.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un producto. SKU duplicado en la organización -> ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, organizationID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetByOrganizationAndSKU(ctx, organizationID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitPrice.IsNegative() || in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		OrganizationID: organizationID,
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Unit:           in.Unit,
		UnitPrice:      in.UnitPrice,
		UnitCost:       in.UnitCost,
		MediaID:        in.MediaID,
		CreatedAt:      now,
		UpdatedAt:      now,
		Attributes:     toAttributes(0, in.Attributes),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con sus atributos.
func (uc *ProductUseCase) GetByID(ctx context.Context, organizationID, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos paginados, con búsqueda opcional por nombre o SKU.
func (uc *ProductUseCase) List(ctx context.Context, organizationID int64, search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(ctx, organizationID, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, organizationID, search)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualización parcial. Attributes no-nil reemplaza el conjunto.
func (uc *ProductUseCase) Update(ctx context.Context, organizationID, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitPrice = *in.UnitPrice
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.UnitCost = *in.UnitCost
	}
	if in.MediaID != nil {
		product.MediaID = in.MediaID
	}
	product.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if in.Attributes != nil {
		product.Attributes = toAttributes(product.ID, in.Attributes)
		if err := uc.repo.ReplaceAttributes(ctx, product.ID, product.Attributes); err != nil {
			return nil, err
		}
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin registros de producción asociados.
// Con registros -> ErrProductInUse (409).
func (uc *ProductUseCase) Delete(ctx context.Context, organizationID, id int64) error {
	product, err := uc.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, organizationID, id)
}

func toAttributes(productID int64, in []dto.AttributeDTO) []entity.ProductAttribute {
	if len(in) == 0 {
		return nil
	}
	attrs := make([]entity.ProductAttribute, 0, len(in))
	for _, a := range in {
		attrs = append(attrs, entity.ProductAttribute{ProductID: productID, Name: a.Name, Value: a.Value})
	}
	return attrs
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	attrs := make([]dto.AttributeDTO, 0, len(p.Attributes))
	for _, a := range p.Attributes {
		attrs = append(attrs, dto.AttributeDTO{Name: a.Name, Value: a.Value})
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Unit:           p.Unit,
		UnitPrice:      p.UnitPrice,
		UnitCost:       p.UnitCost,
		MediaID:        p.MediaID,
		Attributes:     attrs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
