package usecase

import (
	"context"
	"time"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// Actor identidad autenticada que ejecuta la operación (sale de la puerta,
// nunca del body del request).
type Actor struct {
	UserID         int64
	OrganizationID int64
	Role           string
}

// InventoryUseCase CRUD de registros de producción con ventana de edición:
// floor_staff corrige solo sus propios registros dentro de las 24 horas
// posteriores a la creación; admin y super_admin sin restricción.
type InventoryUseCase struct {
	logRepo     repository.InventoryLogRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(logRepo repository.InventoryLogRepository, productRepo repository.ProductRepository) *InventoryUseCase {
	return &InventoryUseCase{logRepo: logRepo, productRepo: productRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests de la ventana de edición).
func (uc *InventoryUseCase) WithClock(now func() time.Time) *InventoryUseCase {
	clone := *uc
	clone.now = now
	return &clone
}

// Create registra una cantidad producida contra un producto del tenant.
func (uc *InventoryUseCase) Create(ctx context.Context, actor Actor, in dto.CreateLogRequest) (*dto.LogResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, actor.OrganizationID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	loggedAt := now
	if in.LoggedAt != nil {
		loggedAt = *in.LoggedAt
	}
	log := &entity.InventoryLog{
		OrganizationID: actor.OrganizationID,
		ProductID:      in.ProductID,
		UserID:         actor.UserID,
		Quantity:       in.Quantity,
		Note:           in.Note,
		LoggedAt:       loggedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.logRepo.Create(ctx, log); err != nil {
		return nil, err
	}
	log.ProductName = product.Name
	return toLogResponse(log), nil
}

// GetByID obtiene un registro del tenant.
func (uc *InventoryUseCase) GetByID(ctx context.Context, actor Actor, id int64) (*dto.LogResponse, error) {
	log, err := uc.logRepo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, domain.ErrNotFound
	}
	return toLogResponse(log), nil
}

// List lista registros paginados con filtros opcionales.
func (uc *InventoryUseCase) List(ctx context.Context, actor Actor, filter repository.LogFilter, page dto.PageRequest) (*dto.LogListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset

	logs, err := uc.logRepo.List(ctx, actor.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.logRepo.Count(ctx, actor.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, *toLogResponse(l))
	}
	return &dto.LogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update corrige un registro. Fuera de la ventana o registro ajeno (para
// floor_staff) -> ErrEditWindowClosed.
func (uc *InventoryUseCase) Update(ctx context.Context, actor Actor, id int64, in dto.UpdateLogRequest) (*dto.LogResponse, error) {
	log, err := uc.logRepo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, domain.ErrNotFound
	}
	if !log.EditableBy(actor.UserID, actor.Role, uc.now()) {
		return nil, domain.ErrEditWindowClosed
	}

	if in.Quantity != nil {
		if !in.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		log.Quantity = *in.Quantity
	}
	if in.Note != nil {
		log.Note = *in.Note
	}
	if in.LoggedAt != nil {
		log.LoggedAt = *in.LoggedAt
	}
	log.UpdatedAt = uc.now()

	if err := uc.logRepo.Update(ctx, log); err != nil {
		return nil, err
	}
	return toLogResponse(log), nil
}

// Delete elimina un registro bajo las mismas reglas de la ventana de edición.
func (uc *InventoryUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	log, err := uc.logRepo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return err
	}
	if log == nil {
		return domain.ErrNotFound
	}
	if !log.EditableBy(actor.UserID, actor.Role, uc.now()) {
		return domain.ErrEditWindowClosed
	}
	return uc.logRepo.Delete(ctx, actor.OrganizationID, id)
}

func toLogResponse(l *entity.InventoryLog) *dto.LogResponse {
	if l == nil {
		return nil
	}
	return &dto.LogResponse{
		ID:             l.ID,
		OrganizationID: l.OrganizationID,
		ProductID:      l.ProductID,
		ProductName:    l.ProductName,
		UserID:         l.UserID,
		UserName:       l.UserName,
		Quantity:       l.Quantity,
		Note:           l.Note,
		LoggedAt:       l.LoggedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
