package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeLogRepo struct {
	logs   map[int64]*entity.InventoryLog
	nextID int64
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{logs: map[int64]*entity.InventoryLog{}, nextID: 1}
}

func (r *fakeLogRepo) Create(_ context.Context, l *entity.InventoryLog) error {
	l.ID = r.nextID
	r.nextID++
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeLogRepo) GetByID(_ context.Context, orgID, id int64) (*entity.InventoryLog, error) {
	l, ok := r.logs[id]
	if !ok || l.OrganizationID != orgID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLogRepo) Update(_ context.Context, l *entity.InventoryLog) error {
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeLogRepo) Delete(_ context.Context, orgID, id int64) error {
	l, ok := r.logs[id]
	if !ok || l.OrganizationID != orgID {
		return domain.ErrNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *fakeLogRepo) List(_ context.Context, orgID int64, _ repository.LogFilter) ([]*entity.InventoryLog, error) {
	var out []*entity.InventoryLog
	for _, l := range r.logs {
		if l.OrganizationID == orgID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) Count(_ context.Context, orgID int64, _ repository.LogFilter) (int, error) {
	n := 0
	for _, l := range r.logs {
		if l.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

type fakeProductRepo struct {
	products map[int64]*entity.Product
	nextID   int64
	created  []*entity.Product // inserciones acumuladas (para asserts de import)
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*entity.Product{}, nextID: 1}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	p.ID = r.nextID
	r.nextID++
	cp := *p
	r.products[p.ID] = &cp
	r.created = append(r.created, &cp)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, orgID, id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.OrganizationID != orgID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByOrganizationAndSKU(_ context.Context, orgID int64, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.OrganizationID == orgID && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) ReplaceAttributes(_ context.Context, _ int64, _ []entity.ProductAttribute) error {
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ int64, _ string, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ int64, _ string) (int, error) { return 0, nil }

func (r *fakeProductRepo) Delete(_ context.Context, _, id int64) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) ExistingSKUs(_ context.Context, orgID int64, skus []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, sku := range skus {
		for _, p := range r.products {
			if p.OrganizationID == orgID && p.SKU == sku {
				out[sku] = true
			}
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	staffActor = usecase.Actor{UserID: 10, OrganizationID: 1, Role: entity.RoleFloorStaff}
	adminActor = usecase.Actor{UserID: 20, OrganizationID: 1, Role: entity.RoleAdmin}
)

func seedProduct(t *testing.T, products *fakeProductRepo) *entity.Product {
	t.Helper()
	p := &entity.Product{OrganizationID: 1, SKU: "SKU-1", Name: "Tornillo M4", Unit: "pcs"}
	require.NoError(t, products.Create(context.Background(), p))
	return p
}

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Ventana de edición de 24 horas
// ──────────────────────────────────────────────────────────────────────────────

func TestInventory_CreateYUpdateDentroDeVentana(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	product := seedProduct(t, products)
	uc := usecase.NewInventoryUseCase(logs, products)

	created, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID,
		Quantity:  qty("12.5"),
		Note:      "turno mañana",
	})
	require.NoError(t, err)
	assert.Equal(t, staffActor.UserID, created.UserID)

	// A +23h el autor todavía puede corregir
	later := uc.WithClock(func() time.Time { return time.Now().Add(23 * time.Hour) })
	newQty := qty("13")
	updated, err := later.Update(context.Background(), staffActor, created.ID, dto.UpdateLogRequest{Quantity: &newQty})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(newQty))
}

func TestInventory_UpdateFueraDeVentana_Rechazado(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	product := seedProduct(t, products)
	uc := usecase.NewInventoryUseCase(logs, products)

	created, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID, Quantity: qty("5"),
	})
	require.NoError(t, err)

	later := uc.WithClock(func() time.Time { return time.Now().Add(25 * time.Hour) })
	newQty := qty("6")
	_, err = later.Update(context.Background(), staffActor, created.ID, dto.UpdateLogRequest{Quantity: &newQty})
	assert.ErrorIs(t, err, domain.ErrEditWindowClosed,
		"floor_staff no debe poder editar su registro después de 24h")

	err = later.Delete(context.Background(), staffActor, created.ID)
	assert.ErrorIs(t, err, domain.ErrEditWindowClosed)
}

func TestInventory_AdminEditaFueraDeVentana(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	product := seedProduct(t, products)
	uc := usecase.NewInventoryUseCase(logs, products)

	created, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID, Quantity: qty("5"),
	})
	require.NoError(t, err)

	later := uc.WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })
	newQty := qty("7")
	updated, err := later.Update(context.Background(), adminActor, created.ID, dto.UpdateLogRequest{Quantity: &newQty})
	require.NoError(t, err, "admin edita sin restricción de ventana")
	assert.True(t, updated.Quantity.Equal(newQty))
}

func TestInventory_StaffNoEditaRegistroAjeno(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	product := seedProduct(t, products)
	uc := usecase.NewInventoryUseCase(logs, products)

	created, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID, Quantity: qty("5"),
	})
	require.NoError(t, err)

	otroStaff := usecase.Actor{UserID: 11, OrganizationID: 1, Role: entity.RoleFloorStaff}
	newQty := qty("9")
	_, err = uc.Update(context.Background(), otroStaff, created.ID, dto.UpdateLogRequest{Quantity: &newQty})
	assert.ErrorIs(t, err, domain.ErrEditWindowClosed,
		"un registro ajeno no es editable por floor_staff aunque esté dentro de la ventana")
}

func TestInventory_CantidadNoPositiva_Rechazada(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	product := seedProduct(t, products)
	uc := usecase.NewInventoryUseCase(logs, products)

	_, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID, Quantity: qty("0"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: product.ID, Quantity: qty("-3"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInventory_ProductoDeOtroTenant_NotFound(t *testing.T) {
	logs, products := newFakeLogRepo(), newFakeProductRepo()
	otro := &entity.Product{OrganizationID: 99, SKU: "AJENO", Name: "X", Unit: "pcs"}
	require.NoError(t, products.Create(context.Background(), otro))
	uc := usecase.NewInventoryUseCase(logs, products)

	_, err := uc.Create(context.Background(), staffActor, dto.CreateLogRequest{
		ProductID: otro.ID, Quantity: qty("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"el producto de otra organización no debe ser visible")
}
