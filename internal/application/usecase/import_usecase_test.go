package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

type fakeImportJobRepo struct {
	jobs []*entity.ImportJob
}

func (r *fakeImportJobRepo) Create(_ context.Context, j *entity.ImportJob) error {
	cp := *j
	r.jobs = append(r.jobs, &cp)
	return nil
}

func (r *fakeImportJobRepo) ListByOrganization(_ context.Context, orgID int64, limit, offset int) ([]*entity.ImportJob, error) {
	var all []*entity.ImportJob
	for _, j := range r.jobs {
		if j.OrganizationID == orgID {
			all = append(all, j)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type fakeImportTxRunner struct {
	productRepo repository.ProductRepository
}

func (r *fakeImportJobRepo) CountByOrganization(_ context.Context, orgID int64) (int, error) {
	total := 0
	for _, j := range r.jobs {
		if j.OrganizationID == orgID {
			total++
		}
	}
	return total, nil
}

func (t *fakeImportTxRunner) RunImport(ctx context.Context, fn func(repository.ProductRepository) error) error {
	return fn(t.productRepo)
}

func newImportUseCase() (*usecase.ImportUseCase, *fakeProductRepo, *fakeImportJobRepo) {
	products := newFakeProductRepo()
	jobs := &fakeImportJobRepo{}
	uc := usecase.NewImportUseCase(products, jobs, &fakeImportTxRunner{productRepo: products})
	return uc, products, jobs
}

const validCSV = `name,sku,unit,unit_price,unit_cost,description
Tornillo M4,TOR-M4,pcs,0.15,0.04,Caja de 100
Tuerca M4,TUE-M4,pcs,0.10,0.02,
Lámina acero,LAM-01,kg,3.50,2.10,Calibre 18
`

func TestImportCSV_ArchivoValido_ImportaTodo(t *testing.T) {
	uc, products, jobs := newImportUseCase()

	out, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(validCSV))
	require.NoError(t, err)

	assert.Equal(t, entity.ImportStatusCompleted, out.Status)
	assert.Equal(t, 3, out.TotalRows)
	assert.Equal(t, 3, out.ImportedRows)
	assert.Empty(t, out.RowErrors)
	assert.Len(t, products.created, 3)
	require.Len(t, jobs.jobs, 1)

	// Las filas quedan en el tenant del actor con los valores tipados
	p, err := products.GetByOrganizationAndSKU(context.Background(), adminActor.OrganizationID, "LAM-01")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "kg", p.Unit)
	assert.True(t, p.UnitPrice.Equal(qty("3.50")))
}

func TestImportCSV_FilaInvalida_RechazaTodoElArchivo(t *testing.T) {
	uc, products, _ := newImportUseCase()

	csv := `name,sku,unit,unit_price,unit_cost,description
Tornillo M4,TOR-M4,pcs,0.15,0.04,ok
,SIN-NOMBRE,pcs,1.00,0.50,falta el nombre
Tuerca,TUE-M4,pcs,-2,0.02,precio negativo
`
	out, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, entity.ImportStatusRejected, out.Status)
	assert.Equal(t, 0, out.ImportedRows)
	assert.Len(t, out.RowErrors, 2)
	assert.Equal(t, 2, out.RowErrors[0].Row)
	assert.Equal(t, 3, out.RowErrors[1].Row)
	assert.Empty(t, products.created, "un archivo con errores no debe escribir ninguna fila")
}

func TestImportCSV_SKURepetidoEnArchivo(t *testing.T) {
	uc, products, _ := newImportUseCase()

	csv := `name,sku,unit,unit_price,unit_cost,description
Tornillo,TOR-M4,pcs,0.15,0.04,
Tornillo bis,TOR-M4,pcs,0.20,0.05,
`
	out, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, entity.ImportStatusRejected, out.Status)
	require.Len(t, out.RowErrors, 1)
	assert.Equal(t, 2, out.RowErrors[0].Row)
	assert.Empty(t, products.created)
}

// Dos filas malformadas (columnas de menos) reciben solo su error estructural:
// sus SKUs vacíos no deben marcarse además como repetidos entre sí.
func TestImportCSV_FilasMalformadasNoGeneranFalsosRepetidos(t *testing.T) {
	uc, products, _ := newImportUseCase()

	csv := `name,sku,unit,unit_price,unit_cost,description
Tornillo,TOR-M4,pcs,0.15,0.04,
Tuerca,TUE-M4
Lámina,LAM-01
`
	out, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, entity.ImportStatusRejected, out.Status)
	require.Len(t, out.RowErrors, 2)
	for _, re := range out.RowErrors {
		assert.Len(t, re.Errors, 1, "fila %d: solo el error de columnas, sin duplicado fantasma", re.Row)
		assert.NotContains(t, re.Errors[0], "repetido")
	}
	assert.Empty(t, products.created)
}

func TestImportCSV_SKUYaExistenteEnDB(t *testing.T) {
	uc, products, _ := newImportUseCase()
	preexistente := &entity.Product{OrganizationID: adminActor.OrganizationID, SKU: "TOR-M4", Name: "Viejo", Unit: "pcs"}
	require.NoError(t, products.Create(context.Background(), preexistente))
	products.created = nil

	out, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(validCSV))
	require.NoError(t, err)

	assert.Equal(t, entity.ImportStatusRejected, out.Status)
	require.Len(t, out.RowErrors, 1)
	assert.Equal(t, 1, out.RowErrors[0].Row, "TOR-M4 ya existe: la fila 1 debe marcarse")
	assert.Empty(t, products.created)
}

// El historial pagina con total del tenant, igual que los demás listados.
func TestImportHistory_TotalDelTenant(t *testing.T) {
	uc, _, jobs := newImportUseCase()
	for i := 0; i < 3; i++ {
		require.NoError(t, jobs.Create(context.Background(), &entity.ImportJob{
			ID: string(rune('a' + i)), OrganizationID: adminActor.OrganizationID,
		}))
	}
	require.NoError(t, jobs.Create(context.Background(), &entity.ImportJob{ID: "x", OrganizationID: 99}))

	out, err := uc.History(context.Background(), adminActor, dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)

	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Page.Total)
}

func TestImportCSV_EncabezadoIncorrecto(t *testing.T) {
	uc, _, _ := newImportUseCase()

	csv := "nombre,codigo\nTornillo,TOR-M4\n"
	_, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", []byte(csv))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImportCSV_ArchivoVacio(t *testing.T) {
	uc, _, _ := newImportUseCase()

	_, err := uc.ImportCSV(context.Background(), adminActor, "productos.csv", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
