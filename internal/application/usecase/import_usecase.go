package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
	"github.com/flowdash/flowdash-api/pkg/validate"
)

// importHeader encabezado obligatorio del CSV, en este orden.
var importHeader = []string{"name", "sku", "unit", "unit_price", "unit_cost", "description"}

// importRow fila del CSV ya tipada; las reglas van en los tags.
type importRow struct {
	Name        string          `validate:"required,min=1,max=200"`
	SKU         string          `validate:"required,min=1,max=100"`
	Unit        string          `validate:"required,min=1,max=20"`
	UnitPrice   decimal.Decimal `validate:"-"`
	UnitCost    decimal.Decimal `validate:"-"`
	Description string          `validate:"max=2000"`
}

// ImportUseCase importación masiva de productos vía CSV.
//
// Semántica todo-o-nada: el archivo completo se valida primero (esquema por
// fila, SKUs repetidos dentro del archivo y contra la DB); cualquier fila
// inválida rechaza el import sin escribir nada. Un archivo válido se inserta
// en una sola transacción. El ImportJob queda como auditoría en ambos casos.
type ImportUseCase struct {
	productRepo repository.ProductRepository
	jobRepo     repository.ImportJobRepository
	txRunner    ImportTxRunner
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(productRepo repository.ProductRepository, jobRepo repository.ImportJobRepository, txRunner ImportTxRunner) *ImportUseCase {
	return &ImportUseCase{productRepo: productRepo, jobRepo: jobRepo, txRunner: txRunner}
}

// ImportCSV procesa el archivo y devuelve el resumen del job.
func (uc *ImportUseCase) ImportCSV(ctx context.Context, actor Actor, fileName string, file []byte) (*dto.ImportResultResponse, error) {
	rows, rowErrs, err := parseCSV(file)
	if err != nil {
		return nil, err
	}

	// Las filas que ya traen errores (malformadas o de esquema) no entran al
	// chequeo de duplicados: su SKU vacío o inválido generaría falsos repetidos.
	badRows := map[int]bool{}
	for _, re := range rowErrs {
		badRows[re.Row-1] = true
	}

	// SKUs repetidos dentro del archivo
	seen := map[string]int{}
	for i, row := range rows {
		if badRows[i] {
			continue
		}
		if prev, ok := seen[row.SKU]; ok {
			rowErrs = append(rowErrs, dto.ImportRowError{
				Row:    i + 1,
				Errors: []string{fmt.Sprintf("sku: repetido en la fila %d del archivo", prev+1)},
			})
			continue
		}
		seen[row.SKU] = i
	}

	// SKUs que ya existen en la organización
	if len(seen) > 0 {
		skus := make([]string, 0, len(seen))
		for sku := range seen {
			skus = append(skus, sku)
		}
		existing, err := uc.productRepo.ExistingSKUs(ctx, actor.OrganizationID, skus)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			if existing[row.SKU] && seen[row.SKU] == i {
				rowErrs = append(rowErrs, dto.ImportRowError{
					Row:    i + 1,
					Errors: []string{"sku: ya existe en la organización"},
				})
			}
		}
	}

	now := time.Now()
	job := &entity.ImportJob{
		ID:             uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		UserID:         actor.UserID,
		FileName:       fileName,
		TotalRows:      len(rows),
		CreatedAt:      now,
	}

	if len(rowErrs) > 0 {
		job.Status = entity.ImportStatusRejected
		if err := uc.jobRepo.Create(ctx, job); err != nil {
			return nil, err
		}
		return toImportResult(job, rowErrs), nil
	}

	err = uc.txRunner.RunImport(ctx, func(productRepo repository.ProductRepository) error {
		for _, row := range rows {
			product := &entity.Product{
				OrganizationID: actor.OrganizationID,
				SKU:            row.SKU,
				Name:           row.Name,
				Description:    row.Description,
				Unit:           row.Unit,
				UnitPrice:      row.UnitPrice,
				UnitCost:       row.UnitCost,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := productRepo.Create(ctx, product); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	job.Status = entity.ImportStatusCompleted
	job.ImportedRows = len(rows)
	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return toImportResult(job, nil), nil
}

// History historial de imports de la organización.
func (uc *ImportUseCase) History(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.ImportJobListResponse, error) {
	page.DefaultPage()
	jobs, err := uc.jobRepo.ListByOrganization(ctx, actor.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.jobRepo.CountByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ImportResultResponse, 0, len(jobs))
	for _, j := range jobs {
		items = append(items, *toImportResult(j, nil))
	}
	return &dto.ImportJobListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// parseCSV lee el archivo completo: exige el encabezado fijo y tipa cada
// fila. Los errores de fila se acumulan; los estructurales (encabezado,
// archivo ilegible) abortan con ErrInvalidInput.
func parseCSV(file []byte) ([]importRow, []dto.ImportRowError, error) {
	r := csv.NewReader(bytes.NewReader(file))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: CSV vacío o ilegible", domain.ErrInvalidInput)
	}
	if !matchesHeader(header) {
		return nil, nil, fmt.Errorf("%w: encabezado esperado %q", domain.ErrInvalidInput, strings.Join(importHeader, ","))
	}

	var rows []importRow
	var rowErrs []dto.ImportRowError
	rowNum := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil || len(record) != len(importHeader) {
			msg := fmt.Sprintf("se esperaban %d columnas", len(importHeader))
			if err != nil {
				msg = err.Error()
			}
			rowErrs = append(rowErrs, dto.ImportRowError{Row: rowNum, Errors: []string{msg}})
			rows = append(rows, importRow{})
			continue
		}

		row := importRow{
			Name:        strings.TrimSpace(record[0]),
			SKU:         strings.TrimSpace(record[1]),
			Unit:        strings.TrimSpace(record[2]),
			Description: strings.TrimSpace(record[5]),
		}
		var errs []string
		row.UnitPrice, err = parsePrice(record[3])
		if err != nil {
			errs = append(errs, "unit_price: "+err.Error())
		}
		row.UnitCost, err = parsePrice(record[4])
		if err != nil {
			errs = append(errs, "unit_cost: "+err.Error())
		}
		if err := validate.Struct(row); err != nil {
			errs = append(errs, validate.Messages(err)...)
		}
		if len(errs) > 0 {
			rowErrs = append(rowErrs, dto.ImportRowError{Row: rowNum, Errors: errs})
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func matchesHeader(header []string) bool {
	if len(header) != len(importHeader) {
		return false
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), importHeader[i]) {
			return false
		}
	}
	return true
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("número inválido %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("no puede ser negativo")
	}
	return d, nil
}

func toImportResult(job *entity.ImportJob, rowErrs []dto.ImportRowError) *dto.ImportResultResponse {
	return &dto.ImportResultResponse{
		JobID:        job.ID,
		FileName:     job.FileName,
		TotalRows:    job.TotalRows,
		ImportedRows: job.ImportedRows,
		Status:       job.Status,
		RowErrors:    rowErrs,
		CreatedAt:    job.CreatedAt,
	}
}
