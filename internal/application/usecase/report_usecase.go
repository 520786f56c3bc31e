package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// ReportUseCase reporte de producción por rango de fechas, agrupado por
// producto, en JSON o PDF.
type ReportUseCase struct {
	dashRepo repository.DashboardRepository
	orgRepo  repository.OrganizationRepository
	pdf      ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(dashRepo repository.DashboardRepository, orgRepo repository.OrganizationRepository, pdf ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{dashRepo: dashRepo, orgRepo: orgRepo, pdf: pdf}
}

// Production arma el reporte del rango [from, to]. from > to -> ErrInvalidInput.
func (uc *ReportUseCase) Production(ctx context.Context, actor Actor, from, to time.Time) (*dto.ProductionReportResponse, error) {
	if from.After(to) {
		return nil, domain.ErrInvalidInput
	}
	rows, err := uc.dashRepo.GetProductionByProduct(ctx, actor.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}

	report := &dto.ProductionReportResponse{
		From:        from,
		To:          to,
		Rows:        make([]dto.ProductionReportRow, 0, len(rows)),
		TotalQty:    decimal.Zero,
		TotalValue:  decimal.Zero,
		GeneratedAt: time.Now(),
	}
	for _, r := range rows {
		report.Rows = append(report.Rows, dto.ProductionReportRow{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			SKU:         r.SKU,
			Unit:        r.Unit,
			Quantity:    r.Quantity,
			LogCount:    r.LogCount,
			TotalValue:  r.TotalValue,
		})
		report.TotalQty = report.TotalQty.Add(r.Quantity)
		report.TotalValue = report.TotalValue.Add(r.TotalValue)
	}
	return report, nil
}

// ProductionPDF renderiza el mismo reporte como PDF.
func (uc *ReportUseCase) ProductionPDF(ctx context.Context, actor Actor, from, to time.Time) ([]byte, error) {
	report, err := uc.Production(ctx, actor, from, to)
	if err != nil {
		return nil, err
	}
	org, err := uc.orgRepo.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	orgName := ""
	if org != nil {
		orgName = org.Name
	}
	return uc.pdf.GenerateProductionReport(ctx, orgName, report)
}
