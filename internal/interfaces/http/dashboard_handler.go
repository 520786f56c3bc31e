package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
)

// DashboardHandler resumen agregado y reportes de producción.
type DashboardHandler struct {
	dashboardUC *usecase.DashboardUseCase
	reportUC    *usecase.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(dashboardUC *usecase.DashboardUseCase, reportUC *usecase.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC, reportUC: reportUC}
}

// Summary godoc
// @Summary      Resumen del dashboard (hoy, semana, mes, top productos)
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.dashboardUC.GetSummary(c.UserContext(), GetActor(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Production godoc
// @Summary      Reporte de producción por rango de fechas
// @Tags         reports
// @Produce      json
// @Param        from    query  string  true   "fecha inicio YYYY-MM-DD"
// @Param        to      query  string  true   "fecha fin YYYY-MM-DD"
// @Param        format  query  string  false  "pdf para descargar el PDF"
// @Success      200  {object}  dto.ProductionReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/production [get]
func (h *DashboardHandler) Production(c *fiber.Ctx) error {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser YYYY-MM-DD"})
	}
	// El rango es inclusivo: el día final entra completo.
	to = to.Add(24*time.Hour - time.Nanosecond)

	if c.Query("format") == "pdf" {
		pdfBytes, err := h.reportUC.ProductionPDF(c.UserContext(), GetActor(c), from, to)
		if err != nil {
			return domainError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="production-report.pdf"`)
		return c.Send(pdfBytes)
	}

	out, err := h.reportUC.Production(c.UserContext(), GetActor(c), from, to)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
