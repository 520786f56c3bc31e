package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
)

// ImportHandler importación masiva de productos por CSV.
type ImportHandler struct {
	uc *usecase.ImportUseCase
}

// NewImportHandler construye el handler de imports.
func NewImportHandler(uc *usecase.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

// ImportCSV godoc
// @Summary      Importar productos desde CSV (atómico: todo o nada)
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV con encabezado name,sku,unit,unit_price,unit_cost,description"
// @Success      201   {object}  dto.ImportResultResponse
// @Success      422   {object}  dto.ImportResultResponse  "archivo rechazado, errores por fila"
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/import/products [post]
func (h *ImportHandler) ImportCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return domainError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domainError(c, err)
	}

	out, err := h.uc.ImportCSV(c.UserContext(), GetActor(c), fileHeader.Filename, data)
	if err != nil {
		return domainError(c, err)
	}
	// Rechazo completo: el resultado detalla las filas inválidas.
	if len(out.RowErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de imports de la organización
// @Tags         import
// @Produce      json
// @Param        limit   query  int  false  "default 20, max 100"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {object}  dto.ImportJobListResponse
// @Router       /api/import/products [get]
func (h *ImportHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.History(c.UserContext(), GetActor(c), page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}
