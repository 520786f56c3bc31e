package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
	"github.com/flowdash/flowdash-api/pkg/validate"
)

// InventoryHandler CRUD de registros de producción.
type InventoryHandler struct {
	uc *usecase.InventoryUseCase
}

// NewInventoryHandler construye el handler de registros.
func NewInventoryHandler(uc *usecase.InventoryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Create godoc
// @Summary      Anotar producción
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLogRequest  true  "product_id, quantity"
// @Success      201   {object}  dto.LogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/logs [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, validate.Messages(err))
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar registros (paginado, filtros por producto/usuario/fechas)
// @Tags         inventory
// @Produce      json
// @Param        product_id  query  int     false  "filtrar por producto"
// @Param        user_id     query  int     false  "filtrar por usuario"
// @Param        from        query  string  false  "RFC3339, logged_at desde"
// @Param        to          query  string  false  "RFC3339, logged_at hasta"
// @Param        limit       query  int     false  "default 20, max 100"
// @Param        offset      query  int     false  "default 0"
// @Success      200  {object}  dto.LogListResponse
// @Router       /api/inventory/logs [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	filter, err := parseLogFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), filter, page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener registro por ID
// @Tags         inventory
// @Produce      json
// @Param        id  path  int  true  "ID del registro"
// @Success      200  {object}  dto.LogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/logs/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Corregir registro (floor_staff: propio y dentro de 24h)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID del registro"
// @Param        body  body  dto.UpdateLogRequest  true  "campos a corregir"
// @Success      200   {object}  dto.LogResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/logs/{id} [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	var in dto.UpdateLogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return validationFailed(c, validate.Messages(err))
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro (misma ventana que la edición)
// @Tags         inventory
// @Produce      json
// @Param        id  path  int  true  "ID del registro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/logs/{id} [delete]
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseLogFilter arma el filtro del listado desde la query string.
func parseLogFilter(c *fiber.Ctx) (repository.LogFilter, error) {
	var filter repository.LogFilter
	if v := c.Query("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "product_id inválido")
		}
		filter.ProductID = &id
	}
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "user_id inválido")
		}
		filter.UserID = &id
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "from debe ser RFC3339")
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fiber.NewError(fiber.StatusBadRequest, "to debe ser RFC3339")
		}
		filter.To = &t
	}
	return filter, nil
}
