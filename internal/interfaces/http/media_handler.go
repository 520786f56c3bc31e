package http

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/application/usecase"
)

// MediaHandler biblioteca de imágenes de la organización.
type MediaHandler struct {
	uc       *usecase.MediaUseCase
	maxBytes int64
}

// NewMediaHandler construye el handler. maxUploadMB limita el tamaño del
// archivo antes de procesarlo.
func NewMediaHandler(uc *usecase.MediaUseCase, maxUploadMB int) *MediaHandler {
	return &MediaHandler{uc: uc, maxBytes: int64(maxUploadMB) * 1024 * 1024}
}

// Upload godoc
// @Summary      Subir imagen (multipart, campo "file"; png o jpeg)
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "imagen"
// @Success      201   {object}  dto.MediaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Router       /api/media [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo multipart 'file' requerido"})
	}
	if fileHeader.Size > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo excede el tamaño máximo"})
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

	out, err := h.uc.Upload(c.UserContext(), GetActor(c), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar biblioteca de imágenes
// @Tags         media
// @Produce      json
// @Param        limit   query  int  false  "default 20, max 100"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {object}  dto.MediaListResponse
// @Router       /api/media [get]
func (h *MediaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// File godoc
// @Summary      Servir el binario (original o ?thumb=1)
// @Tags         media
// @Produce      image/png
// @Param        id     path   int   true   "ID del medio"
// @Param        thumb  query  bool  false  "servir el thumbnail"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/media/{id}/file [get]
func (h *MediaHandler) File(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	path, contentType, err := h.uc.GetFile(c.UserContext(), GetActor(c), id, c.QueryBool("thumb"))
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendFile(path)
}

// Delete godoc
// @Summary      Eliminar imagen (metadato y archivos)
// @Tags         media
// @Produce      json
// @Param        id  path  int  true  "ID del medio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/media/{id} [delete]
func (h *MediaHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.UserContext(), GetActor(c), id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
