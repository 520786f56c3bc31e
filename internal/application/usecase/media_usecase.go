package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain"
	"github.com/flowdash/flowdash-api/internal/domain/entity"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// Tipos de imagen aceptados por la biblioteca.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// MediaUseCase biblioteca de imágenes compartida de la organización.
// El binario vive en MediaStore; el metadato en MediaRepository.
type MediaUseCase struct {
	repo  repository.MediaRepository
	store MediaStore
}

// NewMediaUseCase construye el caso de uso.
func NewMediaUseCase(repo repository.MediaRepository, store MediaStore) *MediaUseCase {
	return &MediaUseCase{repo: repo, store: store}
}

// Upload procesa y guarda una imagen (resize + thumbnail) y su metadato.
func (uc *MediaUseCase) Upload(ctx context.Context, actor Actor, fileName, contentType string, data []byte) (*dto.MediaResponse, error) {
	if !allowedImageTypes[contentType] {
		return nil, domain.ErrInvalidInput
	}
	stored, err := uc.store.Save(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	media := &entity.Media{
		OrganizationID: actor.OrganizationID,
		UploadedBy:     actor.UserID,
		ObjectKey:      stored.ObjectKey,
		FileName:       fileName,
		ContentType:    stored.ContentType,
		SizeBytes:      stored.SizeBytes,
		Width:          stored.Width,
		Height:         stored.Height,
		CreatedAt:      time.Now(),
	}
	if err := uc.repo.Create(ctx, media); err != nil {
		// El metadato no entró: no dejar el binario huérfano
		_ = uc.store.Remove(ctx, stored.ObjectKey)
		return nil, err
	}
	return toMediaResponse(media), nil
}

// GetFile devuelve la ruta en disco del original o el thumbnail,
// validando tenant.
func (uc *MediaUseCase) GetFile(ctx context.Context, actor Actor, id int64, thumb bool) (path, contentType string, err error) {
	media, err := uc.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return "", "", err
	}
	if media == nil {
		return "", "", domain.ErrNotFound
	}
	return uc.store.Path(media.ObjectKey, thumb), media.ContentType, nil
}

// List biblioteca paginada de la organización.
func (uc *MediaUseCase) List(ctx context.Context, actor Actor, page dto.PageRequest) (*dto.MediaListResponse, error) {
	page.DefaultPage()
	medias, err := uc.repo.List(ctx, actor.OrganizationID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MediaResponse, 0, len(medias))
	for _, m := range medias {
		items = append(items, *toMediaResponse(m))
	}
	return &dto.MediaListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Delete elimina metadato y archivos.
func (uc *MediaUseCase) Delete(ctx context.Context, actor Actor, id int64) error {
	media, err := uc.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return err
	}
	if media == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, actor.OrganizationID, id); err != nil {
		return err
	}
	return uc.store.Remove(ctx, media.ObjectKey)
}

func toMediaResponse(m *entity.Media) *dto.MediaResponse {
	if m == nil {
		return nil
	}
	return &dto.MediaResponse{
		ID:          m.ID,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Width:       m.Width,
		Height:      m.Height,
		URL:         fmt.Sprintf("/api/media/%d/file", m.ID),
		ThumbURL:    fmt.Sprintf("/api/media/%d/file?thumb=1", m.ID),
		CreatedAt:   m.CreatedAt,
	}
}
