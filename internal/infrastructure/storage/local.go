package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/flowdash/flowdash-api/internal/application/usecase"
	"github.com/flowdash/flowdash-api/pkg/config"
)

var _ usecase.MediaStore = (*LocalStore)(nil)

// LocalStore almacenamiento de medios en disco local. Guarda el original
// (capado a maxWidth) y un thumbnail bajo el mismo object key UUID.
type LocalStore struct {
	root       string
	maxWidth   int
	thumbWidth int
}

// NewLocalStore crea el directorio raíz si no existe.
func NewLocalStore(cfg config.MediaConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{
		root:       cfg.RootDir,
		maxWidth:   cfg.MaxWidth,
		thumbWidth: cfg.ThumbWidth,
	}, nil
}

// Save decodifica la imagen, la reescala si supera maxWidth, genera el
// thumbnail y escribe ambos archivos.
func (s *LocalStore) Save(_ context.Context, data []byte, contentType string) (*usecase.StoredImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > s.maxWidth {
		// Height 0 preserva la relación de aspecto.
		img = imaging.Resize(img, s.maxWidth, 0, imaging.Lanczos)
	}
	thumb := imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)

	key := uuid.New().String()
	if err := s.encode(s.Path(key, false), img, contentType); err != nil {
		return nil, err
	}
	if err := s.encode(s.Path(key, true), thumb, contentType); err != nil {
		os.Remove(s.Path(key, false))
		return nil, err
	}

	info, err := os.Stat(s.Path(key, false))
	if err != nil {
		return nil, fmt.Errorf("stat stored image: %w", err)
	}
	return &usecase.StoredImage{
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   info.Size(),
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
	}, nil
}

func (s *LocalStore) encode(path string, img image.Image, contentType string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	var format imaging.Format
	switch contentType {
	case "image/png":
		format = imaging.PNG
	default:
		format = imaging.JPEG
	}
	if err := imaging.Encode(f, img, format, imaging.JPEGQuality(85)); err != nil {
		os.Remove(path)
		return fmt.Errorf("encode image: %w", err)
	}
	return nil
}

// Remove borra original y thumbnail. Ignora archivos ya ausentes.
func (s *LocalStore) Remove(_ context.Context, objectKey string) error {
	for _, p := range []string{s.Path(objectKey, false), s.Path(objectKey, true)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove image: %w", err)
		}
	}
	return nil
}

// Path ruta en disco del original o del thumbnail.
func (s *LocalStore) Path(objectKey string, thumb bool) string {
	name := objectKey
	if thumb {
		name += "_thumb"
	}
	return filepath.Join(s.root, name)
}
