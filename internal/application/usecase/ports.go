package usecase

import (
	"context"
	"time"

	"github.com/flowdash/flowdash-api/internal/application/dto"
	"github.com/flowdash/flowdash-api/internal/domain/repository"
)

// StoredImage resultado de guardar una imagen procesada en el almacenamiento.
type StoredImage struct {
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	Width       int
	Height      int
}

// MediaStore puerto de almacenamiento binario de la biblioteca de medios.
// La implementación redimensiona el original y genera el thumbnail.
type MediaStore interface {
	Save(ctx context.Context, data []byte, contentType string) (*StoredImage, error)
	Remove(ctx context.Context, objectKey string) error
	// Path devuelve la ruta en disco del original o del thumbnail (para servir
	// el archivo directamente desde el handler).
	Path(objectKey string, thumb bool) string
}

// DashboardCache cache opcional de agregados (Redis). Las implementaciones
// devuelven (nil, nil) en cache miss; los errores de cache no rompen el
// dashboard, solo lo degradan a consulta directa.
type DashboardCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ImportTxRunner ejecuta la inserción de todas las filas del CSV en UNA
// transacción: un error revierte el import completo.
type ImportTxRunner interface {
	RunImport(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// ReportPDFGenerator renderiza el reporte de producción como PDF.
type ReportPDFGenerator interface {
	GenerateProductionReport(ctx context.Context, orgName string, report *dto.ProductionReportResponse) ([]byte, error)
}
