package dto

import "time"

// MediaResponse salida de un medio de la biblioteca. Las URLs se arman en el
// handler a partir del ID (el ObjectKey no se expone como ruta navegable).
type MediaResponse struct {
	ID          int64     `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	URL         string    `json:"url"`
	ThumbURL    string    `json:"thumb_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// MediaListResponse lista paginada de medios.
type MediaListResponse struct {
	Items []MediaResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
