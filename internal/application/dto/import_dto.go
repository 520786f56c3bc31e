package dto

import "time"

// ImportRowError error de validación de una fila del CSV (1-based, sin
// contar el encabezado).
type ImportRowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// ImportResultResponse resumen de una importación CSV. Si RowErrors no está
// vacío el import fue rechazado completo: no se escribió ninguna fila.
type ImportResultResponse struct {
	JobID        string           `json:"job_id"`
	FileName     string           `json:"file_name"`
	TotalRows    int              `json:"total_rows"`
	ImportedRows int              `json:"imported_rows"`
	Status       string           `json:"status"`
	RowErrors    []ImportRowError `json:"row_errors,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ImportJobListResponse historial de imports de la organización.
type ImportJobListResponse struct {
	Items []ImportResultResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
