package entity

import "time"

// Media imagen de la biblioteca compartida de la organización. ObjectKey es
// un UUID que nombra los archivos en disco (original y thumbnail); el nombre
// original del upload se conserva solo como metadato.
type Media struct {
	ID             int64
	OrganizationID int64
	UploadedBy     int64
	ObjectKey      string
	FileName       string
	ContentType    string // image/png o image/jpeg
	SizeBytes      int64
	Width          int
	Height         int
	CreatedAt      time.Time
}
