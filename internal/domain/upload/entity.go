// internal/domain/upload/entity.go
package upload

import (
	"time"

	"gorm.io/gorm"
)

// FileKind classifies what an uploaded document is for
type FileKind string

const (
	FileKindPrescription FileKind = "prescription"
	FileKindPassport     FileKind = "passport"
)

// UploadedFile records a stored checkout document
type UploadedFile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Kind         FileKind       `gorm:"not null;size:20" json:"kind"`
	OriginalName string         `gorm:"size:255" json:"original_name"`
	StoredName   string         `gorm:"not null;size:255" json:"stored_name"`
	ContentType  string         `gorm:"size:100" json:"content_type"`
	Size         int64          `gorm:"not null" json:"size"`
	URL          string         `gorm:"not null;size:500" json:"url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (UploadedFile) TableName() string {
	return "uploaded_files"
}
