package models

import "time"

// MediaAsset records metadata for an uploaded file. The bytes themselves
// live in external storage; only the reference is kept here.
type MediaAsset struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Filename string `gorm:"type:varchar(255);not null"` // Original file name.
	URL      string `gorm:"type:text;not null"`         // Storage URL.
	SiteID   uint64 `gorm:"not null;index"`             // Owning site.

	SizeBytes   int64  `gorm:"not null;default:0"` // File size in bytes.
	ContentType string `gorm:"type:varchar(128)"`  // MIME type.
	UploadedBy  uint64 `gorm:"index"`              // Admin who uploaded the file.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
