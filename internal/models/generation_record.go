package models

import "time"

// Generation record lifecycle states.
const (
	GenerationStatusPending   = "pending"
	GenerationStatusRunning   = "running"
	GenerationStatusSucceeded = "succeeded"
	GenerationStatusFailed    = "failed"
)

// GenerationRecord is one generation request issued through a platform.
// Rows are written by the generation backend; the back-office reads them.
type GenerationRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID     uint64 `gorm:"not null;index"`           // Requesting user.
	SiteID     uint64 `gorm:"not null;index"`           // Owning site.
	PlatformID uint64 `gorm:"not null;index"`           // Platform that served the request.
	ModelName  string `gorm:"type:varchar(255);index"`  // Model used.

	Prompt       string `gorm:"type:text"`                                       // Input prompt.
	Status       string `gorm:"type:varchar(16);not null;default:'pending';index"` // pending, running, succeeded or failed.
	Cost         int64  `gorm:"not null;default:0"`                              // Credits charged.
	ResultURL    string `gorm:"type:text"`                                       // Generated asset URL.
	ErrorMessage string `gorm:"type:text"`                                       // Failure detail, if any.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
