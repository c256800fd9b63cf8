package models

import "time"

// Menu is one navigation entry of a site; entries form a tree via ParentID.
type Menu struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string  `gorm:"type:varchar(255);not null"` // Display label.
	SiteID   uint64  `gorm:"not null;index"`             // Owning site.
	ParentID *uint64 `gorm:"index"`                      // Parent entry; nil means top level.

	Path string `gorm:"type:varchar(255)"` // Route path.
	Icon string `gorm:"type:varchar(64)"`  // Icon identifier.

	SortOrder int  `gorm:"not null;default:0"`     // Ordering within the parent.
	IsHidden  bool `gorm:"not null;default:false"` // Whether the entry is hidden.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
