package models

import "time"

// Ad is a marketing banner shown on a site.
type Ad struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Title  string `gorm:"type:varchar(255);not null"` // Banner title.
	SiteID uint64 `gorm:"not null;index"`             // Owning site.

	ImageURL string `gorm:"type:text;not null"`      // Banner image URL.
	LinkURL  string `gorm:"type:text"`               // Click-through URL.
	Position string `gorm:"type:varchar(64);index"`  // Placement slot (home_top, sidebar, ...).

	SortOrder int        `gorm:"not null;default:0"`    // Display ordering weight.
	IsEnabled bool       `gorm:"not null;default:true"` // Whether the ad is shown.
	StartsAt  *time.Time // Scheduled start; nil means immediately.
	EndsAt    *time.Time // Scheduled end; nil means indefinitely.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
