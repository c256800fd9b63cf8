package models

import "time"

// Site verticals served by the platform.
const (
	SiteVerticalMedical   = "medical"
	SiteVerticalEcommerce = "ecommerce"
	SiteVerticalLife      = "life"
)

// Site is a tenant partition; nearly every entity is scoped to one.
type Site struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name     string `gorm:"type:varchar(255);not null"`             // Display name.
	Code     string `gorm:"type:varchar(64);not null;uniqueIndex"`  // Stable short identifier.
	Vertical string `gorm:"type:varchar(32);not null"`              // medical, ecommerce or life.
	Domain   string `gorm:"type:varchar(255)"`                      // Public domain.
	LogoURL  string `gorm:"type:text"`                              // Logo asset URL.

	IsEnabled bool `gorm:"not null;default:true"` // Whether the site is active.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
