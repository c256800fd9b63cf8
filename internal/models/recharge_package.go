package models

import "time"

// RechargePackage is a purchasable credit tier.
type RechargePackage struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name   string `gorm:"type:varchar(255);not null"` // Display name.
	SiteID uint64 `gorm:"not null;index"`             // Owning site.

	Price        float64 `gorm:"type:decimal(10,2);not null;default:0"` // Purchase price.
	Credits      int64   `gorm:"not null;default:0"`                    // Credits granted.
	BonusCredits int64   `gorm:"not null;default:0"`                    // Extra promotional credits.

	SortOrder int  `gorm:"not null;default:0"`    // Display ordering weight.
	IsEnabled bool `gorm:"not null;default:true"` // Whether the package is on sale.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
