package models

import "time"

// InviteCode is an invitation code users can redeem at signup.
type InviteCode struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Code   string `gorm:"type:varchar(64);not null;uniqueIndex"` // The code itself.
	SiteID uint64 `gorm:"not null;index"`                        // Owning site.

	MaxUses   int        `gorm:"not null;default:1"`    // Redemption limit; 0 means unlimited.
	UsedCount int        `gorm:"not null;default:0"`    // Redemptions so far.
	ExpiresAt *time.Time // Expiry; nil means never.
	IsEnabled bool       `gorm:"not null;default:true"` // Whether the code can be redeemed.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
