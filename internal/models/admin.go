package models

import "time"

// Admin is a back-office operator account. A nil SiteID grants access to
// every site (super admin); otherwise access is limited to the owning site.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string  `gorm:"type:varchar(255);not null;uniqueIndex"` // Login name.
	Password string  `gorm:"type:text;not null"`                     // Bcrypt hash.
	SiteID   *uint64 `gorm:"index"`                                  // Scoped site; nil means super admin.

	IsEnabled bool `gorm:"not null;default:true"` // Whether login is permitted.

	TOTPSecret  string `gorm:"type:text"`              // TOTP secret, set during MFA enrollment.
	TOTPEnabled bool   `gorm:"not null;default:false"` // Whether TOTP is required at login.

	LastLoginAt *time.Time // Last successful login.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
