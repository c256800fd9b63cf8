package models

import "time"

// User is an end-user account on one site.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:varchar(255);not null;index"` // Login name.
	Nickname string `gorm:"type:varchar(255)"`                // Display name.
	Phone    string `gorm:"type:varchar(32);index"`           // Contact phone.
	SiteID   uint64 `gorm:"not null;index"`                   // Owning site.

	Balance        int64  `gorm:"not null;default:0"`    // Credit balance.
	InviteCodeUsed string `gorm:"type:varchar(64)"`      // Invitation code redeemed at signup.
	IsEnabled      bool   `gorm:"not null;default:true"` // Whether the account is active.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
