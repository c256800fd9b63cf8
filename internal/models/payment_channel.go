package models

import (
	"time"

	"gorm.io/datatypes"
)

// Payment channel codes.
const (
	PaymentChannelAlipay = "alipay"
	PaymentChannelWechat = "wechat"
	PaymentChannelStripe = "stripe"
)

// PaymentChannel configures one payment provider for a site.
type PaymentChannel struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name    string `gorm:"type:varchar(255);not null"`      // Display name.
	SiteID  uint64 `gorm:"not null;index"`                  // Owning site.
	Channel string `gorm:"type:varchar(32);not null;index"` // alipay, wechat or stripe.

	MerchantID string         `gorm:"type:varchar(255)"` // Merchant account identifier.
	Secret     string         `gorm:"type:text"`         // Channel secret; masked in read views.
	Config     datatypes.JSON `gorm:"type:jsonb"`        // Channel-specific extra configuration.

	IsEnabled bool `gorm:"not null;default:true"` // Whether the channel accepts payments.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
