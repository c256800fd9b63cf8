package models

import (
	"time"

	"gorm.io/datatypes"
)

// Platform category tags used purely for grouping in the UI.
const (
	PlatformTypeTxt2Img    = "txt2img"
	PlatformTypeImg2Img    = "img2img"
	PlatformTypeTxt2Video  = "txt2video"
	PlatformTypeImg2Video  = "img2video"
	PlatformTypeVoiceClone = "voice_clone"
	PlatformTypeChat       = "chat"
	PlatformTypeAnalysis   = "analysis"
)

// Response modes for the generation interface.
const (
	ResponseModeJSON   = "json"
	ResponseModeStream = "stream"
	ResponseModeResult = "result"
)

// Platform registers a third-party generation API provider.
type Platform struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name   string  `gorm:"type:varchar(255);not null"`      // Display name.
	Alias  string  `gorm:"type:varchar(255)"`               // Optional short name.
	SiteID *uint64 `gorm:"index"`                           // Owning site; nil means global.
	Type   string  `gorm:"type:varchar(32);not null;index"` // Category tag (txt2img, img2video, ...).

	IsEnabled bool   `gorm:"not null;default:true"` // Whether the platform may be resolved against.
	APIKey    string `gorm:"type:text"`             // Provider credential; masked in read views.

	SupportedModels datatypes.JSON `gorm:"type:jsonb"` // Model capability and cost metadata.

	GenMethod       string         `gorm:"type:varchar(16);not null;default:'POST'"`  // Generation interface HTTP method.
	GenURL          string         `gorm:"type:text;not null"`                        // Generation interface URL.
	GenResponseMode string         `gorm:"type:varchar(16);not null;default:'json'"`  // Generation response mode.
	GenHeaders      datatypes.JSON `gorm:"type:jsonb"`                                // Generation header template.
	ResultMethod    string         `gorm:"type:varchar(16);not null;default:'GET'"`   // Result polling HTTP method.
	ResultURL       string         `gorm:"type:text"`                                 // Result polling URL.
	ResultHeaders   datatypes.JSON `gorm:"type:jsonb"`                                // Result polling header template.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
