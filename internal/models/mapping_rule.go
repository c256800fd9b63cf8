package models

import "time"

// Mapping rule discriminants.
const (
	MappingTypeFieldMapping = "field_mapping"
	MappingTypeFixedValue   = "fixed_value"
)

// Outbound request locations a resolved value can be placed in.
const (
	ParamLocationHeader = "header"
	ParamLocationQuery  = "query"
	ParamLocationBody   = "body"
)

// Coercion types applied to resolved values.
const (
	ParamTypeString  = "string"
	ParamTypeInteger = "integer"
	ParamTypeBoolean = "boolean"
	ParamTypeJSON    = "json"
)

// Mapping rule lifecycle states. Deleted rules stay on disk for audit.
const (
	RuleStatusActive  = "active"
	RuleStatusDeleted = "deleted"
)

// MappingRule declares how one internal parameter is transformed into a
// vendor-specific request field for a platform (optionally one model of it).
type MappingRule struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	PlatformID uint64    `gorm:"not null;index"`                               // Owning platform.
	Platform   *Platform `gorm:"constraint:OnDelete:CASCADE;OnUpdate:CASCADE"` // Related platform.

	ModelName string `gorm:"type:varchar(255);index"` // Target model; empty means platform-wide.
	SiteID    *uint64 `gorm:"index"`                  // Site scope, inherited from the platform.

	MappingType   string `gorm:"type:varchar(32);not null"`  // field_mapping or fixed_value.
	InternalParam string `gorm:"type:varchar(255)"`          // Internal bag field (field_mapping only).
	TargetParam   string `gorm:"type:varchar(255);not null"` // Vendor field name or path.
	FixedValue    string `gorm:"type:text"`                  // Constant to inject (fixed_value only).
	DefaultValue  string `gorm:"type:text"`                  // Fallback when the bag lacks the field.

	IsRequired    bool   `gorm:"not null;default:false"`                   // Fail resolution when unresolved.
	ParamLocation string `gorm:"type:varchar(16);not null"`                // header, query or body.
	ParamType     string `gorm:"type:varchar(16);not null;default:'string'"` // Coercion applied before placement.

	Status string `gorm:"type:varchar(16);not null;default:'active';index"` // active or deleted.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
