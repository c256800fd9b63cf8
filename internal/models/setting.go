package models

import "time"

// Setting is a key/value configuration row.
type Setting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Key   string `gorm:"type:varchar(255);not null;uniqueIndex"` // Setting key.
	Value string `gorm:"type:text"`                              // Setting value.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
