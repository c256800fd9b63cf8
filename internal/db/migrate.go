package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	internalsettings "github.com/aigen-studio/genadmin/internal/settings"
	"gorm.io/gorm"
)

// Migrate applies the schema and seeds default settings.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Site{},
		&models.Admin{},
		&models.User{},
		&models.Platform{},
		&models.MappingRule{},
		&models.InviteCode{},
		&models.RechargePackage{},
		&models.PaymentChannel{},
		&models.GenerationRecord{},
		&models.Ad{},
		&models.Menu{},
		&models.MediaAsset{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	if errSeed := ensureStringSetting(conn, internalsettings.SiteNameKey, internalsettings.DefaultSiteName); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureStringSetting(conn, internalsettings.DefaultPageSizeKey, internalsettings.DefaultPageSizeValue); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureStringSetting creates a setting when missing and fills empty values.
func ensureStringSetting(conn *gorm.DB, key, value string) error {
	var existing models.Setting
	if errFind := conn.Where("key = ?", key).First(&existing).Error; errFind == nil {
		if existing.Value == "" {
			if errUpdate := conn.Model(&existing).Updates(map[string]any{
				"value":      value,
				"updated_at": time.Now().UTC(),
			}).Error; errUpdate != nil {
				return fmt.Errorf("db: update %s setting: %w", key, errUpdate)
			}
		}
		return nil
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query %s setting: %w", key, errFind)
	}

	setting := models.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("db: create %s setting: %w", key, errCreate)
	}
	return nil
}
