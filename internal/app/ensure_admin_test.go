package app

import (
	"path/filepath"
	"testing"

	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
)

func TestEnsureDefaultAdmin(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "genadmin-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	if errEnsure := EnsureDefaultAdmin(conn); errEnsure != nil {
		t.Fatalf("EnsureDefaultAdmin: %v", errEnsure)
	}

	var admins []models.Admin
	if errFind := conn.Find(&admins).Error; errFind != nil {
		t.Fatalf("load admins: %v", errFind)
	}
	if len(admins) != 1 {
		t.Fatalf("expected one admin, got %d", len(admins))
	}
	if admins[0].Username != defaultAdminUsername {
		t.Fatalf("username = %q", admins[0].Username)
	}
	if admins[0].SiteID != nil {
		t.Fatalf("initial admin should be super admin")
	}
	if admins[0].Password == "" {
		t.Fatalf("password hash missing")
	}

	// A second run must not create another account.
	if errEnsure := EnsureDefaultAdmin(conn); errEnsure != nil {
		t.Fatalf("EnsureDefaultAdmin again: %v", errEnsure)
	}
	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count admins: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one admin after rerun, got %d", count)
	}
}
