package admin

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aigen-studio/genadmin/internal/config"
	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "genadmin-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestAdminAuthMiddleware(t *testing.T) {
	conn := newTestDB(t)
	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}

	now := time.Now().UTC()
	active := models.Admin{Username: "root", Password: "hash", IsEnabled: true, CreatedAt: now, UpdatedAt: now}
	if errCreate := conn.Create(&active).Error; errCreate != nil {
		t.Fatalf("seed admin: %v", errCreate)
	}
	disabled := models.Admin{Username: "locked", Password: "hash", IsEnabled: false, CreatedAt: now, UpdatedAt: now}
	if errCreate := conn.Create(&disabled).Error; errCreate != nil {
		t.Fatalf("seed disabled admin: %v", errCreate)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/guarded", adminAuthMiddleware(conn, jwtCfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	request := func(authHeader string) int {
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := request(""); code != http.StatusUnauthorized {
		t.Fatalf("no header: status %d, want 401", code)
	}
	if code := request("Basic abc"); code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: status %d, want 401", code)
	}
	if code := request("Bearer not-a-token"); code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", code)
	}

	wrongKey, errSign := security.SignAdminToken("other-secret", active.ID, active.Username, nil, time.Hour)
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}
	if code := request("Bearer " + wrongKey); code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status %d, want 401", code)
	}

	disabledToken, errSign := security.SignAdminToken(jwtCfg.Secret, disabled.ID, disabled.Username, nil, time.Hour)
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}
	if code := request("Bearer " + disabledToken); code != http.StatusForbidden {
		t.Fatalf("disabled admin: status %d, want 403", code)
	}

	goodToken, errSign := security.SignAdminToken(jwtCfg.Secret, active.ID, active.Username, nil, time.Hour)
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}
	if code := request("Bearer " + goodToken); code != http.StatusOK {
		t.Fatalf("valid token: status %d, want 200", code)
	}
}
