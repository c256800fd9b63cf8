package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/aigen-studio/genadmin/internal/config"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func seedAdmin(t *testing.T, conn *gorm.DB, username, password string, enabled bool) *models.Admin {
	t.Helper()
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	now := time.Now().UTC()
	admin := models.Admin{
		Username:  username,
		Password:  hash,
		IsEnabled: enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("seed admin: %v", errCreate)
	}
	return &admin
}

func TestLogin(t *testing.T) {
	conn := newTestDB(t)
	seedAdmin(t, conn, "root", "correct-horse-battery", true)
	seedAdmin(t, conn, "locked", "correct-horse-battery", false)

	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	authHandler := NewAuthHandler(conn, jwtCfg)
	engine.POST("/login", authHandler.Login)

	rec := doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username": "root",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username": "nobody",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status %d, want 401", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username": "locked",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disabled account: status %d, want 403", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username": "root",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("expected token in response, got %v", out)
	}
	claims, errParse := security.ParseAdminToken(jwtCfg.Secret, token)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.Username != "root" {
		t.Fatalf("claims username = %q", claims.Username)
	}

	var stored models.Admin
	if errFind := conn.Where("username = ?", "root").First(&stored).Error; errFind != nil {
		t.Fatalf("load admin: %v", errFind)
	}
	if stored.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}
}

func TestLoginRequiresTOTPWhenEnabled(t *testing.T) {
	conn := newTestDB(t)
	admin := seedAdmin(t, conn, "root", "correct-horse-battery", true)
	if errUpdate := conn.Model(admin).Updates(map[string]any{
		"totp_secret":  "JBSWY3DPEHPK3PXP",
		"totp_enabled": true,
	}).Error; errUpdate != nil {
		t.Fatalf("enable totp: %v", errUpdate)
	}

	jwtCfg := config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	authHandler := NewAuthHandler(conn, jwtCfg)
	engine.POST("/login", authHandler.Login)

	rec := doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username": "root",
		"password": "correct-horse-battery",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing code: status %d, want 401", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["totp_required"] != true {
		t.Fatalf("expected totp_required flag, got %v", out)
	}

	rec = doJSON(t, engine, http.MethodPost, "/login", map[string]any{
		"username":  "root",
		"password":  "correct-horse-battery",
		"totp_code": "12345",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad code: status %d, want 401", rec.Code)
	}
}
