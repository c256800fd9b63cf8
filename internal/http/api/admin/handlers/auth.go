package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/config"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler issues operator tokens.
type AuthHandler struct {
	db     *gorm.DB         // Database handle for admin records.
	jwtCfg config.JWTConfig // Signing secret and token lifetime.
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{db: db, jwtCfg: jwtCfg}
}

// loginRequest captures operator login credentials.
type loginRequest struct {
	Username string `json:"username"`  // Login name.
	Password string `json:"password"`  // Plaintext password.
	TOTPCode string `json:"totp_code"` // Required when TOTP is enabled on the account.
}

// Login verifies credentials (and the TOTP code when enrolled) and
// returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()
	var admin models.Admin
	if errFind := h.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if !security.VerifyPassword(admin.Password, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !admin.IsEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
		return
	}
	if admin.TOTPEnabled {
		if strings.TrimSpace(body.TOTPCode) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "totp code required", "totp_required": true})
			return
		}
		if !security.ValidateTOTPCode(admin.TOTPSecret, strings.TrimSpace(body.TOTPCode)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid totp code"})
			return
		}
	}

	token, errSign := security.SignAdminToken(h.jwtCfg.Secret, admin.ID, admin.Username, admin.SiteID, h.jwtCfg.Expiry)
	if errSign != nil {
		log.WithError(errSign).Error("sign admin token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	now := time.Now().UTC()
	if errUpdate := h.db.WithContext(ctx).Model(&admin).Update("last_login_at", now).Error; errUpdate != nil {
		log.WithError(errUpdate).Warn("update last login failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":           admin.ID,
			"username":     admin.Username,
			"site_id":      admin.SiteID,
			"totp_enabled": admin.TOTPEnabled,
		},
	})
}

// Me returns the authenticated operator's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	admin := currentAdmin(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"site_id":       admin.SiteID,
		"totp_enabled":  admin.TOTPEnabled,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
	})
}
