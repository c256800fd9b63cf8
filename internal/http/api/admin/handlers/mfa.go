package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MFAHandler manages TOTP enrollment for the authenticated operator.
type MFAHandler struct {
	db *gorm.DB // Database handle for admin records.
}

// NewMFAHandler constructs an MFA handler.
func NewMFAHandler(db *gorm.DB) *MFAHandler {
	return &MFAHandler{db: db}
}

// Prepare generates a fresh TOTP secret and stores it unconfirmed. The
// secret only becomes enforced after Confirm validates a code.
func (h *MFAHandler) Prepare(c *gin.Context) {
	admin := currentAdmin(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if admin.TOTPEnabled {
		c.JSON(http.StatusConflict, gin.H{"error": "totp already enabled"})
		return
	}

	secret, url, errGenerate := security.GenerateTOTPSecret(admin.Username)
	if errGenerate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate totp secret failed"})
		return
	}

	updates := map[string]any{
		"totp_secret": secret,
		"updated_at":  time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store totp secret failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"secret": secret, "otpauth_url": url})
}

// totpCodeRequest carries a one-time code.
type totpCodeRequest struct {
	Code string `json:"code"` // Six-digit TOTP code.
}

// Confirm validates a code against the prepared secret and turns
// enforcement on.
func (h *MFAHandler) Confirm(c *gin.Context) {
	admin := currentAdmin(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if admin.TOTPSecret == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no totp secret prepared"})
		return
	}

	var body totpCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !security.ValidateTOTPCode(admin.TOTPSecret, strings.TrimSpace(body.Code)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid totp code"})
		return
	}

	updates := map[string]any{
		"totp_enabled": true,
		"updated_at":   time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totp_enabled": true})
}

// Disable turns TOTP enforcement off after validating a current code.
func (h *MFAHandler) Disable(c *gin.Context) {
	admin := currentAdmin(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !admin.TOTPEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "totp not enabled"})
		return
	}

	var body totpCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !security.ValidateTOTPCode(admin.TOTPSecret, strings.TrimSpace(body.Code)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid totp code"})
		return
	}

	updates := map[string]any{
		"totp_enabled": false,
		"totp_secret":  "",
		"updated_at":   time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable totp failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"totp_enabled": false})
}
