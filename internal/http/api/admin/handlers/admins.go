package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminAccountHandler manages operator accounts.
type AdminAccountHandler struct {
	db *gorm.DB // Database handle for admin records.
}

// NewAdminAccountHandler constructs an admin account handler.
func NewAdminAccountHandler(db *gorm.DB) *AdminAccountHandler {
	return &AdminAccountHandler{db: db}
}

// createAdminRequest captures the payload for creating an operator.
type createAdminRequest struct {
	Username string  `json:"username"` // Login name, unique.
	Password string  `json:"password"` // Initial plaintext password.
	SiteID   *uint64 `json:"site_id"`  // Scoped site; omit for a super admin.
}

// Create validates input and inserts a new operator account.
func (h *AdminAccountHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	if len(body.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}
	if body.SiteID != nil {
		if errSite := requireSite(c, h.db, *body.SiteID); errSite != nil {
			return
		}
	}

	ctx := c.Request.Context()
	var count int64
	if errCount := h.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", username).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	now := time.Now().UTC()
	admin := models.Admin{
		Username:  username,
		Password:  hash,
		SiteID:    body.SiteID,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		if db.IsUniqueViolation(errCreate) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create admin failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatAdmin(&admin))
}

// List returns operator accounts, optionally filtered by site.
func (h *AdminAccountHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Admin{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}

	var rows []models.Admin
	if errFind := query.Order("id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list admins failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatAdmin(&row))
	}
	c.JSON(http.StatusOK, gin.H{"admins": out})
}

// Get returns an operator account by ID.
func (h *AdminAccountHandler) Get(c *gin.Context) {
	admin, ok := h.findAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatAdmin(admin))
}

// updateAdminRequest captures optional fields for operator updates. The
// username is immutable; passwords change through ChangePassword.
type updateAdminRequest struct {
	SiteID    *uint64 `json:"site_id"`    // Optional scoped site.
	IsEnabled *bool   `json:"is_enabled"` // Optional active flag.
}

// Update applies operator field updates.
func (h *AdminAccountHandler) Update(c *gin.Context) {
	admin, ok := h.findAdmin(c)
	if !ok {
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if body.SiteID != nil {
		if errSite := requireSite(c, h.db, *body.SiteID); errSite != nil {
			return
		}
		updates["site_id"] = *body.SiteID
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update admin failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": admin.ID})
}

// changePasswordRequest carries a password rotation payload.
type changePasswordRequest struct {
	Password string `json:"password"` // New plaintext password.
}

// ChangePassword rotates an operator's password.
func (h *AdminAccountHandler) ChangePassword(c *gin.Context) {
	admin, ok := h.findAdmin(c)
	if !ok {
		return
	}
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	updates := map[string]any{
		"password":   hash,
		"updated_at": time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(admin).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": admin.ID})
}

// Delete removes an operator account. Operators cannot delete themselves.
func (h *AdminAccountHandler) Delete(c *gin.Context) {
	admin, ok := h.findAdmin(c)
	if !ok {
		return
	}
	if caller := currentAdmin(c); caller != nil && caller.ID == admin.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete own account"})
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Admin{}, admin.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete admin failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": admin.ID})
}

func (h *AdminAccountHandler) findAdmin(c *gin.Context) (*models.Admin, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &admin, true
}

// formatAdmin shapes an admin row for responses. Password hashes and TOTP
// secrets never leave the server.
func (h *AdminAccountHandler) formatAdmin(admin *models.Admin) gin.H {
	return gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"site_id":       admin.SiteID,
		"is_enabled":    admin.IsEnabled,
		"totp_enabled":  admin.TOTPEnabled,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
		"updated_at":    admin.UpdatedAt,
	}
}
