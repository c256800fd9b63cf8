package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SiteHandler manages admin CRUD endpoints for tenant sites.
type SiteHandler struct {
	db *gorm.DB // Database handle for site records.
}

// NewSiteHandler constructs a site handler.
func NewSiteHandler(db *gorm.DB) *SiteHandler {
	return &SiteHandler{db: db}
}

var validVerticals = map[string]bool{
	models.SiteVerticalMedical:   true,
	models.SiteVerticalEcommerce: true,
	models.SiteVerticalLife:      true,
}

// createSiteRequest captures the payload for creating a site.
type createSiteRequest struct {
	Name     string `json:"name"`     // Display name.
	Code     string `json:"code"`     // Stable short identifier.
	Vertical string `json:"vertical"` // medical, ecommerce or life.
	Domain   string `json:"domain"`   // Public domain.
	LogoURL  string `json:"logo_url"` // Logo asset URL.
}

// Create validates input and inserts a new site.
func (h *SiteHandler) Create(c *gin.Context) {
	var body createSiteRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	vertical := strings.TrimSpace(body.Vertical)
	if !validVerticals[vertical] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vertical must be medical, ecommerce or life"})
		return
	}

	ctx := c.Request.Context()
	var count int64
	if errCount := h.db.WithContext(ctx).Model(&models.Site{}).Where("code = ?", code).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "site code already exists"})
		return
	}

	now := time.Now().UTC()
	site := models.Site{
		Name:      name,
		Code:      code,
		Vertical:  vertical,
		Domain:    strings.TrimSpace(body.Domain),
		LogoURL:   strings.TrimSpace(body.LogoURL),
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&site).Error; errCreate != nil {
		if db.IsUniqueViolation(errCreate) {
			c.JSON(http.StatusConflict, gin.H{"error": "site code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create site failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatSite(&site))
}

// List returns all sites.
func (h *SiteHandler) List(c *gin.Context) {
	var rows []models.Site
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list sites failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatSite(&row))
	}
	c.JSON(http.StatusOK, gin.H{"sites": out})
}

// Get returns a site by ID.
func (h *SiteHandler) Get(c *gin.Context) {
	site, ok := h.findSite(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatSite(site))
}

// updateSiteRequest captures optional fields for site updates.
type updateSiteRequest struct {
	Name      *string `json:"name"`       // Optional display name.
	Vertical  *string `json:"vertical"`   // Optional vertical.
	Domain    *string `json:"domain"`     // Optional public domain.
	LogoURL   *string `json:"logo_url"`   // Optional logo URL.
	IsEnabled *bool   `json:"is_enabled"` // Optional active flag.
}

// Update validates and applies site field updates. The code is immutable.
func (h *SiteHandler) Update(c *gin.Context) {
	site, ok := h.findSite(c)
	if !ok {
		return
	}
	var body updateSiteRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		updates["name"] = name
	}
	if body.Vertical != nil {
		vertical := strings.TrimSpace(*body.Vertical)
		if !validVerticals[vertical] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vertical must be medical, ecommerce or life"})
			return
		}
		updates["vertical"] = vertical
	}
	if body.Domain != nil {
		updates["domain"] = strings.TrimSpace(*body.Domain)
	}
	if body.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*body.LogoURL)
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(site).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update site failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": site.ID})
}

// Delete removes a site, refusing while platforms or users still
// reference it.
func (h *SiteHandler) Delete(c *gin.Context) {
	site, ok := h.findSite(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var platformCount int64
	if errCount := h.db.WithContext(ctx).Model(&models.Platform{}).Where("site_id = ?", site.ID).Count(&platformCount).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	var userCount int64
	if errCount := h.db.WithContext(ctx).Model(&models.User{}).Where("site_id = ?", site.ID).Count(&userCount).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if platformCount > 0 || userCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "site still has platforms or users"})
		return
	}

	if errDelete := h.db.WithContext(ctx).Delete(&models.Site{}, site.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete site failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": site.ID})
}

func (h *SiteHandler) findSite(c *gin.Context) (*models.Site, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var site models.Site
	if errFind := h.db.WithContext(c.Request.Context()).First(&site, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &site, true
}

func (h *SiteHandler) formatSite(site *models.Site) gin.H {
	return gin.H{
		"id":         site.ID,
		"name":       site.Name,
		"code":       site.Code,
		"vertical":   site.Vertical,
		"domain":     site.Domain,
		"logo_url":   site.LogoURL,
		"is_enabled": site.IsEnabled,
		"created_at": site.CreatedAt,
		"updated_at": site.UpdatedAt,
	}
}
