package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RechargePackageHandler manages purchasable credit tiers.
type RechargePackageHandler struct {
	db *gorm.DB // Database handle for package records.
}

// NewRechargePackageHandler constructs a recharge package handler.
func NewRechargePackageHandler(db *gorm.DB) *RechargePackageHandler {
	return &RechargePackageHandler{db: db}
}

// createRechargePackageRequest captures the payload for creating a package.
type createRechargePackageRequest struct {
	Name         string  `json:"name"`          // Display name.
	SiteID       uint64  `json:"site_id"`       // Owning site.
	Price        float64 `json:"price"`         // Purchase price.
	Credits      int64   `json:"credits"`       // Credits granted.
	BonusCredits int64   `json:"bonus_credits"` // Extra promotional credits.
	SortOrder    int     `json:"sort_order"`    // Display ordering weight.
}

// Create validates input and inserts a new package.
func (h *RechargePackageHandler) Create(c *gin.Context) {
	var body createRechargePackageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if body.SiteID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
		return
	}
	if body.Price < 0 || body.Credits < 0 || body.BonusCredits < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price and credits cannot be negative"})
		return
	}
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}

	now := time.Now().UTC()
	pkg := models.RechargePackage{
		Name:         name,
		SiteID:       body.SiteID,
		Price:        body.Price,
		Credits:      body.Credits,
		BonusCredits: body.BonusCredits,
		SortOrder:    body.SortOrder,
		IsEnabled:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&pkg).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create package failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatPackage(&pkg))
}

// List returns packages ordered by sort weight, optionally filtered by site.
func (h *RechargePackageHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.RechargePackage{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("is_enabled")); raw != "" {
		query = query.Where("is_enabled = ?", raw == "true")
	}

	var rows []models.RechargePackage
	if errFind := query.Order("sort_order ASC, id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list packages failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatPackage(&row))
	}
	c.JSON(http.StatusOK, gin.H{"packages": out})
}

// Get returns a package by ID.
func (h *RechargePackageHandler) Get(c *gin.Context) {
	pkg, ok := h.findPackage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatPackage(pkg))
}

// updateRechargePackageRequest captures optional fields for updates.
type updateRechargePackageRequest struct {
	Name         *string  `json:"name"`          // Optional display name.
	Price        *float64 `json:"price"`         // Optional purchase price.
	Credits      *int64   `json:"credits"`       // Optional credits granted.
	BonusCredits *int64   `json:"bonus_credits"` // Optional promotional credits.
	SortOrder    *int     `json:"sort_order"`    // Optional ordering weight.
	IsEnabled    *bool    `json:"is_enabled"`    // Optional on-sale flag.
}

// Update applies package field updates.
func (h *RechargePackageHandler) Update(c *gin.Context) {
	pkg, ok := h.findPackage(c)
	if !ok {
		return
	}
	var body updateRechargePackageRequest
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
	if body.Price != nil {
		if *body.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price cannot be negative"})
			return
		}
		updates["price"] = *body.Price
	}
	if body.Credits != nil {
		if *body.Credits < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "credits cannot be negative"})
			return
		}
		updates["credits"] = *body.Credits
	}
	if body.BonusCredits != nil {
		if *body.BonusCredits < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bonus_credits cannot be negative"})
			return
		}
		updates["bonus_credits"] = *body.BonusCredits
	}
	if body.SortOrder != nil {
		updates["sort_order"] = *body.SortOrder
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(pkg).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update package failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": pkg.ID})
}

// Delete removes a package.
func (h *RechargePackageHandler) Delete(c *gin.Context) {
	pkg, ok := h.findPackage(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.RechargePackage{}, pkg.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete package failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": pkg.ID})
}

func (h *RechargePackageHandler) findPackage(c *gin.Context) (*models.RechargePackage, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var pkg models.RechargePackage
	if errFind := h.db.WithContext(c.Request.Context()).First(&pkg, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &pkg, true
}

func (h *RechargePackageHandler) formatPackage(pkg *models.RechargePackage) gin.H {
	return gin.H{
		"id":            pkg.ID,
		"name":          pkg.Name,
		"site_id":       pkg.SiteID,
		"price":         pkg.Price,
		"credits":       pkg.Credits,
		"bonus_credits": pkg.BonusCredits,
		"sort_order":    pkg.SortOrder,
		"is_enabled":    pkg.IsEnabled,
		"created_at":    pkg.CreatedAt,
		"updated_at":    pkg.UpdatedAt,
	}
}
