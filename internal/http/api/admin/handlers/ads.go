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

// AdHandler manages marketing banners.
type AdHandler struct {
	db *gorm.DB // Database handle for ad records.
}

// NewAdHandler constructs an ad handler.
func NewAdHandler(db *gorm.DB) *AdHandler {
	return &AdHandler{db: db}
}

// createAdRequest captures the payload for creating a banner.
type createAdRequest struct {
	Title     string     `json:"title"`      // Banner title.
	SiteID    uint64     `json:"site_id"`    // Owning site.
	ImageURL  string     `json:"image_url"`  // Banner image URL.
	LinkURL   string     `json:"link_url"`   // Click-through URL.
	Position  string     `json:"position"`   // Placement slot.
	SortOrder int        `json:"sort_order"` // Display ordering weight.
	StartsAt  *time.Time `json:"starts_at"`  // Scheduled start.
	EndsAt    *time.Time `json:"ends_at"`    // Scheduled end.
}

// Create validates input and inserts a new banner.
func (h *AdHandler) Create(c *gin.Context) {
	var body createAdRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if body.SiteID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
		return
	}
	imageURL := strings.TrimSpace(body.ImageURL)
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url is required"})
		return
	}
	if body.StartsAt != nil && body.EndsAt != nil && body.EndsAt.Before(*body.StartsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ends_at must be after starts_at"})
		return
	}
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}

	now := time.Now().UTC()
	ad := models.Ad{
		Title:     title,
		SiteID:    body.SiteID,
		ImageURL:  imageURL,
		LinkURL:   strings.TrimSpace(body.LinkURL),
		Position:  strings.TrimSpace(body.Position),
		SortOrder: body.SortOrder,
		IsEnabled: true,
		StartsAt:  body.StartsAt,
		EndsAt:    body.EndsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&ad).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create ad failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatAd(&ad))
}

// List returns banners with optional site and position filters.
func (h *AdHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.Ad{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("position")); raw != "" {
		query = query.Where("position = ?", raw)
	}

	var rows []models.Ad
	if errFind := query.Order("sort_order ASC, id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list ads failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatAd(&row))
	}
	c.JSON(http.StatusOK, gin.H{"ads": out})
}

// Get returns a banner by ID.
func (h *AdHandler) Get(c *gin.Context) {
	ad, ok := h.findAd(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatAd(ad))
}

// updateAdRequest captures optional fields for banner updates.
type updateAdRequest struct {
	Title     *string    `json:"title"`      // Optional banner title.
	ImageURL  *string    `json:"image_url"`  // Optional image URL.
	LinkURL   *string    `json:"link_url"`   // Optional click-through URL.
	Position  *string    `json:"position"`   // Optional placement slot.
	SortOrder *int       `json:"sort_order"` // Optional ordering weight.
	IsEnabled *bool      `json:"is_enabled"` // Optional active flag.
	StartsAt  *time.Time `json:"starts_at"`  // Optional scheduled start.
	EndsAt    *time.Time `json:"ends_at"`    // Optional scheduled end.
}

// Update applies banner field updates.
func (h *AdHandler) Update(c *gin.Context) {
	ad, ok := h.findAd(c)
	if !ok {
		return
	}
	var body updateAdRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		updates["title"] = title
	}
	if body.ImageURL != nil {
		imageURL := strings.TrimSpace(*body.ImageURL)
		if imageURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image_url cannot be empty"})
			return
		}
		updates["image_url"] = imageURL
	}
	if body.LinkURL != nil {
		updates["link_url"] = strings.TrimSpace(*body.LinkURL)
	}
	if body.Position != nil {
		updates["position"] = strings.TrimSpace(*body.Position)
	}
	if body.SortOrder != nil {
		updates["sort_order"] = *body.SortOrder
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}
	if body.StartsAt != nil {
		updates["starts_at"] = *body.StartsAt
	}
	if body.EndsAt != nil {
		updates["ends_at"] = *body.EndsAt
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(ad).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update ad failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": ad.ID})
}

// Delete removes a banner.
func (h *AdHandler) Delete(c *gin.Context) {
	ad, ok := h.findAd(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Ad{}, ad.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete ad failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": ad.ID})
}

func (h *AdHandler) findAd(c *gin.Context) (*models.Ad, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var ad models.Ad
	if errFind := h.db.WithContext(c.Request.Context()).First(&ad, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &ad, true
}

func (h *AdHandler) formatAd(ad *models.Ad) gin.H {
	return gin.H{
		"id":         ad.ID,
		"title":      ad.Title,
		"site_id":    ad.SiteID,
		"image_url":  ad.ImageURL,
		"link_url":   ad.LinkURL,
		"position":   ad.Position,
		"sort_order": ad.SortOrder,
		"is_enabled": ad.IsEnabled,
		"starts_at":  ad.StartsAt,
		"ends_at":    ad.EndsAt,
		"created_at": ad.CreatedAt,
		"updated_at": ad.UpdatedAt,
	}
}
