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

// MediaAssetHandler manages uploaded file metadata. File bytes live in
// external storage; only references are registered here.
type MediaAssetHandler struct {
	db *gorm.DB // Database handle for asset records.
}

// NewMediaAssetHandler constructs a media asset handler.
func NewMediaAssetHandler(db *gorm.DB) *MediaAssetHandler {
	return &MediaAssetHandler{db: db}
}

// createMediaAssetRequest captures the payload for registering an asset.
type createMediaAssetRequest struct {
	Filename    string `json:"filename"`     // Original file name.
	URL         string `json:"url"`          // Storage URL.
	SiteID      uint64 `json:"site_id"`      // Owning site.
	SizeBytes   int64  `json:"size_bytes"`   // File size in bytes.
	ContentType string `json:"content_type"` // MIME type.
}

// Create validates input and registers a new asset. The uploader is
// recorded from the authenticated operator.
func (h *MediaAssetHandler) Create(c *gin.Context) {
	var body createMediaAssetRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	filename := strings.TrimSpace(body.Filename)
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename is required"})
		return
	}
	url := strings.TrimSpace(body.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	if body.SiteID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
		return
	}
	if body.SizeBytes < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size_bytes cannot be negative"})
		return
	}
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}

	var uploadedBy uint64
	if admin := currentAdmin(c); admin != nil {
		uploadedBy = admin.ID
	}

	now := time.Now().UTC()
	asset := models.MediaAsset{
		Filename:    filename,
		URL:         url,
		SiteID:      body.SiteID,
		SizeBytes:   body.SizeBytes,
		ContentType: strings.TrimSpace(body.ContentType),
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&asset).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create asset failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatAsset(&asset))
}

// List returns a page of assets with an optional site filter, newest first.
func (h *MediaAssetHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.MediaAsset{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count assets failed"})
		return
	}

	var rows []models.MediaAsset
	if errFind := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list assets failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatAsset(&row))
	}
	c.JSON(http.StatusOK, gin.H{
		"assets":    out,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns an asset by ID.
func (h *MediaAssetHandler) Get(c *gin.Context) {
	asset, ok := h.findAsset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatAsset(asset))
}

// Delete removes an asset record. The stored bytes are not touched.
func (h *MediaAssetHandler) Delete(c *gin.Context) {
	asset, ok := h.findAsset(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.MediaAsset{}, asset.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete asset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": asset.ID})
}

func (h *MediaAssetHandler) findAsset(c *gin.Context) (*models.MediaAsset, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var asset models.MediaAsset
	if errFind := h.db.WithContext(c.Request.Context()).First(&asset, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &asset, true
}

func (h *MediaAssetHandler) formatAsset(asset *models.MediaAsset) gin.H {
	return gin.H{
		"id":           asset.ID,
		"filename":     asset.Filename,
		"url":          asset.URL,
		"site_id":      asset.SiteID,
		"size_bytes":   asset.SizeBytes,
		"content_type": asset.ContentType,
		"uploaded_by":  asset.UploadedBy,
		"created_at":   asset.CreatedAt,
		"updated_at":   asset.UpdatedAt,
	}
}
