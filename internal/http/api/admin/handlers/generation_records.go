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

// GenerationRecordHandler exposes read access to generation history. Rows
// are written by the generation backend; operators inspect and prune them.
type GenerationRecordHandler struct {
	db *gorm.DB // Database handle for record rows.
}

// NewGenerationRecordHandler constructs a generation record handler.
func NewGenerationRecordHandler(db *gorm.DB) *GenerationRecordHandler {
	return &GenerationRecordHandler{db: db}
}

var validGenerationStatuses = map[string]bool{
	models.GenerationStatusPending:   true,
	models.GenerationStatusRunning:   true,
	models.GenerationStatusSucceeded: true,
	models.GenerationStatusFailed:    true,
}

// List returns a page of records with optional site, user, platform,
// model and status filters, newest first.
func (h *GenerationRecordHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.GenerationRecord{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		query = query.Where("user_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("platform_id")); raw != "" {
		query = query.Where("platform_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("model_name")); raw != "" {
		query = query.Where("model_name = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		if !validGenerationStatuses[raw] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		query = query.Where("status = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("created_from")); raw != "" {
		from, errParse := time.Parse(time.RFC3339, raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_from"})
			return
		}
		query = query.Where("created_at >= ?", from)
	}
	if raw := strings.TrimSpace(c.Query("created_to")); raw != "" {
		to, errParse := time.Parse(time.RFC3339, raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_to"})
			return
		}
		query = query.Where("created_at < ?", to)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count records failed"})
		return
	}

	var rows []models.GenerationRecord
	if errFind := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list records failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatRecord(&row))
	}
	c.JSON(http.StatusOK, gin.H{
		"records":   out,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a record by ID.
func (h *GenerationRecordHandler) Get(c *gin.Context) {
	row, ok := h.findRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatRecord(row))
}

// Delete removes a record.
func (h *GenerationRecordHandler) Delete(c *gin.Context) {
	row, ok := h.findRecord(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.GenerationRecord{}, row.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete record failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": row.ID})
}

func (h *GenerationRecordHandler) findRecord(c *gin.Context) (*models.GenerationRecord, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var row models.GenerationRecord
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &row, true
}

func (h *GenerationRecordHandler) formatRecord(row *models.GenerationRecord) gin.H {
	return gin.H{
		"id":            row.ID,
		"user_id":       row.UserID,
		"site_id":       row.SiteID,
		"platform_id":   row.PlatformID,
		"model_name":    row.ModelName,
		"prompt":        row.Prompt,
		"status":        row.Status,
		"cost":          row.Cost,
		"result_url":    row.ResultURL,
		"error_message": row.ErrorMessage,
		"created_at":    row.CreatedAt,
		"updated_at":    row.UpdatedAt,
	}
}
