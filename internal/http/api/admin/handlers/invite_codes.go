package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxBatchInviteCodes bounds a single batch creation request.
const maxBatchInviteCodes = 100

// InviteCodeHandler manages invitation codes.
type InviteCodeHandler struct {
	db *gorm.DB // Database handle for invite code records.
}

// NewInviteCodeHandler constructs an invite code handler.
func NewInviteCodeHandler(db *gorm.DB) *InviteCodeHandler {
	return &InviteCodeHandler{db: db}
}

// createInviteCodeRequest captures the payload for creating codes.
type createInviteCodeRequest struct {
	SiteID    uint64     `json:"site_id"`    // Owning site.
	Code      string     `json:"code"`       // Explicit code; empty generates one.
	Count     int        `json:"count"`      // Batch size; 0 or 1 creates a single code.
	MaxUses   int        `json:"max_uses"`   // Redemption limit; 0 means unlimited.
	ExpiresAt *time.Time `json:"expires_at"` // Expiry; omit for never.
}

// Create inserts one or more invite codes. An explicit code is only valid
// for single creation; batches always generate random codes.
func (h *InviteCodeHandler) Create(c *gin.Context) {
	var body createInviteCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.SiteID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
		return
	}
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}
	count := body.Count
	if count <= 0 {
		count = 1
	}
	if count > maxBatchInviteCodes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count exceeds batch limit"})
		return
	}
	explicit := strings.TrimSpace(body.Code)
	if explicit != "" && count > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "explicit code only allowed for a single creation"})
		return
	}
	if body.MaxUses < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_uses cannot be negative"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now().UTC()
	created := make([]gin.H, 0, count)

	errTx := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < count; i++ {
			code := explicit
			if code == "" {
				generated, errGenerate := randomInviteCode()
				if errGenerate != nil {
					return errGenerate
				}
				code = generated
			}

			var existing int64
			if errCount := tx.Model(&models.InviteCode{}).Where("code = ?", code).Count(&existing).Error; errCount != nil {
				return errCount
			}
			if existing > 0 {
				return errDuplicateInviteCode
			}

			row := models.InviteCode{
				Code:      code,
				SiteID:    body.SiteID,
				MaxUses:   body.MaxUses,
				ExpiresAt: body.ExpiresAt,
				IsEnabled: true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if errCreate := tx.Create(&row).Error; errCreate != nil {
				if db.IsUniqueViolation(errCreate) {
					return errDuplicateInviteCode
				}
				return errCreate
			}
			created = append(created, h.formatInviteCode(&row))
		}
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, errDuplicateInviteCode) {
			c.JSON(http.StatusConflict, gin.H{"error": "code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create invite codes failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"codes": created})
}

// errDuplicateInviteCode aborts a creation transaction on a code collision.
var errDuplicateInviteCode = errors.New("duplicate invite code")

// randomInviteCode returns a random 16-hex-character code.
func randomInviteCode() (string, error) {
	buf := make([]byte, 8)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", errRead
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}

// List returns a page of invite codes with optional site and status filters.
func (h *InviteCodeHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.InviteCode{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("is_enabled")); raw != "" {
		query = query.Where("is_enabled = ?", raw == "true")
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count invite codes failed"})
		return
	}

	var rows []models.InviteCode
	if errFind := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list invite codes failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatInviteCode(&row))
	}
	c.JSON(http.StatusOK, gin.H{
		"codes":     out,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// updateInviteCodeRequest captures optional fields for updates.
type updateInviteCodeRequest struct {
	MaxUses   *int       `json:"max_uses"`   // Optional redemption limit.
	ExpiresAt *time.Time `json:"expires_at"` // Optional expiry.
	IsEnabled *bool      `json:"is_enabled"` // Optional active flag.
}

// Update applies invite code field updates. The code itself is immutable.
func (h *InviteCodeHandler) Update(c *gin.Context) {
	row, ok := h.findInviteCode(c)
	if !ok {
		return
	}
	var body updateInviteCodeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if body.MaxUses != nil {
		if *body.MaxUses < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_uses cannot be negative"})
			return
		}
		updates["max_uses"] = *body.MaxUses
	}
	if body.ExpiresAt != nil {
		updates["expires_at"] = *body.ExpiresAt
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(row).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update invite code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": row.ID})
}

// Delete removes an invite code.
func (h *InviteCodeHandler) Delete(c *gin.Context) {
	row, ok := h.findInviteCode(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.InviteCode{}, row.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete invite code failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": row.ID})
}

func (h *InviteCodeHandler) findInviteCode(c *gin.Context) (*models.InviteCode, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var row models.InviteCode
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

func (h *InviteCodeHandler) formatInviteCode(row *models.InviteCode) gin.H {
	return gin.H{
		"id":         row.ID,
		"code":       row.Code,
		"site_id":    row.SiteID,
		"max_uses":   row.MaxUses,
		"used_count": row.UsedCount,
		"expires_at": row.ExpiresAt,
		"is_enabled": row.IsEnabled,
		"created_at": row.CreatedAt,
		"updated_at": row.UpdatedAt,
	}
}
