package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentChannelHandler manages payment provider configurations.
type PaymentChannelHandler struct {
	db *gorm.DB // Database handle for channel records.
}

// NewPaymentChannelHandler constructs a payment channel handler.
func NewPaymentChannelHandler(db *gorm.DB) *PaymentChannelHandler {
	return &PaymentChannelHandler{db: db}
}

var validPaymentChannels = map[string]bool{
	models.PaymentChannelAlipay: true,
	models.PaymentChannelWechat: true,
	models.PaymentChannelStripe: true,
}

// createPaymentChannelRequest captures the payload for creating a channel.
type createPaymentChannelRequest struct {
	Name       string          `json:"name"`        // Display name.
	SiteID     uint64          `json:"site_id"`     // Owning site.
	Channel    string          `json:"channel"`     // alipay, wechat or stripe.
	MerchantID string          `json:"merchant_id"` // Merchant account identifier.
	Secret     string          `json:"secret"`      // Channel secret.
	Config     json.RawMessage `json:"config"`      // Channel-specific extra configuration.
}

// Create validates input and inserts a new channel.
func (h *PaymentChannelHandler) Create(c *gin.Context) {
	var body createPaymentChannelRequest
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
	channel := strings.TrimSpace(body.Channel)
	if !validPaymentChannels[channel] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel must be alipay, wechat or stripe"})
		return
	}
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}

	now := time.Now().UTC()
	row := models.PaymentChannel{
		Name:       name,
		SiteID:     body.SiteID,
		Channel:    channel,
		MerchantID: strings.TrimSpace(body.MerchantID),
		Secret:     body.Secret,
		Config:     jsonOrEmpty(body.Config),
		IsEnabled:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create payment channel failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatChannel(&row))
}

// List returns channels, optionally filtered by site and channel code.
func (h *PaymentChannelHandler) List(c *gin.Context) {
	query := h.db.WithContext(c.Request.Context()).Model(&models.PaymentChannel{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("channel")); raw != "" {
		query = query.Where("channel = ?", raw)
	}

	var rows []models.PaymentChannel
	if errFind := query.Order("id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list payment channels failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatChannel(&row))
	}
	c.JSON(http.StatusOK, gin.H{"channels": out})
}

// Get returns a channel by ID.
func (h *PaymentChannelHandler) Get(c *gin.Context) {
	row, ok := h.findChannel(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatChannel(row))
}

// updatePaymentChannelRequest captures optional fields for updates. An
// empty or omitted secret keeps the stored value.
type updatePaymentChannelRequest struct {
	Name       *string         `json:"name"`        // Optional display name.
	MerchantID *string         `json:"merchant_id"` // Optional merchant identifier.
	Secret     *string         `json:"secret"`      // Optional secret; empty keeps stored.
	Config     json.RawMessage `json:"config"`      // Optional extra configuration.
	IsEnabled  *bool           `json:"is_enabled"`  // Optional active flag.
}

// Update applies channel field updates.
func (h *PaymentChannelHandler) Update(c *gin.Context) {
	row, ok := h.findChannel(c)
	if !ok {
		return
	}
	var body updatePaymentChannelRequest
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
	if body.MerchantID != nil {
		updates["merchant_id"] = strings.TrimSpace(*body.MerchantID)
	}
	if body.Secret != nil && *body.Secret != "" {
		updates["secret"] = *body.Secret
	}
	if len(body.Config) > 0 {
		updates["config"] = datatypes.JSON(body.Config)
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(row).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update payment channel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": row.ID})
}

// Delete removes a channel.
func (h *PaymentChannelHandler) Delete(c *gin.Context) {
	row, ok := h.findChannel(c)
	if !ok {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.PaymentChannel{}, row.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete payment channel failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": row.ID})
}

func (h *PaymentChannelHandler) findChannel(c *gin.Context) (*models.PaymentChannel, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var row models.PaymentChannel
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

// formatChannel shapes a channel row for responses with the secret masked.
func (h *PaymentChannelHandler) formatChannel(row *models.PaymentChannel) gin.H {
	return gin.H{
		"id":          row.ID,
		"name":        row.Name,
		"site_id":     row.SiteID,
		"channel":     row.Channel,
		"merchant_id": row.MerchantID,
		"secret":      maskSecret(row.Secret),
		"config":      json.RawMessage(jsonOrEmpty(row.Config)),
		"is_enabled":  row.IsEnabled,
		"created_at":  row.CreatedAt,
		"updated_at":  row.UpdatedAt,
	}
}
