package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/platform"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlatformHandler manages admin CRUD endpoints for generation platforms.
type PlatformHandler struct {
	db *gorm.DB // Database handle for platform records.
}

// NewPlatformHandler constructs a platform handler.
func NewPlatformHandler(db *gorm.DB) *PlatformHandler {
	return &PlatformHandler{db: db}
}

// validPlatformTypes enumerates accepted category tags.
var validPlatformTypes = map[string]bool{
	models.PlatformTypeTxt2Img:    true,
	models.PlatformTypeImg2Img:    true,
	models.PlatformTypeTxt2Video:  true,
	models.PlatformTypeImg2Video:  true,
	models.PlatformTypeVoiceClone: true,
	models.PlatformTypeChat:       true,
	models.PlatformTypeAnalysis:   true,
}

// validResponseModes enumerates accepted generation response modes.
var validResponseModes = map[string]bool{
	models.ResponseModeJSON:   true,
	models.ResponseModeStream: true,
	models.ResponseModeResult: true,
}

// maskSecret renders a credential for read views without revealing it.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:3] + "****" + secret[len(secret)-4:]
}

// createPlatformRequest captures the payload for creating a platform.
type createPlatformRequest struct {
	Name            string          `json:"name"`              // Display name.
	Alias           string          `json:"alias"`             // Optional short name.
	SiteID          *uint64         `json:"site_id"`           // Owning site; nil means global.
	Type            string          `json:"type"`              // Category tag.
	IsEnabled       *bool           `json:"is_enabled"`        // Optional active flag.
	APIKey          string          `json:"api_key"`           // Provider credential.
	SupportedModels json.RawMessage `json:"supported_models"`  // Model capability metadata.
	GenMethod       string          `json:"gen_method"`        // Generation HTTP method.
	GenURL          string          `json:"gen_url"`           // Generation URL.
	GenResponseMode string          `json:"gen_response_mode"` // json, stream or result.
	GenHeaders      json.RawMessage `json:"gen_headers"`       // Generation header template.
	ResultMethod    string          `json:"result_method"`     // Result polling HTTP method.
	ResultURL       string          `json:"result_url"`        // Result polling URL.
	ResultHeaders   json.RawMessage `json:"result_headers"`    // Result polling header template.
}

// Create validates input and inserts a new platform.
func (h *PlatformHandler) Create(c *gin.Context) {
	var body createPlatformRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	platformType := strings.TrimSpace(body.Type)
	if !validPlatformTypes[platformType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform type"})
		return
	}
	genURL := strings.TrimSpace(body.GenURL)
	if genURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gen_url is required"})
		return
	}
	responseMode := strings.TrimSpace(body.GenResponseMode)
	if responseMode == "" {
		responseMode = models.ResponseModeJSON
	}
	if !validResponseModes[responseMode] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gen_response_mode must be json, stream or result"})
		return
	}
	if body.SiteID != nil {
		if errSite := requireSite(c, h.db, *body.SiteID); errSite != nil {
			return
		}
	}

	supportedModels, errNormalize := platform.NormalizeSupportedModels(body.SupportedModels)
	if errNormalize != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNormalize.Error()})
		return
	}

	isEnabled := true
	if body.IsEnabled != nil {
		isEnabled = *body.IsEnabled
	}
	genMethod := strings.ToUpper(strings.TrimSpace(body.GenMethod))
	if genMethod == "" {
		genMethod = http.MethodPost
	}
	resultMethod := strings.ToUpper(strings.TrimSpace(body.ResultMethod))
	if resultMethod == "" {
		resultMethod = http.MethodGet
	}

	now := time.Now().UTC()
	record := models.Platform{
		Name:            name,
		Alias:           strings.TrimSpace(body.Alias),
		SiteID:          body.SiteID,
		Type:            platformType,
		IsEnabled:       isEnabled,
		APIKey:          strings.TrimSpace(body.APIKey),
		SupportedModels: supportedModels,
		GenMethod:       genMethod,
		GenURL:          genURL,
		GenResponseMode: responseMode,
		GenHeaders:      jsonOrEmpty(body.GenHeaders),
		ResultMethod:    resultMethod,
		ResultURL:       strings.TrimSpace(body.ResultURL),
		ResultHeaders:   jsonOrEmpty(body.ResultHeaders),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if errCreate := h.db.WithContext(c.Request.Context()).Create(&record).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create platform failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatPlatform(&record))
}

// List returns platforms filtered by query parameters. Credentials are
// masked in the response.
func (h *PlatformHandler) List(c *gin.Context) {
	var (
		siteQ    = strings.TrimSpace(c.Query("site_id"))
		typeQ    = strings.TrimSpace(c.Query("type"))
		enabledQ = strings.TrimSpace(c.Query("is_enabled"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Platform{})
	if siteQ != "" {
		siteID, errParse := strconv.ParseUint(siteQ, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site_id"})
			return
		}
		// Site-scoped listings include global platforms too.
		q = q.Where("site_id = ? OR site_id IS NULL", siteID)
	}
	if typeQ != "" {
		q = q.Where("type = ?", typeQ)
	}
	if enabledQ == "true" || enabledQ == "1" {
		q = q.Where("is_enabled = ?", true)
	} else if enabledQ == "false" || enabledQ == "0" {
		q = q.Where("is_enabled = ?", false)
	}

	var rows []models.Platform
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list platforms failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatPlatform(&row))
	}
	c.JSON(http.StatusOK, gin.H{"platforms": out})
}

// Get fetches a platform by ID with the credential masked.
func (h *PlatformHandler) Get(c *gin.Context) {
	record, ok := h.findPlatform(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatPlatform(record))
}

// updatePlatformRequest captures optional fields for platform updates.
// site_id is deliberately absent: site scope is immutable after creation.
type updatePlatformRequest struct {
	Name            *string         `json:"name"`              // Optional display name.
	Alias           *string         `json:"alias"`             // Optional short name.
	Type            *string         `json:"type"`              // Optional category tag.
	IsEnabled       *bool           `json:"is_enabled"`        // Optional active flag.
	APIKey          *string         `json:"api_key"`           // New credential; empty keeps the stored one.
	SupportedModels json.RawMessage `json:"supported_models"`  // Optional model metadata replacement.
	GenMethod       *string         `json:"gen_method"`        // Optional generation method.
	GenURL          *string         `json:"gen_url"`           // Optional generation URL.
	GenResponseMode *string         `json:"gen_response_mode"` // Optional response mode.
	GenHeaders      json.RawMessage `json:"gen_headers"`       // Optional header template replacement.
	ResultMethod    *string         `json:"result_method"`     // Optional result method.
	ResultURL       *string         `json:"result_url"`        // Optional result URL.
	ResultHeaders   json.RawMessage `json:"result_headers"`    // Optional result header template.
}

// Update validates and applies platform field updates. An empty or omitted
// api_key keeps the stored credential.
func (h *PlatformHandler) Update(c *gin.Context) {
	record, ok := h.findPlatform(c)
	if !ok {
		return
	}
	var body updatePlatformRequest
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
	if body.Alias != nil {
		updates["alias"] = strings.TrimSpace(*body.Alias)
	}
	if body.Type != nil {
		platformType := strings.TrimSpace(*body.Type)
		if !validPlatformTypes[platformType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform type"})
			return
		}
		updates["type"] = platformType
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}
	if body.APIKey != nil {
		if key := strings.TrimSpace(*body.APIKey); key != "" {
			updates["api_key"] = key
		}
	}
	if body.SupportedModels != nil {
		supportedModels, errNormalize := platform.NormalizeSupportedModels(body.SupportedModels)
		if errNormalize != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errNormalize.Error()})
			return
		}
		updates["supported_models"] = supportedModels
	}
	if body.GenMethod != nil {
		updates["gen_method"] = strings.ToUpper(strings.TrimSpace(*body.GenMethod))
	}
	if body.GenURL != nil {
		genURL := strings.TrimSpace(*body.GenURL)
		if genURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gen_url cannot be empty"})
			return
		}
		updates["gen_url"] = genURL
	}
	if body.GenResponseMode != nil {
		responseMode := strings.TrimSpace(*body.GenResponseMode)
		if !validResponseModes[responseMode] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gen_response_mode must be json, stream or result"})
			return
		}
		updates["gen_response_mode"] = responseMode
	}
	if body.GenHeaders != nil {
		updates["gen_headers"] = jsonOrEmpty(body.GenHeaders)
	}
	if body.ResultMethod != nil {
		updates["result_method"] = strings.ToUpper(strings.TrimSpace(*body.ResultMethod))
	}
	if body.ResultURL != nil {
		updates["result_url"] = strings.TrimSpace(*body.ResultURL)
	}
	if body.ResultHeaders != nil {
		updates["result_headers"] = jsonOrEmpty(body.ResultHeaders)
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(record).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update platform failed"})
		return
	}

	var updated models.Platform
	if errFind := h.db.WithContext(c.Request.Context()).First(&updated, record.ID).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, h.formatPlatform(&updated))
}

// Delete removes a platform. The caller must supply the owning site_id for
// site-scoped platforms; a mismatch reads as not found.
func (h *PlatformHandler) Delete(c *gin.Context) {
	record, ok := h.findPlatform(c)
	if !ok {
		return
	}
	if !siteMatchesQuery(c, record.SiteID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ctx := c.Request.Context()
	if errDelete := h.db.WithContext(ctx).Delete(&models.Platform{}, record.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete platform failed"})
		return
	}
	// Rules owned by the platform are retired with it.
	if errRetire := h.db.WithContext(ctx).Model(&models.MappingRule{}).
		Where("platform_id = ?", record.ID).
		Updates(map[string]any{"status": models.RuleStatusDeleted, "updated_at": time.Now().UTC()}).Error; errRetire != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "retire mapping rules failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": record.ID})
}

// Enable marks a platform resolvable.
func (h *PlatformHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable blocks a platform from resolution.
func (h *PlatformHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *PlatformHandler) setEnabled(c *gin.Context, enabled bool) {
	record, ok := h.findPlatform(c)
	if !ok {
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(record).Updates(map[string]any{
		"is_enabled": enabled,
		"updated_at": time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update platform failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": record.ID, "is_enabled": enabled})
}

// findPlatform loads the platform named by the :id path parameter,
// responding with the proper error when it cannot.
func (h *PlatformHandler) findPlatform(c *gin.Context) (*models.Platform, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var record models.Platform
	if errFind := h.db.WithContext(c.Request.Context()).First(&record, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &record, true
}

// formatPlatform renders a platform for read views. The credential is
// always masked; malformed supported_models surfaces as config_error so
// the operator can repair it.
func (h *PlatformHandler) formatPlatform(record *models.Platform) gin.H {
	out := gin.H{
		"id":                record.ID,
		"name":              record.Name,
		"alias":             record.Alias,
		"site_id":           record.SiteID,
		"type":              record.Type,
		"is_enabled":        record.IsEnabled,
		"api_key":           maskSecret(record.APIKey),
		"gen_method":        record.GenMethod,
		"gen_url":           record.GenURL,
		"gen_response_mode": record.GenResponseMode,
		"gen_headers":       json.RawMessage(jsonOrEmpty(record.GenHeaders)),
		"result_method":     record.ResultMethod,
		"result_url":        record.ResultURL,
		"result_headers":    json.RawMessage(jsonOrEmpty(record.ResultHeaders)),
		"created_at":        record.CreatedAt,
		"updated_at":        record.UpdatedAt,
	}

	configs, errParse := platform.ParseSupportedModels(record.SupportedModels)
	if errParse != nil {
		out["supported_models"] = json.RawMessage("[]")
		out["config_error"] = errParse.Error()
		return out
	}
	encoded, errMarshal := json.Marshal(configs)
	if errMarshal != nil {
		encoded = []byte("[]")
	}
	out["supported_models"] = json.RawMessage(encoded)
	return out
}

// jsonOrEmpty normalizes an optional JSON column for storage and output.
func jsonOrEmpty(raw []byte) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}
