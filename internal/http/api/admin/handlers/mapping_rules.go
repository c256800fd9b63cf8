package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MappingRuleHandler manages admin CRUD endpoints for parameter mapping
// rules.
type MappingRuleHandler struct {
	db *gorm.DB // Database handle for mapping rule records.
}

// NewMappingRuleHandler constructs a mapping rule handler.
func NewMappingRuleHandler(db *gorm.DB) *MappingRuleHandler {
	return &MappingRuleHandler{db: db}
}

var validMappingTypes = map[string]bool{
	models.MappingTypeFieldMapping: true,
	models.MappingTypeFixedValue:   true,
}

var validParamLocations = map[string]bool{
	models.ParamLocationHeader: true,
	models.ParamLocationQuery:  true,
	models.ParamLocationBody:   true,
}

var validParamTypes = map[string]bool{
	models.ParamTypeString:  true,
	models.ParamTypeInteger: true,
	models.ParamTypeBoolean: true,
	models.ParamTypeJSON:    true,
}

// mappingRuleRequest captures the payload for creating or replacing a
// mapping rule.
type mappingRuleRequest struct {
	PlatformID    uint64  `json:"platform_id"`    // Owning platform (create only).
	ModelName     string  `json:"model_name"`     // Target model; empty means platform-wide.
	SiteID        *uint64 `json:"site_id"`        // Optional scope check against the platform.
	MappingType   string  `json:"mapping_type"`   // field_mapping or fixed_value.
	InternalParam string  `json:"internal_param"` // Internal bag field.
	TargetParam   string  `json:"target_param"`   // Vendor field name.
	FixedValue    string  `json:"fixed_value"`    // Constant for fixed_value rules.
	DefaultValue  string  `json:"default_value"`  // Fallback for field_mapping rules.
	IsRequired    bool    `json:"is_required"`    // Fail resolution when unresolved.
	ParamLocation string  `json:"param_location"` // header, query or body.
	ParamType     string  `json:"param_type"`     // Coercion type; defaults to string.
}

// validate checks the mutual-exclusivity rules of a mapping rule payload
// and normalizes its fields in place.
func (body *mappingRuleRequest) validate() (string, bool) {
	body.TargetParam = strings.TrimSpace(body.TargetParam)
	if body.TargetParam == "" {
		return "target_param is required", false
	}
	body.MappingType = strings.TrimSpace(body.MappingType)
	if !validMappingTypes[body.MappingType] {
		return "mapping_type must be field_mapping or fixed_value", false
	}
	body.InternalParam = strings.TrimSpace(body.InternalParam)
	switch body.MappingType {
	case models.MappingTypeFieldMapping:
		if body.InternalParam == "" {
			return "internal_param is required for field_mapping rules", false
		}
	case models.MappingTypeFixedValue:
		if strings.TrimSpace(body.FixedValue) == "" {
			return "fixed_value is required for fixed_value rules", false
		}
		// A fixed rule carries no internal field; drop any stray input.
		body.InternalParam = ""
	}
	body.ParamLocation = strings.TrimSpace(body.ParamLocation)
	if !validParamLocations[body.ParamLocation] {
		return "param_location must be header, query or body", false
	}
	body.ParamType = strings.TrimSpace(body.ParamType)
	if body.ParamType == "" {
		body.ParamType = models.ParamTypeString
	}
	if !validParamTypes[body.ParamType] {
		return "param_type must be string, integer, boolean or json", false
	}
	body.ModelName = strings.TrimSpace(body.ModelName)
	return "", true
}

// Create validates input and inserts a new mapping rule.
func (h *MappingRuleHandler) Create(c *gin.Context) {
	var body mappingRuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg, ok := body.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if body.PlatformID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform_id is required"})
		return
	}

	ctx := c.Request.Context()
	var owner models.Platform
	if errFind := h.db.WithContext(ctx).First(&owner, body.PlatformID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "platform not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if body.SiteID != nil && (owner.SiteID == nil || *owner.SiteID != *body.SiteID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id does not match platform"})
		return
	}

	duplicate, errCheck := h.activeRuleExists(c, body.PlatformID, body.ModelName, body.TargetParam, body.ParamLocation, 0)
	if errCheck != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if duplicate {
		c.JSON(http.StatusConflict, gin.H{"error": "an active rule already targets this param and location"})
		return
	}

	now := time.Now().UTC()
	rule := models.MappingRule{
		PlatformID:    body.PlatformID,
		ModelName:     body.ModelName,
		SiteID:        owner.SiteID,
		MappingType:   body.MappingType,
		InternalParam: body.InternalParam,
		TargetParam:   body.TargetParam,
		FixedValue:    body.FixedValue,
		DefaultValue:  body.DefaultValue,
		IsRequired:    body.IsRequired,
		ParamLocation: body.ParamLocation,
		ParamType:     body.ParamType,
		Status:        models.RuleStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&rule).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create mapping rule failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatRule(&rule))
}

// List returns active mapping rules with pagination and optional
// platform/model filters.
func (h *MappingRuleHandler) List(c *gin.Context) {
	var (
		siteQ     = strings.TrimSpace(c.Query("site_id"))
		platformQ = strings.TrimSpace(c.Query("platform_id"))
		modelQ    = strings.TrimSpace(c.Query("model_name"))
	)
	page, pageSize := parsePagination(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.MappingRule{}).
		Where("status = ?", models.RuleStatusActive)
	if siteQ != "" {
		siteID, errParse := strconv.ParseUint(siteQ, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid site_id"})
			return
		}
		q = q.Where("site_id = ? OR site_id IS NULL", siteID)
	}
	if platformQ != "" {
		platformID, errParse := strconv.ParseUint(platformQ, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platform_id"})
			return
		}
		q = q.Where("platform_id = ?", platformID)
	}
	if modelQ != "" {
		q = q.Where("model_name = ?", modelQ)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list mapping rules failed"})
		return
	}

	var rows []models.MappingRule
	if errFind := q.Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list mapping rules failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatRule(&row))
	}
	c.JSON(http.StatusOK, gin.H{
		"mapping_rules": out,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

// Get fetches a mapping rule by ID.
func (h *MappingRuleHandler) Get(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatRule(rule))
}

// Update replaces the mutable fields of a mapping rule. The owning
// platform and site scope cannot change.
func (h *MappingRuleHandler) Update(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}
	var body mappingRuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg, valid := body.validate(); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if body.PlatformID != 0 && body.PlatformID != rule.PlatformID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform_id cannot change"})
		return
	}
	if body.SiteID != nil && (rule.SiteID == nil || *rule.SiteID != *body.SiteID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id does not match rule"})
		return
	}

	duplicate, errCheck := h.activeRuleExists(c, rule.PlatformID, body.ModelName, body.TargetParam, body.ParamLocation, rule.ID)
	if errCheck != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if duplicate {
		c.JSON(http.StatusConflict, gin.H{"error": "an active rule already targets this param and location"})
		return
	}

	updates := map[string]any{
		"model_name":     body.ModelName,
		"mapping_type":   body.MappingType,
		"internal_param": body.InternalParam,
		"target_param":   body.TargetParam,
		"fixed_value":    body.FixedValue,
		"default_value":  body.DefaultValue,
		"is_required":    body.IsRequired,
		"param_location": body.ParamLocation,
		"param_type":     body.ParamType,
		"updated_at":     time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(rule).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update mapping rule failed"})
		return
	}

	var updated models.MappingRule
	if errFind := h.db.WithContext(c.Request.Context()).First(&updated, rule.ID).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, h.formatRule(&updated))
}

// Delete soft-deletes a mapping rule; the row is kept for audit. The
// caller must supply the owning site_id for site-scoped rules.
func (h *MappingRuleHandler) Delete(c *gin.Context) {
	rule, ok := h.findRule(c)
	if !ok {
		return
	}
	if !siteMatchesQuery(c, rule.SiteID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(rule).Updates(map[string]any{
		"status":     models.RuleStatusDeleted,
		"updated_at": time.Now().UTC(),
	}).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete mapping rule failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": rule.ID})
}

// activeRuleExists reports whether another active rule occupies the same
// (platform, model, target param, location) slot.
func (h *MappingRuleHandler) activeRuleExists(c *gin.Context, platformID uint64, modelName, targetParam, paramLocation string, excludeID uint64) (bool, error) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.MappingRule{}).
		Where("platform_id = ? AND model_name = ? AND target_param = ? AND param_location = ? AND status = ?",
			platformID, modelName, targetParam, paramLocation, models.RuleStatusActive)
	if excludeID > 0 {
		q = q.Where("id != ?", excludeID)
	}
	var count int64
	if errCount := q.Count(&count).Error; errCount != nil {
		return false, errCount
	}
	return count > 0, nil
}

// findRule loads the active rule named by the :id path parameter.
// Soft-deleted rules read as not found.
func (h *MappingRuleHandler) findRule(c *gin.Context) (*models.MappingRule, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var rule models.MappingRule
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.RuleStatusActive).
		First(&rule, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &rule, true
}

func (h *MappingRuleHandler) formatRule(rule *models.MappingRule) gin.H {
	return gin.H{
		"id":             rule.ID,
		"platform_id":    rule.PlatformID,
		"model_name":     rule.ModelName,
		"site_id":        rule.SiteID,
		"mapping_type":   rule.MappingType,
		"internal_param": rule.InternalParam,
		"target_param":   rule.TargetParam,
		"fixed_value":    rule.FixedValue,
		"default_value":  rule.DefaultValue,
		"is_required":    rule.IsRequired,
		"param_location": rule.ParamLocation,
		"param_type":     rule.ParamType,
		"status":         rule.Status,
		"created_at":     rule.CreatedAt,
		"updated_at":     rule.UpdatedAt,
	}
}
