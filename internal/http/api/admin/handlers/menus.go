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

// MenuHandler manages site navigation entries.
type MenuHandler struct {
	db *gorm.DB // Database handle for menu records.
}

// NewMenuHandler constructs a menu handler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// createMenuRequest captures the payload for creating an entry.
type createMenuRequest struct {
	Name      string  `json:"name"`       // Display label.
	SiteID    uint64  `json:"site_id"`    // Owning site.
	ParentID  *uint64 `json:"parent_id"`  // Parent entry; omit for top level.
	Path      string  `json:"path"`       // Route path.
	Icon      string  `json:"icon"`       // Icon identifier.
	SortOrder int     `json:"sort_order"` // Ordering within the parent.
}

// Create validates input and inserts a new entry. A parent must exist and
// belong to the same site.
func (h *MenuHandler) Create(c *gin.Context) {
	var body createMenuRequest
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
	if errSite := requireSite(c, h.db, body.SiteID); errSite != nil {
		return
	}

	ctx := c.Request.Context()
	if body.ParentID != nil {
		var parent models.Menu
		if errFind := h.db.WithContext(ctx).First(&parent, *body.ParentID).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent menu not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
			return
		}
		if parent.SiteID != body.SiteID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent menu belongs to another site"})
			return
		}
	}

	now := time.Now().UTC()
	menu := models.Menu{
		Name:      name,
		SiteID:    body.SiteID,
		ParentID:  body.ParentID,
		Path:      strings.TrimSpace(body.Path),
		Icon:      strings.TrimSpace(body.Icon),
		SortOrder: body.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := h.db.WithContext(ctx).Create(&menu).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create menu failed"})
		return
	}
	c.JSON(http.StatusCreated, h.formatMenu(&menu, nil))
}

// List returns a site's menu entries as a tree, children ordered by sort
// weight under each parent.
func (h *MenuHandler) List(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("site_id"))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_id is required"})
		return
	}

	var rows []models.Menu
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("site_id = ?", raw).
		Order("sort_order ASC, id ASC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list menus failed"})
		return
	}

	children := make(map[uint64][]models.Menu)
	var roots []models.Menu
	for _, row := range rows {
		if row.ParentID == nil {
			roots = append(roots, row)
			continue
		}
		children[*row.ParentID] = append(children[*row.ParentID], row)
	}

	tree := make([]gin.H, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, h.formatMenu(&root, children))
	}
	c.JSON(http.StatusOK, gin.H{"menus": tree})
}

// updateMenuRequest captures optional fields for entry updates.
type updateMenuRequest struct {
	Name      *string `json:"name"`       // Optional display label.
	Path      *string `json:"path"`       // Optional route path.
	Icon      *string `json:"icon"`       // Optional icon identifier.
	SortOrder *int    `json:"sort_order"` // Optional ordering weight.
	IsHidden  *bool   `json:"is_hidden"`  // Optional hidden flag.
}

// Update applies entry field updates. Reparenting is not supported;
// delete and recreate instead.
func (h *MenuHandler) Update(c *gin.Context) {
	menu, ok := h.findMenu(c)
	if !ok {
		return
	}
	var body updateMenuRequest
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
	if body.Path != nil {
		updates["path"] = strings.TrimSpace(*body.Path)
	}
	if body.Icon != nil {
		updates["icon"] = strings.TrimSpace(*body.Icon)
	}
	if body.SortOrder != nil {
		updates["sort_order"] = *body.SortOrder
	}
	if body.IsHidden != nil {
		updates["is_hidden"] = *body.IsHidden
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(menu).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update menu failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": menu.ID})
}

// Delete removes an entry, refusing while it still has children.
func (h *MenuHandler) Delete(c *gin.Context) {
	menu, ok := h.findMenu(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var childCount int64
	if errCount := h.db.WithContext(ctx).Model(&models.Menu{}).Where("parent_id = ?", menu.ID).Count(&childCount).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if childCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "menu still has children"})
		return
	}

	if errDelete := h.db.WithContext(ctx).Delete(&models.Menu{}, menu.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete menu failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": menu.ID})
}

func (h *MenuHandler) findMenu(c *gin.Context) (*models.Menu, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var menu models.Menu
	if errFind := h.db.WithContext(c.Request.Context()).First(&menu, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &menu, true
}

// formatMenu shapes an entry and, when a children index is supplied,
// recurses into its subtree.
func (h *MenuHandler) formatMenu(menu *models.Menu, children map[uint64][]models.Menu) gin.H {
	out := gin.H{
		"id":         menu.ID,
		"name":       menu.Name,
		"site_id":    menu.SiteID,
		"parent_id":  menu.ParentID,
		"path":       menu.Path,
		"icon":       menu.Icon,
		"sort_order": menu.SortOrder,
		"is_hidden":  menu.IsHidden,
		"created_at": menu.CreatedAt,
		"updated_at": menu.UpdatedAt,
	}
	if children != nil {
		subtree := make([]gin.H, 0, len(children[menu.ID]))
		for _, child := range children[menu.ID] {
			subtree = append(subtree, h.formatMenu(&child, children))
		}
		out["children"] = subtree
	}
	return out
}
