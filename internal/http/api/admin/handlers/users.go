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

// UserHandler exposes end-user account management for operators.
type UserHandler struct {
	db *gorm.DB // Database handle for user records.
}

// NewUserHandler constructs a user handler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns a page of users with optional site, keyword and status
// filters. Keyword search matches username, nickname and phone.
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.User{})
	if raw := strings.TrimSpace(c.Query("site_id")); raw != "" {
		query = query.Where("site_id = ?", raw)
	}
	if raw := strings.TrimSpace(c.Query("is_enabled")); raw != "" {
		query = query.Where("is_enabled = ?", raw == "true")
	}
	if keyword := strings.TrimSpace(c.Query("keyword")); keyword != "" {
		pattern := "%" + db.NormalizeLikePattern(h.db, keyword) + "%"
		query = query.Where(
			h.db.Where(db.CaseInsensitiveLikeExpr(h.db, "username"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "nickname"), pattern).
				Or(db.CaseInsensitiveLikeExpr(h.db, "phone"), pattern),
		)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count users failed"})
		return
	}

	var rows []models.User
	if errFind := query.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatUser(&row))
	}
	c.JSON(http.StatusOK, gin.H{
		"users":     out,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatUser(user))
}

// updateUserRequest captures optional fields for user updates.
type updateUserRequest struct {
	Nickname  *string `json:"nickname"`   // Optional display name.
	Phone     *string `json:"phone"`      // Optional contact phone.
	IsEnabled *bool   `json:"is_enabled"` // Optional active flag.
}

// Update applies user field updates.
func (h *UserHandler) Update(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	var body updateUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if body.Nickname != nil {
		updates["nickname"] = strings.TrimSpace(*body.Nickname)
	}
	if body.Phone != nil {
		updates["phone"] = strings.TrimSpace(*body.Phone)
	}
	if body.IsEnabled != nil {
		updates["is_enabled"] = *body.IsEnabled
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": user.ID})
}

// adjustBalanceRequest carries a signed credit adjustment.
type adjustBalanceRequest struct {
	Delta  int64  `json:"delta"`  // Credits to add; negative deducts.
	Reason string `json:"reason"` // Operator note, logged with the adjustment.
}

// AdjustBalance applies a signed credit delta inside a transaction so the
// balance never goes negative under concurrent adjustments.
func (h *UserHandler) AdjustBalance(c *gin.Context) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	var body adjustBalanceRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta cannot be zero"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var fresh models.User
		if errFind := tx.First(&fresh, user.ID).Error; errFind != nil {
			return errFind
		}
		next := fresh.Balance + body.Delta
		if next < 0 {
			return errInsufficientBalance
		}
		updates := map[string]any{
			"balance":    next,
			"updated_at": time.Now().UTC(),
		}
		if errUpdate := tx.Model(&fresh).Updates(updates).Error; errUpdate != nil {
			return errUpdate
		}
		user.Balance = next
		return nil
	})
	if errTx != nil {
		if errors.Is(errTx, errInsufficientBalance) {
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient balance"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "adjust balance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "balance": user.Balance})
}

// errInsufficientBalance aborts a balance transaction that would go negative.
var errInsufficientBalance = errors.New("insufficient balance")

// Enable reactivates a user account.
func (h *UserHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable suspends a user account.
func (h *UserHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *UserHandler) setEnabled(c *gin.Context, enabled bool) {
	user, ok := h.findUser(c)
	if !ok {
		return
	}
	updates := map[string]any{
		"is_enabled": enabled,
		"updated_at": time.Now().UTC(),
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(user).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "is_enabled": enabled})
}

func (h *UserHandler) findUser(c *gin.Context) (*models.User, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if errFind := h.db.WithContext(c.Request.Context()).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &user, true
}

func (h *UserHandler) formatUser(user *models.User) gin.H {
	return gin.H{
		"id":               user.ID,
		"username":         user.Username,
		"nickname":         user.Nickname,
		"phone":            user.Phone,
		"site_id":          user.SiteID,
		"balance":          user.Balance,
		"invite_code_used": user.InviteCodeUsed,
		"is_enabled":       user.IsEnabled,
		"created_at":       user.CreatedAt,
		"updated_at":       user.UpdatedAt,
	}
}
