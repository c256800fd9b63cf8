package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aigen-studio/genadmin/internal/models"
	internalsettings "github.com/aigen-studio/genadmin/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// adminContextKey is the gin context key holding the authenticated admin.
const adminContextKey = "admin"

// SetCurrentAdmin stores the authenticated admin on the request context.
// Called by the auth middleware after token validation.
func SetCurrentAdmin(c *gin.Context, admin *models.Admin) {
	c.Set(adminContextKey, admin)
}

// currentAdmin returns the authenticated admin, or nil outside an
// authenticated route.
func currentAdmin(c *gin.Context) *models.Admin {
	value, ok := c.Get(adminContextKey)
	if !ok {
		return nil
	}
	admin, ok := value.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}

// requireSite verifies the referenced site exists, writing the error
// response itself when it does not.
func requireSite(c *gin.Context, db *gorm.DB, siteID uint64) error {
	var site models.Site
	if errFind := db.WithContext(c.Request.Context()).First(&site, siteID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "site not found"})
			return errFind
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return errFind
	}
	return nil
}

// siteMatchesQuery checks the site_id query parameter against a record's
// site scope. Site-scoped records require a matching site_id; global
// records require none. Used as a safety check on destructive endpoints.
func siteMatchesQuery(c *gin.Context, recordSite *uint64) bool {
	raw := strings.TrimSpace(c.Query("site_id"))
	if recordSite == nil {
		return raw == ""
	}
	if raw == "" {
		return false
	}
	siteID, errParse := strconv.ParseUint(raw, 10, 64)
	if errParse != nil {
		return false
	}
	return siteID == *recordSite
}

// parsePagination reads page/page_size query parameters with defaults and
// an upper bound.
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = internalsettings.DefaultPageSize

	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed > 0 {
			pageSize = parsed
		}
	}
	if pageSize > internalsettings.MaxPageSize {
		pageSize = internalsettings.MaxPageSize
	}
	return page, pageSize
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
