package handlers

import (
	"errors"
	"net/http"

	"github.com/aigen-studio/genadmin/internal/mapping"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ResolveHandler exposes a resolution preview so operators can exercise a
// platform's rule set with a sample parameter bag.
type ResolveHandler struct {
	resolver *mapping.Resolver
}

// NewResolveHandler constructs a resolve handler.
func NewResolveHandler(db *gorm.DB) *ResolveHandler {
	return &ResolveHandler{resolver: mapping.NewResolver(db)}
}

// resolveRequest captures the payload for a resolution preview.
type resolveRequest struct {
	ModelName      string         `json:"model_name"`      // Model to resolve for; empty uses platform-wide rules only.
	InternalParams map[string]any `json:"internal_params"` // Internal parameter bag.
}

// Resolve applies the platform's active rules to the supplied bag and
// returns the outbound request fragments.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body resolveRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.InternalParams == nil {
		body.InternalParams = map[string]any{}
	}

	out, errResolve := h.resolver.Resolve(c.Request.Context(), id, body.ModelName, body.InternalParams)
	if errResolve != nil {
		var missing *mapping.MissingRequiredParameterError
		var coercion *mapping.TypeCoercionError
		switch {
		case errors.Is(errResolve, mapping.ErrPlatformNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		case errors.Is(errResolve, mapping.ErrPlatformDisabled):
			c.JSON(http.StatusConflict, gin.H{"error": "platform is disabled"})
		case errors.As(errResolve, &missing):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":        "missing required parameter",
				"target_param": missing.TargetParam,
			})
		case errors.As(errResolve, &coercion):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":        "type coercion failed",
				"rule_id":      coercion.RuleID,
				"target_param": coercion.TargetParam,
				"param_type":   coercion.ParamType,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "resolve failed"})
		}
		return
	}
	c.JSON(http.StatusOK, out)
}
