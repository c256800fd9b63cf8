package admin

import (
	"net/http"
	"strings"

	"github.com/aigen-studio/genadmin/internal/config"
	handlers "github.com/aigen-studio/genadmin/internal/http/api/admin/handlers"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterAdminRoutes registers admin routes, middleware, and handlers.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Check)

	adminGroup := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	adminGroup.POST("/login", authHandler.Login)

	authed := adminGroup.Group("")
	authed.Use(adminAuthMiddleware(db, jwtCfg))

	authed.GET("/me", authHandler.Me)

	mfaHandler := handlers.NewMFAHandler(db)
	authed.POST("/mfa/totp/prepare", mfaHandler.Prepare)
	authed.POST("/mfa/totp/confirm", mfaHandler.Confirm)
	authed.POST("/mfa/totp/disable", mfaHandler.Disable)

	siteHandler := handlers.NewSiteHandler(db)
	authed.POST("/sites", siteHandler.Create)
	authed.GET("/sites", siteHandler.List)
	authed.GET("/sites/:id", siteHandler.Get)
	authed.PUT("/sites/:id", siteHandler.Update)
	authed.DELETE("/sites/:id", siteHandler.Delete)

	platformHandler := handlers.NewPlatformHandler(db)
	authed.POST("/platforms", platformHandler.Create)
	authed.GET("/platforms", platformHandler.List)
	authed.GET("/platforms/:id", platformHandler.Get)
	authed.PUT("/platforms/:id", platformHandler.Update)
	authed.DELETE("/platforms/:id", platformHandler.Delete)
	authed.POST("/platforms/:id/enable", platformHandler.Enable)
	authed.POST("/platforms/:id/disable", platformHandler.Disable)

	resolveHandler := handlers.NewResolveHandler(db)
	authed.POST("/platforms/:id/resolve", resolveHandler.Resolve)

	ruleHandler := handlers.NewMappingRuleHandler(db)
	authed.POST("/mapping-rules", ruleHandler.Create)
	authed.GET("/mapping-rules", ruleHandler.List)
	authed.GET("/mapping-rules/:id", ruleHandler.Get)
	authed.PUT("/mapping-rules/:id", ruleHandler.Update)
	authed.DELETE("/mapping-rules/:id", ruleHandler.Delete)

	adminAccountHandler := handlers.NewAdminAccountHandler(db)
	authed.POST("/admins", adminAccountHandler.Create)
	authed.GET("/admins", adminAccountHandler.List)
	authed.GET("/admins/:id", adminAccountHandler.Get)
	authed.PUT("/admins/:id", adminAccountHandler.Update)
	authed.DELETE("/admins/:id", adminAccountHandler.Delete)
	authed.PUT("/admins/:id/password", adminAccountHandler.ChangePassword)

	userHandler := handlers.NewUserHandler(db)
	authed.GET("/users", userHandler.List)
	authed.GET("/users/:id", userHandler.Get)
	authed.PUT("/users/:id", userHandler.Update)
	authed.POST("/users/:id/balance", userHandler.AdjustBalance)
	authed.POST("/users/:id/enable", userHandler.Enable)
	authed.POST("/users/:id/disable", userHandler.Disable)

	inviteCodeHandler := handlers.NewInviteCodeHandler(db)
	authed.POST("/invite-codes", inviteCodeHandler.Create)
	authed.GET("/invite-codes", inviteCodeHandler.List)
	authed.PUT("/invite-codes/:id", inviteCodeHandler.Update)
	authed.DELETE("/invite-codes/:id", inviteCodeHandler.Delete)

	packageHandler := handlers.NewRechargePackageHandler(db)
	authed.POST("/recharge-packages", packageHandler.Create)
	authed.GET("/recharge-packages", packageHandler.List)
	authed.GET("/recharge-packages/:id", packageHandler.Get)
	authed.PUT("/recharge-packages/:id", packageHandler.Update)
	authed.DELETE("/recharge-packages/:id", packageHandler.Delete)

	channelHandler := handlers.NewPaymentChannelHandler(db)
	authed.POST("/payment-channels", channelHandler.Create)
	authed.GET("/payment-channels", channelHandler.List)
	authed.GET("/payment-channels/:id", channelHandler.Get)
	authed.PUT("/payment-channels/:id", channelHandler.Update)
	authed.DELETE("/payment-channels/:id", channelHandler.Delete)

	recordHandler := handlers.NewGenerationRecordHandler(db)
	authed.GET("/generation-records", recordHandler.List)
	authed.GET("/generation-records/:id", recordHandler.Get)
	authed.DELETE("/generation-records/:id", recordHandler.Delete)

	adHandler := handlers.NewAdHandler(db)
	authed.POST("/ads", adHandler.Create)
	authed.GET("/ads", adHandler.List)
	authed.GET("/ads/:id", adHandler.Get)
	authed.PUT("/ads/:id", adHandler.Update)
	authed.DELETE("/ads/:id", adHandler.Delete)

	menuHandler := handlers.NewMenuHandler(db)
	authed.POST("/menus", menuHandler.Create)
	authed.GET("/menus", menuHandler.List)
	authed.PUT("/menus/:id", menuHandler.Update)
	authed.DELETE("/menus/:id", menuHandler.Delete)

	assetHandler := handlers.NewMediaAssetHandler(db)
	authed.POST("/assets", assetHandler.Create)
	authed.GET("/assets", assetHandler.List)
	authed.GET("/assets/:id", assetHandler.Get)
	authed.DELETE("/assets/:id", assetHandler.Delete)

	settingHandler := handlers.NewSettingHandler(db)
	authed.GET("/settings", settingHandler.List)
	authed.GET("/settings/:key", settingHandler.Get)
	authed.PUT("/settings/:key", settingHandler.Put)
	authed.DELETE("/settings/:key", settingHandler.Delete)
}

// adminAuthMiddleware validates admin JWTs and loads admin context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.IsEnabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
			return
		}

		handlers.SetCurrentAdmin(c, &admin)
		c.Next()
	}
}
