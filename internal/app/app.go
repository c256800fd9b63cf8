package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aigen-studio/genadmin/internal/config"
	"github.com/aigen-studio/genadmin/internal/db"
	adminapi "github.com/aigen-studio/genadmin/internal/http/api/admin"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/aigen-studio/genadmin/internal/security"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// defaultAdminUsername is created on first boot when no admin exists.
const defaultAdminUsername = "admin"

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the admin API server with database-backed components.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if errEnsure := EnsureDefaultAdmin(conn); errEnsure != nil {
		return errEnsure
	}

	jwtCfg, errJWT := config.LoadJWTConfig(configPath)
	if errJWT != nil {
		return errJWT
	}

	port := config.LoadServerPort(configPath)
	if port == config.DefaultServerPort && defaultPort > 0 {
		port = defaultPort
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())

	adminapi.RegisterAdminRoutes(engine, conn, jwtCfg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("admin server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return ctx.Err()
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}

// EnsureDefaultAdmin creates the initial super admin when no admin account
// exists yet. The generated password is logged once; operators should
// rotate it after first login.
func EnsureDefaultAdmin(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return errCount
	}
	if count > 0 {
		return nil
	}

	password, errPassword := randomPassword()
	if errPassword != nil {
		return errPassword
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return errHash
	}

	now := time.Now().UTC()
	admin := models.Admin{
		Username:  defaultAdminUsername,
		Password:  hash,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return errCreate
	}
	log.WithFields(log.Fields{
		"username": defaultAdminUsername,
		"password": password,
	}).Warn("created initial admin account, rotate the password after first login")
	return nil
}

// randomPassword returns a random 24-hex-character password.
func randomPassword() (string, error) {
	buf := make([]byte, 12)
	if _, errRead := rand.Read(buf); errRead != nil {
		return "", errRead
	}
	return hex.EncodeToString(buf), nil
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}
