package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aigen-studio/genadmin/internal/db"
	"github.com/aigen-studio/genadmin/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "genadmin-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

// newTestRouter wires the handlers under test without auth middleware.
func newTestRouter(conn *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	platformHandler := NewPlatformHandler(conn)
	engine.POST("/platforms", platformHandler.Create)
	engine.GET("/platforms", platformHandler.List)
	engine.GET("/platforms/:id", platformHandler.Get)
	engine.PUT("/platforms/:id", platformHandler.Update)
	engine.DELETE("/platforms/:id", platformHandler.Delete)
	engine.POST("/platforms/:id/disable", platformHandler.Disable)

	resolveHandler := NewResolveHandler(conn)
	engine.POST("/platforms/:id/resolve", resolveHandler.Resolve)

	ruleHandler := NewMappingRuleHandler(conn)
	engine.POST("/mapping-rules", ruleHandler.Create)
	engine.GET("/mapping-rules", ruleHandler.List)
	engine.GET("/mapping-rules/:id", ruleHandler.Get)
	engine.PUT("/mapping-rules/:id", ruleHandler.Update)
	engine.DELETE("/mapping-rules/:id", ruleHandler.Delete)

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			t.Fatalf("marshal request: %v", errMarshal)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	return out
}

func seedSite(t *testing.T, conn *gorm.DB, code string) *models.Site {
	t.Helper()
	now := time.Now().UTC()
	site := models.Site{
		Name:      "Site " + code,
		Code:      code,
		Vertical:  models.SiteVerticalEcommerce,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errCreate := conn.Create(&site).Error; errCreate != nil {
		t.Fatalf("seed site: %v", errCreate)
	}
	return &site
}

func createPlatform(t *testing.T, engine *gin.Engine, body map[string]any) uint64 {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/platforms", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create platform: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id, ok := created["id"].(float64)
	if !ok {
		t.Fatalf("create platform: missing id in %v", created)
	}
	return uint64(id)
}
