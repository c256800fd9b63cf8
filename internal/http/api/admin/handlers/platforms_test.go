package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/aigen-studio/genadmin/internal/models"
	"gorm.io/datatypes"
)

func TestPlatformCreateMasksCredential(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	rec := doJSON(t, engine, http.MethodPost, "/platforms", map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
		"api_key": "sk-test-12345678",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	if created["api_key"] != "sk-****5678" {
		t.Fatalf("expected masked credential, got %v", created["api_key"])
	}

	var stored models.Platform
	if errFind := conn.First(&stored).Error; errFind != nil {
		t.Fatalf("load platform: %v", errFind)
	}
	if stored.APIKey != "sk-test-12345678" {
		t.Fatalf("stored credential = %q", stored.APIKey)
	}
}

func TestPlatformUpdateEmptyAPIKeyKeepsCredential(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	id := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
		"api_key": "sk-original-key",
	})

	rec := doJSON(t, engine, http.MethodPut, fmt.Sprintf("/platforms/%d", id), map[string]any{
		"name":    "Flux Renamed",
		"api_key": "",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status %d body %s", rec.Code, rec.Body.String())
	}

	var stored models.Platform
	if errFind := conn.First(&stored, id).Error; errFind != nil {
		t.Fatalf("load platform: %v", errFind)
	}
	if stored.APIKey != "sk-original-key" {
		t.Fatalf("credential should survive empty update, got %q", stored.APIKey)
	}
	if stored.Name != "Flux Renamed" {
		t.Fatalf("name not updated, got %q", stored.Name)
	}

	rec = doJSON(t, engine, http.MethodPut, fmt.Sprintf("/platforms/%d", id), map[string]any{
		"api_key": "sk-rotated-key",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("rotate status %d body %s", rec.Code, rec.Body.String())
	}
	if errFind := conn.First(&stored, id).Error; errFind != nil {
		t.Fatalf("load platform: %v", errFind)
	}
	if stored.APIKey != "sk-rotated-key" {
		t.Fatalf("credential not rotated, got %q", stored.APIKey)
	}
}

func TestPlatformDeleteSiteMismatch(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)
	site := seedSite(t, conn, "shop")

	id := createPlatform(t, engine, map[string]any{
		"name":    "Scoped",
		"type":    models.PlatformTypeChat,
		"gen_url": "https://api.example.com/chat",
		"site_id": site.ID,
	})

	// Missing site_id reads as not found for a scoped platform.
	rec := doJSON(t, engine, http.MethodDelete, fmt.Sprintf("/platforms/%d", id), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without site_id, got %d", rec.Code)
	}
	// Wrong site too.
	rec = doJSON(t, engine, http.MethodDelete, fmt.Sprintf("/platforms/%d?site_id=%d", id, site.ID+1), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong site, got %d", rec.Code)
	}
	// Matching site deletes.
	rec = doJSON(t, engine, http.MethodDelete, fmt.Sprintf("/platforms/%d?site_id=%d", id, site.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected delete to succeed, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestPlatformDeleteRetiresRules(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	id := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
	})
	rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", map[string]any{
		"platform_id":    id,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create rule: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, engine, http.MethodDelete, fmt.Sprintf("/platforms/%d", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete platform: status %d body %s", rec.Code, rec.Body.String())
	}

	var rule models.MappingRule
	if errFind := conn.Where("platform_id = ?", id).First(&rule).Error; errFind != nil {
		t.Fatalf("load rule: %v", errFind)
	}
	if rule.Status != models.RuleStatusDeleted {
		t.Fatalf("rule status = %q, want deleted", rule.Status)
	}
}

func TestPlatformMalformedModelConfigSurfaces(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	now := time.Now().UTC()
	record := models.Platform{
		Name:            "Broken",
		Type:            models.PlatformTypeTxt2Img,
		IsEnabled:       true,
		GenMethod:       http.MethodPost,
		GenURL:          "https://api.example.com/generate",
		GenResponseMode: models.ResponseModeJSON,
		SupportedModels: datatypes.JSON([]byte(`{"not":"a list"`)),
		GenHeaders:      datatypes.JSON([]byte(`{}`)),
		ResultHeaders:   datatypes.JSON([]byte(`{}`)),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if errCreate := conn.Create(&record).Error; errCreate != nil {
		t.Fatalf("seed platform: %v", errCreate)
	}

	rec := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/platforms/%d", record.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d body %s", rec.Code, rec.Body.String())
	}
	got := decodeBody(t, rec)
	if _, ok := got["config_error"]; !ok {
		t.Fatalf("expected config_error in response, got %v", got)
	}
}
