package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aigen-studio/genadmin/internal/models"
)

func TestResolvePreview(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	platformID := createPlatform(t, engine, map[string]any{
		"name":        "Flux",
		"type":        models.PlatformTypeTxt2Img,
		"gen_url":     "https://api.example.com/generate",
		"api_key":     "sk-preview-XYZ9",
		"gen_headers": map[string]string{"Authorization": "Bearer {apiKey}"},
	})

	rules := []map[string]any{
		{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"internal_param": "prompt",
			"target_param":   "prompt",
			"is_required":    true,
			"param_location": models.ParamLocationBody,
		},
		{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFixedValue,
			"target_param":   "model",
			"fixed_value":    "flux-1.0",
			"param_location": models.ParamLocationBody,
		},
		{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"internal_param": "quantity",
			"target_param":   "n",
			"default_value":  "1",
			"param_type":     models.ParamTypeInteger,
			"param_location": models.ParamLocationQuery,
		},
	}
	for i, rule := range rules {
		rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", rule)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create rule %d: status %d body %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/platforms/%d/resolve", platformID), map[string]any{
		"internal_params": map[string]any{"prompt": "a cat"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: status %d body %s", rec.Code, rec.Body.String())
	}
	out := decodeBody(t, rec)

	headers, _ := out["headers"].(map[string]any)
	if headers["Authorization"] != "Bearer sk-preview-XYZ9" {
		t.Fatalf("credential not substituted: %v", headers)
	}
	body, _ := out["body"].(map[string]any)
	if body["prompt"] != "a cat" || body["model"] != "flux-1.0" {
		t.Fatalf("unexpected body: %v", body)
	}
	query, _ := out["query"].(map[string]any)
	if query["n"] != "1" {
		t.Fatalf("default value not applied: %v", query)
	}
}

func TestResolvePreviewErrors(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	platformID := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
	})
	rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", map[string]any{
		"platform_id":    platformID,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"is_required":    true,
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create rule: status %d body %s", rec.Code, rec.Body.String())
	}

	// Required parameter missing.
	rec = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/platforms/%d/resolve", platformID), map[string]any{
		"internal_params": map[string]any{},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing required: status %d, want 422", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["target_param"] != "prompt" {
		t.Fatalf("expected target_param in error, got %v", out)
	}

	// Unknown platform.
	rec = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/platforms/%d/resolve", platformID+99), map[string]any{
		"internal_params": map[string]any{"prompt": "x"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown platform: status %d, want 404", rec.Code)
	}

	// Disabled platform refuses resolution.
	rec = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/platforms/%d/disable", platformID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("disable: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/platforms/%d/resolve", platformID), map[string]any{
		"internal_params": map[string]any{"prompt": "x"},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("disabled platform: status %d, want 409", rec.Code)
	}
}
