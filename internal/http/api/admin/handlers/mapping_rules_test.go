package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aigen-studio/genadmin/internal/models"
)

func TestMappingRuleDuplicateRejected(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	platformID := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
	})

	rule := map[string]any{
		"platform_id":    platformID,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	}
	rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", rule)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first create: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, engine, http.MethodPost, "/mapping-rules", rule)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: status %d, want 409", rec.Code)
	}

	// Same target in another location is a different slot.
	rule["param_location"] = models.ParamLocationQuery
	rec = doJSON(t, engine, http.MethodPost, "/mapping-rules", rule)
	if rec.Code != http.StatusCreated {
		t.Fatalf("other location: status %d body %s", rec.Code, rec.Body.String())
	}

	// A model-specific rule on the same slot is allowed.
	rule["param_location"] = models.ParamLocationBody
	rule["model_name"] = "flux-1.0"
	rec = doJSON(t, engine, http.MethodPost, "/mapping-rules", rule)
	if rec.Code != http.StatusCreated {
		t.Fatalf("model-specific: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestMappingRuleValidation(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	platformID := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
	})

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing target", map[string]any{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"internal_param": "prompt",
			"param_location": models.ParamLocationBody,
		}},
		{"field mapping without internal param", map[string]any{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"target_param":   "prompt",
			"param_location": models.ParamLocationBody,
		}},
		{"fixed value without constant", map[string]any{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFixedValue,
			"target_param":   "version",
			"param_location": models.ParamLocationBody,
		}},
		{"bad location", map[string]any{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"internal_param": "prompt",
			"target_param":   "prompt",
			"param_location": "cookie",
		}},
		{"bad param type", map[string]any{
			"platform_id":    platformID,
			"mapping_type":   models.MappingTypeFieldMapping,
			"internal_param": "prompt",
			"target_param":   "prompt",
			"param_location": models.ParamLocationBody,
			"param_type":     "float",
		}},
	}
	for _, tc := range cases {
		rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", tc.name, rec.Code)
		}
	}

	// Unknown platform reads as not found.
	rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", map[string]any{
		"platform_id":    platformID + 99,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown platform: status %d, want 404", rec.Code)
	}
}

func TestMappingRuleSoftDelete(t *testing.T) {
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
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	ruleID := uint64(created["id"].(float64))

	rec = doJSON(t, engine, http.MethodDelete, fmt.Sprintf("/mapping-rules/%d", ruleID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}

	// The rule reads as gone but the row survives for audit.
	rec = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/mapping-rules/%d", ruleID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", rec.Code)
	}
	var row models.MappingRule
	if errFind := conn.First(&row, ruleID).Error; errFind != nil {
		t.Fatalf("load row: %v", errFind)
	}
	if row.Status != models.RuleStatusDeleted {
		t.Fatalf("status = %q, want deleted", row.Status)
	}

	// The slot frees up for a replacement rule.
	rec = doJSON(t, engine, http.MethodPost, "/mapping-rules", map[string]any{
		"platform_id":    platformID,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("recreate: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestMappingRuleUpdatePlatformImmutable(t *testing.T) {
	conn := newTestDB(t)
	engine := newTestRouter(conn)

	platformID := createPlatform(t, engine, map[string]any{
		"name":    "Flux",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/generate",
	})
	otherID := createPlatform(t, engine, map[string]any{
		"name":    "Other",
		"type":    models.PlatformTypeTxt2Img,
		"gen_url": "https://api.example.com/other",
	})

	rec := doJSON(t, engine, http.MethodPost, "/mapping-rules", map[string]any{
		"platform_id":    platformID,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body.String())
	}
	ruleID := uint64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, engine, http.MethodPut, fmt.Sprintf("/mapping-rules/%d", ruleID), map[string]any{
		"platform_id":    otherID,
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "prompt",
		"target_param":   "prompt",
		"param_location": models.ParamLocationBody,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reassign platform: status %d, want 400", rec.Code)
	}

	// A full replace without platform_id succeeds.
	rec = doJSON(t, engine, http.MethodPut, fmt.Sprintf("/mapping-rules/%d", ruleID), map[string]any{
		"mapping_type":   models.MappingTypeFieldMapping,
		"internal_param": "text",
		"target_param":   "input_text",
		"param_location": models.ParamLocationBody,
		"is_required":    true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace: status %d body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody(t, rec)
	if updated["target_param"] != "input_text" || updated["is_required"] != true {
		t.Fatalf("unexpected update result: %v", updated)
	}
}
