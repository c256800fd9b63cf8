package platform

import (
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/datatypes"
)

func TestNormalizeSupportedModels(t *testing.T) {
	raw := json.RawMessage(`[
		{"name":" flux-1.0 ","kind":"image","resolutions":["1024x1024"],"default_cost":10},
		{"name":"kling-v1","kind":"video","durations":[5,10],"default_cost":50,
		 "cost_rules":[{"duration":10,"cost":90}]}
	]`)

	normalized, errNormalize := NormalizeSupportedModels(raw)
	if errNormalize != nil {
		t.Fatalf("normalize: %v", errNormalize)
	}

	configs, errParse := ParseSupportedModels(normalized)
	if errParse != nil {
		t.Fatalf("parse: %v", errParse)
	}
	if len(configs) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(configs))
	}
	if configs[0].Name != "flux-1.0" {
		t.Fatalf("expected trimmed name, got %q", configs[0].Name)
	}
}

func TestNormalizeSupportedModels_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing name", `[{"kind":"image"}]`},
		{"unknown kind", `[{"name":"m1","kind":"audio"}]`},
		{"duplicate model", `[{"name":"m1","kind":"image"},{"name":"m1","kind":"image"}]`},
		{"not a list", `{"name":"m1"}`},
	}
	for _, tc := range cases {
		if _, errNormalize := NormalizeSupportedModels(json.RawMessage(tc.raw)); errNormalize == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestNormalizeSupportedModels_EmptyDefaultsToList(t *testing.T) {
	normalized, errNormalize := NormalizeSupportedModels(nil)
	if errNormalize != nil {
		t.Fatalf("normalize: %v", errNormalize)
	}
	if string(normalized) != "[]" {
		t.Fatalf("expected empty list, got %s", normalized)
	}
}

func TestParseSupportedModels_MalformedIsConfigError(t *testing.T) {
	_, errParse := ParseSupportedModels(datatypes.JSON([]byte(`{"broken"`)))
	var cfgErr *ConfigError
	if !errors.As(errParse, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", errParse)
	}
	if cfgErr.Field != "supported_models" {
		t.Fatalf("expected supported_models field, got %q", cfgErr.Field)
	}
}

func TestCostFor(t *testing.T) {
	cfg := ModelConfig{
		Name:        "kling-v1",
		Kind:        ModelKindVideo,
		DefaultCost: 50,
		CostRules: []ModelCostRule{
			{Resolution: "1080p", Duration: 10, Cost: 120},
			{Duration: 10, Cost: 90},
		},
	}

	if got := cfg.CostFor("1080p", "", 10); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
	if got := cfg.CostFor("720p", "", 10); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := cfg.CostFor("720p", "", 5); got != 50 {
		t.Fatalf("expected default cost, got %d", got)
	}
}

func TestFindModel(t *testing.T) {
	configs := []ModelConfig{{Name: "a", Kind: ModelKindImage}, {Name: "b", Kind: ModelKindChat}}
	if found := FindModel(configs, "b"); found == nil || found.Kind != ModelKindChat {
		t.Fatalf("expected to find b, got %+v", found)
	}
	if found := FindModel(configs, "c"); found != nil {
		t.Fatalf("expected nil for unknown model, got %+v", found)
	}
}
