package platform

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Model kinds a platform can serve.
const (
	ModelKindImage    = "image"
	ModelKindVideo    = "video"
	ModelKindChat     = "chat"
	ModelKindAnalysis = "analysis"
)

// ConfigError reports malformed stored configuration JSON. Cost and
// capability data is billing relevant, so reads surface this instead of
// silently falling back.
type ConfigError struct {
	Field string // Offending column.
	Err   error  // Underlying cause.
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("platform config: invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ModelCostRule prices one resolution/ratio/duration combination.
// Empty selector fields match any value.
type ModelCostRule struct {
	Resolution  string `json:"resolution,omitempty"`   // Resolution selector (e.g. 1024x1024).
	AspectRatio string `json:"aspect_ratio,omitempty"` // Aspect ratio selector (e.g. 16:9).
	Duration    int    `json:"duration,omitempty"`     // Duration selector in seconds; 0 matches any.
	Cost        int64  `json:"cost"`                   // Credits charged per call.
}

// ModelConfig describes one model a platform serves, with capability
// metadata and its cost rule set.
type ModelConfig struct {
	Name         string          `json:"name"`                    // Model identifier.
	Kind         string          `json:"kind"`                    // image, video, chat or analysis.
	Resolutions  []string        `json:"resolutions,omitempty"`   // Supported resolutions.
	AspectRatios []string        `json:"aspect_ratios,omitempty"` // Supported aspect ratios.
	Durations    []int           `json:"durations,omitempty"`     // Supported durations in seconds.
	MaxQuantity  int             `json:"max_quantity,omitempty"`  // Max outputs per call.
	DefaultCost  int64           `json:"default_cost"`            // Fallback credits per call.
	CostRules    []ModelCostRule `json:"cost_rules,omitempty"`    // Combination-specific pricing.
}

// validKinds enumerates accepted model kinds.
var validKinds = map[string]bool{
	ModelKindImage:    true,
	ModelKindVideo:    true,
	ModelKindChat:     true,
	ModelKindAnalysis: true,
}

// ParseSupportedModels decodes a stored supported_models column.
// Empty input yields an empty list; malformed input is a ConfigError.
func ParseSupportedModels(raw datatypes.JSON) ([]ModelConfig, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var configs []ModelConfig
	if errUnmarshal := json.Unmarshal(raw, &configs); errUnmarshal != nil {
		return nil, &ConfigError{Field: "supported_models", Err: errUnmarshal}
	}
	return configs, nil
}

// NormalizeSupportedModels validates and re-encodes a supported_models
// payload at write time so reads never see malformed entries.
func NormalizeSupportedModels(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return datatypes.JSON([]byte("[]")), nil
	}

	var configs []ModelConfig
	if errUnmarshal := json.Unmarshal(raw, &configs); errUnmarshal != nil {
		return nil, fmt.Errorf("invalid supported_models: %w", errUnmarshal)
	}

	seen := make(map[string]bool, len(configs))
	cleaned := make([]ModelConfig, 0, len(configs))
	for i, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return nil, fmt.Errorf("supported_models[%d]: name is required", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("supported_models[%d]: duplicate model %q", i, name)
		}
		seen[name] = true
		kind := strings.TrimSpace(cfg.Kind)
		if !validKinds[kind] {
			return nil, fmt.Errorf("supported_models[%d]: unknown kind %q", i, cfg.Kind)
		}
		cfg.Name = name
		cfg.Kind = kind
		cleaned = append(cleaned, cfg)
	}

	encoded, errMarshal := json.Marshal(cleaned)
	if errMarshal != nil {
		return nil, errMarshal
	}
	return datatypes.JSON(encoded), nil
}

// FindModel returns the config for name, or nil when the platform does not
// declare it.
func FindModel(configs []ModelConfig, name string) *ModelConfig {
	for i := range configs {
		if configs[i].Name == name {
			return &configs[i]
		}
	}
	return nil
}

// CostFor returns the credits charged for the given combination. The first
// rule whose non-empty selectors all match wins; otherwise DefaultCost.
func (m *ModelConfig) CostFor(resolution, aspectRatio string, duration int) int64 {
	for _, rule := range m.CostRules {
		if rule.Resolution != "" && rule.Resolution != resolution {
			continue
		}
		if rule.AspectRatio != "" && rule.AspectRatio != aspectRatio {
			continue
		}
		if rule.Duration != 0 && rule.Duration != duration {
			continue
		}
		return rule.Cost
	}
	return m.DefaultCost
}
