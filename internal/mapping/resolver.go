package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aigen-studio/genadmin/internal/models"
	"gorm.io/gorm"
)

// ResolvedRequest holds the outbound request fragments produced by the
// resolver. Header and query values are wire strings; body values keep
// their coerced types.
type ResolvedRequest struct {
	Headers map[string]string `json:"headers"`
	Query   map[string]string `json:"query"`
	Body    map[string]any    `json:"body"`
}

// Resolve applies the given rules to an internal parameter bag and builds
// the vendor-shaped request fragments for one platform and model. It is a
// pure function of its inputs; rules must already be filtered to active
// rules of the platform.
func Resolve(p *models.Platform, rules []models.MappingRule, modelName string, internalParams map[string]any) (*ResolvedRequest, error) {
	if p == nil {
		return nil, ErrPlatformNotFound
	}
	if !p.IsEnabled {
		return nil, ErrPlatformDisabled
	}

	selected := selectRules(rules, modelName)

	out := &ResolvedRequest{
		Headers: make(map[string]string),
		Query:   make(map[string]string),
		Body:    make(map[string]any),
	}

	for _, rule := range selected {
		value, resolved := resolveValue(&rule, internalParams)
		if !resolved {
			if rule.IsRequired {
				return nil, &MissingRequiredParameterError{TargetParam: rule.TargetParam}
			}
			continue
		}

		coerced, errCoerce := coerceValue(&rule, value)
		if errCoerce != nil {
			return nil, errCoerce
		}

		switch rule.ParamLocation {
		case models.ParamLocationHeader:
			wire, errWire := wireString(&rule, coerced)
			if errWire != nil {
				return nil, errWire
			}
			out.Headers[rule.TargetParam] = wire
		case models.ParamLocationQuery:
			wire, errWire := wireString(&rule, coerced)
			if errWire != nil {
				return nil, errWire
			}
			out.Query[rule.TargetParam] = wire
		default:
			out.Body[rule.TargetParam] = coerced
		}
	}

	// Template headers sit under resolver-produced ones: explicit rules
	// are more specific than the static template.
	templateHeaders := ExpandHeaderTemplate(p.GenHeaders, map[string]string{"apiKey": p.APIKey})
	for name, value := range templateHeaders {
		if _, exists := out.Headers[name]; !exists {
			out.Headers[name] = value
		}
	}

	return out, nil
}

// selectRules picks the rules that apply to modelName. Platform-wide rules
// apply first; a model-specific rule replaces a platform-wide one sharing
// target param and location, independent of storage order.
func selectRules(rules []models.MappingRule, modelName string) []models.MappingRule {
	type slot struct{ target, location string }

	index := make(map[slot]int)
	selected := make([]models.MappingRule, 0, len(rules))

	add := func(rule models.MappingRule) {
		key := slot{target: rule.TargetParam, location: rule.ParamLocation}
		if pos, exists := index[key]; exists {
			selected[pos] = rule
			return
		}
		index[key] = len(selected)
		selected = append(selected, rule)
	}

	for _, rule := range rules {
		if rule.Status != models.RuleStatusActive {
			continue
		}
		if rule.ModelName == "" {
			add(rule)
		}
	}
	for _, rule := range rules {
		if rule.Status != models.RuleStatusActive {
			continue
		}
		if rule.ModelName != "" && rule.ModelName == modelName {
			add(rule)
		}
	}
	return selected
}

// resolveValue produces the raw value for a rule, reporting whether one
// could be resolved at all.
func resolveValue(rule *models.MappingRule, internalParams map[string]any) (any, bool) {
	if rule.MappingType == models.MappingTypeFixedValue {
		return rule.FixedValue, true
	}
	if value, exists := internalParams[rule.InternalParam]; exists && value != nil {
		return value, true
	}
	if rule.DefaultValue != "" {
		return rule.DefaultValue, true
	}
	return nil, false
}

// coerceValue applies the rule's declared param type to a resolved value.
func coerceValue(rule *models.MappingRule, value any) (any, error) {
	switch rule.ParamType {
	case models.ParamTypeInteger:
		return coerceInteger(rule, value)
	case models.ParamTypeBoolean:
		return coerceBoolean(rule, value)
	case models.ParamTypeJSON:
		return coerceJSON(rule, value)
	default:
		return stringify(value), nil
	}
}

func coerceInteger(rule *models.MappingRule, value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return nil, coercionError(rule, value)
		}
		return int64(v), nil
	case json.Number:
		parsed, errParse := v.Int64()
		if errParse != nil {
			return nil, coercionError(rule, value)
		}
		return parsed, nil
	case string:
		parsed, errParse := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if errParse != nil {
			return nil, coercionError(rule, value)
		}
		return parsed, nil
	default:
		return nil, coercionError(rule, value)
	}
}

func coerceBoolean(rule *models.MappingRule, value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return nil, coercionError(rule, value)
	default:
		return nil, coercionError(rule, value)
	}
}

func coerceJSON(rule *models.MappingRule, value any) (any, error) {
	raw, isString := value.(string)
	if !isString {
		// Already structured (map, slice, number); pass through.
		return value, nil
	}
	var decoded any
	if errUnmarshal := json.Unmarshal([]byte(raw), &decoded); errUnmarshal != nil {
		return nil, coercionError(rule, value)
	}
	return decoded, nil
}

func coercionError(rule *models.MappingRule, value any) error {
	return &TypeCoercionError{
		RuleID:      rule.ID,
		TargetParam: rule.TargetParam,
		ParamType:   rule.ParamType,
		Value:       value,
	}
}

// stringify renders a value as a plain string.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		encoded, errMarshal := json.Marshal(v)
		if errMarshal != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// wireString renders a coerced value for header/query placement.
func wireString(rule *models.MappingRule, value any) (string, error) {
	if rule.ParamType == models.ParamTypeJSON {
		encoded, errMarshal := json.Marshal(value)
		if errMarshal != nil {
			return "", coercionError(rule, value)
		}
		return string(encoded), nil
	}
	return stringify(value), nil
}

// Resolver loads platforms and active rules from storage and applies them.
type Resolver struct {
	db *gorm.DB // Database handle for platform and rule rows.
}

// NewResolver constructs a Resolver.
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve builds the outbound request fragments for a platform, model and
// internal parameter bag using the stored active rules.
func (r *Resolver) Resolve(ctx context.Context, platformID uint64, modelName string, internalParams map[string]any) (*ResolvedRequest, error) {
	var p models.Platform
	if errFind := r.db.WithContext(ctx).First(&p, platformID).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrPlatformNotFound
		}
		return nil, errFind
	}

	var rules []models.MappingRule
	if errFind := r.db.WithContext(ctx).
		Where("platform_id = ? AND status = ?", platformID, models.RuleStatusActive).
		Where("model_name = '' OR model_name = ?", modelName).
		Order("id ASC").
		Find(&rules).Error; errFind != nil {
		return nil, errFind
	}

	return Resolve(&p, rules, modelName, internalParams)
}
