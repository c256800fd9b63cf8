package mapping

import (
	"testing"

	"gorm.io/datatypes"
)

func TestExpandHeaderTemplate_Substitution(t *testing.T) {
	raw := datatypes.JSON([]byte(`{"Authorization":"Bearer {apiKey}","Accept":"application/json"}`))
	headers := ExpandHeaderTemplate(raw, map[string]string{"apiKey": "XYZ"})
	if got := headers["Authorization"]; got != "Bearer XYZ" {
		t.Fatalf("expected substituted token, got %q", got)
	}
	if got := headers["Accept"]; got != "application/json" {
		t.Fatalf("expected literal header, got %q", got)
	}
}

func TestExpandHeaderTemplate_MalformedYieldsEmpty(t *testing.T) {
	raw := datatypes.JSON([]byte(`{"Authorization": "Bearer`))
	headers := ExpandHeaderTemplate(raw, map[string]string{"apiKey": "XYZ"})
	if len(headers) != 0 {
		t.Fatalf("expected empty header set, got %v", headers)
	}
}

func TestExpandHeaderTemplate_EmptyInput(t *testing.T) {
	if headers := ExpandHeaderTemplate(nil, nil); len(headers) != 0 {
		t.Fatalf("expected empty header set, got %v", headers)
	}
	if headers := ExpandHeaderTemplate(datatypes.JSON([]byte("null")), nil); len(headers) != 0 {
		t.Fatalf("expected empty header set for null, got %v", headers)
	}
}
