package mapping

import (
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ExpandHeaderTemplate decodes a stored header template and substitutes
// {token} placeholders from subs. A malformed template is not fatal: it
// yields an empty header set and a warning, so a config typo degrades the
// request instead of failing it.
func ExpandHeaderTemplate(raw datatypes.JSON, subs map[string]string) map[string]string {
	headers := make(map[string]string)

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return headers
	}

	var tmpl map[string]string
	if errUnmarshal := json.Unmarshal(raw, &tmpl); errUnmarshal != nil {
		log.WithError(errUnmarshal).Warn("mapping: malformed header template, using empty headers")
		return headers
	}

	for name, value := range tmpl {
		for token, replacement := range subs {
			value = strings.ReplaceAll(value, "{"+token+"}", replacement)
		}
		headers[name] = value
	}
	return headers
}
