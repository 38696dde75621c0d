package auditlog

import (
	"encoding/json"
	"strings"
)

const redacted = "<redacted>"

var sensitiveKeys = map[string]struct{}{
	"public_key":    {},
	"root_password": {},
	"token":         {},
	"user_data":     {},
}

// SanitizeArguments renders tool arguments as compact JSON with sensitive
// values redacted at any depth. Unencodable input yields an empty string.
func SanitizeArguments(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	b, err := json.Marshal(redact(args))
	if err != nil {
		return ""
	}
	return string(b)
}

func redact(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				out[k] = redacted
				continue
			}
			out[k] = redact(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = redact(val)
		}
		return out
	default:
		return v
	}
}
