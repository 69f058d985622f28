package scanner

import (
	"fmt"
	"strings"
	"time"
)

// Frontmatter keys are accepted in both their human-readable capitalized
// form ("Due Date") and the lowercase camelCase form ("dueDate").

func fmValue(fm map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := fm[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func fmString(fm map[string]interface{}, keys ...string) string {
	v, ok := fmValue(fm, keys...)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool, int, int64, float64:
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func fmStringDefault(fm map[string]interface{}, capKey, lowKey, fallback string) string {
	if s := fmString(fm, capKey, lowKey); s != "" {
		return s
	}
	return fallback
}

// fmStrings accepts both YAML arrays and comma-separated scalar strings.
func fmStrings(fm map[string]interface{}, keys ...string) []string {
	v, ok := fmValue(fm, keys...)
	if !ok {
		return []string{}
	}
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if s, ok := elem.(string); ok {
				s = strings.TrimSpace(s)
				if s != "" {
					out = append(out, s)
				}
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		if out == nil {
			return []string{}
		}
		return out
	}
	return []string{}
}

func fmBool(fm map[string]interface{}, keys ...string) bool {
	v, ok := fmValue(fm, keys...)
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	}
	return false
}

func fmTime(fm map[string]interface{}, capKey, lowKey string, fallback time.Time) time.Time {
	s := fmString(fm, capKey, lowKey)
	if s == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return fallback
}
