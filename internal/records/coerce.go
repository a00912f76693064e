package records

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// object returns raw as a JSON object, or nil.
func object(raw any) map[string]any {
	m, _ := raw.(map[string]any)
	return m
}

// pick returns the first present, non-null value among keys.
func pick(m map[string]any, keys ...string) any {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// text renders a scalar as a string. Objects and arrays never render.
func text(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case bool:
		return strconv.FormatBool(x), true
	}
	return "", false
}

// pickText returns the first key that holds a non-empty scalar.
func pickText(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, k := range keys {
		if s, ok := text(m[k]); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// toInt parses a number the way a lenient form field would: integers,
// floats (truncated) and numeric strings are accepted.
func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		if f, err := x.Float64(); err == nil {
			return int(f), true
		}
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}

func intOr(v any, fallback int) int {
	if n, ok := toInt(v); ok {
		return n
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(x, "%")), 64)
		return f, err == nil
	}
	return 0, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toTime parses a date from an ISO string or a unix-millis number.
// Unparsable values yield nil.
func toTime(v any) *time.Time {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	case float64:
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		t := time.UnixMilli(int64(x)).UTC()
		return &t
	}
	return nil
}

func pickTime(m map[string]any, keys ...string) *time.Time {
	if m == nil {
		return nil
	}
	for _, k := range keys {
		if t := toTime(m[k]); t != nil {
			return t
		}
	}
	return nil
}

// idFrom reads an id from keys, falling back to a positional id when
// index >= 0, or a generated UUID otherwise.
func idFrom(m map[string]any, index int, keys ...string) ID {
	if s := pickText(m, keys...); s != "" {
		return ID(s)
	}
	if index >= 0 {
		return ID(strconv.Itoa(index + 1))
	}
	return ID(uuid.NewString())
}

// joinName combines first_name/last_name style fields.
func joinName(m map[string]any) string {
	var parts []string
	if s := pickText(m, "first_name", "firstName"); s != "" {
		parts = append(parts, s)
	}
	if s := pickText(m, "last_name", "lastName"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
