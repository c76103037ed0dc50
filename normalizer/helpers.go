// Package normalizer maps raw provider records into the canonical
// PostData shape. Upstream schemas change without notice, so every
// extraction walks an ordered fallback chain and degrades to a zero
// value instead of failing.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const unknownAuthor = "Unknown"

// firstString walks keys in order and returns the first non-empty
// string value.
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// firstNumber walks keys in order and coerces the first present value
// to int64. Counts arrive as JSON numbers or as strings ("1,234" and
// "12.5K" style suffixes included) depending on dataset vintage.
func firstNumber(raw map[string]any, keys ...string) int64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := coerceNumber(v); ok {
			return n
		}
	}
	return 0
}

func coerceNumber(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		mult := int64(1)
		switch {
		case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
			mult, s = 1_000, s[:len(s)-1]
		case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
			mult, s = 1_000_000, s[:len(s)-1]
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f * float64(mult)), true
		}
	}
	return 0, false
}

// firstBool returns the first present boolean among keys.
func firstBool(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

// subMap returns raw[key] as an object, or nil.
func subMap(raw map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if m, ok := v.(map[string]any); ok && len(m) > 0 {
				return m
			}
		}
	}
	return nil
}

// list returns the first non-empty array among keys.
func list(raw map[string]any, keys ...string) []any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if a, ok := v.([]any); ok && len(a) > 0 {
				return a
			}
		}
	}
	return nil
}

// stringList flattens an array of strings or of {name|text|url} objects.
func stringList(raw map[string]any, keys ...string) []string {
	var out []string
	for _, item := range list(raw, keys...) {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			if s := firstString(v, "name", "text", "hashtag", "tag"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// timestamp normalizes the first parseable timestamp among keys to
// RFC 3339. Accepts RFC 3339 strings, a few dataset-specific layouts,
// and unix seconds (number or numeric string). Unparseable input is
// passed through verbatim rather than dropped.
func timestamp(raw map[string]any, keys ...string) string {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		time.RubyDate, // X's created_at
	}
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t == "" {
				continue
			}
			for _, layout := range layouts {
				if parsed, err := time.Parse(layout, t); err == nil {
					return parsed.UTC().Format(time.RFC3339)
				}
			}
			if secs, err := strconv.ParseInt(t, 10, 64); err == nil && secs > 0 {
				return time.Unix(secs, 0).UTC().Format(time.RFC3339)
			}
			return t
		case float64:
			if t > 0 {
				return time.Unix(int64(t), 0).UTC().Format(time.RFC3339)
			}
		}
	}
	return ""
}

// asString renders a scalar for id fields that arrive as numbers.
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatInt(int64(s), 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// idFrom tries keys in order, then falls back to the last non-empty
// path segment of the post URL.
func idFrom(raw map[string]any, url string, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	trimmed := strings.TrimRight(url, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i+1 < len(trimmed) {
		return trimmed[i+1:]
	}
	return trimmed
}
