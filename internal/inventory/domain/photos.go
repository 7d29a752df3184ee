package domain

import (
	"encoding/json"
	"strings"
)

// NormalizePhotoList converts the stored photo value into a list of URL
// strings. Historic rows store either a JSON-encoded array of URLs or a
// single bare URL; newer writers may hand a native list straight through.
// Unparsable input degrades to an empty list rather than failing the row.
//
// This is the single place where the ambiguous photo representation is
// resolved; nothing else in the codebase inspects the raw value.
func NormalizePhotoList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}

	case []string:
		if v == nil {
			return []string{}
		}
		return v

	case []any:
		urls := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				urls = append(urls, s)
			}
		}
		return urls

	case string:
		return normalizePhotoString(v)

	case []byte:
		return normalizePhotoString(string(v))

	default:
		return []string{}
	}
}

func normalizePhotoString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	if strings.HasPrefix(s, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(s), &urls); err != nil {
			return []string{}
		}
		out := make([]string, 0, len(urls))
		for _, u := range urls {
			if u != "" {
				out = append(out, u)
			}
		}
		return out
	}

	// Bare URL
	return []string{s}
}
