// Package strings normalizes identifier lists taken from query strings and
// environment variables.
package strings

import (
	"strings"
)

// Normalizer maps a raw element to its canonical form. Elements that
// normalize to "" are dropped.
type Normalizer func(string) string

func Trim(s string) string { return strings.TrimSpace(s) }

// TrimLower canonicalizes case-insensitive ids such as module ids.
func TrimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Dedupe normalizes each value and keeps the first occurrence of each
// result, in input order. A nil input stays nil.
func Dedupe(values []string, normalize Normalizer) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = normalize(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SplitList splits a comma separated list and dedupes it. A blank input
// yields nil.
func SplitList(raw string, normalize Normalizer) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	out := Dedupe(strings.Split(raw, ","), normalize)
	if len(out) == 0 {
		return nil
	}
	return out
}
