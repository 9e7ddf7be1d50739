// Package matcher implements the simple glob-style name matcher used to
// apply ignore-pattern lists throughout ndmgr (spec.md §4.2). Patterns
// are matched against a file's base name only, never a full path, and
// support at most one wildcard: a bare "*", a prefix match ("foo*"), a
// suffix match ("*foo"), or a single middle wildcard ("foo*bar"). There
// is no character-class or "?" semantics.
package matcher

import "strings"

// Matches reports whether name satisfies pattern.
func Matches(name, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == name {
		return true
	}

	star := strings.IndexByte(pattern, '*')
	if star == -1 {
		return false
	}

	prefix := pattern[:star]
	suffix := pattern[star+1:]

	if strings.Contains(suffix, "*") {
		// More than one wildcard: not a supported pattern shape.
		return false
	}

	switch {
	case prefix == "" && suffix == "":
		return true // pattern was just "*", handled above, kept for safety
	case prefix == "":
		return strings.HasSuffix(name, suffix)
	case suffix == "":
		return strings.HasPrefix(name, prefix)
	default:
		return strings.HasPrefix(name, prefix) &&
			strings.HasSuffix(name, suffix) &&
			len(name) >= len(prefix)+len(suffix)
	}
}

// MatchesAny reports whether name matches any of the given patterns.
func MatchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(name, p) {
			return true
		}
	}
	return false
}
