package domain

import "strings"

// ParseScope splits a space-delimited scope string into a deduplicated
// slice, preserving first-seen order. An empty or blank string yields nil.
func ParseScope(scope string) []string {
	fields := strings.Fields(scope)
	if len(fields) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(fields))
	result := make([]string, 0, len(fields))
	for _, s := range fields {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}
	return result
}

// FormatScope joins a scope slice back into the space-delimited wire form.
func FormatScope(scopes []string) string {
	return strings.Join(scopes, " ")
}

// ScopeContains reports whether the scope set includes the given scope name.
func ScopeContains(scopes []string, name string) bool {
	for _, s := range scopes {
		if s == name {
			return true
		}
	}
	return false
}
