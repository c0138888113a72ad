package domain

import (
	"sort"
	"strings"
)

// NormalizeRoleSet canonicalizes a role collection: trimmed, empties dropped,
// deduplicated, sorted. All role sets are normalized at the write boundary so
// membership never has to guess at storage encodings.
func NormalizeRoleSet(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// RoleSetContains is the single membership predicate over a canonical role set.
func RoleSetContains(set []string, role string) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
