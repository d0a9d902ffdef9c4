package elvanto

import "strings"

// ShouldInclude reports whether a person passes the export inclusion rules:
// not archived, not in an excluded people category, and an adult. The checks
// short-circuit in that order. Pure: identical inputs always produce the same
// answer.
func ShouldInclude(p Person, excludedCategoryIDs map[string]struct{}) bool {
	if bool(p.Archived) {
		return false
	}
	if _, excluded := excludedCategoryIDs[p.CategoryID]; excluded {
		return false
	}
	return IsAdult(p)
}

// IsAdult applies the demographic rule:
//   - no demographic tags at all → assume adult, include
//   - tagged "Adults" → include, even if also tagged "Children"
//   - tagged "Children" without "Adults" → exclude
//   - any other tags ("Youth", "Families", ...) → include
//
// Tag matching is case-insensitive.
func IsAdult(p Person) bool {
	tags := p.Demographics.Demographic
	if len(tags) == 0 {
		return true
	}
	hasChildren := false
	for _, tag := range tags {
		switch strings.ToLower(tag.Name) {
		case "adults":
			return true
		case "children":
			hasChildren = true
		}
	}
	return !hasChildren
}
