package elvanto

import "strings"

// NoCategoryID is the synthetic category id standing in for "this group has
// no category". A missing categories field and an empty category list are
// treated the same.
const NoCategoryID = "__no_category__"

// LeaderRole is the group membership role that marks group leadership.
const LeaderRole = "Leader"

// MergeGroupCategories joins two independently fetched group collections: the
// base collection (fetched with the "people" field) gets each group's
// Categories populated from the matching group in withCategories. Groups
// absent from withCategories keep no category info. Two fetches are needed
// because the API cannot expand people and categories in one call.
func MergeGroupCategories(withPeople, withCategories []Group) []Group {
	categoriesByID := make(map[string]GroupCategories, len(withCategories))
	for _, g := range withCategories {
		if g.ID != "" {
			categoriesByID[g.ID] = g.Categories
		}
	}

	merged := make([]Group, 0, len(withPeople))
	for _, g := range withPeople {
		if categories, ok := categoriesByID[g.ID]; ok {
			g.Categories = categories
		}
		merged = append(merged, g)
	}
	return merged
}

// Leaders returns the members of a group whose role is "Leader",
// case-insensitively.
func Leaders(g Group) []GroupMember {
	var leaders []GroupMember
	for _, member := range g.People.Person {
		if strings.EqualFold(member.Position, LeaderRole) {
			leaders = append(leaders, member)
		}
	}
	return leaders
}

// CategoryIDs returns a group's category ids, or [NoCategoryID] when the
// group has none.
func CategoryIDs(g Group) []string {
	ids := make([]string, 0, len(g.Categories.Category))
	for _, cat := range g.Categories.Category {
		if cat.ID != "" {
			ids = append(ids, cat.ID)
		}
	}
	if len(ids) == 0 {
		return []string{NoCategoryID}
	}
	return ids
}

// HasExcludedCategory reports whether a group carries any excluded group
// category. When NoCategoryID is excluded, groups without any category match.
func HasExcludedCategory(g Group, excluded map[string]struct{}) bool {
	if len(excluded) == 0 {
		return false
	}
	if _, noCategoryExcluded := excluded[NoCategoryID]; noCategoryExcluded {
		if len(g.Categories.Category) == 0 {
			return true
		}
	}
	for _, cat := range g.Categories.Category {
		if _, ok := excluded[cat.ID]; ok && cat.ID != "" {
			return true
		}
	}
	return false
}
