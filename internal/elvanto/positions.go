package elvanto

import (
	"sort"

	"elvanto-export/internal/domain"
)

// PositionAggregate collects everyone rostered under one sub-department. The
// sub-department display name is both the key and the id: "Musicians - Bass"
// and "Musicians - Vocals" under sub-department "Musicians" are the same
// logical position. Department holds the parent department of the first
// occurrence; a sub-department name recurring under a different department
// does not overwrite it.
type PositionAggregate struct {
	ID          string
	Name        string
	Department  string
	PositionIDs map[string]struct{}
	Volunteers  map[string]struct{}
}

// SortedVolunteers returns the member set as a sorted slice. Sets stay sets
// internally; ordering is imposed only at the serialization boundary.
func (a *PositionAggregate) SortedVolunteers() []string {
	ids := make([]string, 0, len(a.Volunteers))
	for id := range a.Volunteers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExtractVolunteerPositions walks every person's department tree and
// aggregates rostered volunteers per sub-department. People without an id and
// sub-departments without a name are skipped; adding the same person twice
// under one sub-department is a no-op.
func ExtractVolunteerPositions(people []Person) map[string]*PositionAggregate {
	positions := make(map[string]*PositionAggregate)

	for _, person := range people {
		if person.ID == "" {
			continue
		}
		for _, dept := range person.Departments.Department {
			for _, sub := range dept.SubDepartments.SubDepartment {
				if sub.Name == "" {
					continue
				}
				for _, pos := range sub.Positions.Position {
					agg, ok := positions[sub.Name]
					if !ok {
						agg = &PositionAggregate{
							ID:          sub.Name,
							Name:        sub.Name,
							Department:  dept.Name,
							PositionIDs: make(map[string]struct{}),
							Volunteers:  make(map[string]struct{}),
						}
						positions[sub.Name] = agg
					}
					agg.PositionIDs[pos.ID] = struct{}{}
					agg.Volunteers[person.ID] = struct{}{}
				}
			}
		}
	}
	return positions
}

// PersonPositions returns the positions a single person is rostered for, one
// entry per position occurrence, collapsed to the sub-department name the
// same way ExtractVolunteerPositions collapses the aggregate view.
func PersonPositions(p Person) []domain.ServicePosition {
	var result []domain.ServicePosition
	for _, dept := range p.Departments.Department {
		for _, sub := range dept.SubDepartments.SubDepartment {
			if sub.Name == "" {
				continue
			}
			for range sub.Positions.Position {
				result = append(result, domain.ServicePosition{
					ID:         sub.Name,
					Name:       sub.Name,
					Department: dept.Name,
				})
			}
		}
	}
	return result
}
