package domain

// ExportRecord is one matched person in the filter result: identity plus the
// group-leadership and service-position entries that matched. Records are
// built incrementally, one per unique person id; Groups and ServicePositions
// are deduplicated by id within the record.
type ExportRecord struct {
	ID               string            `json:"id"`
	Firstname        string            `json:"firstname"`
	PreferredName    string            `json:"preferred_name"`
	Lastname         string            `json:"lastname"`
	Email            string            `json:"email"`
	Groups           []GroupMembership `json:"groups"`
	ServicePositions []ServicePosition `json:"service_positions"`
}

// AddGroup appends a group entry unless one with the same id is present.
func (r *ExportRecord) AddGroup(g GroupMembership) {
	for _, existing := range r.Groups {
		if existing.ID == g.ID {
			return
		}
	}
	r.Groups = append(r.Groups, g)
}

// AddServicePosition appends a position entry unless one with the same id is
// present.
func (r *ExportRecord) AddServicePosition(p ServicePosition) {
	for _, existing := range r.ServicePositions {
		if existing.ID == p.ID {
			return
		}
	}
	r.ServicePositions = append(r.ServicePositions, p)
}

// GroupMembership is a group entry on an export record.
type GroupMembership struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ServicePosition is a volunteer position entry on an export record. ID and
// Name are both the sub-department display name: all positions under one
// sub-department collapse into a single logical position.
type ServicePosition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}
