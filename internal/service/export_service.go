package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"elvanto-export/internal/config"
	"elvanto-export/internal/domain"
	"elvanto-export/internal/elvanto"

	"go.uber.org/zap"
)

// elvantoAPI is the slice of the Elvanto client the orchestrator uses
// (interface so tests can substitute a fake).
type elvantoAPI interface {
	GroupsWithPeople(ctx context.Context) ([]elvanto.Group, error)
	GroupsWithCategories(ctx context.Context) ([]elvanto.Group, error)
	PeopleWithDepartments(ctx context.Context) ([]elvanto.Person, error)
	PeopleCategories(ctx context.Context) ([]elvanto.Category, error)
}

// ExportService is the filter/export orchestrator behind the HTTP API.
type ExportService interface {
	// PeopleCategories lists the people categories offered for exclusion.
	PeopleCategories(ctx context.Context, apiKey string) ([]CategoryOption, error)

	// GroupCategoryOptions lists the group categories in use, with a
	// synthetic "No Category" entry when at least one group has none.
	GroupCategoryOptions(ctx context.Context, apiKey string) ([]CategoryOption, error)

	// SelectionItems returns the combined groups + volunteer positions
	// selection list.
	SelectionItems(ctx context.Context, apiKey string) (*SelectionResult, error)

	// FilterPeople runs the group-leader and service-position modes and
	// merges the results into one export record per matched person.
	FilterPeople(ctx context.Context, req FilterPeopleRequest) ([]domain.ExportRecord, error)
}

type exportService struct {
	cfg       *config.Config
	logger    *zap.Logger
	clientFor func(apiKey string) elvantoAPI
}

// NewExportService creates an ExportService. A fresh client is built per
// request because the API credential is request-scoped.
func NewExportService(cfg *config.Config, logger *zap.Logger) ExportService {
	s := &exportService{cfg: cfg, logger: logger}
	s.clientFor = func(apiKey string) elvantoAPI {
		timeout := time.Duration(cfg.Elvanto.TimeoutSeconds) * time.Second
		return elvanto.NewClient(cfg.Elvanto.APIURL, apiKey, timeout, logger)
	}
	return s
}

// resolveClient picks the request key over the configured fallback.
func (s *exportService) resolveClient(apiKey string) (elvantoAPI, error) {
	key := apiKey
	if key == "" {
		key = s.cfg.Elvanto.APIKey
	}
	if key == "" {
		return nil, errors.New("Elvanto API key is required")
	}
	return s.clientFor(key), nil
}

// ============================================
// Request/Response DTOs
// ============================================

// CategoryOption is one selectable category.
type CategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SelectionItem is one entry of the combined selection list: either a group
// (Type "group", CategoryIDs set) or a volunteer position (Type "service",
// Department set).
type SelectionItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Department  string   `json:"department,omitempty"`
	Type        string   `json:"type"`
	MemberCount int      `json:"member_count"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

// SelectionResult is the /api/groups-and-services response body.
type SelectionResult struct {
	Items          []SelectionItem `json:"items"`
	Count          int             `json:"count"`
	GroupsCount    int             `json:"groups_count"`
	PositionsCount int             `json:"positions_count"`
}

// FilterPeopleRequest carries the /api/filter selection.
type FilterPeopleRequest struct {
	APIKey                   string
	GroupIDs                 []string
	ServicePositionIDs       []string
	ExcludedCategoryIDs      []string
	ExcludedGroupCategoryIDs []string
}

// ============================================
// Operations
// ============================================

func (s *exportService) PeopleCategories(ctx context.Context, apiKey string) ([]CategoryOption, error) {
	client, err := s.resolveClient(apiKey)
	if err != nil {
		return nil, err
	}

	categories, err := client.PeopleCategories(ctx)
	if err != nil {
		// Degrade to an empty list: category exclusion is optional and the
		// selection UI stays usable without it.
		s.logger.Error("Fetching people categories failed", zap.Error(err))
		return []CategoryOption{}, nil
	}

	options := make([]CategoryOption, 0, len(categories))
	for _, cat := range categories {
		options = append(options, CategoryOption{ID: cat.ID, Name: categoryName(cat.Name)})
	}
	return options, nil
}

func (s *exportService) GroupCategoryOptions(ctx context.Context, apiKey string) ([]CategoryOption, error) {
	client, err := s.resolveClient(apiKey)
	if err != nil {
		return nil, err
	}

	groups, err := client.GroupsWithCategories(ctx)
	if err != nil {
		return nil, err
	}

	namesByID := make(map[string]string)
	groupsWithoutCategory := 0
	for _, group := range groups {
		if len(group.Categories.Category) == 0 {
			groupsWithoutCategory++
			continue
		}
		for _, cat := range group.Categories.Category {
			if cat.ID != "" && cat.Name != "" {
				namesByID[cat.ID] = cat.Name
			}
		}
	}

	options := make([]CategoryOption, 0, len(namesByID)+1)
	for id, name := range namesByID {
		options = append(options, CategoryOption{ID: id, Name: name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Name < options[j].Name })

	if groupsWithoutCategory > 0 {
		options = append([]CategoryOption{{ID: elvanto.NoCategoryID, Name: "No Category"}}, options...)
	}
	return options, nil
}

func (s *exportService) SelectionItems(ctx context.Context, apiKey string) (*SelectionResult, error) {
	client, err := s.resolveClient(apiKey)
	if err != nil {
		return nil, err
	}

	// Groups and positions degrade independently: a failure in one fetch
	// empties that half of the list instead of failing the whole response.
	var groups []elvanto.Group
	withPeople, err := client.GroupsWithPeople(ctx)
	if err == nil {
		var withCategories []elvanto.Group
		withCategories, err = client.GroupsWithCategories(ctx)
		if err == nil {
			groups = elvanto.MergeGroupCategories(withPeople, withCategories)
		}
	}
	if err != nil {
		s.logger.Error("Fetching groups failed", zap.Error(err))
	}

	var positions map[string]*elvanto.PositionAggregate
	people, err := client.PeopleWithDepartments(ctx)
	if err != nil {
		s.logger.Error("Fetching people with departments failed", zap.Error(err))
	} else {
		positions = elvanto.ExtractVolunteerPositions(people)
	}

	items := make([]SelectionItem, 0, len(groups)+len(positions))
	groupsCount := 0
	for _, group := range groups {
		if group.ID == "" {
			continue
		}
		items = append(items, SelectionItem{
			ID:          group.ID,
			Name:        groupName(group.Name),
			Type:        "group",
			MemberCount: len(elvanto.Leaders(group)),
			CategoryIDs: elvanto.CategoryIDs(group),
		})
		groupsCount++
	}

	positionItems := make([]SelectionItem, 0, len(positions))
	for _, agg := range positions {
		positionItems = append(positionItems, SelectionItem{
			ID:          agg.ID,
			Name:        agg.Name,
			Department:  agg.Department,
			Type:        "service",
			MemberCount: len(agg.Volunteers),
		})
	}
	sort.Slice(positionItems, func(i, j int) bool { return positionItems[i].Name < positionItems[j].Name })
	items = append(items, positionItems...)

	return &SelectionResult{
		Items:          items,
		Count:          len(items),
		GroupsCount:    groupsCount,
		PositionsCount: len(positionItems),
	}, nil
}

func (s *exportService) FilterPeople(ctx context.Context, req FilterPeopleRequest) ([]domain.ExportRecord, error) {
	client, err := s.resolveClient(req.APIKey)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*domain.ExportRecord)

	if len(req.GroupIDs) > 0 {
		if err := s.addGroupLeaders(ctx, client, req, records); err != nil {
			s.logger.Error("Group-leader filtering failed", zap.Error(err))
		}
	}
	if len(req.ServicePositionIDs) > 0 {
		if err := s.addServiceVolunteers(ctx, client, req, records); err != nil {
			s.logger.Error("Service-position filtering failed", zap.Error(err))
		}
	}

	result := make([]domain.ExportRecord, 0, len(records))
	for _, record := range records {
		result = append(result, *record)
	}
	// Map iteration order is not stable; sort so identical inputs yield an
	// identical body.
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// addGroupLeaders merges a {group, "Leader"} entry into the record of every
// leader of every requested, non-excluded group.
func (s *exportService) addGroupLeaders(ctx context.Context, client elvantoAPI, req FilterPeopleRequest, records map[string]*domain.ExportRecord) error {
	withPeople, err := client.GroupsWithPeople(ctx)
	if err != nil {
		return err
	}
	withCategories, err := client.GroupsWithCategories(ctx)
	if err != nil {
		return err
	}
	groups := elvanto.MergeGroupCategories(withPeople, withCategories)

	requested := toSet(req.GroupIDs)
	excluded := toSet(req.ExcludedGroupCategoryIDs)

	for _, group := range groups {
		if _, ok := requested[group.ID]; !ok {
			continue
		}
		if elvanto.HasExcludedCategory(group, excluded) {
			continue
		}
		name := group.Name
		if name == "" {
			name = "Unknown Group"
		}
		for _, leader := range elvanto.Leaders(group) {
			if leader.ID == "" {
				continue
			}
			record := recordFor(records, leader.ID, leader.Firstname, leader.PreferredName, leader.Lastname, leader.Email)
			record.AddGroup(domain.GroupMembership{
				ID:   group.ID,
				Name: name,
				Role: elvanto.LeaderRole,
			})
		}
	}
	return nil
}

// addServiceVolunteers merges matched position entries into the record of
// every includable person rostered for a requested position.
func (s *exportService) addServiceVolunteers(ctx context.Context, client elvantoAPI, req FilterPeopleRequest, records map[string]*domain.ExportRecord) error {
	people, err := client.PeopleWithDepartments(ctx)
	if err != nil {
		return err
	}

	requested := toSet(req.ServicePositionIDs)
	excludedCategories := toSet(req.ExcludedCategoryIDs)

	for _, person := range people {
		if person.ID == "" {
			continue
		}
		if !elvanto.ShouldInclude(person, excludedCategories) {
			continue
		}

		var matched []domain.ServicePosition
		for _, pos := range elvanto.PersonPositions(person) {
			if _, ok := requested[pos.ID]; ok {
				matched = append(matched, pos)
			}
		}
		if len(matched) == 0 {
			continue
		}

		record := recordFor(records, person.ID, person.Firstname, person.PreferredName, person.Lastname, person.Email)
		for _, pos := range matched {
			record.AddServicePosition(pos)
		}
	}
	return nil
}

func recordFor(records map[string]*domain.ExportRecord, id, firstname, preferredName, lastname, email string) *domain.ExportRecord {
	if record, ok := records[id]; ok {
		return record
	}
	record := &domain.ExportRecord{
		ID:               id,
		Firstname:        firstname,
		PreferredName:    preferredName,
		Lastname:         lastname,
		Email:            email,
		Groups:           []domain.GroupMembership{},
		ServicePositions: []domain.ServicePosition{},
	}
	records[id] = record
	return record
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func categoryName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

func groupName(name string) string {
	if name == "" {
		return "Unnamed Group"
	}
	return name
}
