package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"elvanto-export/internal/domain"
	"elvanto-export/internal/service"

	"go.uber.org/zap"
)

// fakeExportService returns canned orchestrator results.
type fakeExportService struct {
	categories []service.CategoryOption
	selection  *service.SelectionResult
	people     []domain.ExportRecord
	err        error

	lastFilter service.FilterPeopleRequest
}

func (f *fakeExportService) PeopleCategories(ctx context.Context, apiKey string) ([]service.CategoryOption, error) {
	return f.categories, f.err
}

func (f *fakeExportService) GroupCategoryOptions(ctx context.Context, apiKey string) ([]service.CategoryOption, error) {
	return f.categories, f.err
}

func (f *fakeExportService) SelectionItems(ctx context.Context, apiKey string) (*service.SelectionResult, error) {
	return f.selection, f.err
}

func (f *fakeExportService) FilterPeople(ctx context.Context, req service.FilterPeopleRequest) ([]domain.ExportRecord, error) {
	f.lastFilter = req
	return f.people, f.err
}

func newTestRouter(svc service.ExportService) *Router {
	logger := zap.NewNop()
	router := NewRouter(logger)
	router.RegisterHealthRoutes()
	router.RegisterPeopleRoutes(NewPeopleHandler(svc, logger))
	router.RegisterExportRoutes(NewExportHandler(logger))
	return router
}

func TestGetCategories(t *testing.T) {
	svc := &fakeExportService{categories: []service.CategoryOption{{ID: "c1", Name: "Members"}}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"api_key":"k"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"categories"`) || !strings.Contains(body, `"id":"c1"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestGetCategoriesMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&fakeExportService{})

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestGetGroupsAndServices(t *testing.T) {
	svc := &fakeExportService{selection: &service.SelectionResult{
		Items: []service.SelectionItem{
			{ID: "G1", Name: "Welcome Team", Type: "group", MemberCount: 1, CategoryIDs: []string{"__no_category__"}},
			{ID: "Ushers", Name: "Ushers", Department: "Sunday AM", Type: "service", MemberCount: 2},
		},
		Count:          2,
		GroupsCount:    1,
		PositionsCount: 1,
	}}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/groups-and-services", strings.NewReader(`{"api_key":"k"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `"groups_count":1`) || !strings.Contains(body, `"positions_count":1`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"type":"group"`) || !strings.Contains(body, `"type":"service"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	// The group item must not carry a department, the position no category_ids.
	if !strings.Contains(body, `"category_ids":["__no_category__"]`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestFilterPeopleEndpoint(t *testing.T) {
	svc := &fakeExportService{people: []domain.ExportRecord{{
		ID:               "P1",
		Firstname:        "Ada",
		Lastname:         "Lovelace",
		Groups:           []domain.GroupMembership{{ID: "G1", Name: "Welcome Team", Role: "Leader"}},
		ServicePositions: []domain.ServicePosition{},
	}}}
	router := newTestRouter(svc)

	payload := `{"api_key":"k","group_ids":["G1"],"excluded_group_category_ids":["gc1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `"count":1`) || !strings.Contains(body, `"role":"Leader"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	// Empty lists serialize as [], not null.
	if !strings.Contains(body, `"service_positions":[]`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if len(svc.lastFilter.GroupIDs) != 1 || svc.lastFilter.GroupIDs[0] != "G1" {
		t.Fatalf("filter request not forwarded: %+v", svc.lastFilter)
	}
	if len(svc.lastFilter.ExcludedGroupCategoryIDs) != 1 {
		t.Fatalf("filter request not forwarded: %+v", svc.lastFilter)
	}
}

func TestFilterPeopleError(t *testing.T) {
	svc := &fakeExportService{err: errors.New("Elvanto API key is required")}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"detail":"Elvanto API key is required"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFilterPeopleBadBody(t *testing.T) {
	router := newTestRouter(&fakeExportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/filter", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestExportXLSXEndpoint(t *testing.T) {
	router := newTestRouter(&fakeExportService{})

	payload := `{"people":[{"id":"P1","firstname":"Ada","lastname":"Lovelace","email":"ada@example.com",
		"groups":[{"id":"G1","name":"Welcome Team","role":"Leader"}],
		"service_positions":[{"id":"Ushers","name":"Ushers","department":"Sunday AM"}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/export/xlsx", strings.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != xlsxContentType {
		t.Fatalf("unexpected content type: %s", got)
	}
	if got := w.Header().Get("Content-Disposition"); got != "attachment; filename=elvanto_export.xlsx" {
		t.Fatalf("unexpected disposition: %s", got)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(&fakeExportService{})

	for _, path := range []string{"/health", "/api/health"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
			t.Fatalf("%s: got %d %s", path, w.Code, w.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), "Elvanto Export API is running") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS("development", newTestRouter(&fakeExportService{}))

	req := httptest.NewRequest(http.MethodOptions, "/api/filter", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected origin header: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("unexpected credentials header: %q", got)
	}
}

func TestCORSProduction(t *testing.T) {
	handler := CORS("production", newTestRouter(&fakeExportService{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://frontend.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected origin header: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Fatalf("credentials must not be allowed with wildcard origin, got %q", got)
	}
}
