package httpapi

import (
	"net/http"

	"elvanto-export/internal/service"

	"go.uber.org/zap"
)

// PeopleHandler serves the category, selection and filter endpoints.
type PeopleHandler struct {
	svc    service.ExportService
	logger *zap.Logger
}

func NewPeopleHandler(svc service.ExportService, logger *zap.Logger) *PeopleHandler {
	return &PeopleHandler{svc: svc, logger: logger}
}

type categoriesRequest struct {
	APIKey string `json:"api_key"`
}

type groupsAndServicesRequest struct {
	APIKey string `json:"api_key"`
	// Category exclusion for the selection list happens client-side; the ids
	// are accepted here for compatibility but not applied.
	ExcludedGroupCategoryIDs []string `json:"excluded_group_category_ids"`
}

type filterRequest struct {
	APIKey                   string   `json:"api_key"`
	GroupIDs                 []string `json:"group_ids"`
	ServicePositionIDs       []string `json:"service_position_ids"`
	ExcludedCategoryIDs      []string `json:"excluded_category_ids"`
	ExcludedGroupCategoryIDs []string `json:"excluded_group_category_ids"`
}

// GetCategories lists people categories for exclusion selection.
// POST /api/categories
func (h *PeopleHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categories, err := h.svc.PeopleCategories(r.Context(), req.APIKey)
	if err != nil {
		h.logger.Error("GetCategories failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetGroupCategories lists group categories extracted from groups, plus a
// "No Category" option when applicable.
// POST /api/group-categories
func (h *PeopleHandler) GetGroupCategories(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categories, err := h.svc.GroupCategoryOptions(r.Context(), req.APIKey)
	if err != nil {
		h.logger.Error("GetGroupCategories failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetGroupsAndServices returns the combined groups + volunteer positions
// selection list.
// POST /api/groups-and-services
func (h *PeopleHandler) GetGroupsAndServices(w http.ResponseWriter, r *http.Request) {
	var req groupsAndServicesRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SelectionItems(r.Context(), req.APIKey)
	if err != nil {
		h.logger.Error("GetGroupsAndServices failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// FilterPeople filters people by selected groups and volunteer positions.
// POST /api/filter
func (h *PeopleHandler) FilterPeople(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	people, err := h.svc.FilterPeople(r.Context(), service.FilterPeopleRequest{
		APIKey:                   req.APIKey,
		GroupIDs:                 req.GroupIDs,
		ServicePositionIDs:       req.ServicePositionIDs,
		ExcludedCategoryIDs:      req.ExcludedCategoryIDs,
		ExcludedGroupCategoryIDs: req.ExcludedGroupCategoryIDs,
	})
	if err != nil {
		h.logger.Error("FilterPeople failed",
			zap.Strings("group_ids", req.GroupIDs),
			zap.Strings("service_position_ids", req.ServicePositionIDs),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"people": people,
		"count":  len(people),
	})
}
