package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (no third-party routing
// dependency needed for this surface).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterPeopleRoutes registers the selection/filter API.
func (r *Router) RegisterPeopleRoutes(p *PeopleHandler) {
	r.Handle("/api/categories", postOnly(p.GetCategories))
	r.Handle("/api/group-categories", postOnly(p.GetGroupCategories))
	r.Handle("/api/groups-and-services", postOnly(p.GetGroupsAndServices))
	r.Handle("/api/filter", postOnly(p.FilterPeople))
}

// RegisterExportRoutes registers the spreadsheet export.
func (r *Router) RegisterExportRoutes(e *ExportHandler) {
	r.Handle("/api/export/xlsx", postOnly(e.ExportXLSX))
}

// RegisterHealthRoutes registers the liveness endpoints.
func (r *Router) RegisterHealthRoutes() {
	r.Handle("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Elvanto Export API is running"})
	})
	health := func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
	r.Handle("/health", health)
	r.Handle("/api/health", health)
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
