package http

import (
	"encoding/json"
	"net/http"

	"hrtool/internal/charts"
	"hrtool/internal/log"
)

type visualizationsPage struct {
	Tab       string
	Empty     bool
	Dashboard charts.Dashboard
}

// handleVisualizations renders KPIs server side; the charts are drawn in the
// browser from the embedded dashboard JSON and refreshed via /api/dashboard.
func (s *Server) handleVisualizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := s.svc.Dashboard(ctx, ParseFilter(r.URL.Query()))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to build dashboard", log.FieldError, err)
		InternalServerError("Could not load the dataset").Write(w)
		return
	}
	s.render(w, r, "visualizations.html", visualizationsPage{
		Tab:       "visualizations",
		Empty:     d.Total == 0,
		Dashboard: d,
	})
}

func (s *Server) handleDashboardAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := s.svc.Dashboard(ctx, ParseFilter(r.URL.Query()))
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to build dashboard", log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load the dataset"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
