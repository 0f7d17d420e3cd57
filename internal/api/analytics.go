package api

import (
	"fmt"
	"net/http"

	"logistics-dashboard/internal/analytics"
	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/parser"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	tr, ok, err := parser.ParseTimeRange(r.URL.Query().Get("range"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var snap analytics.Snapshot
	s.dash.With(dashboard.TabAnalytics, func() {
		p := s.dash.Analytics()
		if ok {
			p.SetTimeRange(tr)
		}
		snap = p.Snapshot()
	})
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAnalyticsRefresh(w http.ResponseWriter, r *http.Request) {
	var snap analytics.Snapshot
	s.dash.With(dashboard.TabAnalytics, func() {
		s.dash.Analytics().Refresh()
		snap = s.dash.Analytics().Snapshot()
	})
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAnalyticsExport(w http.ResponseWriter, r *http.Request) {
	var report export.AnalyticsReport
	s.dash.With(dashboard.TabAnalytics, func() {
		report = s.dash.Analytics().Export()
	})
	attach(w, export.Filename(export.AnalyticsPrefix, report.Timestamp))
	if err := export.WriteJSON(w, report); err != nil {
		s.log.Errorf("analytics export: %v", err)
	}
}

// attach marks the response as a JSON file download.
func attach(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
}
