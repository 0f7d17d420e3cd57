package api

import (
	"net/http"

	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/insights"
)

func (s *Server) handlePredictive(w http.ResponseWriter, r *http.Request) {
	var view insights.PredictiveView
	s.dash.With(dashboard.TabPredictive, func() {
		view = s.dash.Predictive().View()
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeliveryMetrics(w http.ResponseWriter, r *http.Request) {
	var view insights.MetricsView
	s.dash.With(dashboard.TabMetrics, func() {
		view = s.dash.Metrics().View()
	})
	respondJSON(w, http.StatusOK, view)
}
