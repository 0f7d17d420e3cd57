package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/parser"
	"logistics-dashboard/internal/tracking"
)

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	status, err := parser.ParseDeliveryStatusFilter(q.Get("status"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	f := tracking.Filter{Search: q.Get("search"), Status: status}

	var view tracking.View
	s.dash.With(dashboard.TabTracking, func() {
		view = s.dash.Tracking().View(f)
	})
	respondWithMeta(w, view, &meta{
		Tab:     string(dashboard.TabTracking),
		Total:   len(view.Deliveries),
		QueryMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleTrackingSettings(w http.ResponseWriter, r *http.Request) {
	var req parser.TrackingSettings
	if err := parser.ForContentType(r.Header.Get("Content-Type")).Decode(r.Body, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := parser.ValidateTrackingSettings(&req); len(errs) > 0 {
		respondInvalid(w, errs)
		return
	}

	var settings tracking.Settings
	s.dash.With(dashboard.TabTracking, func() {
		p := s.dash.Tracking()
		if req.AutoRefresh != nil {
			p.SetAutoRefresh(*req.AutoRefresh)
		}
		if req.RefreshInterval != nil {
			// already validated
			interval, _ := models.ParseRefreshSeconds(*req.RefreshInterval)
			p.SetRefreshInterval(interval)
		}
		settings = p.Settings()
	})
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleTrackingRefresh(w http.ResponseWriter, r *http.Request) {
	var view tracking.View
	s.dash.With(dashboard.TabTracking, func() {
		s.dash.Tracking().ForceRefresh()
		view = s.dash.Tracking().View(tracking.Filter{})
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleOptimizeDelivery(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var (
		d   models.ActiveDelivery
		err error
	)
	s.dash.With(dashboard.TabTracking, func() {
		d, err = s.dash.Tracking().OptimizeRoute(id)
	})
	if err != nil {
		respondLookupError(w, err, tracking.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) handleMessageDriver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var err error
	s.dash.With(dashboard.TabTracking, func() {
		err = s.dash.Tracking().SendMessage(id)
	})
	if err != nil {
		respondLookupError(w, err, tracking.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"delivery": id, "action": "message"})
}
