package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/fleet"
	"logistics-dashboard/internal/parser"
)

func (s *Server) handleFleet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	status, err := parser.ParseVehicleStatusFilter(q.Get("status"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	f := fleet.Filter{Search: q.Get("search"), Status: status}

	var view fleet.View
	s.dash.With(dashboard.TabFleet, func() {
		view = s.dash.Fleet().View(f)
	})
	respondWithMeta(w, view, &meta{
		Tab:     string(dashboard.TabFleet),
		Total:   len(view.Vehicles),
		QueryMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleFleetRefresh(w http.ResponseWriter, r *http.Request) {
	var view fleet.View
	s.dash.With(dashboard.TabFleet, func() {
		s.dash.Fleet().Refresh()
		view = s.dash.Fleet().View(fleet.Filter{})
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var (
		detail fleet.Detail
		err    error
	)
	s.dash.With(dashboard.TabFleet, func() {
		detail, err = s.dash.Fleet().Vehicle(id)
	})
	if err != nil {
		respondLookupError(w, err, fleet.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleScheduleMaintenance(w http.ResponseWriter, r *http.Request) {
	s.fleetAction(w, r, "maintenance", (*fleet.Panel).ScheduleMaintenance)
}

func (s *Server) handleVehicleAlert(w http.ResponseWriter, r *http.Request) {
	s.fleetAction(w, r, "alert", (*fleet.Panel).SendAlert)
}

func (s *Server) fleetAction(w http.ResponseWriter, r *http.Request, action string, fn func(*fleet.Panel, string) error) {
	id := mux.Vars(r)["id"]

	var err error
	s.dash.With(dashboard.TabFleet, func() {
		err = fn(s.dash.Fleet(), id)
	})
	if err != nil {
		respondLookupError(w, err, fleet.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"vehicle": id, "action": action})
}

// respondLookupError maps a panel's not-found sentinel to 404.
func respondLookupError(w http.ResponseWriter, err, notFound error) {
	if errors.Is(err, notFound) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, err.Error())
}
