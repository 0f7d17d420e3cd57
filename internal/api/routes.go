package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/parser"
	"logistics-dashboard/internal/routes"
)

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	priority, err := parser.ParsePriorityFilter(q.Get("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	key, err := parser.ParseSortKey(q.Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var view routes.View
	s.dash.With(dashboard.TabOptimization, func() {
		view = s.dash.Routes().View(priority, key)
	})
	respondWithMeta(w, view, &meta{
		Tab:     string(dashboard.TabOptimization),
		Total:   len(view.Stops),
		QueryMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleAddStop(w http.ResponseWriter, r *http.Request) {
	var req parser.StopRequest
	if err := parser.ForContentType(r.Header.Get("Content-Type")).Decode(r.Body, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		stop  models.DeliveryPoint
		added bool
	)
	s.dash.With(dashboard.TabOptimization, func() {
		stop, added = s.dash.Routes().AddStop(req.Address)
	})
	if !added {
		// Blank addresses are ignored rather than rejected.
		respondJSON(w, http.StatusOK, map[string]any{"added": false})
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"added": true, "stop": stop})
}

func (s *Server) handleRemoveStop(w http.ResponseWriter, r *http.Request) {
	id, err := parser.ParseStopID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.dash.With(dashboard.TabOptimization, func() {
		err = s.dash.Routes().RemoveStop(id)
	})
	if err != nil {
		respondLookupError(w, err, routes.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": id})
}

func (s *Server) handleToggleStop(w http.ResponseWriter, r *http.Request) {
	id, err := parser.ParseStopID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var stop models.DeliveryPoint
	s.dash.With(dashboard.TabOptimization, func() {
		stop, err = s.dash.Routes().ToggleComplete(id)
	})
	if err != nil {
		respondLookupError(w, err, routes.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, stop)
}

func (s *Server) handleOptimizeRoute(w http.ResponseWriter, r *http.Request) {
	var started bool
	s.dash.With(dashboard.TabOptimization, func() {
		started = s.dash.Routes().Optimize()
	})
	status := http.StatusAccepted
	if !started {
		status = http.StatusOK
	}
	respondJSON(w, status, map[string]bool{"started": started})
}

func (s *Server) handleBulkPriority(w http.ResponseWriter, r *http.Request) {
	var req parser.PriorityRequest
	if err := parser.ForContentType(r.Header.Get("Content-Type")).Decode(r.Body, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := parser.ValidatePriorityRequest(&req); len(errs) > 0 {
		respondInvalid(w, errs)
		return
	}

	var ids []int
	s.dash.With(dashboard.TabOptimization, func() {
		ids = s.dash.Routes().BulkUpdatePriority(req.Priority)
	})
	if ids == nil {
		ids = []int{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"priority": req.Priority, "updated": ids})
}

func (s *Server) handleIncident(w http.ResponseWriter, r *http.Request) {
	var incident string
	s.dash.With(dashboard.TabOptimization, func() {
		incident = s.dash.Routes().SimulateIncident()
	})
	respondJSON(w, http.StatusOK, map[string]string{"incident": incident})
}

func (s *Server) handleRouteSettings(w http.ResponseWriter, r *http.Request) {
	var req parser.RouteSettings
	if err := parser.ForContentType(r.Header.Get("Content-Type")).Decode(r.Body, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := parser.ValidateRouteSettings(&req); len(errs) > 0 {
		respondInvalid(w, errs)
		return
	}

	var settings routes.Settings
	s.dash.With(dashboard.TabOptimization, func() {
		p := s.dash.Routes()
		if req.AutoOptimize != nil {
			p.SetAutoOptimize(*req.AutoOptimize)
		}
		if req.RealTimeUpdates != nil {
			p.SetRealTimeUpdates(*req.RealTimeUpdates)
		}
		settings = p.Settings()
	})
	respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleRoutesRefresh(w http.ResponseWriter, r *http.Request) {
	var view routes.View
	s.dash.With(dashboard.TabOptimization, func() {
		s.dash.Routes().Refresh()
		view = s.dash.Routes().View(models.Any[models.Priority](), models.SortByTime)
	})
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleRoutesExport(w http.ResponseWriter, r *http.Request) {
	var report export.RouteReport
	s.dash.With(dashboard.TabOptimization, func() {
		report = s.dash.Routes().Export()
	})
	attach(w, export.Filename(export.RoutesPrefix, report.Timestamp))
	if err := export.WriteJSON(w, report); err != nil {
		s.log.Errorf("route export: %v", err)
	}
}
