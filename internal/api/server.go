// Package api exposes the dashboard panels over HTTP.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/eventbus"
	"logistics-dashboard/internal/logger"
)

// Options configures optional server features.
type Options struct {
	Logger logger.Logger
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string
}

// Server represents the API server
type Server struct {
	dash     *dashboard.Dashboard
	bus      *eventbus.Bus
	log      logger.Logger
	opts     Options
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer creates a new API server
func NewServer(dash *dashboard.Dashboard, bus *eventbus.Bus, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NopLogger{}
	}
	s := &Server{
		dash:   dash,
		bus:    bus,
		log:    opts.Logger,
		opts:   opts,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.opts.Gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	v1 := s.router.PathPrefix("/api/v1").Subrouter()

	// Navigation
	v1.HandleFunc("/tabs", s.handleTabs).Methods("GET")
	v1.HandleFunc("/tabs/{tab}", s.handleOpenTab).Methods("POST")

	// Analytics
	v1.HandleFunc("/analytics", s.handleAnalytics).Methods("GET")
	v1.HandleFunc("/analytics/refresh", s.handleAnalyticsRefresh).Methods("POST")
	v1.HandleFunc("/analytics/export", s.handleAnalyticsExport).Methods("GET")

	// Fleet
	v1.HandleFunc("/fleet", s.handleFleet).Methods("GET")
	v1.HandleFunc("/fleet/refresh", s.handleFleetRefresh).Methods("POST")
	v1.HandleFunc("/fleet/vehicles/{id}", s.handleVehicle).Methods("GET")
	v1.HandleFunc("/fleet/vehicles/{id}/maintenance", s.handleScheduleMaintenance).Methods("POST")
	v1.HandleFunc("/fleet/vehicles/{id}/alert", s.handleVehicleAlert).Methods("POST")

	// Tracking
	v1.HandleFunc("/tracking", s.handleTracking).Methods("GET")
	v1.HandleFunc("/tracking/settings", s.handleTrackingSettings).Methods("PUT")
	v1.HandleFunc("/tracking/refresh", s.handleTrackingRefresh).Methods("POST")
	v1.HandleFunc("/tracking/deliveries/{id}/optimize", s.handleOptimizeDelivery).Methods("POST")
	v1.HandleFunc("/tracking/deliveries/{id}/message", s.handleMessageDriver).Methods("POST")

	// Routes
	v1.HandleFunc("/routes", s.handleRoutes).Methods("GET")
	v1.HandleFunc("/routes/stops", s.handleAddStop).Methods("POST")
	v1.HandleFunc("/routes/stops/{id}", s.handleRemoveStop).Methods("DELETE")
	v1.HandleFunc("/routes/stops/{id}/toggle", s.handleToggleStop).Methods("POST")
	v1.HandleFunc("/routes/optimize", s.handleOptimizeRoute).Methods("POST")
	v1.HandleFunc("/routes/priority", s.handleBulkPriority).Methods("POST")
	v1.HandleFunc("/routes/incident", s.handleIncident).Methods("POST")
	v1.HandleFunc("/routes/settings", s.handleRouteSettings).Methods("PUT")
	v1.HandleFunc("/routes/refresh", s.handleRoutesRefresh).Methods("POST")
	v1.HandleFunc("/routes/export", s.handleRoutesExport).Methods("GET")

	// Insights
	v1.HandleFunc("/predictive", s.handlePredictive).Methods("GET")
	v1.HandleFunc("/delivery-metrics", s.handleDeliveryMetrics).Methods("GET")

	// Live tick stream
	v1.HandleFunc("/stream", s.handleStream).Methods("GET")

	// Add middleware
	s.router.Use(requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(jsonMiddleware)
}

// Router returns the configured router
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the router wrapped with CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	cors := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	}
	if len(s.opts.AllowedOrigins) > 0 {
		cors = append(cors, handlers.AllowedOrigins(s.opts.AllowedOrigins))
	}
	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(
		handlers.CORS(cors...)(s.router),
	)
}

// Middleware

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the stream endpoint upgrade through the logging middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		s.log.Infow("request", map[string]any{
			"method":     r.Method,
			"path":       r.URL.RequestURI(),
			"status":     sw.status,
			"bytes":      sw.bytes,
			"dur_ms":     time.Since(start).Milliseconds(),
			"request_id": RequestID(r.Context()),
		})
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Response helpers
type apiResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
	Meta    *meta    `json:"meta,omitempty"`
}

type meta struct {
	Tab     string `json:"tab,omitempty"`
	Total   int    `json:"total"`
	QueryMs int64  `json:"query_ms"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: message})
}

func respondInvalid(w http.ResponseWriter, details []string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(apiResponse{Success: false, Error: "validation failed", Details: details})
}

func respondWithMeta(w http.ResponseWriter, data any, m *meta) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data, Meta: m})
}

// Handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"tab":    string(s.dash.Active()),
	})
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"tabs":   dashboard.Tabs,
		"active": s.dash.Active(),
	})
}

func (s *Server) handleOpenTab(w http.ResponseWriter, r *http.Request) {
	tab, err := dashboard.ParseTab(mux.Vars(r)["tab"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.dash.Open(tab); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"active": tab})
}
