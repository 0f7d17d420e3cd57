package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics-dashboard/internal/config"
	"logistics-dashboard/internal/dashboard"
	"logistics-dashboard/internal/eventbus"
	"logistics-dashboard/internal/metrics"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
	Meta    *meta           `json:"meta"`
}

func newTestServer(t *testing.T, bus *eventbus.Bus, opts Options) (*Server, *dashboard.Dashboard) {
	t.Helper()
	sim := config.SimulationConfig{Seed: 7}
	dash := dashboard.New(dashboard.Options{Simulation: sim})
	ctx, cancel := context.WithCancel(context.Background())
	dash.Start(ctx)
	t.Cleanup(func() {
		dash.Close()
		cancel()
	})
	return NewServer(dash, bus, opts), dash
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Header().Get("Content-Disposition") == "" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestHealthAndRequestID(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})

	rec, env := do(t, s.Handler(), "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestTabs(t *testing.T) {
	s, dash := newTestServer(t, nil, Options{})
	h := s.Handler()

	_, env := do(t, h, "GET", "/api/v1/tabs", "", "")
	var tabs struct {
		Tabs   []string `json:"tabs"`
		Active string   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tabs))
	assert.Len(t, tabs.Tabs, 6)
	assert.Equal(t, "analytics", tabs.Active)

	rec, _ := do(t, h, "POST", "/api/v1/tabs/fleet", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboard.TabFleet, dash.Active())

	rec, env = do(t, h, "POST", "/api/v1/tabs/settings", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestAnalytics(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, env := do(t, h, "GET", "/api/v1/analytics?range=30d", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap struct {
		TimeRange   string            `json:"timeRange"`
		Performance []json.RawMessage `json:"performance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "30d", snap.TimeRange)
	assert.Len(t, snap.Performance, 30)

	rec, env = do(t, h, "GET", "/api/v1/analytics?range=1y", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "time range")

	rec, _ = do(t, h, "GET", "/api/v1/analytics/export", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"analytics-report-")
	var report map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	for _, key := range []string{"performance", "regions", "kpis", "id", "timestamp"} {
		assert.Contains(t, report, key)
	}
}

func TestFleet(t *testing.T) {
	s, dash := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, env := do(t, h, "GET", "/api/v1/fleet?status=all", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 15, env.Meta.Total)
	assert.Equal(t, "fleet", env.Meta.Tab)
	assert.Equal(t, dashboard.TabFleet, dash.Active())

	rec, _ = do(t, h, "GET", "/api/v1/fleet?status=Parked", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, "GET", "/api/v1/fleet/vehicles/VEH001", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"id":"VEH001"`)

	rec, _ = do(t, h, "GET", "/api/v1/fleet/vehicles/VEH999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, "POST", "/api/v1/fleet/vehicles/VEH002/maintenance", "", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec, _ = do(t, h, "POST", "/api/v1/fleet/vehicles/VEH999/alert", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackingSettings(t *testing.T) {
	s, dash := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, env := do(t, h, "PUT", "/api/v1/tracking/settings", "application/json", `{"refreshInterval":10}`)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, 10, dash.Tracking().Settings().RefreshInterval)
	assert.True(t, dash.Tracking().Settings().AutoRefresh)

	rec, _ = do(t, h, "PUT", "/api/v1/tracking/settings", "application/x-www-form-urlencoded", "autoRefresh=false")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, dash.Tracking().Settings().AutoRefresh)

	rec, env = do(t, h, "PUT", "/api/v1/tracking/settings", "application/json", `{"refreshInterval":7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Details)

	rec, _ = do(t, h, "PUT", "/api/v1/tracking/settings", "application/json", `{"refreshInterval":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrackingView(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, env := do(t, h, "GET", "/api/v1/tracking?status=Delayed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Deliveries []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"deliveries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	for _, d := range view.Deliveries {
		assert.Equal(t, "Delayed", d.Status)
	}

	rec, _ = do(t, h, "GET", "/api/v1/tracking?status=Lost", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, "POST", "/api/v1/tracking/deliveries/nope/optimize", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, h, "POST", "/api/v1/tracking/deliveries/nope/message", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouteStops(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, env := do(t, h, "POST", "/api/v1/routes/stops", "application/json", `{"address":"  12 Harbor Way "}`)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	var added struct {
		Added bool `json:"added"`
		Stop  struct {
			ID      int    `json:"id"`
			Address string `json:"address"`
		} `json:"stop"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &added))
	assert.True(t, added.Added)
	assert.Equal(t, "12 Harbor Way", added.Stop.Address)

	rec, env = do(t, h, "POST", "/api/v1/routes/stops", "application/json", `{"address":"   "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"added":false}`, string(env.Data))

	rec, _ = do(t, h, "POST", "/api/v1/routes/stops", "application/json", `{"street":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, "POST", "/api/v1/routes/stops/"+strconv.Itoa(added.Stop.ID)+"/toggle", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, "DELETE", "/api/v1/routes/stops/"+strconv.Itoa(added.Stop.ID), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, h, "DELETE", "/api/v1/routes/stops/"+strconv.Itoa(added.Stop.ID), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, h, "DELETE", "/api/v1/routes/stops/first", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteControls(t *testing.T) {
	s, dash := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, _ := do(t, h, "GET", "/api/v1/routes?priority=Urgent", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, h, "GET", "/api/v1/routes?sort=distance", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, "GET", "/api/v1/routes?priority=High&sort=packages", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Stops []struct {
			Priority string `json:"priority"`
		} `json:"stops"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	for _, st := range view.Stops {
		assert.Equal(t, "High", st.Priority)
	}

	rec, env = do(t, h, "POST", "/api/v1/routes/priority", "application/json", `{"priority":"Urgent"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, env.Details)

	rec, _ = do(t, h, "POST", "/api/v1/routes/priority", "application/json", `{"priority":"Low"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, "PUT", "/api/v1/routes/settings", "application/json", `{"autoOptimize":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, dash.Routes().Settings().AutoOptimize)

	rec, _ = do(t, h, "PUT", "/api/v1/routes/settings", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, h, "POST", "/api/v1/routes/optimize", "", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"started":true}`, string(env.Data))

	rec, env = do(t, h, "POST", "/api/v1/routes/incident", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "incident")

	rec, _ = do(t, h, "GET", "/api/v1/routes/export", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "route-optimization-")
}

func TestInsights(t *testing.T) {
	s, dash := newTestServer(t, nil, Options{})
	h := s.Handler()

	rec, _ := do(t, h, "GET", "/api/v1/predictive", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboard.TabPredictive, dash.Active())

	rec, _ = do(t, h, "GET", "/api/v1/delivery-metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dashboard.TabMetrics, dash.Active())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSink(reg)
	require.NoError(t, err)

	dash := dashboard.New(dashboard.Options{Simulation: config.SimulationConfig{Seed: 3}, Sink: sink})
	dash.Start(context.Background())
	t.Cleanup(dash.Close)
	s := NewServer(dash, nil, Options{Gatherer: reg})

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dashboard_panel_mounts_total{tab="analytics"} 1`)
}

func TestStream(t *testing.T) {
	bus := eventbus.New(4)
	t.Cleanup(bus.Close)
	s, _ := newTestServer(t, bus, Options{})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream?tab=fleet"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return bus.Len() == 1 }, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	bus.Publish(eventbus.Event{Tab: "analytics", Task: "regenerate", At: at})
	bus.Publish(eventbus.Event{Tab: "fleet", Task: "drift", At: at})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got eventbus.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, eventbus.Event{Tab: "fleet", Task: "drift", At: at}, got)
}

func TestStreamDisabled(t *testing.T) {
	s, _ := newTestServer(t, nil, Options{})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/v1/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), "event stream disabled")
}
