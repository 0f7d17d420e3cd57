package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Sink receives dashboard activity. Implementations must be safe for
// concurrent use since every panel task reports from its own goroutine.
type Sink interface {
	PanelMounted(tab string)
	Tick(tab, task string)
	DeliveriesCompleted(n int)
	ActiveDeliveries(n int)
	FleetStatus(counts map[string]int)
	RouteOptimized()
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) PanelMounted(string)        {}
func (NopSink) Tick(string, string)        {}
func (NopSink) DeliveriesCompleted(int)    {}
func (NopSink) ActiveDeliveries(int)       {}
func (NopSink) FleetStatus(map[string]int) {}
func (NopSink) RouteOptimized()            {}

// PromSink records dashboard activity in Prometheus metrics.
type PromSink struct {
	mounts    *prometheus.CounterVec
	ticks     *prometheus.CounterVec
	completed prometheus.Counter
	active    prometheus.Gauge
	fleet     *prometheus.GaugeVec
	optimized prometheus.Counter
}

// NewPromSink registers dashboard metrics on reg. A nil registerer defaults
// to the global Prometheus registerer.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		mounts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_panel_mounts_total",
			Help: "Number of times a dashboard panel was mounted",
		}, []string{"tab"}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_ticks_total",
			Help: "Number of simulated refresh ticks executed",
		}, []string{"tab", "task"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_deliveries_completed_total",
			Help: "Simulated delivery runs that reached full progress",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_active_deliveries",
			Help: "Delivery runs currently in progress",
		}),
		fleet: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dashboard_fleet_vehicles",
			Help: "Fleet vehicles by status",
		}, []string{"status"}),
		optimized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_route_optimizations_total",
			Help: "Completed route optimization runs",
		}),
	}

	var err error
	if s.mounts, err = register(reg, s.mounts); err != nil {
		return nil, err
	}
	if s.ticks, err = register(reg, s.ticks); err != nil {
		return nil, err
	}
	if s.completed, err = register(reg, s.completed); err != nil {
		return nil, err
	}
	if s.active, err = register(reg, s.active); err != nil {
		return nil, err
	}
	if s.fleet, err = register(reg, s.fleet); err != nil {
		return nil, err
	}
	if s.optimized, err = register(reg, s.optimized); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the existing collector when an identical
// one was registered before.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (s *PromSink) PanelMounted(tab string) {
	s.mounts.WithLabelValues(tab).Inc()
}

func (s *PromSink) Tick(tab, task string) {
	s.ticks.WithLabelValues(tab, task).Inc()
}

func (s *PromSink) DeliveriesCompleted(n int) {
	if n > 0 {
		s.completed.Add(float64(n))
	}
}

func (s *PromSink) ActiveDeliveries(n int) {
	s.active.Set(float64(n))
}

// FleetStatus replaces the per-status vehicle gauges.
func (s *PromSink) FleetStatus(counts map[string]int) {
	s.fleet.Reset()
	for status, n := range counts {
		s.fleet.WithLabelValues(status).Set(float64(n))
	}
}

func (s *PromSink) RouteOptimized() {
	s.optimized.Inc()
}
