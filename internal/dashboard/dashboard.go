// Package dashboard is the tab container. Exactly one panel is mounted at a
// time; switching tabs unmounts the previous panel, stopping its tasks and
// discarding its state.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logistics-dashboard/internal/analytics"
	"logistics-dashboard/internal/config"
	"logistics-dashboard/internal/eventbus"
	"logistics-dashboard/internal/fleet"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/insights"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/metrics"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/routes"
	"logistics-dashboard/internal/simulation"
	"logistics-dashboard/internal/tracking"
)

// Tab identifies a dashboard panel.
type Tab string

const (
	TabAnalytics    Tab = "analytics"
	TabOptimization Tab = "optimization"
	TabTracking     Tab = "tracking"
	TabFleet        Tab = "fleet"
	TabPredictive   Tab = "predictive"
	TabMetrics      Tab = "metrics"
)

// DefaultTab is mounted when the dashboard starts.
const DefaultTab = TabAnalytics

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabAnalytics, TabOptimization, TabTracking, TabFleet, TabPredictive, TabMetrics}

// ParseTab converts a tab name into a Tab.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab: %q", s)
}

// Panel is a mountable dashboard panel.
type Panel interface {
	Mount(ctx context.Context, observe simulation.Observer)
	Unmount()
}

// Options wires the dashboard's collaborators. Nil fields get no-op
// implementations.
type Options struct {
	Simulation config.SimulationConfig
	NewLogger  func(component string) logger.Logger
	Sink       metrics.Sink
	Bus        eventbus.Publisher
}

// Dashboard owns every panel and the navigation state.
type Dashboard struct {
	mu     sync.Mutex
	ctx    context.Context
	log    logger.Logger
	sink   metrics.Sink
	bus    eventbus.Publisher
	active Tab

	analytics  *analytics.Panel
	fleet      *fleet.Panel
	tracking   *tracking.Panel
	routes     *routes.Panel
	predictive *insights.Predictive
	metrics    *insights.Metrics
	panels     map[Tab]Panel
}

// New builds every panel from opts. Nothing is mounted until Start.
func New(opts Options) *Dashboard {
	newLogger := opts.NewLogger
	if newLogger == nil {
		newLogger = func(string) logger.Logger { return logger.NopLogger{} }
	}
	sink := opts.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}
	bus := opts.Bus
	if bus == nil {
		bus = nopPublisher{}
	}
	cfg := opts.Simulation
	cfg.SetDefaults()

	d := &Dashboard{
		ctx:  context.Background(),
		log:  newLogger("dashboard"),
		sink: sink,
		bus:  bus,
		analytics: analytics.New(newGenerator(cfg.Seed, 1), cfg.AnalyticsInterval,
			newLogger("analytics")),
		fleet: fleet.New(newGenerator(cfg.Seed, 2), cfg.FleetSize, cfg.FleetInterval,
			newLogger("fleet"), sink),
		tracking: tracking.New(newGenerator(cfg.Seed, 3), tracking.Config{
			RefreshInterval: models.RefreshInterval(cfg.TrackingInterval),
			AlertInterval:   cfg.AlertInterval,
			WeatherInterval: cfg.WeatherInterval,
			RecentCap:       cfg.RecentCap,
		}, newLogger("tracking"), sink),
		routes: routes.New(newGenerator(cfg.Seed, 4), routes.Config{
			TrafficInterval:      cfg.TrafficInterval,
			StatusInterval:       cfg.RouteStatusInterval,
			AutoOptimizeInterval: cfg.AutoOptimizeInterval,
			OptimizeStep:         cfg.OptimizeStep,
		}, newLogger("routes"), sink),
		predictive: insights.NewPredictive(),
		metrics:    insights.NewMetrics(),
	}
	d.panels = map[Tab]Panel{
		TabAnalytics:    d.analytics,
		TabOptimization: d.routes,
		TabTracking:     d.tracking,
		TabFleet:        d.fleet,
		TabPredictive:   d.predictive,
		TabMetrics:      d.metrics,
	}
	return d
}

// newGenerator gives each panel its own stream. A zero seed stays
// clock-based.
func newGenerator(seed, offset int64) *generator.Generator {
	if seed == 0 {
		return generator.New(0)
	}
	return generator.New(seed + offset)
}

// Start binds panel tasks to ctx and mounts the default tab.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctx = ctx
	d.open(DefaultTab)
}

// Open navigates to tab. Opening the active tab is a no-op.
func (d *Dashboard) Open(tab Tab) error {
	if _, ok := d.panels[tab]; !ok {
		return fmt.Errorf("unknown tab: %q", tab)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open(tab)
	return nil
}

// With navigates to tab and runs fn while navigation is held, so the panel
// stays mounted for the duration of fn.
func (d *Dashboard) With(tab Tab, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open(tab)
	fn()
}

func (d *Dashboard) open(tab Tab) {
	if tab == d.active {
		return
	}
	if prev, ok := d.panels[d.active]; ok {
		prev.Unmount()
		d.log.Debugf("unmounted %s", d.active)
	}
	d.active = tab
	d.panels[tab].Mount(d.ctx, d.observer(tab))
	d.sink.PanelMounted(string(tab))
	d.log.Infof("opened %s tab", tab)
}

func (d *Dashboard) observer(tab Tab) simulation.Observer {
	return func(task string, at time.Time) {
		d.sink.Tick(string(tab), task)
		d.bus.Publish(eventbus.Event{Tab: string(tab), Task: task, At: at})
	}
}

// Active returns the mounted tab, or "" before Start and after Close.
func (d *Dashboard) Active() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Close unmounts the active panel.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.panels[d.active]; ok {
		p.Unmount()
	}
	d.active = ""
}

// Analytics returns the analytics panel.
func (d *Dashboard) Analytics() *analytics.Panel { return d.analytics }

// Fleet returns the fleet management panel.
func (d *Dashboard) Fleet() *fleet.Panel { return d.fleet }

// Tracking returns the real-time tracking panel.
func (d *Dashboard) Tracking() *tracking.Panel { return d.tracking }

// Routes returns the route optimization panel.
func (d *Dashboard) Routes() *routes.Panel { return d.routes }

// Predictive returns the predictive analytics panel.
func (d *Dashboard) Predictive() *insights.Predictive { return d.predictive }

// Metrics returns the delivery metrics panel.
func (d *Dashboard) Metrics() *insights.Metrics { return d.metrics }

type nopPublisher struct{}

func (nopPublisher) Publish(eventbus.Event) {}
