// Package routes is the route optimization panel: an editable stop list,
// area traffic, and a simulated optimizer that reorders stops by priority
// and traffic delay once its progress bar fills.
package routes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/metrics"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

// Task names.
const (
	TaskTraffic      = "traffic"
	TaskAutoOptimize = "auto-optimize"
	TaskStatus       = "status"
	TaskOptimize     = "optimize"
)

const (
	// MaxProgress is the optimization progress at which stops are reordered.
	MaxProgress  = 100
	progressStep = 12
	bulkLimit    = 3
)

// ErrNotFound is returned for an unknown stop id.
var ErrNotFound = errors.New("stop not found")

// Config holds the panel timings.
type Config struct {
	TrafficInterval      time.Duration
	StatusInterval       time.Duration
	AutoOptimizeInterval time.Duration
	OptimizeStep         time.Duration
}

// Settings are the background toggles of the panel.
type Settings struct {
	AutoOptimize    bool `json:"autoOptimize"`
	RealTimeUpdates bool `json:"realTimeUpdates"`
}

// View is the rendered state of the panel.
type View struct {
	Stops            []models.DeliveryPoint    `json:"stops"`
	Traffic          []models.TrafficCondition `json:"traffic"`
	Efficiency       int                       `json:"efficiency"`
	EstimatedSavings models.RouteSavings       `json:"estimatedSavings"`
	Optimizing       bool                      `json:"optimizing"`
	Progress         int                       `json:"progress"`
	Stats            Stats                     `json:"stats"`
	Settings         Settings                  `json:"settings"`
}

// Panel holds the route state while mounted.
type Panel struct {
	mu   sync.Mutex
	gen  *generator.Generator
	cfg  Config
	log  logger.Logger
	sink metrics.Sink
	now  func() time.Time

	scope      *simulation.Scope
	points     []models.DeliveryPoint
	traffic    []models.TrafficCondition
	efficiency int
	savings    models.RouteSavings
	optimizing bool
	progress   int
	settings   Settings
}

// New creates an unmounted panel.
func New(gen *generator.Generator, cfg Config, log logger.Logger, sink metrics.Sink) *Panel {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Panel{gen: gen, cfg: cfg, log: log, sink: sink, now: time.Now}
}

// Mount seeds the route and starts the traffic, auto-optimize and status
// tasks. Auto-optimize starts off and real-time updates start on.
func (p *Panel) Mount(ctx context.Context, observe simulation.Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = Settings{AutoOptimize: false, RealTimeUpdates: true}
	p.optimizing, p.progress = false, 0
	p.seed()

	p.scope = simulation.NewScope(ctx, p.log, observe)
	p.scope.Go(TaskTraffic, p.cfg.TrafficInterval, func(time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope == nil {
			return
		}
		p.traffic = p.gen.Traffic()
	})
	p.scope.Go(TaskAutoOptimize, p.cfg.AutoOptimizeInterval, func(time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope != nil && p.settings.AutoOptimize {
			p.startOptimize()
		}
	})
	p.scope.Go(TaskStatus, p.cfg.StatusInterval, func(time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope == nil || !p.settings.RealTimeUpdates {
			return
		}
		for i, pt := range p.points {
			p.points[i] = p.gen.ReviseStop(pt)
		}
		p.efficiency, p.savings = p.gen.RouteMetrics()
	})
}

// Unmount stops every task, including a running optimization, and discards
// the route.
func (p *Panel) Unmount() {
	p.mu.Lock()
	scope := p.scope
	p.scope = nil
	p.optimizing = false
	p.mu.Unlock()
	if scope != nil {
		scope.Close()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		p.points, p.traffic = nil, nil
		p.optimizing, p.progress = false, 0
	}
}

func (p *Panel) seed() {
	p.points = p.gen.DeliveryPoints()
	p.traffic = p.gen.Traffic()
	p.efficiency, p.savings = p.gen.RouteMetrics()
}

// Optimize starts the optimizer. It reports false when a run is already in
// progress or the panel is not mounted.
func (p *Panel) Optimize() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.startOptimize()
}

func (p *Panel) startOptimize() bool {
	if p.optimizing || p.scope == nil {
		return false
	}
	p.optimizing, p.progress = true, 0
	p.scope.Until(TaskOptimize, p.cfg.OptimizeStep, p.stepOptimize)
	return true
}

func (p *Panel) stepOptimize(time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil || !p.optimizing {
		return false
	}
	p.progress += progressStep
	if p.progress < MaxProgress {
		return true
	}
	p.progress = MaxProgress
	p.optimizing = false
	p.points = Optimize(p.points, p.traffic)
	p.efficiency, p.savings = p.gen.RouteMetrics()
	p.sink.RouteOptimized()
	p.log.Debugf("route optimized: %d stops", len(p.points))
	return false
}

// AddStop appends a stop for address. Blank addresses are ignored and
// reported as false. The new id is one more than the largest existing id.
func (p *Panel) AddStop(address string) (models.DeliveryPoint, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.DeliveryPoint{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id := 1
	for _, pt := range p.points {
		if pt.ID >= id {
			id = pt.ID + 1
		}
	}
	pt := p.gen.NewDeliveryPoint(id, address)
	p.points = append(p.points, pt)
	return pt, true
}

// RemoveStop deletes stop id.
func (p *Panel) RemoveStop(id int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return ErrNotFound
	}
	p.points = append(p.points[:i], p.points[i+1:]...)
	return nil
}

// ToggleComplete flips the completion flag of stop id.
func (p *Panel) ToggleComplete(id int) (models.DeliveryPoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return models.DeliveryPoint{}, ErrNotFound
	}
	p.points[i].IsCompleted = !p.points[i].IsCompleted
	return p.points[i], nil
}

// BulkUpdatePriority sets priority on the first three open stops and
// returns their ids.
func (p *Panel) BulkUpdatePriority(priority models.Priority) []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	var ids []int
	for i := range p.points {
		if len(ids) == bulkLimit {
			break
		}
		if p.points[i].IsCompleted {
			continue
		}
		p.points[i].Priority = priority
		ids = append(ids, p.points[i].ID)
	}
	return ids
}

// SimulateIncident logs a traffic incident and redraws traffic.
func (p *Panel) SimulateIncident() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	incident := p.gen.Incident()
	p.log.Warnf("traffic incident: %s", incident)
	p.traffic = p.gen.Traffic()
	return incident
}

// SetAutoOptimize toggles the periodic optimizer.
func (p *Panel) SetAutoOptimize(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.AutoOptimize = on
}

// SetRealTimeUpdates toggles the periodic stop status updates.
func (p *Panel) SetRealTimeUpdates(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.RealTimeUpdates = on
}

// Settings returns the current toggles.
func (p *Panel) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Refresh regenerates stops, traffic and metrics.
func (p *Panel) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seed()
}

// View returns the stops filtered by priority and ordered by key. Stats
// cover every stop.
func (p *Panel) View(priority models.Choice[models.Priority], key models.SortKey) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		Stops:            Sorted(p.points, priority, key),
		Traffic:          append([]models.TrafficCondition(nil), p.traffic...),
		Efficiency:       p.efficiency,
		EstimatedSavings: p.savings,
		Optimizing:       p.optimizing,
		Progress:         p.progress,
		Stats:            Summarize(p.points, p.traffic),
		Settings:         p.settings,
	}
}

// Export returns the downloadable report of the current route.
func (p *Panel) Export() export.RouteReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return export.RouteReport{
		DeliveryPoints:    append([]models.DeliveryPoint(nil), p.points...),
		TrafficConditions: append([]models.TrafficCondition(nil), p.traffic...),
		Efficiency:        p.efficiency,
		EstimatedSavings:  p.savings,
		Meta:              export.NewMeta(p.now()),
	}
}

func (p *Panel) index(id int) int {
	for i, pt := range p.points {
		if pt.ID == id {
			return i
		}
	}
	return -1
}
