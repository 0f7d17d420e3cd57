// Package fleet is the fleet management panel: a vehicle roster with
// drifting sensor readings and the latest maintenance record per vehicle.
package fleet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/metrics"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

// TaskDrift names the periodic sensor drift task.
const TaskDrift = "drift"

// ErrNotFound is returned for an unknown vehicle id.
var ErrNotFound = errors.New("vehicle not found")

// Filter narrows the roster.
type Filter struct {
	// Search matches id, driver or model, ignoring case.
	Search string
	Status models.Choice[models.VehicleStatus]
}

// Match reports whether v passes the filter.
func (f Filter) Match(v models.Vehicle) bool {
	if !f.Status.Matches(v.Status) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(v.ID), q) ||
		strings.Contains(strings.ToLower(v.Driver), q) ||
		strings.Contains(strings.ToLower(v.Model), q)
}

// Apply returns the vehicles passing f in roster order.
func (f Filter) Apply(vehicles []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Stats summarises the whole roster, independent of any filter.
type Stats struct {
	Total         int                        `json:"total"`
	Active        int                        `json:"active"`
	Maintenance   int                        `json:"maintenance"`
	AvgFuel       float64                    `json:"avgFuel"`
	AvgEfficiency float64                    `json:"avgEfficiency"`
	StatusChart   []models.StatusCount       `json:"statusChart"`
	Efficiency    []models.VehicleEfficiency `json:"efficiencyChart"`
}

// Summarize computes the roster statistics and chart series.
func Summarize(vehicles []models.Vehicle) Stats {
	s := Stats{Total: len(vehicles)}
	counts := CountByStatus(vehicles)
	s.Active = counts[models.VehicleActive]
	s.Maintenance = counts[models.VehicleMaintenance]
	for _, st := range models.VehicleStatuses {
		s.StatusChart = append(s.StatusChart, models.StatusCount{Name: st, Value: counts[st], Color: st.Color()})
	}
	if len(vehicles) == 0 {
		return s
	}

	fuel := make([]float64, len(vehicles))
	eff := make([]float64, len(vehicles))
	s.Efficiency = make([]models.VehicleEfficiency, len(vehicles))
	for i, v := range vehicles {
		fuel[i] = v.FuelLevel
		eff[i] = v.Efficiency
		s.Efficiency[i] = models.VehicleEfficiency{Name: v.ID, Efficiency: v.Efficiency, Deliveries: v.DeliveriesToday}
	}
	s.AvgFuel = stat.Mean(fuel, nil)
	s.AvgEfficiency = stat.Mean(eff, nil)
	return s
}

// CountByStatus tallies vehicles per status.
func CountByStatus(vehicles []models.Vehicle) map[models.VehicleStatus]int {
	counts := make(map[models.VehicleStatus]int, len(models.VehicleStatuses))
	for _, v := range vehicles {
		counts[v.Status]++
	}
	return counts
}

// View is the filtered roster with whole-fleet statistics.
type View struct {
	Vehicles    []models.Vehicle           `json:"vehicles"`
	Maintenance []models.MaintenanceRecord `json:"maintenance"`
	Stats       Stats                      `json:"stats"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

// Detail is one vehicle with its maintenance record.
type Detail struct {
	Vehicle     models.Vehicle            `json:"vehicle"`
	Maintenance *models.MaintenanceRecord `json:"maintenance,omitempty"`
}

// Panel holds the fleet state while mounted.
type Panel struct {
	mu       sync.Mutex
	gen      *generator.Generator
	size     int
	interval time.Duration
	log      logger.Logger
	sink     metrics.Sink
	now      func() time.Time

	scope       *simulation.Scope
	vehicles    []models.Vehicle
	maintenance []models.MaintenanceRecord
	updatedAt   time.Time
}

// New creates an unmounted panel of size vehicles drifting every interval.
func New(gen *generator.Generator, size int, interval time.Duration, log logger.Logger, sink metrics.Sink) *Panel {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Panel{gen: gen, size: size, interval: interval, log: log, sink: sink, now: time.Now}
}

// Mount generates the roster and starts the drift task.
func (p *Panel) Mount(ctx context.Context, observe simulation.Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenerate(p.now())
	p.scope = simulation.NewScope(ctx, p.log, observe)
	p.scope.Go(TaskDrift, p.interval, p.drift)
}

// Unmount stops the drift task and discards the roster.
func (p *Panel) Unmount() {
	p.mu.Lock()
	scope := p.scope
	p.scope = nil
	p.mu.Unlock()
	if scope != nil {
		scope.Close()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		p.vehicles, p.maintenance = nil, nil
		p.sink.FleetStatus(nil)
	}
}

func (p *Panel) regenerate(now time.Time) {
	p.vehicles = p.gen.Fleet(p.size, now)
	p.maintenance = p.gen.Maintenance(p.vehicles, now)
	p.updatedAt = now
	p.reportStatus()
}

func (p *Panel) drift(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		return
	}
	for i, v := range p.vehicles {
		p.vehicles[i] = p.gen.DriftVehicle(v)
	}
	p.updatedAt = now
	p.reportStatus()
}

func (p *Panel) reportStatus() {
	counts := make(map[string]int, len(models.VehicleStatuses))
	for st, n := range CountByStatus(p.vehicles) {
		counts[string(st)] = n
	}
	p.sink.FleetStatus(counts)
}

// Refresh regenerates the roster and maintenance records.
func (p *Panel) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenerate(p.now())
}

// View returns the roster filtered by f.
func (p *Panel) View(f Filter) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		Vehicles:    f.Apply(p.vehicles),
		Maintenance: append([]models.MaintenanceRecord(nil), p.maintenance...),
		Stats:       Summarize(p.vehicles),
		UpdatedAt:   p.updatedAt,
	}
}

// Vehicle looks up one vehicle.
func (p *Panel) Vehicle(id string) (Detail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.index(id)
	if i < 0 {
		return Detail{}, ErrNotFound
	}
	d := Detail{Vehicle: p.vehicles[i]}
	for _, m := range p.maintenance {
		if m.VehicleID == id {
			rec := m
			d.Maintenance = &rec
			break
		}
	}
	return d, nil
}

// ScheduleMaintenance records a maintenance request for id. It only logs.
func (p *Panel) ScheduleMaintenance(id string) error {
	return p.act(id, "scheduling maintenance")
}

// SendAlert records an alert for id. It only logs.
func (p *Panel) SendAlert(id string) error {
	return p.act(id, "sending alert")
}

func (p *Panel) act(id, action string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index(id) < 0 {
		return ErrNotFound
	}
	p.log.Infow(action, map[string]any{"vehicle": id})
	return nil
}

func (p *Panel) index(id string) int {
	for i, v := range p.vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}
