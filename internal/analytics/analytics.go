// Package analytics is the analytics dashboard panel: daily performance,
// regional totals and headline KPIs, regenerated wholesale on a timer.
package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

// TaskRegenerate names the periodic regeneration task.
const TaskRegenerate = "regenerate"

// Snapshot is the rendered state of the panel.
type Snapshot struct {
	TimeRange   models.TimeRange              `json:"timeRange"`
	Performance []models.PerformanceDataPoint `json:"performance"`
	Regions     []models.RegionStat           `json:"regions"`
	KPIs        models.KPISummary             `json:"kpis"`
	Headline    []models.TodayMetric          `json:"headline"`
	NetRevenue  []models.SeriesPoint          `json:"netRevenue"`
	Efficiency  []models.SeriesPoint          `json:"efficiency"`
	UpdatedAt   time.Time                     `json:"updatedAt"`
}

// Panel holds the analytics state while mounted.
type Panel struct {
	mu       sync.Mutex
	gen      *generator.Generator
	interval time.Duration
	log      logger.Logger
	now      func() time.Time

	scope     *simulation.Scope
	task      *simulation.Task
	timeRange models.TimeRange
	perf      []models.PerformanceDataPoint
	regions   []models.RegionStat
	kpis      models.KPISummary
	updatedAt time.Time
}

// New creates an unmounted panel regenerating every interval.
func New(gen *generator.Generator, interval time.Duration, log logger.Logger) *Panel {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Panel{gen: gen, interval: interval, log: log, now: time.Now, timeRange: models.Range7Days}
}

// Mount seeds the panel for its time range and starts regeneration.
func (p *Panel) Mount(ctx context.Context, observe simulation.Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenerate(p.now())
	p.scope = simulation.NewScope(ctx, p.log, observe)
	p.task = p.scope.Go(TaskRegenerate, p.interval, func(now time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope == nil {
			return
		}
		p.regenerate(now)
	})
}

// Unmount stops regeneration and discards the data. The selected time range
// is kept as the panel's default for the next mount.
func (p *Panel) Unmount() {
	p.mu.Lock()
	scope := p.scope
	p.scope, p.task = nil, nil
	p.mu.Unlock()
	if scope != nil {
		scope.Close()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		p.perf, p.regions, p.kpis = nil, nil, models.KPISummary{}
	}
}

func (p *Panel) regenerate(now time.Time) {
	p.perf = p.gen.Performance(p.timeRange.Days(), now)
	p.regions = p.gen.Regions()
	p.kpis = p.gen.KPIs(p.perf)
	p.updatedAt = now
}

// SetTimeRange switches the window, regenerates immediately and restarts
// the regeneration timer.
func (p *Panel) SetTimeRange(r models.TimeRange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r == p.timeRange {
		return
	}
	p.timeRange = r
	p.regenerate(p.now())
	if p.task != nil {
		p.task.Reset(p.interval)
	}
	p.log.Debugf("analytics time range set to %s", r)
}

// Refresh regenerates every dataset.
func (p *Panel) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.regenerate(p.now())
}

// Snapshot returns a copy of the current state with derived series.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Snapshot{
		TimeRange:   p.timeRange,
		Performance: append([]models.PerformanceDataPoint(nil), p.perf...),
		Regions:     append([]models.RegionStat(nil), p.regions...),
		KPIs:        p.kpis,
		Headline:    Headline(p.kpis),
		NetRevenue:  make([]models.SeriesPoint, len(p.perf)),
		Efficiency:  make([]models.SeriesPoint, len(p.perf)),
		UpdatedAt:   p.updatedAt,
	}
	for i, d := range p.perf {
		s.NetRevenue[i] = models.SeriesPoint{Label: d.Date, Value: float64(d.Revenue - d.FuelCost)}
		s.Efficiency[i] = models.SeriesPoint{Label: d.Date, Value: float64(d.Efficiency)}
	}
	return s
}

// Export returns the downloadable report of the current data.
func (p *Panel) Export() export.AnalyticsReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return export.AnalyticsReport{
		Performance: append([]models.PerformanceDataPoint(nil), p.perf...),
		Regions:     append([]models.RegionStat(nil), p.regions...),
		KPIs:        p.kpis,
		Meta:        export.NewMeta(p.now()),
	}
}

// Headline renders the KPI cards.
func Headline(k models.KPISummary) []models.TodayMetric {
	return []models.TodayMetric{
		{Label: "Total Deliveries", Value: format.Number(k.TotalDeliveries)},
		{Label: "On-Time Rate", Value: format.Percent(k.OnTimeRate, 1)},
		{Label: "Avg Delivery Time", Value: fmt.Sprintf("%d min", k.AvgDeliveryTime)},
		{Label: "Total Revenue", Value: format.Currency(float64(k.TotalRevenue))},
		{Label: "Fuel Savings", Value: format.Currency(float64(k.FuelSavings))},
		{Label: "Customer Satisfaction", Value: fmt.Sprintf("%d%%", k.CustomerSatisfaction)},
	}
}
