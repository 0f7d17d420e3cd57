// Package tracking is the real-time tracking panel: delivery runs advance
// toward completion on an adjustable timer, finished runs feed the recent
// activity list, and alerts and weather refresh on their own schedules.
package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/logger"
	"logistics-dashboard/internal/metrics"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

// Task names.
const (
	TaskProgress = "progress"
	TaskAlerts   = "alerts"
	TaskWeather  = "weather"
)

// ErrNotFound is returned for an unknown delivery id.
var ErrNotFound = errors.New("delivery not found")

// Config holds the panel timings.
type Config struct {
	RefreshInterval models.RefreshInterval
	AlertInterval   time.Duration
	WeatherInterval time.Duration
	RecentCap       int
}

// Settings are the user controls of the panel.
type Settings struct {
	AutoRefresh     bool `json:"autoRefresh"`
	RefreshInterval int  `json:"refreshInterval"` // seconds
}

// View is the rendered state of the panel.
type View struct {
	Deliveries  []models.ActiveDelivery   `json:"deliveries"`
	Recent      []models.RecentDelivery   `json:"recent"`
	Weather     []models.WeatherCondition `json:"weather"`
	Alerts      []string                  `json:"alerts"`
	Stats       Stats                     `json:"stats"`
	Settings    Settings                  `json:"settings"`
	CurrentTime time.Time                 `json:"currentTime"`
}

// Panel holds the tracking state while mounted.
type Panel struct {
	mu   sync.Mutex
	cfg  Config
	log  logger.Logger
	sink metrics.Sink
	now  func() time.Time

	board       *Board
	scope       *simulation.Scope
	progress    *simulation.Task
	autoRefresh bool
	interval    models.RefreshInterval
	currentTime time.Time
}

// New creates an unmounted panel.
func New(gen *generator.Generator, cfg Config, log logger.Logger, sink metrics.Sink) *Panel {
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if !cfg.RefreshInterval.Valid() {
		cfg.RefreshInterval = models.Refresh5s
	}
	return &Panel{
		cfg:         cfg,
		log:         log,
		sink:        sink,
		now:         time.Now,
		board:       NewBoard(gen, cfg.RecentCap),
		autoRefresh: true,
		interval:    cfg.RefreshInterval,
	}
}

// Mount seeds the board and starts the progress, alert and weather tasks.
// Settings reset to auto refresh at the configured interval.
func (p *Panel) Mount(ctx context.Context, observe simulation.Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoRefresh = true
	p.interval = p.cfg.RefreshInterval
	p.currentTime = p.now()
	p.board.Seed(p.currentTime)
	p.sink.ActiveDeliveries(len(p.board.Active))

	p.scope = simulation.NewScope(ctx, p.log, observe)
	p.progress = p.scope.Go(TaskProgress, p.interval.Duration(), p.tick)
	p.scope.Go(TaskAlerts, p.cfg.AlertInterval, func(now time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope == nil {
			return
		}
		p.board.CheckAlerts(now)
	})
	p.scope.Go(TaskWeather, p.cfg.WeatherInterval, func(time.Time) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.scope == nil {
			return
		}
		p.board.RefreshWeather()
	})
}

// Unmount stops every task and discards the board.
func (p *Panel) Unmount() {
	p.mu.Lock()
	scope := p.scope
	p.scope, p.progress = nil, nil
	p.mu.Unlock()
	if scope != nil {
		scope.Close()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		p.board.Clear()
		p.sink.ActiveDeliveries(0)
	}
}

func (p *Panel) tick(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		return
	}
	p.currentTime = now
	if !p.autoRefresh {
		return
	}
	p.advance(now)
	p.board.RefreshWeather()
}

func (p *Panel) advance(now time.Time) {
	done := p.board.Advance(now)
	for _, d := range done {
		p.log.Debugw("delivery completed", map[string]any{"id": d.ID, "driver": d.Driver})
	}
	p.sink.DeliveriesCompleted(len(done))
	p.sink.ActiveDeliveries(len(p.board.Active))
}

// SetAutoRefresh pauses or resumes delivery progress. The clock keeps
// ticking while paused.
func (p *Panel) SetAutoRefresh(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoRefresh = on
}

// SetRefreshInterval changes the progress period and re-arms its timer.
func (p *Panel) SetRefreshInterval(r models.RefreshInterval) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r == p.interval {
		return
	}
	p.interval = r
	if p.progress != nil {
		p.progress.Reset(r.Duration())
	}
}

// Settings returns the current controls.
func (p *Panel) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Settings{AutoRefresh: p.autoRefresh, RefreshInterval: p.interval.Seconds()}
}

// ForceRefresh regenerates every list.
func (p *Panel) ForceRefresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTime = p.now()
	p.board.Seed(p.currentTime)
	p.sink.ActiveDeliveries(len(p.board.Active))
}

// OptimizeRoute puts delivery id back en route with a small speed boost.
func (p *Panel) OptimizeRoute(id string) (models.ActiveDelivery, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.board.Active {
		d := &p.board.Active[i]
		if d.ID == id {
			d.Status = models.DeliveryEnRoute
			d.Speed += 5
			return *d, nil
		}
	}
	return models.ActiveDelivery{}, ErrNotFound
}

// SendMessage records a message to the driver of delivery id. It only logs.
func (p *Panel) SendMessage(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, d := range p.board.Active {
		if d.ID == id {
			p.log.Infow("sending message to driver", map[string]any{"delivery": id, "driver": d.Driver})
			return nil
		}
	}
	return ErrNotFound
}

// View returns the panel filtered by f. Stats cover every delivery.
func (p *Panel) View(f Filter) View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return View{
		Deliveries:  f.Apply(p.board.Active),
		Recent:      append([]models.RecentDelivery(nil), p.board.Recent...),
		Weather:     append([]models.WeatherCondition(nil), p.board.Weather...),
		Alerts:      append([]string(nil), p.board.Alerts...),
		Stats:       Summarize(p.board.Active, p.board.Recent),
		Settings:    Settings{AutoRefresh: p.autoRefresh, RefreshInterval: p.interval.Seconds()},
		CurrentTime: p.currentTime,
	}
}
