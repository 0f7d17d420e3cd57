package config

import (
	"fmt"
	"time"

	"logistics-dashboard/internal/models"
)

// SimulationConfig tunes the synthetic data and the panel refresh loops.
type SimulationConfig struct {
	// Seed fixes the random stream. Zero seeds from the clock.
	Seed      int64 `json:"seed"`
	FleetSize int   `json:"fleet_size"`
	RecentCap int   `json:"recent_cap"`

	AnalyticsInterval    time.Duration `json:"analytics_interval"`
	FleetInterval        time.Duration `json:"fleet_interval"`
	TrackingInterval     time.Duration `json:"tracking_interval"`
	AlertInterval        time.Duration `json:"alert_interval"`
	WeatherInterval      time.Duration `json:"weather_interval"`
	TrafficInterval      time.Duration `json:"traffic_interval"`
	RouteStatusInterval  time.Duration `json:"route_status_interval"`
	AutoOptimizeInterval time.Duration `json:"auto_optimize_interval"`
	OptimizeStep         time.Duration `json:"optimize_step"`
}

// MaxRecentCap is the size of the recent activity feed. recent_cap may
// shrink it but not grow it.
const MaxRecentCap = 12

// SetDefaults applies the dashboard's stock timings.
func (c *SimulationConfig) SetDefaults() {
	if c.FleetSize <= 0 {
		c.FleetSize = 15
	}
	if c.RecentCap <= 0 {
		c.RecentCap = MaxRecentCap
	}
	setDuration(&c.AnalyticsInterval, 30*time.Second)
	setDuration(&c.FleetInterval, 15*time.Second)
	setDuration(&c.TrackingInterval, 5*time.Second)
	setDuration(&c.AlertInterval, 15*time.Second)
	setDuration(&c.WeatherInterval, 30*time.Second)
	setDuration(&c.TrafficInterval, 15*time.Second)
	setDuration(&c.RouteStatusInterval, 10*time.Second)
	setDuration(&c.AutoOptimizeInterval, 60*time.Second)
	setDuration(&c.OptimizeStep, 150*time.Millisecond)
}

func setDuration(d *time.Duration, def time.Duration) {
	if *d <= 0 {
		*d = def
	}
}

// Validate rejects a tracking interval the dashboard does not offer.
func (c SimulationConfig) Validate() error {
	if !models.RefreshInterval(c.TrackingInterval).Valid() {
		return fmt.Errorf("tracking_interval must be 3s, 5s, 10s or 30s, got %s", c.TrackingInterval)
	}
	if c.RecentCap > MaxRecentCap {
		return fmt.Errorf("recent_cap %d exceeds %d", c.RecentCap, MaxRecentCap)
	}
	if c.FleetSize > 999 {
		return fmt.Errorf("fleet_size %d exceeds 999", c.FleetSize)
	}
	return nil
}
