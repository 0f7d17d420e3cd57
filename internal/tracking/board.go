package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/models"
)

const (
	// MaxAlerts bounds the alert list.
	MaxAlerts = 5

	slowSpeed      = 10
	lowBattery     = 20
	hotTemperature = 85
	staleAfter     = 10 * time.Minute
)

// Board is the tracking state without locking or timers. The Panel drives
// it from its tasks; the simulate command steps it directly.
type Board struct {
	gen       *generator.Generator
	recentCap int

	Active  []models.ActiveDelivery
	Recent  []models.RecentDelivery
	Weather []models.WeatherCondition
	Alerts  []string
}

// NewBoard creates an empty board whose recent list holds at most recentCap
// entries.
func NewBoard(gen *generator.Generator, recentCap int) *Board {
	return &Board{gen: gen, recentCap: recentCap}
}

// Seed replaces every list with fresh data.
func (b *Board) Seed(now time.Time) {
	b.Active = b.gen.ActiveDeliveries(now)
	b.Recent = b.gen.RecentDeliveries(b.recentCap, now)
	b.Weather = b.gen.Weather()
	b.Alerts = nil
}

// Clear drops all state.
func (b *Board) Clear() {
	b.Active, b.Recent, b.Weather, b.Alerts = nil, nil, nil, nil
}

// Advance moves every active delivery forward one tick. Runs reaching full
// progress leave the active list and are prepended to the recent list one
// by one, which is then cut to the cap. The finished runs are returned in
// the order they completed.
func (b *Board) Advance(now time.Time) []models.RecentDelivery {
	var done []models.RecentDelivery
	active := b.Active[:0]
	for _, d := range b.Active {
		next, finished := b.gen.AdvanceDelivery(d, now)
		if !finished {
			active = append(active, next)
			continue
		}
		c := b.gen.CompletedDelivery(next, completionID(), now)
		done = append(done, c)
		b.Recent = append([]models.RecentDelivery{c}, b.Recent...)
	}
	b.Active = active
	if len(b.Recent) > b.recentCap {
		b.Recent = b.Recent[:b.recentCap]
	}
	return done
}

func completionID() string {
	return "PKG-" + strings.ToUpper(uuid.NewString()[:8])
}

// RefreshWeather redraws every area's conditions.
func (b *Board) RefreshWeather() {
	b.Weather = b.gen.Weather()
}

// CheckAlerts rebuilds the alert list from the active deliveries.
func (b *Board) CheckAlerts(now time.Time) {
	b.Alerts = Alerts(b.Active, now)
}

// Alerts lists warnings for deliveries that are delayed, slow, low on
// battery, running hot or silent for more than ten minutes. At most
// MaxAlerts are returned.
func Alerts(active []models.ActiveDelivery, now time.Time) []string {
	var out []string
	for _, d := range active {
		if d.Status == models.DeliveryDelayed {
			out = append(out, fmt.Sprintf("%s is delayed in %s", d.Driver, d.CurrentLocation))
		}
		if d.Speed < slowSpeed {
			out = append(out, fmt.Sprintf("%s is moving slowly (%.1f mph)", d.Vehicle, d.Speed))
		}
		if d.BatteryLevel < lowBattery {
			out = append(out, fmt.Sprintf("%s's device battery is low (%.0f%%)", d.Driver, d.BatteryLevel))
		}
		if d.Temperature > hotTemperature {
			out = append(out, fmt.Sprintf("High temperature alert for %s (%s)", d.Vehicle, format.Temperature(d.Temperature)))
		}
		if since := now.Sub(d.LastUpdate); since > staleAfter {
			out = append(out, fmt.Sprintf("No update from %s for %d minutes", d.Driver, int(since.Minutes())))
		}
	}
	if len(out) > MaxAlerts {
		out = out[:MaxAlerts]
	}
	return out
}

// Stats summarises the board.
type Stats struct {
	ActiveVehicles    int     `json:"activeVehicles"`
	RemainingPackages int     `json:"remainingPackages"`
	Delivered         int     `json:"delivered"`
	SuccessRate       float64 `json:"successRate"`
	AvgRating         float64 `json:"avgRating"`
	AvgBattery        float64 `json:"avgBattery"`
	AvgTemperature    float64 `json:"avgTemperature"`
}

// Summarize computes the board statistics.
func Summarize(active []models.ActiveDelivery, recent []models.RecentDelivery) Stats {
	s := Stats{ActiveVehicles: len(active)}
	if len(active) > 0 {
		battery := make([]float64, len(active))
		temp := make([]float64, len(active))
		for i, d := range active {
			s.RemainingPackages += d.TotalPackages - d.PackagesDelivered
			battery[i] = d.BatteryLevel
			temp[i] = d.Temperature
		}
		s.AvgBattery = stat.Mean(battery, nil)
		s.AvgTemperature = stat.Mean(temp, nil)
	}
	if len(recent) > 0 {
		ratings := make([]float64, len(recent))
		for i, d := range recent {
			if d.Status == models.OutcomeDelivered {
				s.Delivered++
			}
			ratings[i] = float64(d.Rating)
		}
		s.SuccessRate = float64(s.Delivered) / float64(len(recent)) * 100
		s.AvgRating = stat.Mean(ratings, nil)
	}
	return s
}

// Filter narrows the active deliveries.
type Filter struct {
	// Search matches driver, vehicle, current location or id, ignoring case.
	Search string
	Status models.Choice[models.DeliveryStatus]
}

// Match reports whether d passes the filter.
func (f Filter) Match(d models.ActiveDelivery) bool {
	if !f.Status.Matches(d.Status) {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{d.Driver, d.Vehicle, d.CurrentLocation, d.ID} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply returns the deliveries passing f in list order.
func (f Filter) Apply(active []models.ActiveDelivery) []models.ActiveDelivery {
	out := make([]models.ActiveDelivery, 0, len(active))
	for _, d := range active {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
