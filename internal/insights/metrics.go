package insights

import (
	"context"
	"sync"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

// OnTimeThreshold is the on-time percentage graded green.
const OnTimeThreshold = 95

var (
	todayMetrics = []models.TodayMetric{
		{Label: "Total Deliveries", Value: "142", Change: "+8%"},
		{Label: "On-Time Rate", Value: "96.2%", Change: "+2.1%"},
		{Label: "Average Time", Value: "18.5min", Change: "-1.2min"},
		{Label: "Customer Rating", Value: "4.8/5", Change: "+0.1"},
	}

	areaPerformance = []models.AreaPerformance{
		{Area: "Downtown", Deliveries: 45, OnTime: 94, AvgTime: "22min", Difficulty: models.LevelHigh},
		{Area: "Midtown", Deliveries: 38, OnTime: 97, AvgTime: "16min", Difficulty: models.LevelMedium},
		{Area: "Uptown", Deliveries: 32, OnTime: 98, AvgTime: "14min", Difficulty: models.LevelLow},
		{Area: "Suburbs", Deliveries: 27, OnTime: 96, AvgTime: "25min", Difficulty: models.LevelMedium},
	}

	driverPerformance = []models.DriverPerformance{
		{Name: "John Smith", Deliveries: 28, OnTime: 96, Rating: 4.9, Efficiency: 95},
		{Name: "Sarah Johnson", Deliveries: 25, OnTime: 98, Rating: 4.8, Efficiency: 92},
		{Name: "Mike Davis", Deliveries: 31, OnTime: 94, Rating: 4.7, Efficiency: 89},
		{Name: "Lisa Brown", Deliveries: 22, OnTime: 100, Rating: 5.0, Efficiency: 98},
		{Name: "Tom Wilson", Deliveries: 26, OnTime: 95, Rating: 4.6, Efficiency: 87},
	}

	weeklyTrends = []models.WeeklyTrend{
		{Week: "Week 1", Deliveries: 892, OnTime: 94.2, Satisfaction: 4.6},
		{Week: "Week 2", Deliveries: 945, OnTime: 95.1, Satisfaction: 4.7},
		{Week: "Week 3", Deliveries: 1023, OnTime: 96.8, Satisfaction: 4.8},
		{Week: "Week 4", Deliveries: 1087, OnTime: 96.2, Satisfaction: 4.8},
	}
)

// AreaRow is an area with its grading.
type AreaRow struct {
	models.AreaPerformance
	Badge string `json:"badge"`
	Color string `json:"color"`
}

// DriverRow is a ranked driver with its grading.
type DriverRow struct {
	models.DriverPerformance
	Rank  int    `json:"rank"`
	Color string `json:"color"`
}

// TrendRow is a week with its growth over the previous week. Growth is empty
// for the first week.
type TrendRow struct {
	models.WeeklyTrend
	Color  string `json:"color"`
	Growth string `json:"growth,omitempty"`
}

// MetricsView is the rendered delivery metrics panel.
type MetricsView struct {
	Today   []models.TodayMetric `json:"today"`
	Areas   []AreaRow            `json:"areas"`
	Drivers []DriverRow          `json:"drivers"`
	Weekly  []TrendRow           `json:"weekly"`
}

// BuildMetrics grades and ranks the delivery metric rows.
func BuildMetrics() MetricsView {
	v := MetricsView{
		Today:   append([]models.TodayMetric(nil), todayMetrics...),
		Areas:   make([]AreaRow, len(areaPerformance)),
		Drivers: make([]DriverRow, len(driverPerformance)),
		Weekly:  make([]TrendRow, len(weeklyTrends)),
	}
	for i, a := range areaPerformance {
		v.Areas[i] = AreaRow{
			AreaPerformance: a,
			Badge:           a.Difficulty.Badge(),
			Color:           format.PerformanceColor(float64(a.OnTime), OnTimeThreshold),
		}
	}
	for i, d := range driverPerformance {
		v.Drivers[i] = DriverRow{
			DriverPerformance: d,
			Rank:              i + 1,
			Color:             format.PerformanceColor(float64(d.OnTime), OnTimeThreshold),
		}
	}
	for i, w := range weeklyTrends {
		row := TrendRow{WeeklyTrend: w, Color: format.PerformanceColor(w.OnTime, OnTimeThreshold)}
		if i > 0 {
			row.Growth = format.Growth(float64(weeklyTrends[i-1].Deliveries), float64(w.Deliveries))
		}
		v.Weekly[i] = row
	}
	return v
}

// Metrics is the delivery metrics panel.
type Metrics struct {
	mu   sync.Mutex
	view *MetricsView
}

// NewMetrics creates an unmounted panel.
func NewMetrics() *Metrics { return &Metrics{} }

// Mount builds the panel data.
func (m *Metrics) Mount(context.Context, simulation.Observer) {
	v := BuildMetrics()
	m.mu.Lock()
	m.view = &v
	m.mu.Unlock()
}

// Unmount discards the panel data.
func (m *Metrics) Unmount() {
	m.mu.Lock()
	m.view = nil
	m.mu.Unlock()
}

// View returns the panel, or an empty view when unmounted.
func (m *Metrics) View() MetricsView {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == nil {
		return MetricsView{}
	}
	return *m.view
}
