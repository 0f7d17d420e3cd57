// Package insights holds the two display-only panels: predictive analytics
// and delivery metrics. Their data is fixed and they run no timers.
package insights

import (
	"context"
	"sync"

	"logistics-dashboard/internal/models"
	"logistics-dashboard/internal/simulation"
)

var (
	predictions = []models.Prediction{
		{Metric: "Peak Delivery Hours", Prediction: "2:00 PM - 4:00 PM", Confidence: 94, Trend: models.TrendUp, Impact: "High volume expected"},
		{Metric: "Weather Impact", Prediction: "15% delay risk", Confidence: 87, Trend: models.TrendStable, Impact: "Rain forecast 3-5 PM"},
		{Metric: "Traffic Congestion", Prediction: "Downtown 25% slower", Confidence: 91, Trend: models.TrendUp, Impact: "Construction on Main St"},
		{Metric: "Delivery Success Rate", Prediction: "96.2% completion", Confidence: 89, Trend: models.TrendUp, Impact: "Above average performance"},
	}

	weeklyForecast = []models.DayForecast{
		{Day: "Monday", Packages: 145, Difficulty: models.LevelMedium, Efficiency: 92},
		{Day: "Tuesday", Packages: 128, Difficulty: models.LevelLow, Efficiency: 96},
		{Day: "Wednesday", Packages: 167, Difficulty: models.LevelHigh, Efficiency: 87},
		{Day: "Thursday", Packages: 142, Difficulty: models.LevelMedium, Efficiency: 94},
		{Day: "Friday", Packages: 189, Difficulty: models.LevelHigh, Efficiency: 85},
		{Day: "Saturday", Packages: 98, Difficulty: models.LevelLow, Efficiency: 98},
		{Day: "Sunday", Packages: 67, Difficulty: models.LevelLow, Efficiency: 99},
	}

	suggestions = []models.Suggestion{
		{Title: "Route Consolidation", Description: "Combine routes in East Side district to reduce total travel time by 12%", Impact: models.LevelHigh, Savings: "$45/day"},
		{Title: "Delivery Window Adjustment", Description: "Shift 15% of deliveries to morning hours to avoid afternoon traffic", Impact: models.LevelMedium, Savings: "$28/day"},
		{Title: "Vehicle Allocation", Description: "Use smaller vehicles for residential areas to improve parking efficiency", Impact: models.LevelMedium, Savings: "$22/day"},
		{Title: "Priority Scheduling", Description: "Schedule high-priority deliveries before 11 AM for 99% success rate", Impact: models.LevelHigh, Savings: "$38/day"},
	}
)

// ForecastRow is a weekday forecast with its difficulty badge.
type ForecastRow struct {
	models.DayForecast
	Badge string `json:"badge"`
}

// SuggestionRow is a suggestion with its impact color.
type SuggestionRow struct {
	models.Suggestion
	Color string `json:"color"`
}

// PredictiveView is the rendered predictive panel.
type PredictiveView struct {
	Predictions []models.Prediction `json:"predictions"`
	Forecast    []ForecastRow       `json:"forecast"`
	Suggestions []SuggestionRow     `json:"suggestions"`
}

// ImpactColor returns the highlight classes for an impact level.
func ImpactColor(l models.Level) string {
	switch l {
	case models.LevelHigh:
		return "bg-red-100 text-red-800"
	case models.LevelMedium:
		return "bg-yellow-100 text-yellow-800"
	case models.LevelLow:
		return "bg-green-100 text-green-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// Predictive is the predictive analytics panel.
type Predictive struct {
	mu   sync.Mutex
	view *PredictiveView
}

// NewPredictive creates an unmounted panel.
func NewPredictive() *Predictive { return &Predictive{} }

// Mount builds the panel data.
func (p *Predictive) Mount(context.Context, simulation.Observer) {
	v := &PredictiveView{
		Predictions: append([]models.Prediction(nil), predictions...),
		Forecast:    make([]ForecastRow, len(weeklyForecast)),
		Suggestions: make([]SuggestionRow, len(suggestions)),
	}
	for i, f := range weeklyForecast {
		v.Forecast[i] = ForecastRow{DayForecast: f, Badge: f.Difficulty.Badge()}
	}
	for i, s := range suggestions {
		v.Suggestions[i] = SuggestionRow{Suggestion: s, Color: ImpactColor(s.Impact)}
	}
	p.mu.Lock()
	p.view = v
	p.mu.Unlock()
}

// Unmount discards the panel data.
func (p *Predictive) Unmount() {
	p.mu.Lock()
	p.view = nil
	p.mu.Unlock()
}

// View returns the panel, or an empty view when unmounted.
func (p *Predictive) View() PredictiveView {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.view == nil {
		return PredictiveView{}
	}
	return *p.view
}
