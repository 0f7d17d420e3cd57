package generator

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
)

var regionColors = []models.RegionStat{
	{Region: "North", Color: "#8884d8"},
	{Region: "South", Color: "#82ca9d"},
	{Region: "East", Color: "#ffc658"},
	{Region: "West", Color: "#ff7300"},
	{Region: "Central", Color: "#00ff00"},
}

// Performance returns one data point per day, oldest first, ending on now.
func (g *Generator) Performance(days int, now time.Time) []models.PerformanceDataPoint {
	out := make([]models.PerformanceDataPoint, 0, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - 1 - i))
		out = append(out, models.PerformanceDataPoint{
			Date:       format.Date(date),
			Deliveries: g.intn(200, 150),
			OnTime:     g.intn(50, 85),
			Revenue:    g.intn(5000, 8000),
			FuelCost:   g.intn(800, 400),
			Efficiency: g.intn(20, 75),
		})
	}
	return out
}

// Regions returns delivery totals for the five sales regions.
func (g *Generator) Regions() []models.RegionStat {
	out := make([]models.RegionStat, len(regionColors))
	for i, r := range regionColors {
		r.Deliveries = g.intn(500, 200)
		r.Revenue = g.intn(50000, 30000)
		r.Efficiency = g.intn(30, 70)
		out[i] = r
	}
	return out
}

// KPIs summarises perf; the figures not derivable from it are drawn fresh.
func (g *Generator) KPIs(perf []models.PerformanceDataPoint) models.KPISummary {
	var k models.KPISummary
	onTime := make([]float64, len(perf))
	for i, p := range perf {
		k.TotalDeliveries += p.Deliveries
		k.TotalRevenue += p.Revenue
		onTime[i] = float64(p.OnTime)
	}
	if len(onTime) > 0 {
		k.OnTimeRate = stat.Mean(onTime, nil)
	}
	k.AvgDeliveryTime = g.intn(20, 25)
	k.FuelSavings = g.intn(5000, 8000)
	k.CustomerSatisfaction = g.intn(10, 90)
	return k
}
