package generator

import (
	"fmt"
	"math"
	"time"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
)

var (
	trackingDrivers  = []string{"John Smith", "Sarah Johnson", "Mike Davis", "Lisa Wilson", "Tom Brown", "Anna Garcia", "Chris Lee", "Emma Rodriguez"}
	trackingVehicles = []string{"Van #247", "Truck #189", "Van #356", "Truck #442", "Van #523", "Bike #101", "Van #678", "Truck #234"}
	districts        = []string{"Downtown District", "Midtown Area", "Uptown Zone", "Suburbs", "East Side", "West End", "Industrial Park", "Airport Area"}
	stopStreets      = []string{"Main St", "Oak Ave", "Pine Rd", "Elm St", "Maple Dr", "Cedar Ln", "Birch Rd"}
	recentStreets    = []string{"Elm St", "Maple Dr", "Cedar Ln", "Birch Rd", "Willow Way", "Pine Ave", "Oak Blvd"}
	customerSurnames = []string{"Smith", "Johnson", "Brown", "Wilson", "Davis", "Miller", "Garcia", "Rodriguez"}
	customerNotes    = []string{"Handle with care", "Signature required", "Leave at door", "Call upon arrival", "Ring doorbell twice", ""}
	weatherAreas     = []string{"Downtown", "Midtown", "Uptown", "Suburbs", "East Side", "West End", "Industrial", "Airport"}
)

const (
	// MaxProgress is the progress at which a delivery run completes.
	MaxProgress = 100

	speedFloor   = 5
	batteryFloor = 10
	signatureURL = "/placeholder.svg"
)

// ActiveDeliveries returns between six and nine delivery runs in progress.
func (g *Generator) ActiveDeliveries(now time.Time) []models.ActiveDelivery {
	n := g.intn(4, 6)
	out := make([]models.ActiveDelivery, n)
	for i := range out {
		out[i] = models.ActiveDelivery{
			ID:                  fmt.Sprintf("DEL%03d", i+1),
			Driver:              trackingDrivers[i%len(trackingDrivers)],
			Vehicle:             trackingVehicles[i%len(trackingVehicles)],
			Phone:               g.Phone(),
			CurrentLocation:     pick(g, districts),
			NextStop:            g.street(stopStreets),
			Progress:            g.intn(90, 10),
			PackagesDelivered:   g.intn(10, 2),
			TotalPackages:       g.intn(8, 12),
			EstimatedCompletion: g.ClockTime(),
			Status:              pick(g, models.DeliveryStatuses),
			Speed:               float64(g.intn(30, 15)),
			LastUpdate:          now.Add(-time.Duration(g.rng.Float64() * float64(5*time.Minute))),
			BatteryLevel:        float64(g.intn(50, 50)),
			Temperature:         float64(g.intn(20, 65)),
			CustomerNotes:       pick(g, customerNotes),
		}
	}
	return out
}

// RecentDeliveries returns count finished deliveries for the activity feed.
func (g *Generator) RecentDeliveries(count int, now time.Time) []models.RecentDelivery {
	out := make([]models.RecentDelivery, count)
	for i := range out {
		status := models.OutcomeDelivered
		if g.rng.Float64() > 0.85 {
			status = pick(g, models.Outcomes)
		}
		past := time.Duration(g.rng.Intn(6)*60+g.rng.Intn(60)) * time.Minute
		d := models.RecentDelivery{
			ID:           fmt.Sprintf("PKG%03d", i+1),
			Address:      g.street(recentStreets),
			Customer:     fmt.Sprintf("Customer %c %s", rune('A'+i), pick(g, customerSurnames)),
			Time:         format.Kitchen(now.Add(-past)),
			Status:       status,
			Driver:       pick(g, trackingDrivers),
			Rating:       g.intn(2, 4),
			DeliveryTime: g.intn(30, 5),
		}
		if g.rng.Float64() > 0.7 {
			d.SignatureURL = signatureURL
		}
		out[i] = d
	}
	return out
}

// Weather returns the current conditions for every tracked area.
func (g *Generator) Weather() []models.WeatherCondition {
	out := make([]models.WeatherCondition, len(weatherAreas))
	for i, area := range weatherAreas {
		out[i] = models.WeatherCondition{
			Area:        area,
			Condition:   pick(g, models.Skies),
			Temperature: g.intn(30, 50),
			Impact:      pick(g, models.Levels),
		}
	}
	return out
}

// AdvanceDelivery moves d forward by one tick. Progress grows by 1-8 and is
// clamped at MaxProgress; done reports whether the run has completed.
func (g *Generator) AdvanceDelivery(d models.ActiveDelivery, now time.Time) (next models.ActiveDelivery, done bool) {
	progress := d.Progress + g.intn(8, 1)
	if progress > MaxProgress {
		progress = MaxProgress
	}
	expected := progress * d.TotalPackages / MaxProgress
	delivered := d.PackagesDelivered
	if expected > delivered {
		delivered = expected
	}
	if delivered > d.TotalPackages {
		delivered = d.TotalPackages
	}

	d.Progress = progress
	d.PackagesDelivered = delivered
	if progress >= MaxProgress {
		return d, true
	}
	d.Speed = math.Max(speedFloor, d.Speed+g.jitter(10))
	d.LastUpdate = now
	d.BatteryLevel = math.Max(batteryFloor, d.BatteryLevel-g.rng.Float64()*2)
	d.Temperature += g.jitter(5)
	return d, false
}

// CompletedDelivery builds the activity feed entry for a finished run.
func (g *Generator) CompletedDelivery(d models.ActiveDelivery, id string, now time.Time) models.RecentDelivery {
	return models.RecentDelivery{
		ID:           id,
		Address:      d.NextStop,
		Customer:     "Customer at " + d.NextStop,
		Time:         format.Kitchen(now),
		Status:       models.OutcomeDelivered,
		Driver:       d.Driver,
		Rating:       g.intn(2, 4),
		DeliveryTime: g.intn(20, 10),
	}
}
