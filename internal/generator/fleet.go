package generator

import (
	"fmt"
	"math"
	"time"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
)

var (
	vehicleTypes     = []string{"Van", "Truck", "Bike", "SUV"}
	vehicleModels    = []string{"Ford Transit", "Mercedes Sprinter", "Volvo FH", "Honda CB", "Toyota RAV4"}
	fleetDrivers     = []string{"John Smith", "Sarah Johnson", "Mike Davis", "Lisa Wilson", "Tom Brown", "Anna Garcia"}
	depots           = []string{"Downtown Hub", "North Depot", "South Station", "East Terminal", "West Center"}
	maintenanceKinds = []string{"Oil Change", "Tire Rotation", "Brake Check", "Engine Service"}
)

const maxHoursActive = 16

// Fleet returns n vehicles with ids VEH001..VEHnnn.
func (g *Generator) Fleet(n int, now time.Time) []models.Vehicle {
	if n <= 0 {
		return nil
	}
	out := make([]models.Vehicle, n)
	for i := range out {
		out[i] = models.Vehicle{
			ID:              fmt.Sprintf("VEH%03d", i+1),
			Type:            pick(g, vehicleTypes),
			Model:           pick(g, vehicleModels),
			Driver:          pick(g, fleetDrivers),
			Status:          pick(g, models.VehicleStatuses),
			Location:        pick(g, depots),
			Mileage:         g.intn(150000, 10000),
			FuelLevel:       float64(g.rng.Intn(100)),
			BatteryLevel:    float64(g.rng.Intn(100)),
			Temperature:     float64(g.intn(30, 65)),
			LastMaintenance: g.pastDate(now),
			NextMaintenance: g.futureDate(now),
			Efficiency:      float64(g.intn(30, 70)),
			DeliveriesToday: g.rng.Intn(25),
			HoursActive:     float64(g.intn(12, 1)),
		}
	}
	return out
}

// Maintenance returns one maintenance record per vehicle.
func (g *Generator) Maintenance(fleet []models.Vehicle, now time.Time) []models.MaintenanceRecord {
	out := make([]models.MaintenanceRecord, len(fleet))
	for i, v := range fleet {
		date := g.futureDate(now)
		if g.Chance(0.5) {
			date = g.pastDate(now)
		}
		out[i] = models.MaintenanceRecord{
			VehicleID:   v.ID,
			Type:        pick(g, maintenanceKinds),
			Date:        date,
			Cost:        g.intn(500, 100),
			Description: "Routine maintenance and inspection",
			Status:      pick(g, models.MaintenanceStatuses),
		}
	}
	return out
}

// DriftVehicle applies one tick of sensor drift to v.
func (g *Generator) DriftVehicle(v models.Vehicle) models.Vehicle {
	v.FuelLevel = math.Max(0, v.FuelLevel-g.rng.Float64()*2)
	v.BatteryLevel = math.Max(0, v.BatteryLevel-g.rng.Float64())
	v.Temperature += g.jitter(3)
	v.Efficiency = clamp(v.Efficiency+g.jitter(5), 0, 100)
	if v.Status == models.VehicleActive {
		v.DeliveriesToday += g.rng.Intn(2)
		v.HoursActive = math.Min(maxHoursActive, v.HoursActive+0.25)
	}
	return v
}

func (g *Generator) pastDate(now time.Time) string {
	return format.Date(now.AddDate(0, 0, -g.rng.Intn(90)))
}

func (g *Generator) futureDate(now time.Time) string {
	return format.Date(now.AddDate(0, 0, g.intn(60, 1)))
}
