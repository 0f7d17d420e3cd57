package generator

import (
	"fmt"

	"logistics-dashboard/internal/models"
)

var (
	routeAddresses = []string{
		"123 Main St, Downtown", "456 Oak Ave, Midtown", "789 Pine Rd, Uptown",
		"321 Elm St, Suburbs", "654 Maple Dr, East Side", "987 Cedar Ln, West End",
		"147 Birch Rd, North District", "258 Willow Way, South Area",
	}
	routeCustomers = []string{
		"John Doe", "Jane Smith", "Bob Johnson", "Alice Brown", "Charlie Wilson",
		"Diana Davis", "Eve Martinez", "Frank Garcia", "Grace Lee", "Henry Wang",
	}
	trafficAreas = []string{"Downtown", "Midtown", "Uptown", "Suburbs", "East Side", "West End"}
	incidents    = []string{
		"Major accident on Highway 101 - 25 min delay",
		"Construction work on Main Street - 15 min delay",
		"Weather warning: Heavy rain expected - 20 min delay",
		"Bridge closure on Oak Avenue - 30 min delay",
	}
)

// DeliveryPoints returns the first five to seven stops of the sample route.
func (g *Generator) DeliveryPoints() []models.DeliveryPoint {
	n := g.intn(3, 5)
	out := make([]models.DeliveryPoint, n)
	for i := range out {
		out[i] = models.DeliveryPoint{
			ID:            i + 1,
			Address:       routeAddresses[i],
			Packages:      g.intn(8, 1),
			Priority:      pick(g, models.Priorities),
			EstimatedTime: g.ClockTime(),
			CustomerName:  pick(g, routeCustomers),
			PhoneNumber:   g.Phone(),
			IsCompleted:   g.rng.Float64() > 0.8,
		}
	}
	return out
}

// NewDeliveryPoint returns a manually added, incomplete stop.
func (g *Generator) NewDeliveryPoint(id int, address string) models.DeliveryPoint {
	return models.DeliveryPoint{
		ID:            id,
		Address:       address,
		Packages:      g.intn(5, 1),
		Priority:      pick(g, models.Priorities),
		EstimatedTime: g.ClockTime(),
		CustomerName:  fmt.Sprintf("Customer %d", id),
		PhoneNumber:   g.Phone(),
	}
}

// Traffic returns current congestion for every routed area. Heavy traffic
// delays 10-29 minutes, moderate 5-14 and light 0-4.
func (g *Generator) Traffic() []models.TrafficCondition {
	out := make([]models.TrafficCondition, len(trafficAreas))
	for i, area := range trafficAreas {
		level := pick(g, models.TrafficLevels)
		var delay int
		switch level {
		case models.TrafficHeavy:
			delay = g.intn(20, 10)
		case models.TrafficModerate:
			delay = g.intn(10, 5)
		default:
			delay = g.rng.Intn(5)
		}
		out[i] = models.TrafficCondition{Area: area, Condition: level, Color: level.Color(), Delay: delay}
	}
	return out
}

// RouteMetrics returns a route efficiency percentage and estimated savings.
func (g *Generator) RouteMetrics() (int, models.RouteSavings) {
	efficiency := g.intn(20, 75)
	savings := models.RouteSavings{
		Time: g.intn(45, 15),
		Fuel: g.intn(8, 2),
		Cost: g.intn(50, 25),
	}
	return efficiency, savings
}

// ReviseStop applies one real-time update to p: an open stop may complete
// (5%) or otherwise get a new estimated time (20%).
func (g *Generator) ReviseStop(p models.DeliveryPoint) models.DeliveryPoint {
	if p.IsCompleted {
		return p
	}
	if g.rng.Float64() > 0.95 {
		p.IsCompleted = true
		return p
	}
	if g.rng.Float64() > 0.8 {
		p.EstimatedTime = g.ClockTime()
	}
	return p
}

// Incident returns a traffic incident headline.
func (g *Generator) Incident() string {
	return pick(g, incidents)
}
