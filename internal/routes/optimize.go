package routes

import (
	"sort"
	"strings"

	"logistics-dashboard/internal/models"
)

// UnknownArea is used for addresses without an area part.
const UnknownArea = "Unknown"

// Area returns the part of address after the first comma, trimmed.
func Area(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return UnknownArea
	}
	area := strings.TrimSpace(parts[1])
	if area == "" {
		return UnknownArea
	}
	return area
}

// Delay returns the delay of the first traffic row whose area occurs in the
// address's area, or zero.
func Delay(traffic []models.TrafficCondition, address string) int {
	area := Area(address)
	for _, t := range traffic {
		if strings.Contains(area, t.Area) {
			return t.Delay
		}
	}
	return 0
}

// Optimize returns the stops ordered by priority weight (highest first),
// then by traffic delay (lowest first). Ties keep their input order.
func Optimize(points []models.DeliveryPoint, traffic []models.TrafficCondition) []models.DeliveryPoint {
	out := append([]models.DeliveryPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool {
		wi, wj := out[i].Priority.Weight(), out[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return Delay(traffic, out[i].Address) < Delay(traffic, out[j].Address)
	})
	return out
}

// Sorted returns the stops matching priority, ordered by key. Ties keep their
// input order.
func Sorted(points []models.DeliveryPoint, priority models.Choice[models.Priority], key models.SortKey) []models.DeliveryPoint {
	out := make([]models.DeliveryPoint, 0, len(points))
	for _, p := range points {
		if priority.Matches(p.Priority) {
			out = append(out, p)
		}
	}
	var less func(i, j int) bool
	switch key {
	case models.SortByPriority:
		less = func(i, j int) bool { return out[i].Priority.Weight() > out[j].Priority.Weight() }
	case models.SortByPackages:
		less = func(i, j int) bool { return out[i].Packages > out[j].Packages }
	default:
		less = func(i, j int) bool { return out[i].EstimatedTime < out[j].EstimatedTime }
	}
	sort.SliceStable(out, less)
	return out
}

// Stats summarises the route.
type Stats struct {
	Completed     int     `json:"completed"`
	Total         int     `json:"total"`
	TotalPackages int     `json:"totalPackages"`
	AvgDelay      float64 `json:"avgDelay"`
}

// Summarize computes the route statistics.
func Summarize(points []models.DeliveryPoint, traffic []models.TrafficCondition) Stats {
	s := Stats{Total: len(points)}
	for _, p := range points {
		if p.IsCompleted {
			s.Completed++
		}
		s.TotalPackages += p.Packages
	}
	if len(traffic) > 0 {
		sum := 0
		for _, t := range traffic {
			sum += t.Delay
		}
		s.AvgDelay = float64(sum) / float64(len(traffic))
	}
	return s
}
