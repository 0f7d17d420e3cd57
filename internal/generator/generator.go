// Package generator produces the synthetic datasets behind every dashboard
// panel. A Generator is a seeded random stream: the same seed always yields
// the same sequence of datasets, which keeps the panels testable without
// timers. A Generator is not safe for concurrent use; each panel owns one.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"logistics-dashboard/internal/format"
)

// Generator draws bounded random values for dashboard data.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator seeded with seed. A zero seed uses the clock.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// intn returns base + [0,n).
func (g *Generator) intn(n, base int) int {
	return g.rng.Intn(n) + base
}

// jitter returns a value in [-span/2, span/2).
func (g *Generator) jitter(span float64) float64 {
	return (g.rng.Float64() - 0.5) * span
}

// Chance reports true with probability p.
func (g *Generator) Chance(p float64) bool {
	return g.rng.Float64() < p
}

func pick[T any](g *Generator, values []T) T {
	return values[g.rng.Intn(len(values))]
}

// ClockTime returns a random time of day between 9:00 AM and 4:59 PM.
func (g *Generator) ClockTime() string {
	hour := g.intn(8, 9)
	minute := g.rng.Intn(60)
	return format.Clock(hour, minute)
}

// Phone returns a fictional US phone number.
func (g *Generator) Phone() string {
	return fmt.Sprintf("+1 (555) %d-%d", g.intn(900, 100), g.intn(9000, 1000))
}

// street returns a house number and street name from streets.
func (g *Generator) street(streets []string) string {
	return fmt.Sprintf("%d %s", g.intn(999, 100), pick(g, streets))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
