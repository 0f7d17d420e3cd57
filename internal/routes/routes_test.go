package routes

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/models"
)

var traffic = []models.TrafficCondition{
	{Area: "Downtown", Delay: 20},
	{Area: "Midtown", Delay: 2},
	{Area: "Uptown", Delay: 5},
}

func TestArea(t *testing.T) {
	assert.Equal(t, "Downtown", Area("123 Main St, Downtown"))
	assert.Equal(t, "East Side", Area("654 Maple Dr,  East Side , Springfield"))
	assert.Equal(t, UnknownArea, Area("No comma here"))
	assert.Equal(t, UnknownArea, Area("Trailing,  "))
}

func TestDelay(t *testing.T) {
	assert.Equal(t, 20, Delay(traffic, "1 A St, Downtown"))
	assert.Equal(t, 2, Delay(traffic, "1 A St, Midtown North"))
	assert.Equal(t, 0, Delay(traffic, "1 A St, Airport"))
	assert.Equal(t, 0, Delay(traffic, "1 A St"))
	assert.Equal(t, 0, Delay(nil, "1 A St, Downtown"))
}

func TestOptimizePriorityThenDelay(t *testing.T) {
	points := []models.DeliveryPoint{
		{ID: 1, Priority: models.PriorityLow, Address: "1 A St, Uptown"},
		{ID: 2, Priority: models.PriorityHigh, Address: "2 B St, Downtown"},
		{ID: 3, Priority: models.PriorityHigh, Address: "3 C St, Midtown"},
	}
	got := Optimize(points, traffic)

	ids := []int{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []int{3, 2, 1}, ids)
	assert.Equal(t, 1, points[0].ID, "input is not reordered")
}

func TestOptimizeIsStable(t *testing.T) {
	points := []models.DeliveryPoint{
		{ID: 1, Priority: models.PriorityMedium, Address: "1 A St, Downtown"},
		{ID: 2, Priority: models.PriorityMedium, Address: "2 B St, Airport"},
		{ID: 3, Priority: models.PriorityMedium, Address: "3 C St, Downtown"},
		{ID: 4, Priority: models.PriorityMedium, Address: "4 D St, Harbor"},
		{ID: 5, Priority: models.PriorityHigh, Address: "5 E St, Downtown"},
	}
	got := Optimize(points, traffic)

	var ids []int
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{5, 2, 4, 1, 3}, ids)
}

func TestSorted(t *testing.T) {
	points := []models.DeliveryPoint{
		{ID: 1, Priority: models.PriorityLow, Packages: 3, EstimatedTime: "2:15 PM"},
		{ID: 2, Priority: models.PriorityHigh, Packages: 1, EstimatedTime: "10:05 AM"},
		{ID: 3, Priority: models.PriorityHigh, Packages: 8, EstimatedTime: "9:30 AM"},
		{ID: 4, Priority: models.PriorityMedium, Packages: 3, EstimatedTime: "11:45 AM"},
	}
	ids := func(ps []models.DeliveryPoint) []int {
		out := []int{}
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	all := models.Any[models.Priority]()

	assert.Equal(t, []int{2, 4, 1, 3}, ids(Sorted(points, all, models.SortByTime)))
	assert.Equal(t, []int{2, 3, 4, 1}, ids(Sorted(points, all, models.SortByPriority)))
	assert.Equal(t, []int{3, 1, 4, 2}, ids(Sorted(points, all, models.SortByPackages)))
	assert.Equal(t, []int{2, 3}, ids(Sorted(points, models.Only(models.PriorityHigh), models.SortByPriority)))
	assert.Empty(t, Sorted(nil, all, models.SortByTime))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.DeliveryPoint{
		{Packages: 3, IsCompleted: true},
		{Packages: 4},
	}, traffic)
	assert.Equal(t, Stats{Completed: 1, Total: 2, TotalPackages: 7, AvgDelay: 9}, s)
	assert.Zero(t, Summarize(nil, nil).AvgDelay)
}

func newPanel(step time.Duration) *Panel {
	return New(generator.New(21), Config{
		TrafficInterval:      time.Hour,
		StatusInterval:       time.Hour,
		AutoOptimizeInterval: time.Hour,
		OptimizeStep:         step,
	}, nil, nil)
}

func all() models.Choice[models.Priority] { return models.Any[models.Priority]() }

func TestMountDefaults(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)

	v := p.View(all(), models.SortByTime)
	assert.GreaterOrEqual(t, len(v.Stops), 5)
	assert.LessOrEqual(t, len(v.Stops), 7)
	assert.Len(t, v.Traffic, 6)
	assert.Equal(t, Settings{AutoOptimize: false, RealTimeUpdates: true}, v.Settings)

	p.Unmount()
	assert.Empty(t, p.View(all(), models.SortByTime).Stops)
	assert.False(t, p.Optimize(), "unmounted panel cannot optimize")
}

func TestUnmountDropsQueuedTicks(t *testing.T) {
	for i := 0; i < 20; i++ {
		p := New(generator.New(21), Config{
			TrafficInterval:      time.Millisecond,
			StatusInterval:       time.Millisecond,
			AutoOptimizeInterval: time.Hour,
			OptimizeStep:         time.Millisecond,
		}, nil, nil)
		p.Mount(context.Background(), nil)
		require.True(t, p.Optimize())

		p.mu.Lock()
		done := make(chan struct{})
		go func() {
			p.Unmount()
			close(done)
		}()
		time.Sleep(5 * time.Millisecond)
		p.mu.Unlock()
		<-done

		v := p.View(all(), models.SortByTime)
		require.Empty(t, v.Stops, "run %d", i)
		require.Empty(t, v.Traffic, "run %d", i)
		require.False(t, v.Optimizing, "run %d", i)
		require.Zero(t, v.Progress, "run %d", i)
	}
}

func TestAddRemoveToggle(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	n := len(p.View(all(), models.SortByTime).Stops)

	_, ok := p.AddStop("   ")
	assert.False(t, ok)
	assert.Len(t, p.View(all(), models.SortByTime).Stops, n)

	require.NoError(t, p.RemoveStop(1))
	added, ok := p.AddStop(" 9 Harbor Rd, Docks ")
	require.True(t, ok)
	assert.Equal(t, n+1, added.ID, "id follows the largest existing id")
	assert.Equal(t, "9 Harbor Rd, Docks", added.Address)
	assert.False(t, added.IsCompleted)
	assert.Equal(t, "Customer "+strconv.Itoa(added.ID), added.CustomerName)

	pt, err := p.ToggleComplete(added.ID)
	require.NoError(t, err)
	assert.True(t, pt.IsCompleted)
	pt, err = p.ToggleComplete(added.ID)
	require.NoError(t, err)
	assert.False(t, pt.IsCompleted)

	assert.ErrorIs(t, p.RemoveStop(1), ErrNotFound)
	_, err = p.ToggleComplete(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkUpdatePriority(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	p.mu.Lock()
	p.points = []models.DeliveryPoint{
		{ID: 1, Priority: models.PriorityLow, IsCompleted: true},
		{ID: 2, Priority: models.PriorityLow},
		{ID: 3, Priority: models.PriorityLow},
		{ID: 4, Priority: models.PriorityLow},
		{ID: 5, Priority: models.PriorityLow},
	}
	p.mu.Unlock()

	assert.Equal(t, []int{2, 3, 4}, p.BulkUpdatePriority(models.PriorityHigh))
	v := p.View(models.Only(models.PriorityHigh), models.SortByTime)
	assert.Len(t, v.Stops, 3)
}

func TestOptimizeRun(t *testing.T) {
	p := newPanel(time.Millisecond)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	p.mu.Lock()
	p.traffic = traffic
	p.points = []models.DeliveryPoint{
		{ID: 1, Priority: models.PriorityLow, Address: "1 A St, Uptown"},
		{ID: 2, Priority: models.PriorityHigh, Address: "2 B St, Downtown"},
		{ID: 3, Priority: models.PriorityHigh, Address: "3 C St, Midtown"},
	}
	p.mu.Unlock()

	require.True(t, p.Optimize())
	require.Eventually(t, func() bool {
		return !p.View(all(), models.SortByTime).Optimizing
	}, time.Second, time.Millisecond)

	v := p.View(all(), models.SortByTime)
	assert.Equal(t, MaxProgress, v.Progress)
	p.mu.Lock()
	order := []int{p.points[0].ID, p.points[1].ID, p.points[2].ID}
	p.mu.Unlock()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestOptimizeWhileRunningIsNoop(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	require.True(t, p.Optimize())
	assert.False(t, p.Optimize())
	v := p.View(all(), models.SortByTime)
	assert.True(t, v.Optimizing)
	assert.Zero(t, v.Progress)
}

func TestProgressClampedAtMax(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	p.mu.Lock()
	p.optimizing = true
	p.mu.Unlock()

	steps := 0
	for p.stepOptimize(time.Now()) {
		steps++
		v := p.View(all(), models.SortByTime)
		assert.LessOrEqual(t, v.Progress, MaxProgress)
	}
	assert.Equal(t, 8, steps)
	assert.Equal(t, MaxProgress, p.View(all(), models.SortByTime).Progress)
}

func TestSettingsAndIncident(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	p.SetAutoOptimize(true)
	p.SetRealTimeUpdates(false)
	assert.Equal(t, Settings{AutoOptimize: true, RealTimeUpdates: false}, p.Settings())

	assert.Contains(t, p.SimulateIncident(), "delay")
	assert.Len(t, p.View(all(), models.SortByTime).Traffic, 6)
}

func TestExport(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	r := p.Export()
	v := p.View(all(), models.SortByTime)
	assert.Len(t, r.DeliveryPoints, len(v.Stops))
	assert.Equal(t, v.Traffic, r.TrafficConditions)
	assert.Equal(t, v.Efficiency, r.Efficiency)
	assert.Equal(t, v.EstimatedSavings, r.EstimatedSavings)
	assert.NotEmpty(t, r.ID)
}
