package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics-dashboard/internal/export"
	"logistics-dashboard/internal/generator"
	"logistics-dashboard/internal/models"
)

func newPanel(interval time.Duration) *Panel {
	return New(generator.New(1), interval, nil)
}

func TestMountSeedsDefaultRange(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	s := p.Snapshot()
	assert.Equal(t, models.Range7Days, s.TimeRange)
	assert.Len(t, s.Performance, 7)
	assert.Len(t, s.Regions, 5)
	assert.Len(t, s.NetRevenue, 7)
	assert.Len(t, s.Headline, 6)
	assert.Equal(t, float64(s.Performance[0].Revenue-s.Performance[0].FuelCost), s.NetRevenue[0].Value)
}

func TestSetTimeRangeRegenerates(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	p.SetTimeRange(models.Range90Days)
	s := p.Snapshot()
	assert.Equal(t, models.Range90Days, s.TimeRange)
	assert.Len(t, s.Performance, 90)

	total := 0
	for _, d := range s.Performance {
		total += d.Deliveries
	}
	assert.Equal(t, total, s.KPIs.TotalDeliveries)
}

func TestTimerRegenerates(t *testing.T) {
	var ticks atomic.Int32
	p := newPanel(5 * time.Millisecond)
	p.Mount(context.Background(), func(task string, _ time.Time) {
		assert.Equal(t, TaskRegenerate, task)
		ticks.Add(1)
	})
	first := p.Snapshot().Performance

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)
	assert.NotEqual(t, first, p.Snapshot().Performance)
	p.Unmount()
}

func TestUnmountDiscardsState(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	p.SetTimeRange(models.Range30Days)
	p.Unmount()

	s := p.Snapshot()
	assert.Empty(t, s.Performance)
	assert.Empty(t, s.Regions)

	p.Mount(context.Background(), nil)
	defer p.Unmount()
	assert.Len(t, p.Snapshot().Performance, 30)
}

func TestUnmountDropsQueuedTick(t *testing.T) {
	for i := 0; i < 20; i++ {
		p := newPanel(time.Millisecond)
		p.Mount(context.Background(), nil)

		// Hold the lock so a tick queues up behind Unmount.
		p.mu.Lock()
		done := make(chan struct{})
		go func() {
			p.Unmount()
			close(done)
		}()
		time.Sleep(5 * time.Millisecond)
		p.mu.Unlock()
		<-done

		s := p.Snapshot()
		require.Empty(t, s.Performance, "run %d", i)
		require.Empty(t, s.Regions, "run %d", i)
	}
}

func TestExportContainsCurrentData(t *testing.T) {
	p := newPanel(time.Hour)
	p.Mount(context.Background(), nil)
	defer p.Unmount()

	snap := p.Snapshot()
	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, p.Export()))

	var back export.AnalyticsReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, snap.Performance, back.Performance)
	assert.Equal(t, snap.Regions, back.Regions)
	assert.Equal(t, snap.KPIs, back.KPIs)
	assert.False(t, back.Timestamp.IsZero())
}

func TestHeadline(t *testing.T) {
	h := Headline(models.KPISummary{TotalDeliveries: 1850, OnTimeRate: 97.26, AvgDeliveryTime: 31, TotalRevenue: 71234, FuelSavings: 9000, CustomerSatisfaction: 94})
	assert.Equal(t, "1,850", h[0].Value)
	assert.Equal(t, "97.3%", h[1].Value)
	assert.Equal(t, "31 min", h[2].Value)
	assert.Equal(t, "$71,234", h[3].Value)
	assert.Equal(t, "94%", h[5].Value)
}
