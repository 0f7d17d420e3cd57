package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	s, err := ParseVehicleStatus("Out of Service")
	require.NoError(t, err)
	assert.Equal(t, VehicleOutOfService, s)

	_, err = ParseVehicleStatus("out of service")
	assert.EqualError(t, err, `unknown vehicle status: "out of service"`)

	d, err := ParseDeliveryStatus("Delayed")
	require.NoError(t, err)
	assert.True(t, d.Valid())

	_, err = ParseOutcome("Lost")
	assert.Error(t, err)

	k, err := ParseSortKey("packages")
	require.NoError(t, err)
	assert.Equal(t, SortByPackages, k)
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 0, Priority("Urgent").Weight())
	assert.False(t, Priority("Urgent").Valid())
}

func TestTimeRangeDays(t *testing.T) {
	for r, days := range map[TimeRange]int{Range7Days: 7, Range30Days: 30, Range90Days: 90} {
		got, err := ParseTimeRange(string(r))
		require.NoError(t, err)
		assert.Equal(t, days, got.Days())
	}
}

func TestRefreshInterval(t *testing.T) {
	r, err := ParseRefreshSeconds(10)
	require.NoError(t, err)
	assert.Equal(t, Refresh10s, r)
	assert.Equal(t, 10*time.Second, r.Duration())
	assert.Equal(t, 10, r.Seconds())

	_, err = ParseRefreshSeconds(7)
	assert.EqualError(t, err, "unsupported refresh interval: 7s")
	assert.False(t, RefreshInterval(time.Minute).Valid())
}

func TestChoice(t *testing.T) {
	all := Any[Priority]()
	assert.True(t, all.All())
	assert.True(t, all.Matches(PriorityLow))
	assert.Equal(t, "all", all.String())

	high := Only(PriorityHigh)
	v, ok := high.Value()
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, v)
	assert.True(t, high.Matches(PriorityHigh))
	assert.False(t, high.Matches(PriorityLow))
	assert.Equal(t, "High", high.String())
}

func TestColors(t *testing.T) {
	assert.Equal(t, "#22c55e", VehicleActive.Color())
	assert.Equal(t, "#6b7280", VehicleStatus("Parked").Color())
	assert.Equal(t, "bg-red-500", TrafficHeavy.Color())
	assert.Equal(t, "bg-green-500", TrafficLight.Color())
	assert.Equal(t, "destructive", LevelHigh.Badge())
	assert.Equal(t, "secondary", LevelNone.Badge())
}
