package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey_UsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2025-03-10 20:00 UTC is already the 11th in Tokyo.
	ts := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-10", DateKey(ts, time.UTC))
	assert.Equal(t, "2025-03-11", DateKey(ts, tokyo))
}

func TestDateKey_OrdersAsStrings(t *testing.T) {
	earlier := DateKey(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), time.UTC)
	later := DateKey(time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC), time.UTC)

	assert.Less(t, earlier, later)
}

func TestOnDay_KeepsTimeOfDay(t *testing.T) {
	clock := time.Date(2024, 1, 5, 9, 30, 15, 0, time.UTC)
	day := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)

	got := OnDay(day, clock, time.UTC)

	assert.True(t, got.Equal(time.Date(2025, 3, 10, 9, 30, 15, 0, time.UTC)))
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC), time.UTC)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func TestParseDateOrTime(t *testing.T) {
	got, err := ParseDateOrTime("2025-03-10T08:00:00Z", time.UTC, false)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)))

	got, err = ParseDateOrTime("2025-03-10", time.UTC, false)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))

	got, err = ParseDateOrTime("2025-03-10", time.UTC, true)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", DateKey(got, time.UTC))
	assert.True(t, got.After(time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC)))

	_, err = ParseDateOrTime("10/03/2025", time.UTC, false)
	assert.Error(t, err)
}

func TestInstanceID_Deterministic(t *testing.T) {
	a := InstanceID("template-1", "2025-03-10")
	b := InstanceID("template-1", "2025-03-10")
	c := InstanceID("template-1", "2025-03-11")
	d := InstanceID("template-2", "2025-03-10")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.NotEqual(t, NewID(), NewID())
}

func TestPaginationParams_Bounds(t *testing.T) {
	p := PaginationParams{Page: 2, Limit: 10, Offset: 10}

	start, end := p.Bounds(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = p.Bounds(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = p.Bounds(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock(" 06:30 ")
	require.NoError(t, err)
	assert.Equal(t, 6, hour)
	assert.Equal(t, 30, minute)

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:10", "1:2:3"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
