package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("00:05")
	require.NoError(t, err)
	assert.Equal(t, "0 5 0 * * *", spec)

	spec, err = buildDailySpec("23:59")
	require.NoError(t, err)
	assert.Equal(t, "0 59 23 * * *", spec)

	for _, bad := range []string{"", "7", "24:00", "12:60", "ab:10", "1:2:3"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSchedulerService_ScheduleDaily(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	log := &recordingLogger{}
	scheduler := NewSchedulerService(loc, log, time.Second)

	id, err := scheduler.ScheduleDaily("maintenance", "06:30", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	scheduler.Start()
	defer scheduler.Stop()

	next := scheduler.Next(id).In(loc)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 30, next.Minute())

	_, err = scheduler.ScheduleDaily("broken", "99:99", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestSchedulerService_WrapLogsFailures(t *testing.T) {
	log := &recordingLogger{}
	scheduler := NewSchedulerService(time.UTC, log, time.Second)

	var deadline bool
	scheduler.wrap("ok", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})()
	scheduler.wrap("failing", func(ctx context.Context) error { return errors.New("boom") })()

	assert.True(t, deadline)
	assert.Equal(t, []string{"scheduled job failed"}, log.errors)
	assert.Equal(t, []string{"scheduled job finished"}, log.infos)
}
