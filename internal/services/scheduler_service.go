package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/trainingcenter/task-service/internal/logger"
	"github.com/trainingcenter/task-service/internal/utils"
)

// Job is a unit of scheduled work. It receives a context bounded by the job timeout.
type Job func(ctx context.Context) error

// SchedulerService runs jobs on a cron schedule in a fixed location.
type SchedulerService struct {
	cron    *cron.Cron
	log     logger.Logger
	timeout time.Duration
}

func NewSchedulerService(loc *time.Location, log logger.Logger, timeout time.Duration) *SchedulerService {
	return &SchedulerService{
		cron:    cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		log:     log,
		timeout: timeout,
	}
}

// ScheduleDaily registers job to run every day at the given HH:MM time.
func (s *SchedulerService) ScheduleDaily(name, timeStr string, job Job) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, s.wrap(name, job))
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Next returns the next run time of the given entry, or zero if it is unknown.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) wrap(name string, job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("scheduled job failed", name, err)
			return
		}
		s.log.Info("scheduled job finished", name, time.Since(start).String())
	}
}

func buildDailySpec(timeStr string) (string, error) {
	hour, minute, err := utils.ParseClock(timeStr)
	if err != nil {
		return "", err
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
