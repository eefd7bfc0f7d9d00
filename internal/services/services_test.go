package services

import (
	"context"
	"sync"
	"time"

	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// spyTaskRepository counts writes and can inject store failures
type spyTaskRepository struct {
	repository.TaskRepository

	mu            sync.Mutex
	creates       int
	deletes       int
	listErr       error
	createErr     error
	deleteErr     error
	hideInstances bool
	purgeOnUpdate bool
}

func (r *spyTaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	tasks, err := r.TaskRepository.ListAll(ctx)
	if err != nil || !r.hideInstances {
		return tasks, err
	}
	// Simulates a read taken before a concurrent writer stored today's instance.
	visible := tasks[:0]
	for _, t := range tasks {
		if t.SourceRecurringTaskID == nil {
			visible = append(visible, t)
		}
	}
	return visible, nil
}

func (r *spyTaskRepository) CreateIfAbsent(ctx context.Context, task *models.Task) (bool, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	if r.createErr != nil {
		return false, r.createErr
	}
	return r.TaskRepository.CreateIfAbsent(ctx, task)
}

func (r *spyTaskRepository) DeleteMany(ctx context.Context, ids []string) error {
	r.mu.Lock()
	r.deletes++
	r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	return r.TaskRepository.DeleteMany(ctx, ids)
}

// Update simulates the task being purged between the read and the write
// when purgeOnUpdate is set.
func (r *spyTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if r.purgeOnUpdate {
		if err := r.TaskRepository.DeleteMany(ctx, []string{task.ID}); err != nil {
			return err
		}
	}
	return r.TaskRepository.Update(ctx, task)
}

func (r *spyTaskRepository) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = 0
	r.deletes = 0
}

// recordingLogger keeps error messages for assertions
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) {}
func (l *recordingLogger) Warn(msg string, args ...interface{})  {}

func (l *recordingLogger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func openTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Project{}, &models.Task{}); err != nil {
		return nil, err
	}
	return db, nil
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }
