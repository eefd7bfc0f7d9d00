package database

import (
	"context"
	"fmt"
	"log"

	"github.com/trainingcenter/task-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// Migrate creates or updates the relational schema
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Project{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds the indexes used by listing and cleanup
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		columns string
	}{
		{"idx_tasks_created_at", "created_at"},
		{"idx_tasks_status", "status"},
		{"idx_tasks_creator_id", "creator_id"},
		{"idx_tasks_project_id", "project_id"},
		{"idx_tasks_is_template", "is_template"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(&models.Task{}, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON tasks (%s)", idx.name, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on tasks(%s)", idx.name, idx.columns)
	}

	return nil
}

// EnsureMongoIndexes creates the task collection indexes. Generated instances
// are unique per template and day; other documents carry no source and are
// left out of that index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	tasks := db.Collection(TasksCollection)
	_, err := tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "source_recurring_task_id", Value: 1},
				{Key: "recurrence_date_key", Value: 1},
			},
			Options: options.Index().
				SetName("uniq_source_day").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"source_recurring_task_id": bson.M{"$exists": true},
				}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}

	projects := db.Collection(ProjectsCollection)
	if _, err := projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create project indexes: %w", err)
	}

	return nil
}
