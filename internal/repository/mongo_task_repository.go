package repository

import (
	"context"
	"errors"
	"time"

	"github.com/trainingcenter/task-service/internal/models"
	"github.com/trainingcenter/task-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository stores tasks as documents in a MongoDB collection
type MongoTaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoTaskRepository creates a TaskRepository backed by coll
func NewMongoTaskRepository(coll *mongo.Collection) TaskRepository {
	return &MongoTaskRepository{coll: coll, now: time.Now}
}

// ListAll returns every task ordered by creation time, newest first
func (r *MongoTaskRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Create inserts a new task document
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.stamp(task)
	_, err := r.coll.InsertOne(ctx, task)
	return err
}

// CreateIfAbsent inserts the task unless a duplicate key error says it already exists
func (r *MongoTaskRepository) CreateIfAbsent(ctx context.Context, task *models.Task) (bool, error) {
	r.stamp(task)
	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Update replaces the stored document
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = r.now()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single task document
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes the given task documents with a single deleteMany command
func (r *MongoTaskRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

func (r *MongoTaskRepository) stamp(task *models.Task) {
	if task.ID == "" {
		task.ID = utils.NewID()
	}
	now := r.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if task.Assignees == nil {
		task.Assignees = []string{}
	}
	if task.Labels == nil {
		task.Labels = []string{}
	}
}
