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

// MongoProjectRepository stores projects in a MongoDB collection.
// Deleted projects are removed outright; tasks keep working without them.
type MongoProjectRepository struct {
	coll  *mongo.Collection
	tasks *mongo.Collection
	now   func() time.Time
}

// NewMongoProjectRepository creates a ProjectRepository backed by coll.
// tasks is the task collection whose project references are cleared on delete.
func NewMongoProjectRepository(coll, tasks *mongo.Collection) ProjectRepository {
	return &MongoProjectRepository{coll: coll, tasks: tasks, now: time.Now}
}

// Create inserts a new project document
func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == "" {
		project.ID = utils.NewID()
	}
	now := r.now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, project)
	return err
}

// FindByID finds a project by ID
func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List returns a page of projects ordered by name
func (r *MongoProjectRepository) List(ctx context.Context, offset, limit int) ([]models.Project, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update replaces the stored project
func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = r.now()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": project.ID}, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete clears the project from its tasks, then removes it
func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.tasks.UpdateMany(ctx,
		bson.M{"project_id": id},
		bson.M{"$unset": bson.M{"project_id": ""}},
	); err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
