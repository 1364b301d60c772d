package repository

import (
	"context"
	"fmt"

	"github.com/arzan03/productsdb-api/internal/db"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) (models.InsertResult, error)
	// ListByEmail returns the tasks of email, newest date first.
	ListByEmail(ctx context.Context, email string) ([]models.Task, error)
}

type taskMongoRepository struct {
	collection *mongo.Collection
}

func NewTaskMongoRepository(ctx context.Context, logger *zerolog.Logger, database *mongo.Database) TaskRepository {
	collection := database.Collection(db.TasksCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Msg("failed to create task indexes")
	}

	return &taskMongoRepository{collection: collection}
}

func (r *taskMongoRepository) Insert(ctx context.Context, task *models.Task) (models.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("failed to insert task: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = id
	}
	return insertResult(res), nil
}

func (r *taskMongoRepository) ListByEmail(ctx context.Context, email string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]models.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}
