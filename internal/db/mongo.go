package db

import (
	"context"
	"fmt"

	"github.com/arzan03/productsdb-api/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the productsDB database.
const (
	ProductsCollection = "products"
	UsersCollection    = "users"
	TasksCollection    = "tasks"
	PaymentsCollection = "payments"
)

// ConnectMongoDB opens the client with the Stable API v1 and pings the server.
// Strict mode stays configurable because distinct is outside the strict API set.
func ConnectMongoDB(ctx context.Context, cfg config.MongoConfig, logger *zerolog.Logger) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(cfg.StrictAPI).
		SetDeprecationErrors(true)

	clientOptions := options.Client().
		ApplyURI(cfg.ConnectionURI()).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connection failed: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to MongoDB")
	return client, nil
}
