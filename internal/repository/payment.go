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
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) (models.InsertResult, error)
	ListByRecipient(ctx context.Context, email string) ([]models.Payment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	SetReceiptKey(ctx context.Context, id primitive.ObjectID, key string) error
}

type paymentMongoRepository struct {
	collection *mongo.Collection
}

func NewPaymentMongoRepository(ctx context.Context, logger *zerolog.Logger, database *mongo.Database) PaymentRepository {
	collection := database.Collection(db.PaymentsCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "paidTo", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Msg("failed to create payment indexes")
	}

	return &paymentMongoRepository{collection: collection}
}

func (r *paymentMongoRepository) Insert(ctx context.Context, payment *models.Payment) (models.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("failed to insert payment: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		payment.ID = id
	}
	return insertResult(res), nil
}

func (r *paymentMongoRepository) ListByRecipient(ctx context.Context, email string) ([]models.Payment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"paidTo": email})
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	payments := make([]models.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

func (r *paymentMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		return nil, translateErr(err)
	}
	return &payment, nil
}

func (r *paymentMongoRepository) SetReceiptKey(ctx context.Context, id primitive.ObjectID, key string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"receiptKey": key}})
	if err != nil {
		return fmt.Errorf("failed to store receipt key: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
