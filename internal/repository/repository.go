package repository

import (
	"errors"

	"github.com/arzan03/productsdb-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup by key matches no document.
var ErrNotFound = errors.New("document not found")

// Page is an already resolved skip/limit pair. A zero Limit means no limit.
type Page struct {
	Skip  int64
	Limit int64
}

func translateErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func insertResult(res *mongo.InsertOneResult) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
