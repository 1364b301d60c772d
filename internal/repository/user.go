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

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// InsertIfAbsent stores user unless a user with the same email exists.
	// created reports whether a document was written.
	InsertIfAbsent(ctx context.Context, user *models.User) (insertedID interface{}, created bool, err error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetRoleByID(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error)
	SetRoleByEmail(ctx context.Context, email, role string) (models.UpdateResult, error)
	SetVerified(ctx context.Context, email string, verified bool) (models.UpdateResult, error)
	// RaiseSalary sets salary to amount only when the stored salary is not above it.
	RaiseSalary(ctx context.Context, email string, amount float64) (models.UpdateResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// UserFilter selects users. Empty Roles matches any role; a nil Verified ignores the flag.
type UserFilter struct {
	Roles    []string
	Verified *bool
}

type userMongoRepository struct {
	collection *mongo.Collection
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, database *mongo.Database) UserRepository {
	collection := database.Collection(db.UsersCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	// Older data may already hold duplicate emails; the upsert still keeps new writes unique.
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{collection: collection}
}

func (r *userMongoRepository) InsertIfAbsent(ctx context.Context, user *models.User) (interface{}, bool, error) {
	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": user.Email},
		bson.M{"$setOnInsert": user},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent request inserted the same email first.
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}

	if res.UpsertedCount == 0 {
		return nil, false, nil
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return res.UpsertedID, true, nil
}

func (r *userMongoRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, userFilterDocument(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

func (r *userMongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *userMongoRepository) SetRoleByID(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"role": role})
}

func (r *userMongoRepository) SetRoleByEmail(ctx context.Context, email, role string) (models.UpdateResult, error) {
	return r.update(ctx, bson.M{"email": email}, bson.M{"role": role})
}

func (r *userMongoRepository) SetVerified(ctx context.Context, email string, verified bool) (models.UpdateResult, error) {
	return r.update(ctx, bson.M{"email": email}, bson.M{"verified": verified})
}

func (r *userMongoRepository) RaiseSalary(ctx context.Context, email string, amount float64) (models.UpdateResult, error) {
	return r.update(ctx, salaryRaiseFilter(email, amount), bson.M{"salary": amount})
}

func (r *userMongoRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to delete user: %w", err)
	}
	return deleteResult(res), nil
}

func (r *userMongoRepository) update(ctx context.Context, filter, set bson.M) (models.UpdateResult, error) {
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to update user: %w", err)
	}
	return updateResult(res), nil
}

func userFilterDocument(f UserFilter) bson.D {
	doc := bson.D{}
	switch len(f.Roles) {
	case 0:
	case 1:
		doc = append(doc, bson.E{Key: "role", Value: f.Roles[0]})
	default:
		doc = append(doc, bson.E{Key: "role", Value: bson.M{"$in": f.Roles}})
	}

	if f.Verified != nil {
		if *f.Verified {
			// Legacy documents store the flag as the string "true".
			doc = append(doc, bson.E{Key: "verified", Value: bson.M{"$in": bson.A{true, "true"}}})
		} else {
			doc = append(doc, bson.E{Key: "verified", Value: bson.M{"$nin": bson.A{true, "true"}}})
		}
	}
	return doc
}

// salaryRaiseFilter matches the user only while the stored salary is at most amount.
// The stored value is converted in the query so legacy string salaries compare numerically;
// missing or unparsable salaries count as zero.
func salaryRaiseFilter(email string, amount float64) bson.M {
	return bson.M{
		"email": email,
		"$expr": bson.M{
			"$lte": bson.A{
				bson.M{"$convert": bson.M{
					"input":   "$salary",
					"to":      "double",
					"onError": 0.0,
					"onNull":  0.0,
				}},
				amount,
			},
		},
	}
}
