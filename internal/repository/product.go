package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/arzan03/productsdb-api/internal/db"
	"github.com/arzan03/productsdb-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository defines the read operations on the product catalog.
type ProductRepository interface {
	Find(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	EstimatedCount(ctx context.Context) (int64, error)
	Distinct(ctx context.Context, field string) ([]string, error)
}

// Sort directions for ProductFilter.PriceOrder.
const (
	PriceUnsorted   = 0
	PriceAscending  = 1
	PriceDescending = -1
)

// ProductFilter narrows a product listing. Empty strings and nil bounds mean no constraint.
// Text fields match as case-insensitive substrings.
type ProductFilter struct {
	ProductName string
	Brand       string
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	PriceOrder  int
	NewestFirst bool
}

type productMongoRepository struct {
	collection *mongo.Collection
}

func NewProductMongoRepository(database *mongo.Database) ProductRepository {
	return &productMongoRepository{collection: database.Collection(db.ProductsCollection)}
}

func (r *productMongoRepository) Find(ctx context.Context, filter ProductFilter, page Page) ([]models.Product, error) {
	opts := options.Find()
	if sort := productSortDocument(filter); len(sort) > 0 {
		opts.SetSort(sort)
	}
	if page.Skip > 0 {
		opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts.SetLimit(page.Limit)
	}

	cursor, err := r.collection.Find(ctx, productFilterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *productMongoRepository) Count(ctx context.Context, filter ProductFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, productFilterDocument(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *productMongoRepository) EstimatedCount(ctx context.Context) (int64, error) {
	count, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to estimate product count: %w", err)
	}
	return count, nil
}

// Distinct returns the unique string values of field. Missing and non-string values are skipped.
func (r *productMongoRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", field, err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func substring(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func productFilterDocument(f ProductFilter) bson.D {
	doc := bson.D{}
	if f.Brand != "" {
		doc = append(doc, bson.E{Key: "brand", Value: substring(f.Brand)})
	}
	if f.ProductName != "" {
		doc = append(doc, bson.E{Key: "productName", Value: substring(f.ProductName)})
	}
	if f.Category != "" {
		doc = append(doc, bson.E{Key: "category", Value: substring(f.Category)})
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.D{}
		if f.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *f.MinPrice})
		}
		if f.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *f.MaxPrice})
		}
		doc = append(doc, bson.E{Key: "price", Value: price})
	}
	return doc
}

// productSortDocument orders by price first, then by dateAdded descending.
func productSortDocument(f ProductFilter) bson.D {
	sort := bson.D{}
	if f.PriceOrder == PriceAscending || f.PriceOrder == PriceDescending {
		sort = append(sort, bson.E{Key: "price", Value: f.PriceOrder})
	}
	if f.NewestFirst {
		sort = append(sort, bson.E{Key: "dateAdded", Value: -1})
	}
	return sort
}
