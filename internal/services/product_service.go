package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/arzan03/productsdb-api/internal/cache"
	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"github.com/arzan03/productsdb-api/internal/utils"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// allValues is the sentinel clients send for "no brand/category filter".
const allValues = "All"

// ProductQuery holds the raw /filteredproducts parameters as the client sent them.
type ProductQuery struct {
	ProductName string
	Brand       string
	Category    string
	MinPrice    string
	MaxPrice    string
	LowToHigh   string
	NewestFirst string
	Page        string
	Size        string
}

type ProductService struct {
	repo   repository.ProductRepository
	cache  cache.DistinctCache
	logger *zerolog.Logger
}

func NewProductService(repo repository.ProductRepository, c cache.DistinctCache, logger *zerolog.Logger) *ProductService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &ProductService{repo: repo, cache: c, logger: logger}
}

func (s *ProductService) All(ctx context.Context) ([]models.Product, error) {
	return s.repo.Find(ctx, repository.ProductFilter{}, repository.Page{})
}

// Paginated returns one page in natural order. Missing or malformed values use the defaults.
func (s *ProductService) Paginated(ctx context.Context, page, size string) ([]models.Product, error) {
	skip, limit := utils.Calculate(
		utils.ParseIntDefault(page, utils.DefaultPage),
		utils.ParseIntDefault(size, utils.DefaultPageSize),
	)
	return s.repo.Find(ctx, repository.ProductFilter{}, repository.Page{Skip: skip, Limit: limit})
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.EstimatedCount(ctx)
}

func (s *ProductService) SearchByName(ctx context.Context, name string) ([]models.Product, error) {
	return s.repo.Find(ctx, repository.ProductFilter{ProductName: name}, repository.Page{})
}

// Filter returns one page of matching products plus the unpaginated match count.
func (s *ProductService) Filter(ctx context.Context, q ProductQuery) (models.ProductPage, error) {
	filter, err := q.toFilter()
	if err != nil {
		return models.ProductPage{}, err
	}

	skip, limit := utils.Calculate(
		utils.ParseIntDefault(q.Page, utils.DefaultPage),
		utils.ParseIntDefault(q.Size, utils.DefaultPageSize),
	)

	var (
		total    int64
		products []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.repo.Find(gctx, filter, repository.Page{Skip: skip, Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ProductPage{}, err
	}

	return models.ProductPage{TotalCount: total, Result: products}, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

func (s *ProductService) distinct(ctx context.Context, field string) ([]string, error) {
	key := "distinct:" + field
	if values, ok := s.cache.Get(ctx, key); ok {
		return values, nil
	}

	values, err := s.repo.Distinct(ctx, field)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, values)
	s.logger.Debug().Str("field", field).Int("values", len(values)).Msg("distinct values cached")
	return values, nil
}

func (q ProductQuery) toFilter() (repository.ProductFilter, error) {
	f := repository.ProductFilter{
		ProductName: q.ProductName,
		NewestFirst: q.NewestFirst != "",
	}
	if q.Brand != allValues {
		f.Brand = q.Brand
	}
	if q.Category != allValues {
		f.Category = q.Category
	}

	var err error
	if f.MinPrice, err = parsePrice("minPrice", q.MinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice("maxPrice", q.MaxPrice); err != nil {
		return f, err
	}

	switch q.LowToHigh {
	case "Ascending":
		f.PriceOrder = repository.PriceAscending
	case "Descending":
		f.PriceOrder = repository.PriceDescending
	}
	return f, nil
}

func parsePrice(name, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := models.ParseAmount(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrValidation, name)
	}
	f := float64(v)
	return &f, nil
}
