// Package repotest provides in-memory repositories that follow the Mongo implementations' semantics.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/arzan03/productsdb-api/internal/models"
	"github.com/arzan03/productsdb-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStore is a fake ProductRepository. Err, when set, is returned by every call.
type ProductStore struct {
	mu       sync.Mutex
	products []models.Product
	Err      error
}

func NewProductStore(products ...models.Product) *ProductStore {
	s := &ProductStore{}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		s.products = append(s.products, p)
	}
	return s
}

func (s *ProductStore) Find(_ context.Context, f repository.ProductFilter, page repository.Page) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	out := make([]models.Product, 0)
	for _, p := range s.products {
		if matchProduct(p, f) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.PriceOrder != repository.PriceUnsorted && a.Price != b.Price {
			if f.PriceOrder == repository.PriceAscending {
				return a.Price < b.Price
			}
			return a.Price > b.Price
		}
		if f.NewestFirst {
			return fmt.Sprint(a.Extra["dateAdded"]) > fmt.Sprint(b.Extra["dateAdded"])
		}
		return false
	})

	if page.Skip >= int64(len(out)) {
		return []models.Product{}, nil
	}
	out = out[page.Skip:]
	if page.Limit > 0 && page.Limit < int64(len(out)) {
		out = out[:page.Limit]
	}
	return out, nil
}

func (s *ProductStore) Count(_ context.Context, f repository.ProductFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	var n int64
	for _, p := range s.products {
		if matchProduct(p, f) {
			n++
		}
	}
	return n, nil
}

func (s *ProductStore) EstimatedCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.products)), nil
}

func (s *ProductStore) Distinct(_ context.Context, field string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range s.products {
		var v string
		switch field {
		case "category":
			v = p.Category
		case "brand":
			v = p.Brand
		case "productName":
			v = p.ProductName
		default:
			str, ok := p.Extra[field].(string)
			if !ok {
				continue
			}
			v = str
		}
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func matchProduct(p models.Product, f repository.ProductFilter) bool {
	if !containsFold(p.Brand, f.Brand) || !containsFold(p.ProductName, f.ProductName) || !containsFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && float64(p.Price) < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && float64(p.Price) > *f.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
