package product

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes the catalog read path.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

type readRunner interface {
	WithReadTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	db   readRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, db readRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, db: db}, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Pagination.Count > pagination.MaxCount {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("count must be between 1 and %d", pagination.MaxCount))
	}
	input.Pagination = input.Pagination.Normalize()
	input.Filters.CategoryNames = cleanNames(input.Filters.CategoryNames)

	result := &ProductListResult{
		Products: []ProductDTO{},
		Page:     input.Pagination.Page,
		Count:    input.Pagination.Count,
	}
	err := s.db.WithReadTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).ListProducts(ctx, input)
		if err != nil {
			return err
		}
		for _, row := range rows {
			result.Products = append(result.Products, NewProductDTO(row))
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
