package product

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	"gorm.io/gorm"
)

const (
	categoryNameFilter = `EXISTS (
  SELECT 1 FROM product_category_association %[1]s
  JOIN categories %[2]s ON %[2]s.id = %[1]s.category_id
  WHERE %[1]s.product_id = products.id AND %[2]s.name = ?
)`
	tagAnyFilter = `EXISTS (
  SELECT 1 FROM product_tag_association pta
  WHERE pta.product_id = products.id AND pta.tag_id IN ?
)`
)

// Repository reads products with their nested collections.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns one page of products ordered by id, every nested
// collection preloaded.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	for i, name := range input.Filters.CategoryNames {
		q = q.Where(fmt.Sprintf(categoryNameFilter, fmt.Sprintf("pca%d", i), fmt.Sprintf("c%d", i)), name)
	}
	if len(input.Filters.TagIDs) > 0 {
		q = q.Where(tagAnyFilter, input.Filters.TagIDs)
	}
	q = preloadAll(q)

	page := input.Pagination.Normalize()
	var products []models.Product
	if err := q.
		Order("products.id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// preloadAll loads every nested collection, each ordered by id.
func preloadAll(q *gorm.DB) *gorm.DB {
	for _, rel := range models.Relations {
		q = q.Preload(rel, func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	}
	return q
}
