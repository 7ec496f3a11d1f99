package product

import "github.com/angelmondragon/catalog-sync/pkg/pagination"

// ProductListFilters describe the supported filter knobs for the info endpoint.
// Every category name must match (AND); any tag id may match (OR).
type ProductListFilters struct {
	CategoryNames []string `json:"category_names,omitempty"`
	TagIDs        []int64  `json:"tags,omitempty"`
}

// ListProductsInput captures the inputs needed to page through products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}
