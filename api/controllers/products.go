package controllers

import (
	"net/http"

	"github.com/angelmondragon/catalog-sync/api/responses"
	"github.com/angelmondragon/catalog-sync/api/validators"
	product "github.com/angelmondragon/catalog-sync/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/angelmondragon/catalog-sync/pkg/pagination"
)

type infoQuery struct {
	Page          int      `query:"page" validate:"min=1"`
	Count         int      `query:"count" validate:"min=1,max=100"`
	CategoryNames []string `query:"category_names" validate:"dive,max=255"`
	Tags          []int64  `query:"tags" validate:"dive,gt=0"`
}

// ProductInfo serves the paged catalog view filtered by category names and
// tag ids.
func ProductInfo(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		query, err := parseInfoQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"page":           query.Page,
			"count":          query.Count,
			"category_names": query.CategoryNames,
			"tags":           query.Tags,
		})

		result, err := svc.ListProducts(ctx, product.ListProductsInput{
			Filters: product.ProductListFilters{
				CategoryNames: query.CategoryNames,
				TagIDs:        query.Tags,
			},
			Pagination: pagination.Params{Page: query.Page, Count: query.Count},
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func parseInfoQuery(r *http.Request) (infoQuery, error) {
	var q infoQuery
	var err error

	if q.Page, err = validators.ParseQueryInt(r, "page", pagination.DefaultPage, 1, 1<<30); err != nil {
		return q, err
	}
	if q.Count, err = validators.ParseQueryInt(r, "count", pagination.DefaultCount, 1, pagination.MaxCount); err != nil {
		return q, err
	}
	if q.Tags, err = validators.ParseQueryInt64List(r, "tags"); err != nil {
		return q, err
	}
	q.CategoryNames = validators.ParseQueryStrings(r, "category_names")

	if err := validators.ValidateStruct(q); err != nil {
		return q, err
	}
	return q, nil
}
