package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	product "github.com/angelmondragon/catalog-sync/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
)

type stubProductService struct {
	calls  int
	input  product.ListProductsInput
	result *product.ProductListResult
	err    error
}

func (s *stubProductService) ListProducts(ctx context.Context, input product.ListProductsInput) (*product.ProductListResult, error) {
	s.calls++
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func serveInfo(svc product.Service, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	ProductInfo(svc, testLogger()).ServeHTTP(rec, req)
	return rec
}

func TestProductInfoDefaults(t *testing.T) {
	svc := &stubProductService{result: &product.ProductListResult{
		Products: []product.ProductDTO{{ID: 7, Name: "Sofa"}},
		Page:     1,
		Count:    3,
	}}

	rec := serveInfo(svc, "/info")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.Pagination.Page != 1 || svc.input.Pagination.Count != 3 {
		t.Fatalf("expected default paging 1/3, got %+v", svc.input.Pagination)
	}
	if len(svc.input.Filters.CategoryNames) != 0 || len(svc.input.Filters.TagIDs) != 0 {
		t.Fatalf("expected no filters, got %+v", svc.input.Filters)
	}

	var body struct {
		Data struct {
			Products []struct {
				ID   int64  `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
			Page  int `json:"page"`
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Data.Products) != 1 || body.Data.Products[0].ID != 7 || body.Data.Products[0].Name != "Sofa" {
		t.Fatalf("unexpected products %+v", body.Data.Products)
	}
}

func TestProductInfoPassesFilters(t *testing.T) {
	svc := &stubProductService{result: &product.ProductListResult{Products: []product.ProductDTO{}}}

	rec := serveInfo(svc, "/info?page=2&count=10&category_names=Living&category_names=Kitchen&tags=1&tags=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.Pagination.Page != 2 || svc.input.Pagination.Count != 10 {
		t.Fatalf("unexpected paging %+v", svc.input.Pagination)
	}
	if !reflect.DeepEqual(svc.input.Filters.CategoryNames, []string{"Living", "Kitchen"}) {
		t.Fatalf("unexpected category names %v", svc.input.Filters.CategoryNames)
	}
	if !reflect.DeepEqual(svc.input.Filters.TagIDs, []int64{1, 2}) {
		t.Fatalf("unexpected tags %v", svc.input.Filters.TagIDs)
	}
}

func TestProductInfoRejectsBadQuery(t *testing.T) {
	cases := map[string]string{
		"page zero":     "/info?page=0",
		"count too big": "/info?count=101",
		"count zero":    "/info?count=0",
		"tag not int":   "/info?tags=red",
		"tag negative":  "/info?tags=-4",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubProductService{}
			rec := serveInfo(svc, target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if svc.calls != 0 {
				t.Fatalf("service should not be called on invalid query")
			}
		})
	}
}

func TestProductInfoServiceErrors(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "list products")}
	rec := serveInfo(svc, "/info")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	rec = serveInfo(nil, "/info")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without service, got %d", rec.Code)
	}
}
