package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"

	product "github.com/angelmondragon/catalog-sync/internal/products"
	"github.com/angelmondragon/catalog-sync/pkg/config"
	"github.com/angelmondragon/catalog-sync/pkg/db/dbtest"
	"github.com/angelmondragon/catalog-sync/pkg/db/models"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/angelmondragon/catalog-sync/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *prometheus.Registry) {
	t.Helper()

	client := dbtest.Open(t)
	conn := client.DB()
	now := time.Now().UTC()
	require.NoError(t, conn.Create(&models.Category{ID: 1, Name: "Living", ImageURL: "https://cdn.example.com/living.png"}).Error)
	require.NoError(t, conn.Create(&models.Tag{ID: 1, Name: "red"}).Error)
	require.NoError(t, conn.Omit(clause.Associations).Create(&models.Product{ID: 1, Name: "Sofa", CreatedAt: now}).Error)
	require.NoError(t, conn.Omit(clause.Associations).Create(&models.Product{ID: 2, Name: "Lamp", CreatedAt: now}).Error)
	require.NoError(t, conn.Create(&models.ProductCategory{ProductID: 1, CategoryID: 1}).Error)
	require.NoError(t, conn.Create(&models.ProductTag{ProductID: 1, TagID: 1}).Error)

	svc, err := product.NewService(product.NewRepository(client.DB()), client)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	return NewRouter(cfg, logg, client, stubPinger{}, svc, metrics.NewHTTPMetrics(reg), reg), reg
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouterHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, "/health/live")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = do(t, h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"data":{"status":"ready"}}`, rec.Body.String())
}

func TestRouterInfo(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, "/info?category_names=Living&tags=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Products []struct {
				ID   int64 `json:"id"`
				Tags []struct {
					ID   int64  `json:"id"`
					Name string `json:"name"`
				} `json:"tags"`
			} `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Products, 1)
	require.Equal(t, int64(1), body.Data.Products[0].ID)
	require.Len(t, body.Data.Products[0].Tags, 1)
	require.Equal(t, "red", body.Data.Products[0].Tags[0].Name)

	rec = do(t, h, "/info?count=500")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestRouterNotFoundUsesEnvelope(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestRouterMetricsLabelsRoutePattern(t *testing.T) {
	h, _ := newTestRouter(t)

	require.Equal(t, http.StatusOK, do(t, h, "/info").Code)
	do(t, h, "/nope")

	rec := do(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	require.True(t, strings.Contains(out, `http_requests_total{method="GET",route="/info",status="2xx"} 1`), out)
	require.True(t, strings.Contains(out, `route="unmatched",status="4xx"`), out)
}
