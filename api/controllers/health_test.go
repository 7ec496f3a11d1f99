package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/catalog-sync/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	rec := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(envHeader); got != "dev" {
		t.Fatalf("expected env header dev, got %q", got)
	}
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	logg := testLogger()
	boom := errors.New("boom")

	cases := []struct {
		name   string
		db     stubPinger
		redis  *stubPinger
		status int
	}{
		{name: "ready without redis", status: http.StatusOK},
		{name: "ready with redis", redis: &stubPinger{}, status: http.StatusOK},
		{name: "db down", db: stubPinger{err: boom}, status: http.StatusServiceUnavailable},
		{name: "redis down", redis: &stubPinger{err: boom}, status: http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var redisP interface{ Ping(context.Context) error }
			if tc.redis != nil {
				redisP = *tc.redis
			}
			rec := httptest.NewRecorder()
			HealthReady(cfg, logg, tc.db, redisP).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}
