package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, url string, maxFailures uint32) *Client {
	t.Helper()
	c, err := NewClient(ClientParams{
		Logger: logger.Nop(),
		Config: config.UpstreamConfig{
			BaseURL:            url,
			Timeout:            2 * time.Second,
			BreakerMaxFailures: maxFailures,
			BreakerOpenTimeout: time.Minute,
		},
	})
	require.NoError(t, err)
	return c
}

func TestFetchSendsVariantFlag(t *testing.T) {
	var gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("on_main")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","products":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)

	body, err := c.Fetch(context.Background(), payload.VariantOnMain)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"ok","products":[]}`, string(body))
	require.Equal(t, "true", gotQuery)
	require.Equal(t, "application/json", gotAccept)

	_, err = c.Fetch(context.Background(), payload.VariantDefault)
	require.NoError(t, err)
	require.Equal(t, "false", gotQuery)
}

func TestFetchMapsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 3)
	_, err := c.Fetch(context.Background(), payload.VariantDefault)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	perr := pkgerrors.As(err)
	require.NotNil(t, perr)
	details, ok := perr.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, details["status"])
}

func TestFetchOpensBreakerAfterRepeatedFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), payload.VariantDefault)
		require.Error(t, err)
	}
	_, err := c.Fetch(context.Background(), payload.VariantDefault)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	require.Contains(t, err.Error(), "circuit open")
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchTransportErrorIsDependency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, 3)
	_, err := c.Fetch(context.Background(), payload.VariantDefault)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestFetchRejectsUnknownVariant(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", 3)
	_, err := c.Fetch(context.Background(), payload.Variant("weekly"))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientParams{Logger: logger.Nop()})
	require.EqualError(t, err, "upstream base url required")
}
