package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/angelmondragon/catalog-sync/internal/payload"
	"github.com/angelmondragon/catalog-sync/pkg/config"
	pkgerrors "github.com/angelmondragon/catalog-sync/pkg/errors"
	"github.com/angelmondragon/catalog-sync/pkg/logger"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

const userAgent = "catalog-sync/1.0"

// ClientParams configure the upstream catalog client.
type ClientParams struct {
	Logger *logger.Logger
	Config config.UpstreamConfig
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client downloads catalog documents from the upstream feed.
type Client struct {
	logg    *logger.Logger
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
}

func NewClient(params ClientParams) (*Client, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Config.BaseURL == "" {
		return nil, fmt.Errorf("upstream base url required")
	}

	var rc *resty.Client
	if params.HTTPClient != nil {
		rc = resty.NewWithClient(params.HTTPClient)
	} else {
		rc = resty.New()
	}
	timeout := params.Config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rc.SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	maxFailures := params.Config.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 3
	}
	logg := params.Logger
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "catalog-upstream",
		MaxRequests: 1,
		Timeout:     params.Config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "circuit breaker state changed")
		},
	})

	return &Client{
		logg:    logg,
		http:    rc,
		breaker: breaker,
		baseURL: params.Config.BaseURL,
	}, nil
}

// Fetch returns the raw catalog document for variant.
func (c *Client) Fetch(ctx context.Context, variant payload.Variant) ([]byte, error) {
	if !variant.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog variant %q", variant))
	}
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx, variant)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream circuit open").
				WithDetails(map[string]any{"variant": string(variant)})
		}
		return nil, err
	}
	return res.([]byte), nil
}

func (c *Client) get(ctx context.Context, variant payload.Variant) ([]byte, error) {
	started := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("on_main", strconv.FormatBool(variant.OnMain())).
		Get(c.baseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch catalog").
			WithDetails(map[string]any{"variant": string(variant)})
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"variant":     string(variant),
		"status":      resp.StatusCode(),
		"bytes":       len(resp.Body()),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		c.logg.Warn(logCtx, "upstream returned non-success status")
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream returned non-success status").
			WithDetails(map[string]any{
				"variant": string(variant),
				"status":  resp.StatusCode(),
			})
	}
	c.logg.Debug(logCtx, "catalog fetched")
	return resp.Body(), nil
}
