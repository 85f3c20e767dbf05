package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var _ ports.WasteFactorSource = (*Client)(nil)

// Client reads historical waste factors from the analytics service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	fallback   float64
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithFallback sets the factor reported for orders the analytics service has no history for.
func WithFallback(factor float64) Option {
	return func(c *Client) {
		if factor > 0 {
			c.fallback = factor
		}
	}
}

// NewClient instantiates the analytics client with sane defaults.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("analytics base URL is required")
	}
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse analytics base URL: %w", err)
	}
	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout:   5 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type wasteFactorResponse struct {
	WasteFactor *float64 `json:"wasteFactor"`
}

type errorBody struct {
	Message *string `json:"message"`
	Status  *string `json:"status"`
}

// WasteFactor fetches the under-RSVP fraction for an order. Orders without
// history report the fallback factor.
func (c *Client) WasteFactor(ctx context.Context, orderID int64) (float64, error) {
	if c == nil || c.baseURL == nil {
		return 0, errors.New("analytics client not configured")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "orderId", runtime.ParamLocationPath, orderID)
	if err != nil {
		return 0, err
	}
	endpoint, err := c.baseURL.Parse(fmt.Sprintf("orders/%s/waste-factor", pathParam))
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call analytics API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body wasteFactorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return 0, fmt.Errorf("decode analytics response: %w", err)
		}
		if body.WasteFactor == nil {
			return c.fallback, nil
		}
		return *body.WasteFactor, nil
	case resp.StatusCode == http.StatusNotFound:
		return c.fallback, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return 0, fmt.Errorf("analytics API error: %s", errorMessage(resp))
	default:
		return 0, fmt.Errorf("analytics API unexpected status: %s", resp.Status)
	}
}

func errorMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return resp.Status
	}
	if body.Message != nil {
		if msg := strings.TrimSpace(*body.Message); msg != "" {
			return msg
		}
	}
	if body.Status != nil {
		if msg := strings.TrimSpace(*body.Status); msg != "" {
			return msg
		}
	}
	return resp.Status
}
