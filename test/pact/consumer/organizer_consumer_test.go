//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/mealgroup-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	NextStatus  *string `json:"nextStatus"`
	ScheduledAt string  `json:"dt_scheduled"`
}

type profileOrder struct {
	ID       int64  `json:"id"`
	Status   int    `json:"status"`
	Location string `json:"location"`
}

type profilePayload struct {
	ID                  int64          `json:"id"`
	Email               string         `json:"email"`
	DietaryRequirements []string       `json:"dietaryRequirements"`
	Orders              []profileOrder `json:"orders"`
}

type rosterLinePayload struct {
	OrderID       int64  `json:"orderId"`
	ParticipantID int64  `json:"participantId"`
	StatusLabel   string `json:"statusLabel"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestOrganizerPortalContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex(pacttest.JSONContentType, pacttest.JSONContentPattern)
	orderBodyMatcher := func(status string) matchers.Map {
		return matchers.Map{
			"id":           matchers.Like(pacttest.ExistingOrderID),
			"name":         matchers.Like(pacttest.ExampleOrderName),
			"location":     matchers.Like(pacttest.ExampleLocation),
			"status":       matchers.Term(status, pacttest.StatusPattern),
			"dt_scheduled": matchers.Term(pacttest.ExampleScheduledAt, pacttest.ScheduledAtPattern),
			"prediction": matchers.StructMatcher{
				"confirmedCount": matchers.Like(0),
				"totalOrders":    matchers.Like(0),
				"extraOrders":    matchers.Like(0),
			},
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateOrdersBaseline).
		UponReceiving("a request to create an order").
		WithRequest("POST", "/v1/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleCreateOrderPayload())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher("Open To Join"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher("Open To Join"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to advance an order").
		WithRequest("PATCH", fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"status": "next"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher("Order Placed"))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S(pacttest.ProblemContentType))
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateParticipantInvited).
		UponReceiving("a participant fetching their profile").
		WithRequest("GET", "/v1/profile", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.Term("Bearer "+pacttest.ExampleToken, pacttest.BearerPattern))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":                  matchers.Like(pacttest.InvitedParticipantID),
				"email":               matchers.Like(pacttest.InvitedEmail),
				"dietaryRequirements": matchers.ArrayMinLike("vegan", 1),
				"orders": matchers.ArrayMinLike(matchers.Map{
					"id":       matchers.Like(pacttest.ExistingOrderID),
					"status":   matchers.Like(0),
					"location": matchers.Like(pacttest.ExampleLocation),
				}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateParticipantInvited).
		UponReceiving("a participant accepting an invitation").
		WithRequest("POST", fmt.Sprintf("/v1/profile/orders/%d/response", pacttest.ExistingOrderID), func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", matchers.Term("Bearer "+pacttest.ExampleToken, pacttest.BearerPattern))
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"decision": "accept"})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"orderId":       matchers.Like(pacttest.ExistingOrderID),
				"participantId": matchers.Like(pacttest.InvitedParticipantID),
				"statusLabel":   matchers.S("Confirmed"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var created orderPayload
		if err := client.do(ctx, http.MethodPost, "/v1/orders", "", pacttest.ExampleCreateOrderPayload(), &created); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if created.ID == 0 || created.Status != "Open To Join" {
			return fmt.Errorf("unexpected created order %+v", created)
		}

		var fetched orderPayload
		if err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID), "", nil, &fetched); err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched.ID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected order id %d, got %+v", pacttest.ExistingOrderID, fetched)
		}

		var advanced orderPayload
		if err := client.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/orders/%d", pacttest.ExistingOrderID), "", map[string]any{"status": "next"}, &advanced); err != nil {
			return fmt.Errorf("advance order: %w", err)
		}
		if advanced.Status != "Order Placed" {
			return fmt.Errorf("expected Order Placed, got %q", advanced.Status)
		}

		err := client.do(ctx, http.MethodGet, fmt.Sprintf("/v1/orders/%d", pacttest.MissingOrderID), "", nil, nil)
		if err == nil {
			return fmt.Errorf("expected 404 for order %d", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}

		var profile profilePayload
		if err := client.do(ctx, http.MethodGet, "/v1/profile", pacttest.ExampleToken, nil, &profile); err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		if len(profile.Orders) == 0 || profile.Orders[0].ID != pacttest.ExistingOrderID {
			return fmt.Errorf("expected pending order %d in profile, got %+v", pacttest.ExistingOrderID, profile.Orders)
		}

		var line rosterLinePayload
		path := fmt.Sprintf("/v1/profile/orders/%d/response", pacttest.ExistingOrderID)
		if err := client.do(ctx, http.MethodPost, path, pacttest.ExampleToken, map[string]any{"decision": "accept"}, &line); err != nil {
			return fmt.Errorf("respond to order: %w", err)
		}
		if line.StatusLabel != "Confirmed" {
			return fmt.Errorf("expected Confirmed, got %q", line.StatusLabel)
		}
		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
