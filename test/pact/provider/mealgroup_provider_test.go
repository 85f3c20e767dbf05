//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	pacttest "github.com/Apurer/mealgroup-api/test/pact"

	mealserver "github.com/Apurer/mealgroup-api/go"
	"github.com/Apurer/mealgroup-api/internal/app/api"
	ordersauth "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/auth"
	ordersobs "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/mealgroup-api/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestMealGroupProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateOrdersBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateOrderExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
			}
			return nil, nil
		},
		pacttest.StateOrderMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateParticipantInvited: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOrder(t, pacttest.ExistingOrderID)
				app.seedInvitation(t, pacttest.ExistingOrderID, pacttest.InvitedParticipantID)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		RequestFilter:   app.signParticipantRequests,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	mu      sync.RWMutex
	stores  *api.Stores
	handler http.Handler
	tokens  *ordersauth.ParticipantTokens
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	tokens, err := ordersauth.NewParticipantTokens("pact-secret")
	require.NoError(t, err)

	app := &contractProviderApp{tokens: tokens}
	app.reset(t)

	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		handler := app.handler
		app.mu.RUnlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

// reset swaps in fresh in-memory repositories and a router over them.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	stores := api.NewMemoryStores(0)
	core := ordersapp.NewService(
		stores.Repositories,
		a.tokens,
		ordersapp.WithTokenIssuer(a.tokens),
		ordersapp.WithWasteFactorSource(stores.WasteFactors),
	)
	ordersapp.WithInvitationOrchestrator(ordersworkflows.NewInlineInvitations(core.Roster()))(core)
	service := ordersobs.New(core)

	router := gin.New()
	router.Use(gin.Recovery())
	router = mealserver.NewRouterWithGinEngine(router, mealserver.ApiHandleFunctions{
		OrderAPI:   mealserver.NewOrderAPI(service),
		ProfileAPI: mealserver.NewProfileAPI(service),
	})

	a.mu.Lock()
	a.stores = stores
	a.handler = router
	a.mu.Unlock()
}

func (a *contractProviderApp) seedOrder(t testing.TB, id int64) {
	t.Helper()
	scheduled, err := time.Parse(time.RFC3339, pacttest.ExampleScheduledAt)
	require.NoError(t, err)
	order, err := orderdomain.NewOrder(pacttest.ExampleOrderName, pacttest.ExampleLocation, pacttest.ExampleMenu, scheduled)
	require.NoError(t, err)
	order.ID = id

	a.mu.RLock()
	defer a.mu.RUnlock()
	_, err = a.stores.Repositories.Orders.Create(context.Background(), order)
	require.NoError(t, err)
}

func (a *contractProviderApp) seedInvitation(t testing.TB, orderID, participantID int64) {
	t.Helper()
	participant, err := orderdomain.NewParticipant(pacttest.InvitedEmail)
	require.NoError(t, err)
	participant.ID = participantID
	participant.DietaryRequirements = pacttest.InvitedDietary

	a.mu.RLock()
	defer a.mu.RUnlock()
	ctx := context.Background()
	_, err = a.stores.Repositories.Participants.Create(ctx, participant)
	require.NoError(t, err)
	_, err = a.stores.Repositories.Roster.Insert(ctx, orderdomain.NewInvitation(orderID, participantID))
	require.NoError(t, err)
}

// signParticipantRequests replaces the placeholder credential recorded by the
// consumer with a token signed for the seeded participant.
func (a *contractProviderApp) signParticipantRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			token, err := a.tokens.Issue(r.Context(), pacttest.InvitedParticipantID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			r.Header.Set("Authorization", "Bearer "+token)
		}
		next.ServeHTTP(w, r)
	})
}
