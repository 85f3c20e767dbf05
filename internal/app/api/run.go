package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	mealserver "github.com/Apurer/mealgroup-api/go"

	"github.com/Apurer/mealgroup-api/internal/clients/http/analytics"
	ordersauth "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/auth"
	ordersobs "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/mealgroup-api/internal/platform/observability"
)

const serviceName = "mealgroup-api"

// Run boots the meal group HTTP API with observability, repositories, and workflows wired.
// It returns once ctx is cancelled and the server has drained.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.ObservabilityOptions(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	if cfg.AnalyticsBaseURL != "" {
		analyticsClient, err := analytics.NewClient(cfg.AnalyticsBaseURL, analytics.WithFallback(cfg.DefaultWasteFactor))
		if err != nil {
			return fmt.Errorf("failed to configure analytics client: %w", err)
		}
		stores.WasteFactors = analyticsClient
		logger.Info("waste factors served by analytics API", slog.String("baseURL", cfg.AnalyticsBaseURL))
	}

	if cfg.UsesDefaultSecret() {
		logger.Warn("PARTICIPANT_TOKEN_SECRET not set, signing participant tokens with the development secret")
	}
	tokens, err := ordersauth.NewParticipantTokens(cfg.ParticipantTokenSecret, ordersauth.WithTTL(cfg.ParticipantTokenTTL))
	if err != nil {
		return fmt.Errorf("failed to configure participant tokens: %w", err)
	}

	service, closeTemporal := BuildService(cfg, stores, tokens, instruments)
	defer closeTemporal()

	handlers := mealserver.ApiHandleFunctions{
		OrderAPI:   mealserver.NewOrderAPI(service),
		ProfileAPI: mealserver.NewProfileAPI(service),
	}
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := mealserver.NewRouterWithGinEngine(engine, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("meal group API listening", slog.String("addr", server.Addr), slog.String("backend", stores.Backend))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("meal group API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		logger.Error("meal group API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("meal group API stopped")
	return nil
}

// BuildService wires the order service with its collaborators and wraps it for
// observability. Group invitations go through Temporal when it is reachable and
// the repositories are shared with the worker.
func BuildService(cfg Config, stores *Stores, tokens *ordersauth.ParticipantTokens, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	logger := effectiveLogger(instruments)
	core := ordersapp.NewService(
		stores.Repositories,
		tokens,
		ordersapp.WithTokenIssuer(tokens),
		ordersapp.WithWasteFactorSource(stores.WasteFactors),
		ordersapp.WithLogger(logger),
	)

	invitations, closeTemporal := selectInvitations(cfg, stores, core.Roster(), logger, func() (client.Client, error) {
		return ConnectTemporalClient(cfg, instruments)
	})
	ordersapp.WithInvitationOrchestrator(invitations)(core)

	return ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	), closeTemporal
}

// selectInvitations runs group invitations on Temporal only when the worker can
// share the API's repositories. With process-local stores the worker would write
// to its own roster, so invitations stay inline.
func selectInvitations(cfg Config, stores *Stores, roster *ordersapp.Roster, logger *slog.Logger, dial func() (client.Client, error)) (ordersports.InvitationOrchestrator, func()) {
	inline := ordersworkflows.NewInlineInvitations(roster)
	if cfg.TemporalDisabled {
		logger.Info("Temporal workflows disabled, running group invitations inline")
		return inline, func() {}
	}
	if !stores.Shared() {
		logger.Warn("Temporal workflows need shared repositories, running group invitations inline", slog.String("backend", stores.Backend))
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running group invitations inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalInvitations(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging wired in.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// ObservabilityOptions maps the process configuration onto telemetry settings.
func (c Config) ObservabilityOptions(service string) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  service,
		Environment:  c.Environment,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
		LogLevel:     c.LogLevel,
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
