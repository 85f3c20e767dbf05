package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/mealgroup-api/internal/app/api"
	ordersapp "github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	platformobservability "github.com/Apurer/mealgroup-api/internal/platform/observability"
	orderactivities "github.com/Apurer/mealgroup-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/mealgroup-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "mealgroup-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.ObservabilityOptions(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := api.OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	if !stores.Shared() {
		logger.Warn("worker running against in-memory repositories; invitations will not be visible to the API")
	}
	roster := ordersapp.NewRoster(stores.Repositories.Orders, stores.Repositories.Participants, stores.Repositories.Roster, stores.Repositories.Groups)
	activities := orderactivities.NewActivities(roster)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.GroupInvitationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.GroupInvitationWorkflow, workflow.RegisterOptions{Name: orderworkflows.GroupInvitationWorkflowName})
	w.RegisterActivityWithOptions(activities.PrepareGroup, activity.RegisterOptions{Name: orderactivities.PrepareGroupActivityName})
	w.RegisterActivityWithOptions(activities.InviteMember, activity.RegisterOptions{Name: orderactivities.InviteMemberActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.GroupInvitationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
