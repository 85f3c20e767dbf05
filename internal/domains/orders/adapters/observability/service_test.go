package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ordermemory "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/observability"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	platformobservability "github.com/Apurer/mealgroup-api/internal/platform/observability"
)

func TestServiceRecordsMetricsAndKindedWarnings(t *testing.T) {
	instruments := platformobservability.NewInMemory()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	roster := ordermemory.NewRosterRepository()
	core := application.NewService(application.Repositories{
		Orders:       ordermemory.NewOrderRepository(roster),
		Participants: ordermemory.NewParticipantRepository(),
		Roster:       roster,
		Groups:       ordermemory.NewGroupDirectory(),
		Providers:    ordermemory.NewProviderCatalog(),
	}, nil)
	svc := ordersobs.New(core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("test")),
		ordersobs.WithMeter(instruments.Meter("test")),
	)
	ctx := context.Background()

	view, err := svc.CreateOrder(ctx, ordertypes.CreateOrderInput{Name: "Lunch", ScheduledAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.UpdateOrder(ctx, ordertypes.UpdateOrderInput{OrderID: view.Order.ID, AdvanceStatus: true})
	require.NoError(t, err)
	email := "ada@example.com"
	_, err = svc.AddParticipants(ctx, ordertypes.AddParticipantsInput{OrderID: view.Order.ID, Email: &email})
	require.NoError(t, err)

	_, err = svc.GetOrderView(ctx, 404)
	require.ErrorIs(t, err, application.ErrNotFound)

	rm, err := instruments.Collect(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), platformobservability.CounterValue(rm, "orders.service.orders_created"))
	require.Equal(t, int64(1), platformobservability.CounterValue(rm, "orders.service.orders_advanced"))
	require.Equal(t, int64(1), platformobservability.CounterValue(rm, "orders.service.invitations"))
	require.Zero(t, platformobservability.CounterValue(rm, "orders.service.orders_deleted"))

	require.Contains(t, logs.String(), `"level":"WARN"`)
	require.Contains(t, logs.String(), `"error.kind":"not_found"`)
}
