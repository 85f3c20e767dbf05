package api

import (
	"context"
	"log/slog"

	ordersmemory "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/memory"
	orderspostgres "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
	"github.com/Apurer/mealgroup-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/mealgroup-api/internal/platform/postgres"
)

// Repository backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Stores bundles the repositories shared by the API and the worker.
type Stores struct {
	Repositories ordersapp.Repositories
	WasteFactors ordersports.WasteFactorSource
	Backend      string
}

// OpenStores connects to PostgreSQL when configured and migrates the schema,
// otherwise it falls back to in-memory repositories.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger, cfg.PostgresPool.Options()...)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
			cleanup()
		} else {
			logger.Info("order repositories configured with postgres")
			return &Stores{
				Repositories: ordersapp.Repositories{
					Orders:       orderspostgres.NewOrderRepository(db),
					Participants: orderspostgres.NewParticipantRepository(db),
					Roster:       orderspostgres.NewRosterRepository(db),
					Groups:       orderspostgres.NewGroupDirectory(db),
					Providers:    orderspostgres.NewProviderCatalog(db),
				},
				WasteFactors: orderspostgres.NewWasteFactors(db, cfg.DefaultWasteFactor),
				Backend:      BackendPostgres,
			}, cleanup
		}
	}
	return NewMemoryStores(cfg.DefaultWasteFactor), func() {}
}

// Shared reports whether other processes, such as the worker, see the same data.
func (s *Stores) Shared() bool {
	return s != nil && s.Backend == BackendPostgres
}

// NewMemoryStores builds process-local repositories. Deleting an order cascades to its roster.
func NewMemoryStores(defaultWasteFactor float64) *Stores {
	roster := ordersmemory.NewRosterRepository()
	return &Stores{
		Repositories: ordersapp.Repositories{
			Orders:       ordersmemory.NewOrderRepository(roster),
			Participants: ordersmemory.NewParticipantRepository(),
			Roster:       roster,
			Groups:       ordersmemory.NewGroupDirectory(),
			Providers:    ordersmemory.NewProviderCatalog(),
		},
		WasteFactors: ordersmemory.NewWasteFactors(defaultWasteFactor),
		Backend:      BackendMemory,
	}
}
