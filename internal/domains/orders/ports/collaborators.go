package ports

import (
	"context"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
)

// GroupDirectory resolves a group to its members in membership insertion order.
type GroupDirectory interface {
	Members(ctx context.Context, groupID int64) ([]int64, error)
}

// ProviderCatalog is the read-only service provider catalog.
type ProviderCatalog interface {
	Get(ctx context.Context, id int64) (*domain.ServiceProvider, error)
	List(ctx context.Context) ([]*domain.ServiceProvider, error)
}

// WasteFactorSource supplies the historical under-RSVP fraction for an order.
type WasteFactorSource interface {
	WasteFactor(ctx context.Context, orderID int64) (float64, error)
}
