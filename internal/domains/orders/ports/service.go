package ports

import (
	"context"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
)

// Service exposes the order lifecycle use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error)
	GetOrderView(ctx context.Context, orderID int64) (*ordertypes.OrderView, error)
	UpdateOrder(ctx context.Context, input ordertypes.UpdateOrderInput) (*ordertypes.OrderView, error)
	DeleteOrder(ctx context.Context, orderID int64) error
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	AddParticipants(ctx context.Context, input ordertypes.AddParticipantsInput) (*ordertypes.InvitationResult, error)
	GetParticipantProfile(ctx context.Context, credential string) (*domain.ParticipantProfile, error)
	RespondToOrder(ctx context.Context, input ordertypes.RespondInput) (*domain.OrderParticipant, error)
	IssueParticipantToken(ctx context.Context, participantID int64) (string, error)
	ListServiceProviders(ctx context.Context) ([]*domain.ServiceProvider, error)
}
