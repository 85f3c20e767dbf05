package ports

import (
	"context"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
)

// InvitationOrchestrator runs group invitations, durably when a workflow engine is available.
type InvitationOrchestrator interface {
	InviteGroup(ctx context.Context, input ordertypes.InviteGroupInput) (*ordertypes.InvitationResult, error)
}
