package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
)

const (
	// PrepareGroupActivityName validates the order and resolves group membership.
	PrepareGroupActivityName = "orders.activities.PrepareGroup"
	// InviteMemberActivityName adds one group member to an order roster.
	InviteMemberActivityName = "orders.activities.InviteMember"
)

// Activities groups activities that operate on the order roster.
type Activities struct {
	roster *application.Roster
}

// NewActivities wires the roster into the Temporal activities bundle.
func NewActivities(roster *application.Roster) *Activities {
	return &Activities{roster: roster}
}

// PrepareGroup returns the member ids to invite. Service failure kinds are not
// retried; they carry the kind name as the application error type.
func (a *Activities) PrepareGroup(ctx context.Context, input ordertypes.InviteGroupInput) ([]int64, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.roster == nil {
		logger.Error("invitation activities not initialized", "orderId", input.OrderID)
		return nil, errors.New("invitation activities not initialized")
	}
	members, err := a.roster.PrepareGroup(ctx, input.OrderID, input.GroupID)
	if err != nil {
		logger.Error("PrepareGroup activity failed", "orderId", input.OrderID, "groupId", input.GroupID, "error", err)
		return nil, classify(err)
	}
	logger.Info("PrepareGroup activity completed", "orderId", input.OrderID, "groupId", input.GroupID, "members", len(members))
	return members, nil
}

// InviteMember records one member outcome. Only infrastructure failures are
// returned as errors so that Temporal retries them.
func (a *Activities) InviteMember(ctx context.Context, input ordertypes.InviteMemberInput) (ordertypes.MemberResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.roster == nil {
		logger.Error("invitation activities not initialized", "orderId", input.OrderID)
		return ordertypes.MemberResult{}, errors.New("invitation activities not initialized")
	}
	result, err := a.roster.InviteMember(ctx, input.OrderID, input.ParticipantID)
	if err != nil {
		logger.Warn("InviteMember activity failed", "orderId", input.OrderID, "participantId", input.ParticipantID, "error", err)
		return ordertypes.MemberResult{}, err
	}
	logger.Info("InviteMember activity completed", "orderId", input.OrderID, "participantId", input.ParticipantID, "outcome", string(result.Outcome))
	return result, nil
}

func classify(err error) error {
	kind := application.Kind(err)
	if kind == "internal" {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), kind, err)
}
