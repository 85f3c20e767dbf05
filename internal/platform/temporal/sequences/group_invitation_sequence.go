package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	orderactivities "github.com/Apurer/mealgroup-api/internal/platform/temporal/activities/orders"
)

// RunGroupInvitationSequence resolves the group and invites its members one
// activity at a time, in membership order. A member that still fails after its
// retries is recorded as failed and the sequence moves on.
func RunGroupInvitationSequence(ctx workflow.Context, input ordertypes.InviteGroupInput) (*ordertypes.InvitationResult, error) {
	logger := workflow.GetLogger(ctx)
	prepareOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	inviteOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	var members []int64
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, prepareOptions), orderactivities.PrepareGroupActivityName, input).Get(ctx, &members)
	if err != nil {
		logger.Error("group invitation sequence failed to resolve group", "orderId", input.OrderID, "groupId", input.GroupID, "error", err)
		return nil, err
	}
	logger.Info("group invitation sequence resolved group", "orderId", input.OrderID, "groupId", input.GroupID, "members", len(members))

	groupID := input.GroupID
	result := &ordertypes.InvitationResult{OrderID: input.OrderID, GroupID: &groupID, Members: make([]ordertypes.MemberResult, 0, len(members))}
	inviteCtx := workflow.WithActivityOptions(ctx, inviteOptions)
	for _, participantID := range members {
		var member ordertypes.MemberResult
		memberInput := ordertypes.InviteMemberInput{OrderID: input.OrderID, ParticipantID: participantID}
		if err := workflow.ExecuteActivity(inviteCtx, orderactivities.InviteMemberActivityName, memberInput).Get(ctx, &member); err != nil {
			logger.Warn("group invitation sequence member failed after retries", "orderId", input.OrderID, "participantId", participantID, "error", err)
			member = ordertypes.MemberResult{ParticipantID: participantID, Outcome: ordertypes.MemberFailed, Reason: err.Error()}
		}
		result.Members = append(result.Members, member)
	}
	return result, nil
}
