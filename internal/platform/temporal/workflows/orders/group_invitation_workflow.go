package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/platform/temporal/sequences"
)

const (
	// GroupInvitationWorkflowName is the public identifier for registering the workflow.
	GroupInvitationWorkflowName = "orders.workflows.GroupInvitation"
	// GroupInvitationTaskQueue is the queue consumed by the worker processing invitation workflows.
	GroupInvitationTaskQueue = "ORDER_GROUP_INVITATION"
)

// GroupInvitationWorkflowInput captures the group invitation request.
type GroupInvitationWorkflowInput struct {
	Command ordertypes.InviteGroupInput
	TraceID string
}

// GroupInvitationWorkflow invites every member of a group through the group
// invitation sequence.
func GroupInvitationWorkflow(ctx workflow.Context, input GroupInvitationWorkflowInput) (*ordertypes.InvitationResult, error) {
	logger := workflow.GetLogger(ctx)
	orderID, groupID := input.Command.OrderID, input.Command.GroupID
	logger.Info("GroupInvitationWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "groupId", groupID)...)

	result, err := sequences.RunGroupInvitationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("GroupInvitationWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "groupId", groupID, "error", err)...)
		return nil, err
	}
	logger.Info("GroupInvitationWorkflow completed", withTraceID(input.TraceID,
		"orderId", orderID, "groupId", groupID,
		"added", result.Count(ordertypes.MemberAdded),
		"skipped", result.Count(ordertypes.MemberSkipped),
		"failed", result.Count(ordertypes.MemberFailed))...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
