package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/mealgroup-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.InvitationOrchestrator = (*TemporalInvitations)(nil)
	_ ports.InvitationOrchestrator = (*InlineInvitations)(nil)
)

// TemporalInvitations runs group invitations as Temporal workflows.
type TemporalInvitations struct {
	client    client.Client
	taskQueue string
}

// NewTemporalInvitations wires a Temporal client into the orchestrator.
func NewTemporalInvitations(c client.Client) *TemporalInvitations {
	return &TemporalInvitations{client: c, taskQueue: orderworkflows.GroupInvitationTaskQueue}
}

// InviteGroup starts the invitation workflow and waits for its per-member result.
func (o *TemporalInvitations) InviteGroup(ctx context.Context, input ordertypes.InviteGroupInput) (*ordertypes.InvitationResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal invitation workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("order-%d-group-%d-%s", input.OrderID, input.GroupID, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.GroupInvitationWorkflowName,
		orderworkflows.GroupInvitationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result ordertypes.InvitationResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, restoreKind(err)
	}
	return &result, nil
}

// InlineInvitations runs the invitation loop in-process, used when Temporal is
// disabled or unreachable.
type InlineInvitations struct {
	roster *application.Roster
}

func NewInlineInvitations(roster *application.Roster) *InlineInvitations {
	return &InlineInvitations{roster: roster}
}

func (o *InlineInvitations) InviteGroup(ctx context.Context, input ordertypes.InviteGroupInput) (*ordertypes.InvitationResult, error) {
	if o == nil || o.roster == nil {
		return nil, errors.New("inline invitation workflows not configured")
	}
	return o.roster.AddGroup(ctx, input.OrderID, input.GroupID)
}

// restoreKind maps a workflow failure whose application error type names a
// service failure kind back onto that kind's sentinel.
func restoreKind(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if kind := application.KindError(appErr.Type()); kind != nil {
			return fmt.Errorf("%w: %s", kind, appErr.Error())
		}
	}
	return err
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
