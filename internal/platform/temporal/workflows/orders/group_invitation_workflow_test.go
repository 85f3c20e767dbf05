package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/mealgroup-api/internal/platform/temporal/activities/orders"
)

type invitationFixture struct {
	roster       *application.Roster
	orderID      int64
	participants []int64
	groups       *memory.GroupDirectory
	lines        *memory.RosterRepository
}

func newInvitationFixture(t *testing.T) invitationFixture {
	t.Helper()
	ctx := context.Background()
	lines := memory.NewRosterRepository()
	orders := memory.NewOrderRepository(lines)
	participants := memory.NewParticipantRepository()
	groups := memory.NewGroupDirectory()

	order, err := domain.NewOrder("Friday lunch", "Office", "Pizza", time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	created, err := orders.Create(ctx, order)
	require.NoError(t, err)

	ids := make([]int64, 0, 3)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		p, err := participants.Create(ctx, &domain.Participant{Email: email})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return invitationFixture{
		roster:       application.NewRoster(orders, participants, lines, groups),
		orderID:      created.Entity.ID,
		participants: ids,
		groups:       groups,
		lines:        lines,
	}
}

func newTestEnv(s *testsuite.WorkflowTestSuite, roster *application.Roster) *testsuite.TestWorkflowEnvironment {
	env := s.NewTestWorkflowEnvironment()
	acts := orderactivities.NewActivities(roster)
	env.RegisterActivityWithOptions(acts.PrepareGroup, activity.RegisterOptions{Name: orderactivities.PrepareGroupActivityName})
	env.RegisterActivityWithOptions(acts.InviteMember, activity.RegisterOptions{Name: orderactivities.InviteMemberActivityName})
	return env
}

func TestGroupInvitationWorkflow_RecordsEveryMember(t *testing.T) {
	fx := newInvitationFixture(t)
	_, err := fx.lines.Insert(context.Background(), domain.NewInvitation(fx.orderID, fx.participants[1]))
	require.NoError(t, err)
	fx.groups.Put(domain.Group{ID: 10, Name: "Team", MemberIDs: []int64{fx.participants[0], fx.participants[1], 999, fx.participants[2]}})

	var suite testsuite.WorkflowTestSuite
	env := newTestEnv(&suite, fx.roster)
	env.ExecuteWorkflow(GroupInvitationWorkflow, GroupInvitationWorkflowInput{
		Command: ordertypes.InviteGroupInput{OrderID: fx.orderID, GroupID: 10},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result ordertypes.InvitationResult
	require.NoError(t, env.GetWorkflowResult(&result))

	require.Len(t, result.Members, 4)
	assert.Equal(t, ordertypes.MemberAdded, result.Members[0].Outcome)
	assert.Equal(t, ordertypes.MemberSkipped, result.Members[1].Outcome)
	assert.Equal(t, ordertypes.MemberFailed, result.Members[2].Outcome)
	assert.Equal(t, int64(999), result.Members[2].ParticipantID)
	assert.Equal(t, ordertypes.MemberAdded, result.Members[3].Outcome)

	lines, err := fx.lines.ListByOrder(context.Background(), fx.orderID)
	require.NoError(t, err)
	assert.Len(t, lines, 3)
}

func TestGroupInvitationWorkflow_UnknownGroupIsNotRetried(t *testing.T) {
	fx := newInvitationFixture(t)

	var suite testsuite.WorkflowTestSuite
	env := newTestEnv(&suite, fx.roster)
	env.ExecuteWorkflow(GroupInvitationWorkflow, GroupInvitationWorkflowInput{
		Command: ordertypes.InviteGroupInput{OrderID: fx.orderID, GroupID: 404},
	})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "not_found", appErr.Type())
	assert.True(t, appErr.NonRetryable())
}
