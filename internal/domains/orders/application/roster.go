package application

import (
	"context"
	"errors"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

// Roster owns invitations and RSVP transitions for order participants.
type Roster struct {
	orders       ports.OrderRepository
	participants ports.ParticipantRepository
	lines        ports.RosterRepository
	groups       ports.GroupDirectory
}

// NewRoster wires the roster with its persistence collaborators.
func NewRoster(orders ports.OrderRepository, participants ports.ParticipantRepository, lines ports.RosterRepository, groups ports.GroupDirectory) *Roster {
	return &Roster{orders: orders, participants: participants, lines: lines, groups: groups}
}

// AddIndividual invites one participant. Inviting someone already on the roster is a conflict.
func (r *Roster) AddIndividual(ctx context.Context, orderID int64, ref ordertypes.ParticipantRef) (*domain.OrderParticipant, *domain.Participant, error) {
	if err := r.ensureOrder(ctx, orderID); err != nil {
		return nil, nil, err
	}
	participant, err := r.resolveParticipant(ctx, ref)
	if err != nil {
		return nil, nil, mapError(err)
	}
	line, err := r.lines.Insert(ctx, domain.NewInvitation(orderID, participant.ID))
	if err != nil {
		return nil, nil, mapError(err)
	}
	return line, participant, nil
}

// AddGroup invites every member of a group in membership order. Members already on
// the roster are skipped, other member failures are recorded, and processing continues.
func (r *Roster) AddGroup(ctx context.Context, orderID, groupID int64) (*ordertypes.InvitationResult, error) {
	members, err := r.PrepareGroup(ctx, orderID, groupID)
	if err != nil {
		return nil, err
	}
	result := &ordertypes.InvitationResult{OrderID: orderID, GroupID: &groupID, Members: make([]ordertypes.MemberResult, 0, len(members))}
	for _, participantID := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		member, _ := r.InviteMember(ctx, orderID, participantID)
		result.Members = append(result.Members, member)
	}
	return result, nil
}

// PrepareGroup checks the order exists and returns the group's member ids.
func (r *Roster) PrepareGroup(ctx context.Context, orderID, groupID int64) ([]int64, error) {
	if err := r.ensureOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return r.ResolveGroup(ctx, groupID)
}

// ResolveGroup returns the member ids of a group.
func (r *Roster) ResolveGroup(ctx context.Context, groupID int64) ([]int64, error) {
	members, err := r.groups.Members(ctx, groupID)
	if err != nil {
		return nil, mapError(err)
	}
	return members, nil
}

// InviteMember adds a single group member and classifies the outcome. The returned
// error is non-nil only for failures that are not one of the service failure kinds,
// so callers can decide whether a retry makes sense.
func (r *Roster) InviteMember(ctx context.Context, orderID, participantID int64) (ordertypes.MemberResult, error) {
	result := ordertypes.MemberResult{ParticipantID: participantID}
	participant, err := r.participants.GetByID(ctx, participantID)
	if err == nil {
		result.Email = participant.Email
		_, err = r.lines.Insert(ctx, domain.NewInvitation(orderID, participantID))
	}
	if err == nil {
		result.Outcome = ordertypes.MemberAdded
		return result, nil
	}
	err = mapError(err)
	result.Reason = err.Error()
	switch {
	case errors.Is(err, ports.ErrAlreadyRostered):
		result.Outcome = ordertypes.MemberSkipped
		return result, nil
	case isKind(err):
		result.Outcome = ordertypes.MemberFailed
		return result, nil
	default:
		result.Outcome = ordertypes.MemberFailed
		return result, err
	}
}

// Respond records a participant's decision. Only unconfirmed lines may change, once.
func (r *Roster) Respond(ctx context.Context, orderID, participantID int64, decision domain.Decision) (*domain.OrderParticipant, error) {
	line, err := r.lines.Get(ctx, orderID, participantID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := line.Respond(decision); err != nil {
		return nil, mapError(err)
	}
	updated, err := r.lines.UpdateStatus(ctx, orderID, participantID, domain.RSVPUnconfirmed, line.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// ListForOrder returns the roster of an order in insertion order.
func (r *Roster) ListForOrder(ctx context.Context, orderID int64) ([]*domain.OrderParticipant, error) {
	lines, err := r.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	return lines, nil
}

// ListPendingForParticipant returns the participant's unanswered invitations.
func (r *Roster) ListPendingForParticipant(ctx context.Context, participantID int64) ([]*domain.OrderParticipant, error) {
	lines, err := r.lines.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, mapError(err)
	}
	pending := make([]*domain.OrderParticipant, 0, len(lines))
	for _, line := range lines {
		if line.IsPending() {
			pending = append(pending, line)
		}
	}
	return pending, nil
}

func (r *Roster) ensureOrder(ctx context.Context, orderID int64) error {
	if _, err := r.orders.GetByID(ctx, orderID); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *Roster) resolveParticipant(ctx context.Context, ref ordertypes.ParticipantRef) (*domain.Participant, error) {
	if ref.ID != 0 {
		return r.participants.GetByID(ctx, ref.ID)
	}
	email, err := domain.NormalizeEmail(ref.Email)
	if err != nil {
		return nil, err
	}
	existing, err := r.participants.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrParticipantNotFound) {
		return nil, err
	}
	participant, err := domain.NewParticipant(email)
	if err != nil {
		return nil, err
	}
	created, err := r.participants.Create(ctx, participant)
	if errors.Is(err, ports.ErrEmailTaken) {
		return r.participants.GetByEmail(ctx, email)
	}
	return created, err
}
