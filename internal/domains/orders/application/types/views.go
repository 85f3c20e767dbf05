package types

import (
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/shared/projection"
)

// RosterLine joins a roster line with the invited participant.
type RosterLine struct {
	Participant *domain.Participant
	Line        *domain.OrderParticipant
}

// OrderView is the organizer read model for one order.
type OrderView struct {
	Order        *domain.Order
	Metadata     projection.Metadata
	Participants []RosterLine
	Provider     *domain.ServiceProvider
	Prediction   domain.Prediction
	// EstimatedCost is nil while no provider is selected.
	EstimatedCost *float64
}

// MemberOutcome classifies what happened to one invitee.
type MemberOutcome string

const (
	MemberAdded   MemberOutcome = "added"
	MemberSkipped MemberOutcome = "skipped"
	MemberFailed  MemberOutcome = "failed"
)

// MemberResult reports the outcome for a single invitee.
type MemberResult struct {
	ParticipantID int64
	Email         string
	Outcome       MemberOutcome
	Reason        string
}

// InvitationResult lists per-invitee outcomes in processing order.
type InvitationResult struct {
	OrderID int64
	GroupID *int64
	Members []MemberResult
}

// Count returns how many members ended with the given outcome.
func (r *InvitationResult) Count(outcome MemberOutcome) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, m := range r.Members {
		if m.Outcome == outcome {
			n++
		}
	}
	return n
}
