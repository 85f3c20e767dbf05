package domain

import "time"

// RosterEntry pairs a roster line with the order it belongs to.
type RosterEntry struct {
	Order *Order
	Line  *OrderParticipant
}

// ProfileOrder is the participant-facing reduction of an order.
type ProfileOrder struct {
	ID              int64
	Status          RSVPStatus
	Location        string
	MenuDescription string
	ScheduledAt     time.Time
}

// ParticipantProfile is what a participant sees about themselves.
type ParticipantProfile struct {
	ID                  int64
	Email               string
	LastOrder           *ProfileOrder
	DietaryRequirements []string
	Orders              []ProfileOrder
}

// ProjectProfile builds the actionable view for a participant: only their own
// roster lines that are still unconfirmed, in the order given.
func ProjectProfile(participant *Participant, entries []RosterEntry) ParticipantProfile {
	profile := ParticipantProfile{
		DietaryRequirements: []string{},
		Orders:              []ProfileOrder{},
	}
	if participant == nil {
		return profile
	}
	profile.ID = participant.ID
	profile.Email = participant.Email
	profile.DietaryRequirements = participant.DietaryTags()
	for _, entry := range entries {
		if entry.Order == nil || entry.Line == nil {
			continue
		}
		if entry.Line.ParticipantID != participant.ID || entry.Line.OrderID != entry.Order.ID {
			continue
		}
		if !entry.Line.IsPending() {
			continue
		}
		profile.Orders = append(profile.Orders, ProfileOrder{
			ID:              entry.Order.ID,
			Status:          entry.Line.Status,
			Location:        entry.Order.Location,
			MenuDescription: entry.Order.MenuDescription,
			ScheduledAt:     entry.Order.ScheduledAt,
		})
	}
	return profile
}
