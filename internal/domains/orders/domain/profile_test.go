package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProjectProfile_KeepsOnlyOwnPendingLines(t *testing.T) {
	participant := &Participant{ID: 7, Email: "ada@example.com", DietaryRequirements: "vegan"}
	at := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	pending := &Order{ID: 1, Location: "HQ", MenuDescription: "Tacos", ScheduledAt: at}
	answered := &Order{ID: 2, Location: "HQ", ScheduledAt: at}
	foreign := &Order{ID: 3, Location: "HQ", ScheduledAt: at}

	profile := ProjectProfile(participant, []RosterEntry{
		{Order: pending, Line: NewInvitation(1, 7)},
		{Order: answered, Line: &OrderParticipant{OrderID: 2, ParticipantID: 7, Status: RSVPConfirmed}},
		{Order: foreign, Line: NewInvitation(3, 8)},
		{Order: pending, Line: nil},
	})

	require.Equal(t, int64(7), profile.ID)
	require.Equal(t, []string{"vegan"}, profile.DietaryRequirements)
	require.Nil(t, profile.LastOrder)
	require.Len(t, profile.Orders, 1)
	require.Equal(t, ProfileOrder{ID: 1, Status: RSVPUnconfirmed, Location: "HQ", MenuDescription: "Tacos", ScheduledAt: at}, profile.Orders[0])
}

func TestProjectProfile_NilParticipant(t *testing.T) {
	profile := ProjectProfile(nil, nil)
	require.NotNil(t, profile.Orders)
	require.NotNil(t, profile.DietaryRequirements)
	require.Empty(t, profile.Orders)
}
