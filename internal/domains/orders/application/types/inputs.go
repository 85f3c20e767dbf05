package types

import "time"

// CreateOrderInput carries the organizer's initial order fields.
type CreateOrderInput struct {
	Name              string
	Location          string
	MenuDescription   string
	ScheduledAt       time.Time
	ServiceProviderID *int64
}

// UpdateOrderInput is a partial order update; nil fields are left untouched.
type UpdateOrderInput struct {
	OrderID         int64
	Name            *string
	Location        *string
	MenuDescription *string
	ScheduledAt     *time.Time
	// ScheduledDate replaces only the calendar date of the schedule.
	ScheduledDate *time.Time
	// ScheduledTime replaces only the time of day of the schedule.
	ScheduledTime        *time.Time
	ServiceProviderID    *int64
	ClearServiceProvider bool
	// AdvanceStatus is set when the payload carried a status field. Whatever value
	// was sent, the order moves exactly one step forward.
	AdvanceStatus bool
}

// AddParticipantsInput selects exactly one of ParticipantID, Email or GroupID.
type AddParticipantsInput struct {
	OrderID       int64
	ParticipantID *int64
	Email         *string
	GroupID       *int64
}

// InviteGroupInput identifies a group invitation run.
type InviteGroupInput struct {
	OrderID int64
	GroupID int64
}

// RespondInput is a participant's RSVP presented with their credential.
type RespondInput struct {
	Credential string
	OrderID    int64
	Decision   string
}

// ParticipantRef names an invitee by id or by email. ID wins when both are set.
type ParticipantRef struct {
	ID    int64
	Email string
}

// InviteMemberInput addresses one member invitation inside a group invitation.
type InviteMemberInput struct {
	OrderID       int64
	ParticipantID int64
}
