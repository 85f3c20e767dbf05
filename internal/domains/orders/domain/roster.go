package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RSVPStatus is a participant's response to an order invitation.
type RSVPStatus int

const (
	RSVPDeclined    RSVPStatus = -1
	RSVPUnconfirmed RSVPStatus = 0
	RSVPConfirmed   RSVPStatus = 1
)

// Decision is what a participant answers to an invitation.
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

var (
	ErrInvalidDecision  = errors.New("decision must be accept or decline")
	ErrAlreadyResponded = errors.New("participant has already responded to this order")
)

// String renders the status label used by the organizer view.
func (s RSVPStatus) String() string {
	switch s {
	case RSVPDeclined:
		return "Declined"
	case RSVPUnconfirmed:
		return "Unconfirmed"
	case RSVPConfirmed:
		return "Confirmed"
	default:
		return fmt.Sprintf("RSVPStatus(%d)", int(s))
	}
}

// ParseDecision accepts accept/decline in any case.
func ParseDecision(raw string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case DecisionAccept:
		return DecisionAccept, nil
	case DecisionDecline:
		return DecisionDecline, nil
	default:
		return "", ErrInvalidDecision
	}
}

// Target returns the roster status the decision leads to.
func (d Decision) Target() (RSVPStatus, error) {
	switch d {
	case DecisionAccept:
		return RSVPConfirmed, nil
	case DecisionDecline:
		return RSVPDeclined, nil
	default:
		return 0, ErrInvalidDecision
	}
}

// OrderParticipant is one roster line joining an order and a participant.
type OrderParticipant struct {
	OrderID       int64
	ParticipantID int64
	Status        RSVPStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewInvitation creates an unconfirmed roster line.
func NewInvitation(orderID, participantID int64) *OrderParticipant {
	return &OrderParticipant{
		OrderID:       orderID,
		ParticipantID: participantID,
		Status:        RSVPUnconfirmed,
	}
}

// Respond applies a one-way transition out of Unconfirmed.
func (op *OrderParticipant) Respond(decision Decision) error {
	target, err := decision.Target()
	if err != nil {
		return err
	}
	if op.Status != RSVPUnconfirmed {
		return ErrAlreadyResponded
	}
	op.Status = target
	return nil
}

// IsPending reports whether the participant still has to answer.
func (op *OrderParticipant) IsPending() bool {
	return op.Status == RSVPUnconfirmed
}

// CountConfirmed tallies roster lines with status Confirmed.
func CountConfirmed(lines []*OrderParticipant) int {
	confirmed := 0
	for _, line := range lines {
		if line != nil && line.Status == RSVPConfirmed {
			confirmed++
		}
	}
	return confirmed
}
