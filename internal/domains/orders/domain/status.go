package domain

import "errors"

// Status enumerates order progression. The zero value is not a valid status.
type Status string

const (
	StatusOpenToJoin  Status = "Open To Join"
	StatusOrderPlaced Status = "Order Placed"
	StatusPreparing   Status = "Preparing"
	StatusReadyToEat  Status = "Ready To Eat"
	StatusFeedback    Status = "Feedback"
	StatusClosed      Status = "Closed"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
	ErrTerminalState     = errors.New("order is already closed")
)

// statusSequence is the only legal progression; index order is the transition order.
var statusSequence = []Status{
	StatusOpenToJoin,
	StatusOrderPlaced,
	StatusPreparing,
	StatusReadyToEat,
	StatusFeedback,
	StatusClosed,
}

// Statuses returns the ordered status sequence.
func Statuses() []Status {
	return append([]Status(nil), statusSequence...)
}

// IsValid reports whether the status belongs to the sequence.
func (s Status) IsValid() bool {
	return s.index() >= 0
}

// IsTerminal reports whether no further transition exists.
func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// Next returns the immediate successor. ok is false for Closed or unknown values.
func (s Status) Next() (Status, bool) {
	i := s.index()
	if i < 0 || i == len(statusSequence)-1 {
		return "", false
	}
	return statusSequence[i+1], true
}

// ValidateTransition checks that to is the immediate successor of from.
func ValidateTransition(from, to Status) error {
	if !from.IsValid() {
		return ErrInvalidStatus
	}
	if from.IsTerminal() {
		return ErrTerminalState
	}
	next, _ := from.Next()
	if to != next {
		return ErrInvalidTransition
	}
	return nil
}

func (s Status) index() int {
	for i, candidate := range statusSequence {
		if candidate == s {
			return i
		}
	}
	return -1
}
