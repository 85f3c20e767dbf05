package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidSchedule = errors.New("order schedule must be set")

// Order is the group meal order aggregate.
type Order struct {
	ID                int64
	Name              string
	Location          string
	MenuDescription   string
	ScheduledAt       time.Time
	Status            Status
	ServiceProviderID *int64
}

// NewOrder builds an order in the initial status.
func NewOrder(name, location, menuDescription string, scheduledAt time.Time) (*Order, error) {
	order := &Order{
		Name:            strings.TrimSpace(name),
		Location:        strings.TrimSpace(location),
		MenuDescription: menuDescription,
		Status:          StatusOpenToJoin,
	}
	if err := order.Reschedule(scheduledAt); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants before persistence.
func (o *Order) Validate() error {
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	if o.ScheduledAt.IsZero() {
		return ErrInvalidSchedule
	}
	return nil
}

// Advance moves the order to the immediate successor status.
func (o *Order) Advance() error {
	if o.Status.IsTerminal() {
		return ErrTerminalState
	}
	next, ok := o.Status.Next()
	if !ok {
		return ErrInvalidStatus
	}
	o.Status = next
	return nil
}

// TransitionTo applies an explicit status write, accepting only the successor.
func (o *Order) TransitionTo(target Status) error {
	if err := ValidateTransition(o.Status, target); err != nil {
		return err
	}
	o.Status = target
	return nil
}

// NextStatus returns the successor, or nil once closed.
func (o *Order) NextStatus() *Status {
	next, ok := o.Status.Next()
	if !ok {
		return nil
	}
	return &next
}

// Rename sets the optional display label.
func (o *Order) Rename(name string) {
	o.Name = strings.TrimSpace(name)
}

// Relocate sets the delivery location.
func (o *Order) Relocate(location string) {
	o.Location = strings.TrimSpace(location)
}

// DescribeMenu replaces the menu description text.
func (o *Order) DescribeMenu(description string) {
	o.MenuDescription = description
}

// Reschedule replaces the whole scheduled instant.
func (o *Order) Reschedule(at time.Time) error {
	if at.IsZero() {
		return ErrInvalidSchedule
	}
	o.ScheduledAt = at.UTC()
	return nil
}

// SetScheduledDate replaces the calendar date and keeps the time of day.
func (o *Order) SetScheduledDate(date time.Time) error {
	if date.IsZero() {
		return ErrInvalidSchedule
	}
	date = date.UTC()
	current := o.ScheduledAt.UTC()
	o.ScheduledAt = time.Date(date.Year(), date.Month(), date.Day(),
		current.Hour(), current.Minute(), current.Second(), current.Nanosecond(), time.UTC)
	return nil
}

// SetScheduledTime replaces the time of day and keeps the calendar date.
func (o *Order) SetScheduledTime(clock time.Time) error {
	if clock.IsZero() {
		return ErrInvalidSchedule
	}
	clock = clock.UTC()
	current := o.ScheduledAt.UTC()
	o.ScheduledAt = time.Date(current.Year(), current.Month(), current.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), time.UTC)
	return nil
}

// AssignServiceProvider selects the provider; nil clears the selection.
func (o *Order) AssignServiceProvider(providerID *int64) {
	if providerID == nil {
		o.ServiceProviderID = nil
		return
	}
	id := *providerID
	o.ServiceProviderID = &id
}
