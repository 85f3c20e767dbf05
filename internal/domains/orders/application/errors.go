package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

// Failure kinds surfaced to adapters. Every error returned by the service
// matches exactly one of these with errors.Is, or is an infrastructure error.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrTerminalState     = errors.New("terminal state")
	ErrInvalidInput      = errors.New("invalid order input")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnauthorized, "unauthorized"},
	{ErrNotFound, "not_found"},
	{ErrConflict, "conflict"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrTerminalState, "terminal_state"},
	{ErrInvalidInput, "invalid_input"},
}

// Kind returns the stable name of the failure kind, or "internal".
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}

// KindError returns the sentinel for a kind name produced by Kind, or nil for
// "internal" and unknown names. Used to restore kinds that crossed a process boundary.
func KindError(kind string) error {
	for _, k := range kinds {
		if k.name == kind {
			return k.err
		}
	}
	return nil
}

func isKind(err error) bool {
	return Kind(err) != "internal"
}

func mapError(err error) error {
	if err == nil || isKind(err) {
		return err
	}
	switch {
	case errors.Is(err, ports.ErrInvalidCredential):
		return ErrUnauthorized
	case errors.Is(err, ports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, ports.ErrAlreadyRostered),
		errors.Is(err, ports.ErrEmailTaken):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, domain.ErrTerminalState):
		return fmt.Errorf("%w: %w", ErrTerminalState, err)
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrAlreadyResponded),
		errors.Is(err, ports.ErrStatusChanged):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrNegativeCost):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
