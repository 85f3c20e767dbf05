package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/shared/projection"
)

var (
	ErrNotFound = errors.New("not found")

	ErrOrderNotFound       = fmt.Errorf("order %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("participant %w", ErrNotFound)
	ErrRosterLineNotFound  = fmt.Errorf("roster line %w", ErrNotFound)
	ErrGroupNotFound       = fmt.Errorf("group %w", ErrNotFound)
	ErrProviderNotFound    = fmt.Errorf("service provider %w", ErrNotFound)

	// ErrAlreadyRostered is returned when the (order, participant) pair already exists.
	ErrAlreadyRostered = errors.New("participant is already on the order roster")
	// ErrEmailTaken is returned when a participant with the same email exists.
	ErrEmailTaken = errors.New("participant email is already registered")
	// ErrStatusChanged is returned by a conditional roster update that lost the race.
	ErrStatusChanged = errors.New("roster line status changed concurrently")
)

// OrderProjection is an order plus persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Create assigns an identifier and stores a new order.
	Create(ctx context.Context, order *domain.Order) (*OrderProjection, error)
	GetByID(ctx context.Context, id int64) (*OrderProjection, error)
	// Save updates an existing order only while its stored status is still expected,
	// the status the change was based on. A stale expected status or a status change
	// that is not the immediate successor of it fails with a domain transition error.
	Save(ctx context.Context, order *domain.Order, expected domain.Status) (*OrderProjection, error)
	// Delete removes the order and its roster lines.
	Delete(ctx context.Context, id int64) error
	// List returns every order, most recently scheduled first.
	List(ctx context.Context) ([]*OrderProjection, error)
}

// ParticipantRepository persists participants shared across orders.
type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) (*domain.Participant, error)
	GetByID(ctx context.Context, id int64) (*domain.Participant, error)
	GetByEmail(ctx context.Context, email string) (*domain.Participant, error)
}

// RosterRepository persists order/participant roster lines keyed by the pair.
type RosterRepository interface {
	// Insert stores a new line; an existing pair yields ErrAlreadyRostered.
	Insert(ctx context.Context, line *domain.OrderParticipant) (*domain.OrderParticipant, error)
	Get(ctx context.Context, orderID, participantID int64) (*domain.OrderParticipant, error)
	// UpdateStatus moves a line from one status to another only if it still holds from.
	UpdateStatus(ctx context.Context, orderID, participantID int64, from, to domain.RSVPStatus) (*domain.OrderParticipant, error)
	// ListByOrder returns lines in insertion order.
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.OrderParticipant, error)
	// ListByParticipant returns lines in insertion order.
	ListByParticipant(ctx context.Context, participantID int64) ([]*domain.OrderParticipant, error)
}
