package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

// Repositories groups the persistence and directory collaborators of the service.
type Repositories struct {
	Orders       ports.OrderRepository
	Participants ports.ParticipantRepository
	Roster       ports.RosterRepository
	Groups       ports.GroupDirectory
	Providers    ports.ProviderCatalog
}

// Service is the order lifecycle engine: it composes the roster, the status
// machine, the quantity predictor and the profile projector.
type Service struct {
	orders       ports.OrderRepository
	participants ports.ParticipantRepository
	providers    ports.ProviderCatalog
	roster       *Roster
	auth         ports.Authenticator
	issuer       ports.TokenIssuer
	wasteFactors ports.WasteFactorSource
	invitations  ports.InvitationOrchestrator
	logger       *slog.Logger
}

type Option func(*Service)

// WithTokenIssuer enables participant credential issuance.
func WithTokenIssuer(issuer ports.TokenIssuer) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithWasteFactorSource sets the analytics collaborator. Without one the factor is 0.
func WithWasteFactorSource(source ports.WasteFactorSource) Option {
	return func(s *Service) { s.wasteFactors = source }
}

// WithInvitationOrchestrator routes group invitations through an orchestrator.
func WithInvitationOrchestrator(orchestrator ports.InvitationOrchestrator) Option {
	return func(s *Service) { s.invitations = orchestrator }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires the engine.
func NewService(repos Repositories, auth ports.Authenticator, opts ...Option) *Service {
	s := &Service{
		orders:       repos.Orders,
		participants: repos.Participants,
		providers:    repos.Providers,
		roster:       NewRoster(repos.Orders, repos.Participants, repos.Roster, repos.Groups),
		auth:         auth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

// Roster exposes the roster component, e.g. for workflow activities.
func (s *Service) Roster() *Roster {
	return s.roster
}

// CreateOrder opens a new order for participants to join.
func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error) {
	order, err := domain.NewOrder(input.Name, input.Location, input.MenuDescription, input.ScheduledAt)
	if err != nil {
		return nil, mapError(err)
	}
	if input.ServiceProviderID != nil {
		if _, err := s.providers.Get(ctx, *input.ServiceProviderID); err != nil {
			return nil, mapError(err)
		}
		order.AssignServiceProvider(input.ServiceProviderID)
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	return s.GetOrderView(ctx, created.Entity.ID)
}

// GetOrderView assembles the organizer read model with the quantity recommendation.
func (s *Service) GetOrderView(ctx context.Context, orderID int64) (*ordertypes.OrderView, error) {
	proj, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	lines, err := s.roster.ListForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	participants := make([]ordertypes.RosterLine, 0, len(lines))
	for _, line := range lines {
		participant, err := s.participants.GetByID(ctx, line.ParticipantID)
		if err != nil {
			return nil, mapError(err)
		}
		participants = append(participants, ordertypes.RosterLine{Participant: participant, Line: line})
	}
	provider, err := s.selectedProvider(ctx, proj.Entity)
	if err != nil {
		return nil, err
	}
	prediction := domain.Predict(domain.CountConfirmed(lines), s.wasteFactor(ctx, orderID))
	var costPerPerson *float64
	if provider != nil {
		cost := provider.CostPerPerson
		costPerPerson = &cost
	}
	return &ordertypes.OrderView{
		Order:         proj.Entity,
		Metadata:      proj.Metadata,
		Participants:  participants,
		Provider:      provider,
		Prediction:    prediction,
		EstimatedCost: prediction.EstimatedCost(costPerPerson),
	}, nil
}

// UpdateOrder applies organizer edits. A status field in the request never sets a
// value; it advances the order one step.
func (s *Service) UpdateOrder(ctx context.Context, input ordertypes.UpdateOrderInput) (*ordertypes.OrderView, error) {
	proj, err := s.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, mapError(err)
	}
	order := proj.Entity
	loaded := order.Status
	if input.Name != nil {
		order.Rename(*input.Name)
	}
	if input.Location != nil {
		order.Relocate(*input.Location)
	}
	if input.MenuDescription != nil {
		order.DescribeMenu(*input.MenuDescription)
	}
	if input.ScheduledAt != nil {
		if err := order.Reschedule(*input.ScheduledAt); err != nil {
			return nil, mapError(err)
		}
	}
	if input.ScheduledDate != nil {
		if err := order.SetScheduledDate(*input.ScheduledDate); err != nil {
			return nil, mapError(err)
		}
	}
	if input.ScheduledTime != nil {
		if err := order.SetScheduledTime(*input.ScheduledTime); err != nil {
			return nil, mapError(err)
		}
	}
	switch {
	case input.ClearServiceProvider:
		order.AssignServiceProvider(nil)
	case input.ServiceProviderID != nil:
		if _, err := s.providers.Get(ctx, *input.ServiceProviderID); err != nil {
			return nil, mapError(err)
		}
		order.AssignServiceProvider(input.ServiceProviderID)
	}
	if input.AdvanceStatus {
		if err := order.Advance(); err != nil {
			return nil, mapError(err)
		}
	}
	if _, err := s.orders.Save(ctx, order, loaded); err != nil {
		return nil, mapError(err)
	}
	return s.GetOrderView(ctx, order.ID)
}

// DeleteOrder removes an order together with its roster.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	return mapError(s.orders.Delete(ctx, orderID))
}

// ListOrders returns the organizer's order list.
func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	projections, err := s.orders.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	orders := make([]*domain.Order, 0, len(projections))
	for _, proj := range projections {
		orders = append(orders, proj.Entity)
	}
	return orders, nil
}

// AddParticipants invites an individual (by id or email) or a whole group.
func (s *Service) AddParticipants(ctx context.Context, input ordertypes.AddParticipantsInput) (*ordertypes.InvitationResult, error) {
	selectors := 0
	for _, set := range []bool{input.ParticipantID != nil, input.Email != nil, input.GroupID != nil} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, fmt.Errorf("%w: exactly one of participantId, email or groupId is required", ErrInvalidInput)
	}
	if input.GroupID != nil {
		return s.inviteGroup(ctx, ordertypes.InviteGroupInput{OrderID: input.OrderID, GroupID: *input.GroupID})
	}
	ref := ordertypes.ParticipantRef{}
	if input.ParticipantID != nil {
		ref.ID = *input.ParticipantID
		if ref.ID <= 0 {
			return nil, fmt.Errorf("%w: participantId must be positive", ErrInvalidInput)
		}
	} else {
		ref.Email = *input.Email
	}
	line, participant, err := s.roster.AddIndividual(ctx, input.OrderID, ref)
	if err != nil {
		return nil, err
	}
	return &ordertypes.InvitationResult{
		OrderID: input.OrderID,
		Members: []ordertypes.MemberResult{{
			ParticipantID: line.ParticipantID,
			Email:         participant.Email,
			Outcome:       ordertypes.MemberAdded,
		}},
	}, nil
}

// GetParticipantProfile authenticates a participant and projects their pending orders.
func (s *Service) GetParticipantProfile(ctx context.Context, credential string) (*domain.ParticipantProfile, error) {
	participant, err := s.authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}
	pending, err := s.roster.ListPendingForParticipant(ctx, participant.ID)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.RosterEntry, 0, len(pending))
	for _, line := range pending {
		proj, err := s.orders.GetByID(ctx, line.OrderID)
		if errors.Is(err, ports.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, mapError(err)
		}
		entries = append(entries, domain.RosterEntry{Order: proj.Entity, Line: line})
	}
	profile := domain.ProjectProfile(participant, entries)
	return &profile, nil
}

// RespondToOrder records the authenticated participant's RSVP.
func (s *Service) RespondToOrder(ctx context.Context, input ordertypes.RespondInput) (*domain.OrderParticipant, error) {
	participant, err := s.authenticate(ctx, input.Credential)
	if err != nil {
		return nil, err
	}
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, mapError(err)
	}
	return s.roster.Respond(ctx, input.OrderID, participant.ID, decision)
}

// IssueParticipantToken mints a credential for an existing participant.
func (s *Service) IssueParticipantToken(ctx context.Context, participantID int64) (string, error) {
	if s.issuer == nil {
		return "", errors.New("participant token issuer not configured")
	}
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		return "", mapError(err)
	}
	token, err := s.issuer.Issue(ctx, participantID)
	if err != nil {
		return "", mapError(err)
	}
	return token, nil
}

// ListServiceProviders exposes the read-only catalog.
func (s *Service) ListServiceProviders(ctx context.Context) ([]*domain.ServiceProvider, error) {
	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return providers, nil
}

func (s *Service) inviteGroup(ctx context.Context, input ordertypes.InviteGroupInput) (*ordertypes.InvitationResult, error) {
	if s.invitations != nil {
		result, err := s.invitations.InviteGroup(ctx, input)
		if err != nil {
			return nil, mapError(err)
		}
		return result, nil
	}
	return s.roster.AddGroup(ctx, input.OrderID, input.GroupID)
}

// authenticate resolves the credential to a stored participant. A credential for
// a participant that no longer exists fails exactly like an invalid one.
func (s *Service) authenticate(ctx context.Context, credential string) (*domain.Participant, error) {
	if s.auth == nil {
		return nil, ErrUnauthorized
	}
	identity, err := s.auth.Authenticate(ctx, credential)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrUnauthorized
	}
	participant, err := s.participants.GetByID(ctx, identity.ParticipantID)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, mapError(err)
	}
	return participant, nil
}

func (s *Service) selectedProvider(ctx context.Context, order *domain.Order) (*domain.ServiceProvider, error) {
	if order.ServiceProviderID == nil {
		return nil, nil
	}
	provider, err := s.providers.Get(ctx, *order.ServiceProviderID)
	if errors.Is(err, ports.ErrNotFound) {
		s.logger.WarnContext(ctx, "selected service provider missing from catalog",
			slog.Int64("order.id", order.ID), slog.Int64("provider.id", *order.ServiceProviderID))
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return provider, nil
}

func (s *Service) wasteFactor(ctx context.Context, orderID int64) float64 {
	if s.wasteFactors == nil {
		return 0
	}
	factor, err := s.wasteFactors.WasteFactor(ctx, orderID)
	if err != nil {
		s.logger.WarnContext(ctx, "waste factor unavailable, predicting without it",
			slog.Int64("order.id", orderID), slog.String("error", err.Error()))
		return 0
	}
	return factor
}

var _ ports.Service = (*Service)(nil)
