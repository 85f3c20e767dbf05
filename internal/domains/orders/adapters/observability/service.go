package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/mealgroup-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder", trace.WithAttributes(attribute.String("order.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("order.name", input.Name), slog.Time("order.scheduled_at", input.ScheduledAt))
	view, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("order.name", input.Name))
	}
	span.SetAttributes(attribute.Int64("order.id", view.Order.ID))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", view.Order.ID), slog.String("status", string(view.Order.Status)))
	return view, nil
}

func (s *Service) GetOrderView(ctx context.Context, orderID int64) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderView", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	view, err := s.inner.GetOrderView(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	span.SetAttributes(
		attribute.Int("order.participants", len(view.Participants)),
		attribute.Int("order.prediction.total", view.Prediction.TotalOrders),
	)
	return view, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input ordertypes.UpdateOrderInput) (*ordertypes.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.Bool("order.advance_status", input.AdvanceStatus)))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", input.OrderID), slog.Bool("advance_status", input.AdvanceStatus))
	view, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", input.OrderID))
	}
	if input.AdvanceStatus {
		s.metrics.recordAdvanced(ctx, view.Order.Status)
	}
	s.logInfo(ctx, "order updated", slog.Int64("order.id", view.Order.ID), slog.String("status", string(view.Order.Status)))
	return view, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", orderID))
	if err := s.inner.DeleteOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) AddParticipants(ctx context.Context, input ordertypes.AddParticipantsInput) (*ordertypes.InvitationResult, error) {
	attrs := []attribute.KeyValue{attribute.Int64("order.id", input.OrderID)}
	if input.GroupID != nil {
		attrs = append(attrs, attribute.Int64("group.id", *input.GroupID))
	}
	ctx, span := s.tracer.Start(ctx, "OrderService.AddParticipants", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "adding participants", slog.Int64("order.id", input.OrderID), slog.Bool("group", input.GroupID != nil))
	result, err := s.inner.AddParticipants(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add participants", slog.Int64("order.id", input.OrderID))
	}
	for _, outcome := range []ordertypes.MemberOutcome{ordertypes.MemberAdded, ordertypes.MemberSkipped, ordertypes.MemberFailed} {
		s.metrics.recordInvitations(ctx, outcome, result.Count(outcome))
	}
	s.logInfo(ctx, "participants added",
		slog.Int64("order.id", input.OrderID),
		slog.Int("added", result.Count(ordertypes.MemberAdded)),
		slog.Int("skipped", result.Count(ordertypes.MemberSkipped)),
		slog.Int("failed", result.Count(ordertypes.MemberFailed)))
	return result, nil
}

func (s *Service) GetParticipantProfile(ctx context.Context, credential string) (*domain.ParticipantProfile, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetParticipantProfile")
	defer span.End()

	profile, err := s.inner.GetParticipantProfile(ctx, credential)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load participant profile")
	}
	span.SetAttributes(attribute.Int64("participant.id", profile.ID), attribute.Int("profile.orders", len(profile.Orders)))
	return profile, nil
}

func (s *Service) RespondToOrder(ctx context.Context, input ordertypes.RespondInput) (*domain.OrderParticipant, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RespondToOrder",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("rsvp.decision", input.Decision)))
	defer span.End()

	line, err := s.inner.RespondToOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record response", slog.Int64("order.id", input.OrderID))
	}
	s.metrics.recordResponse(ctx, line.Status)
	s.logInfo(ctx, "response recorded",
		slog.Int64("order.id", line.OrderID), slog.Int64("participant.id", line.ParticipantID), slog.String("rsvp", line.Status.String()))
	return line, nil
}

func (s *Service) IssueParticipantToken(ctx context.Context, participantID int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.IssueParticipantToken", trace.WithAttributes(attribute.Int64("participant.id", participantID)))
	defer span.End()

	token, err := s.inner.IssueParticipantToken(ctx, participantID)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to issue participant token", slog.Int64("participant.id", participantID))
	}
	s.logInfo(ctx, "participant token issued", slog.Int64("participant.id", participantID))
	return token, nil
}

func (s *Service) ListServiceProviders(ctx context.Context) ([]*domain.ServiceProvider, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListServiceProviders")
	defer span.End()

	providers, err := s.inner.ListServiceProviders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list service providers")
	}
	span.SetAttributes(attribute.Int("providers.count", len(providers)))
	return providers, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	level := slog.LevelError
	if kind := application.Kind(err); kind != "internal" {
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error.kind", kind))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersAdvanced metric.Int64Counter
	ordersDeleted  metric.Int64Counter
	invitations    metric.Int64Counter
	responses      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	ordersAdvanced, _ := m.Int64Counter("orders.service.orders_advanced", metric.WithDescription("Number of order status advances"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	invitations, _ := m.Int64Counter("orders.service.invitations", metric.WithDescription("Invitees processed by outcome"))
	responses, _ := m.Int64Counter("orders.service.responses", metric.WithDescription("Participant responses by status"))
	return serviceMetrics{
		ordersCreated:  ordersCreated,
		ordersAdvanced: ordersAdvanced,
		ordersDeleted:  ordersDeleted,
		invitations:    invitations,
		responses:      responses,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAdvanced(ctx context.Context, status domain.Status) {
	if m.ordersAdvanced != nil {
		m.ordersAdvanced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordInvitations(ctx context.Context, outcome ordertypes.MemberOutcome, n int) {
	if m.invitations != nil && n > 0 {
		m.invitations.Add(ctx, int64(n), metric.WithAttributes(attribute.String("invitation.outcome", string(outcome))))
	}
}

func (m serviceMetrics) recordResponse(ctx context.Context, status domain.RSVPStatus) {
	if m.responses != nil {
		m.responses.Add(ctx, 1, metric.WithAttributes(attribute.String("rsvp.status", status.String())))
	}
}

var _ ports.Service = (*Service)(nil)
