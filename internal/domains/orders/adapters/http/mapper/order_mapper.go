package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	ordertypes "github.com/Apurer/mealgroup-api/internal/domains/orders/application/types"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
)

const (
	// DateLayout is the wire format of the separate date field.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format of the separate time field; seconds are optional.
	TimeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

var ErrMalformedRequest = errors.New("malformed request")

// ServiceProvider is the transport shape of a catalog entry.
type ServiceProvider struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CostPerPerson float64 `json:"costPerPerson"`
}

// RosterParticipant is one roster line in the organizer view.
type RosterParticipant struct {
	ID                  int64    `json:"id"`
	Email               string   `json:"email"`
	DietaryRequirements []string `json:"dietaryRequirements"`
	Status              int      `json:"status"`
	StatusLabel         string   `json:"statusLabel"`
}

// Prediction is the quantity recommendation block.
type Prediction struct {
	ConfirmedCount int      `json:"confirmedCount"`
	TotalOrders    int      `json:"totalOrders"`
	ExtraOrders    int      `json:"extraOrders"`
	WasteFactor    float64  `json:"wasteFactor"`
	CostPerPerson  *float64 `json:"costPerPerson"`
	EstimatedCost  *float64 `json:"estimatedCost"`
}

// OrderView is the organizer read model on the wire.
type OrderView struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Location        string              `json:"location"`
	MenuDescription string              `json:"menuDescription"`
	ScheduledAt     time.Time           `json:"dt_scheduled"`
	Status          string              `json:"status"`
	NextStatus      *string             `json:"nextStatus"`
	ServiceProvider *ServiceProvider    `json:"serviceProvider"`
	Participants    []RosterParticipant `json:"participants"`
	Prediction      Prediction          `json:"prediction"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// OrderSummary is one entry of the organizer order list.
type OrderSummary struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	MenuDescription string    `json:"menuDescription"`
	ScheduledAt     time.Time `json:"dt_scheduled"`
	Status          string    `json:"status"`
}

// CreateOrderRequest is the body of POST /v1/orders.
type CreateOrderRequest struct {
	Name              string     `json:"name"`
	Location          string     `json:"location"`
	MenuDescription   string     `json:"menuDescription"`
	ScheduledAt       *time.Time `json:"dt_scheduled"`
	ServiceProviderID *int64     `json:"serviceProvider"`
}

// UpdateOrderRequest is the body of PATCH /v1/orders/:orderId. Presence matters
// for status and serviceProvider, so it is decoded by ToUpdateOrderInput.
type UpdateOrderRequest struct {
	Name              *string    `json:"name"`
	Location          *string    `json:"location"`
	MenuDescription   *string    `json:"menuDescription"`
	ScheduledAt       *time.Time `json:"dt_scheduled"`
	Date              *string    `json:"date"`
	Time              *string    `json:"time"`
	ServiceProviderID *int64     `json:"serviceProvider"`
}

// AddParticipantsRequest selects exactly one of participantId, email or groupId.
type AddParticipantsRequest struct {
	ParticipantID *int64  `json:"participantId"`
	Email         *string `json:"email"`
	GroupID       *int64  `json:"groupId"`
}

// MemberResult is one invitee outcome.
type MemberResult struct {
	ParticipantID int64  `json:"participantId"`
	Email         string `json:"email,omitempty"`
	Outcome       string `json:"outcome"`
	Reason        string `json:"reason,omitempty"`
}

// InvitationResult is the response of an add-participants call.
type InvitationResult struct {
	OrderID int64          `json:"orderId"`
	GroupID *int64         `json:"groupId,omitempty"`
	Added   int            `json:"added"`
	Skipped int            `json:"skipped"`
	Failed  int            `json:"failed"`
	Members []MemberResult `json:"members"`
}

// ParticipantToken carries an issued participant credential.
type ParticipantToken struct {
	ParticipantID int64  `json:"participantId"`
	Token         string `json:"token"`
}

// ToCreateOrderInput validates the create body.
func ToCreateOrderInput(req CreateOrderRequest) (ordertypes.CreateOrderInput, error) {
	if req.ScheduledAt == nil {
		return ordertypes.CreateOrderInput{}, fmt.Errorf("%w: dt_scheduled is required", ErrMalformedRequest)
	}
	return ordertypes.CreateOrderInput{
		Name:              req.Name,
		Location:          req.Location,
		MenuDescription:   req.MenuDescription,
		ScheduledAt:       *req.ScheduledAt,
		ServiceProviderID: req.ServiceProviderID,
	}, nil
}

// ToUpdateOrderInput decodes a partial update. Any "status" key advances the order
// one step whatever its value; "serviceProvider": null clears the selection.
func ToUpdateOrderInput(orderID int64, body []byte) (ordertypes.UpdateOrderInput, error) {
	input := ordertypes.UpdateOrderInput{OrderID: orderID}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		return input, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	var req UpdateOrderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return input, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	input.Name = req.Name
	input.Location = req.Location
	input.MenuDescription = req.MenuDescription
	input.ScheduledAt = req.ScheduledAt
	if req.Date != nil {
		date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(*req.Date), time.UTC)
		if err != nil {
			return input, fmt.Errorf("%w: date must be %s", ErrMalformedRequest, DateLayout)
		}
		input.ScheduledDate = &date
	}
	if req.Time != nil {
		clock, err := parseClock(*req.Time)
		if err != nil {
			return input, err
		}
		input.ScheduledTime = &clock
	}
	if raw, ok := present["serviceProvider"]; ok {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			input.ClearServiceProvider = true
		} else {
			input.ServiceProviderID = req.ServiceProviderID
		}
	}
	_, input.AdvanceStatus = present["status"]
	return input, nil
}

func parseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{TimeLayout, shortTimeLayout} {
		if clock, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return clock, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: time must be %s", ErrMalformedRequest, TimeLayout)
}

// ToAddParticipantsInput maps the selector body; selector validation happens in the service.
func ToAddParticipantsInput(orderID int64, req AddParticipantsRequest) ordertypes.AddParticipantsInput {
	return ordertypes.AddParticipantsInput{
		OrderID:       orderID,
		ParticipantID: req.ParticipantID,
		Email:         req.Email,
		GroupID:       req.GroupID,
	}
}

// FromOrderView converts the application read model.
func FromOrderView(view *ordertypes.OrderView) OrderView {
	if view == nil || view.Order == nil {
		return OrderView{Participants: []RosterParticipant{}}
	}
	order := view.Order
	out := OrderView{
		ID:              order.ID,
		Name:            order.Name,
		Location:        order.Location,
		MenuDescription: order.MenuDescription,
		ScheduledAt:     order.ScheduledAt.UTC(),
		Status:          string(order.Status),
		Participants:    make([]RosterParticipant, 0, len(view.Participants)),
		CreatedAt:       view.Metadata.CreatedAt,
		UpdatedAt:       view.Metadata.UpdatedAt,
		Prediction: Prediction{
			ConfirmedCount: view.Prediction.ConfirmedCount,
			TotalOrders:    view.Prediction.TotalOrders,
			ExtraOrders:    view.Prediction.ExtraOrders,
			WasteFactor:    view.Prediction.WasteFactor,
			EstimatedCost:  view.EstimatedCost,
		},
	}
	if next := order.NextStatus(); next != nil {
		label := string(*next)
		out.NextStatus = &label
	}
	if view.Provider != nil {
		provider := FromServiceProvider(view.Provider)
		out.ServiceProvider = &provider
		cost := view.Provider.CostPerPerson
		out.Prediction.CostPerPerson = &cost
	}
	for _, line := range view.Participants {
		if line.Line == nil || line.Participant == nil {
			continue
		}
		out.Participants = append(out.Participants, RosterParticipant{
			ID:                  line.Participant.ID,
			Email:               line.Participant.Email,
			DietaryRequirements: line.Participant.DietaryTags(),
			Status:              int(line.Line.Status),
			StatusLabel:         line.Line.Status.String(),
		})
	}
	return out
}

// FromOrders converts the organizer order list.
func FromOrders(orders []*domain.Order) []OrderSummary {
	out := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		out = append(out, OrderSummary{
			ID:              order.ID,
			Name:            order.Name,
			Location:        order.Location,
			MenuDescription: order.MenuDescription,
			ScheduledAt:     order.ScheduledAt.UTC(),
			Status:          string(order.Status),
		})
	}
	return out
}

func FromServiceProvider(provider *domain.ServiceProvider) ServiceProvider {
	return ServiceProvider{ID: provider.ID, Name: provider.Name, CostPerPerson: provider.CostPerPerson}
}

func FromServiceProviders(providers []*domain.ServiceProvider) []ServiceProvider {
	out := make([]ServiceProvider, 0, len(providers))
	for _, provider := range providers {
		if provider != nil {
			out = append(out, FromServiceProvider(provider))
		}
	}
	return out
}

// FromInvitationResult converts per-member outcomes.
func FromInvitationResult(result *ordertypes.InvitationResult) InvitationResult {
	if result == nil {
		return InvitationResult{Members: []MemberResult{}}
	}
	out := InvitationResult{
		OrderID: result.OrderID,
		GroupID: result.GroupID,
		Added:   result.Count(ordertypes.MemberAdded),
		Skipped: result.Count(ordertypes.MemberSkipped),
		Failed:  result.Count(ordertypes.MemberFailed),
		Members: make([]MemberResult, 0, len(result.Members)),
	}
	for _, m := range result.Members {
		out.Members = append(out.Members, MemberResult{
			ParticipantID: m.ParticipantID,
			Email:         m.Email,
			Outcome:       string(m.Outcome),
			Reason:        m.Reason,
		})
	}
	return out
}
