package mapper

import (
	"time"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
)

// ProfileOrder is a pending order as the participant sees it.
type ProfileOrder struct {
	ID              int64     `json:"id"`
	Status          int       `json:"status"`
	Location        string    `json:"location"`
	MenuDescription string    `json:"menuDescription"`
	ScheduledAt     time.Time `json:"dt_scheduled"`
}

// Profile is the response of GET /v1/profile.
type Profile struct {
	ID                  int64          `json:"id"`
	Email               string         `json:"email"`
	LastOrder           *ProfileOrder  `json:"lastOrder"`
	DietaryRequirements []string       `json:"dietaryRequirements"`
	Orders              []ProfileOrder `json:"orders"`
}

// RespondRequest is the RSVP body.
type RespondRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// RosterLine is the response of an RSVP.
type RosterLine struct {
	OrderID       int64  `json:"orderId"`
	ParticipantID int64  `json:"participantId"`
	Status        int    `json:"status"`
	StatusLabel   string `json:"statusLabel"`
}

func FromProfile(profile *domain.ParticipantProfile) Profile {
	out := Profile{DietaryRequirements: []string{}, Orders: []ProfileOrder{}}
	if profile == nil {
		return out
	}
	out.ID = profile.ID
	out.Email = profile.Email
	if profile.DietaryRequirements != nil {
		out.DietaryRequirements = profile.DietaryRequirements
	}
	if profile.LastOrder != nil {
		last := fromProfileOrder(*profile.LastOrder)
		out.LastOrder = &last
	}
	for _, order := range profile.Orders {
		out.Orders = append(out.Orders, fromProfileOrder(order))
	}
	return out
}

func FromRosterLine(line *domain.OrderParticipant) RosterLine {
	if line == nil {
		return RosterLine{}
	}
	return RosterLine{
		OrderID:       line.OrderID,
		ParticipantID: line.ParticipantID,
		Status:        int(line.Status),
		StatusLabel:   line.Status.String(),
	}
}

func fromProfileOrder(order domain.ProfileOrder) ProfileOrder {
	return ProfileOrder{
		ID:              order.ID,
		Status:          int(order.Status),
		Location:        order.Location,
		MenuDescription: order.MenuDescription,
		ScheduledAt:     order.ScheduledAt.UTC(),
	}
}
