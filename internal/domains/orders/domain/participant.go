package domain

import (
	"errors"
	"strings"
)

var ErrInvalidEmail = errors.New("email must contain '@'")

// Participant is someone who can be invited to orders.
type Participant struct {
	ID                  int64
	Email               string
	DietaryRequirements string
}

// ParticipantIdentity is the authenticated subject of a participant credential.
type ParticipantIdentity struct {
	ParticipantID int64
}

// NewParticipant validates and normalizes the email.
func NewParticipant(email string) (*Participant, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return &Participant{Email: email}, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// DietaryTags returns the stored requirements as trimmed tags.
func (p *Participant) DietaryTags() []string {
	return ParseDietaryRequirements(p.DietaryRequirements)
}

// ParseDietaryRequirements splits comma-separated storage. Empty input yields an empty slice.
func ParseDietaryRequirements(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
