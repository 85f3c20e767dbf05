package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

var (
	_ ports.Authenticator = (*ParticipantTokens)(nil)
	_ ports.TokenIssuer   = (*ParticipantTokens)(nil)
)

const bearerPrefix = "Bearer "

// participantClaims is the signed payload. The participant id travels as "id".
type participantClaims struct {
	ParticipantID int64 `json:"id"`
	jwt.RegisteredClaims
}

// ParticipantTokens signs and verifies HS256 participant credentials.
type ParticipantTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*ParticipantTokens)

// WithTTL sets the credential lifetime. Zero issues credentials without expiry.
func WithTTL(ttl time.Duration) Option {
	return func(t *ParticipantTokens) {
		if ttl > 0 {
			t.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(t *ParticipantTokens) {
		if now != nil {
			t.now = now
		}
	}
}

func NewParticipantTokens(secret string, opts ...Option) (*ParticipantTokens, error) {
	if secret == "" {
		return nil, errors.New("participant token secret is empty")
	}
	t := &ParticipantTokens{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

func (t *ParticipantTokens) Issue(ctx context.Context, participantID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if participantID <= 0 {
		return "", fmt.Errorf("participant id must be positive, got %d", participantID)
	}
	now := t.now()
	claims := participantClaims{
		ParticipantID: participantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign participant token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a raw or "Bearer "-prefixed credential. Every verification
// failure is reported as ports.ErrInvalidCredential.
func (t *ParticipantTokens) Authenticate(ctx context.Context, credential string) (domain.ParticipantIdentity, error) {
	if err := ctx.Err(); err != nil {
		return domain.ParticipantIdentity{}, err
	}
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(credential), bearerPrefix))
	if raw == "" {
		return domain.ParticipantIdentity{}, ports.ErrInvalidCredential
	}
	claims := &participantClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return domain.ParticipantIdentity{}, fmt.Errorf("%w: %v", ports.ErrInvalidCredential, err)
	}
	if claims.ParticipantID <= 0 {
		return domain.ParticipantIdentity{}, ports.ErrInvalidCredential
	}
	return domain.ParticipantIdentity{ParticipantID: claims.ParticipantID}, nil
}
