package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/ports"
)

func TestParticipantTokens_RoundTrip(t *testing.T) {
	tokens, err := NewParticipantTokens("secret")
	require.NoError(t, err)

	raw, err := tokens.Issue(context.Background(), 42)
	require.NoError(t, err)

	identity, err := tokens.Authenticate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ParticipantID)

	identity, err = tokens.Authenticate(context.Background(), "Bearer "+raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ParticipantID)
}

func TestParticipantTokens_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewParticipantTokens("one")
	require.NoError(t, err)
	verifier, err := NewParticipantTokens("two")
	require.NoError(t, err)

	raw, err := issuer.Issue(context.Background(), 7)
	require.NoError(t, err)

	_, err = verifier.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ports.ErrInvalidCredential)
}

func TestParticipantTokens_RejectsGarbageAndEmpty(t *testing.T) {
	tokens, err := NewParticipantTokens("secret")
	require.NoError(t, err)

	for _, credential := range []string{"", "Bearer ", "not-a-token", "a.b.c"} {
		_, err := tokens.Authenticate(context.Background(), credential)
		assert.ErrorIs(t, err, ports.ErrInvalidCredential, credential)
	}
}

func TestParticipantTokens_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens, err := NewParticipantTokens("secret", WithTTL(time.Hour), WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	raw, err := tokens.Issue(context.Background(), 3)
	require.NoError(t, err)

	_, err = tokens.Authenticate(context.Background(), raw)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = tokens.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ports.ErrInvalidCredential)
}

func TestParticipantTokens_RejectsOtherAlgorithms(t *testing.T) {
	tokens, err := NewParticipantTokens("secret")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.Authenticate(context.Background(), unsigned)
	assert.ErrorIs(t, err, ports.ErrInvalidCredential)
}

func TestParticipantTokens_CancelledContext(t *testing.T) {
	tokens, err := NewParticipantTokens("secret")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = tokens.Authenticate(ctx, "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}
