package ports

import (
	"context"
	"errors"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/domain"
)

// ErrInvalidCredential covers every credential failure: missing, malformed,
// badly signed, or expired.
var ErrInvalidCredential = errors.New("invalid participant credential")

// Authenticator resolves a participant credential to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (domain.ParticipantIdentity, error)
}

// TokenIssuer mints participant credentials.
type TokenIssuer interface {
	Issue(ctx context.Context, participantID int64) (string, error)
}
