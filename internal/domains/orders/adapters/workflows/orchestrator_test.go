package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/mealgroup-api/internal/domains/orders/application"
)

func TestRestoreKind(t *testing.T) {
	notFound := temporal.NewNonRetryableApplicationError("group not found", "not_found", nil)
	assert.ErrorIs(t, restoreKind(notFound), application.ErrNotFound)

	wrapped := temporal.NewApplicationError("boom", "SomethingElse")
	assert.Same(t, wrapped, restoreKind(wrapped))

	plain := errors.New("connection refused")
	assert.Equal(t, plain, restoreKind(plain))
}
