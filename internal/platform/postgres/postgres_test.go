package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsEmptyDSN(t *testing.T) {
	db, err := Connect(context.Background(), "   ")
	require.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenFallsBackWithoutDSN(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	db, cleanup := Open(context.Background(), "", logger)
	require.NotNil(t, cleanup)
	cleanup()

	assert.Nil(t, db)
	assert.Contains(t, buf.String(), "POSTGRES_DSN not set")
}
