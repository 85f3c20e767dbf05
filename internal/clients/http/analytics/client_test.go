package analytics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestWasteFactor_ReadsFactor(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders/42/waste-factor", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"wasteFactor":0.2}`))
	})
	client, err := NewClient(server.URL+"/api", WithHTTPClient(server.Client()))
	require.NoError(t, err)

	factor, err := client.WasteFactor(context.Background(), 42)
	require.NoError(t, err)
	require.InDelta(t, 0.2, factor, 1e-9)
}

func TestWasteFactor_NoHistoryUsesFallback(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	client, err := NewClient(server.URL, WithHTTPClient(server.Client()), WithFallback(0.1))
	require.NoError(t, err)

	factor, err := client.WasteFactor(context.Background(), 7)
	require.NoError(t, err)
	require.InDelta(t, 0.1, factor, 1e-9)
}

func TestWasteFactor_SurfacesErrorMessage(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"warehouse offline"}`))
	})
	client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.WasteFactor(context.Background(), 7)
	require.ErrorContains(t, err, "warehouse offline")
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}
