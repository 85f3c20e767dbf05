//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "mealgroup-api"
	ConsumerName = "organizer-portal"

	StateOrdersBaseline     = "orders baseline"
	StateOrderExists        = "order with id 301 exists"
	StateOrderMissing       = "no order with id 999"
	StateParticipantInvited = "participant 501 is invited to order 301"
)

const (
	ExistingOrderID      int64 = 301
	MissingOrderID       int64 = 999
	InvitedParticipantID int64 = 501
)

const (
	InvitedEmail   = "pact.diner@example.com"
	InvitedDietary = "vegan, nut free"

	// ExampleToken stands in for a participant credential; the provider swaps
	// it for a freshly signed one before verification.
	ExampleToken = "pact-participant-token"
)

const (
	ExampleOrderName   = "Pact Team Lunch"
	ExampleLocation    = "HQ Kitchen"
	ExampleMenu        = "Tacos"
	ExampleScheduledAt = "2024-06-12T12:00:00Z"
	ScheduledAtPattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`
	StatusPattern      = "Open To Join|Order Placed|Preparing|Ready To Eat|Feedback|Closed"
	BearerPattern      = `^Bearer .+$`
	JSONContentType    = "application/json; charset=utf-8"
	JSONContentPattern = `application\/json(?:;\s?charset=utf-8)?`
	ProblemContentType = "application/problem+json"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the organizer portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreateOrderPayload provides stable request data for order creation.
func ExampleCreateOrderPayload() map[string]any {
	return map[string]any{
		"name":            ExampleOrderName,
		"location":        ExampleLocation,
		"menuDescription": ExampleMenu,
		"dt_scheduled":    ExampleScheduledAt,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
