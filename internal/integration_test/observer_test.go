package integration

import (
	"strings"
	"testing"

	"github.com/kihiko-jay/mini-rdbms/internal/engine"
)

// MockObserver for testing
type MockObserver struct {
	Events []engine.Event
}

func (m *MockObserver) OnEvent(event engine.Event) {
	m.Events = append(m.Events, event)
}

// TestStatementLifecycleEvents verifies the events emitted around one
// successful statement.
func TestStatementLifecycleEvents(t *testing.T) {
	eng := newUsersDB(t)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	mustRun(t, eng, "SELECT * FROM users")

	expectedEventTypes := []engine.EventType{
		engine.EventStatementStart,
		engine.EventStatementEnd,
	}

	if len(observer.Events) != len(expectedEventTypes) {
		t.Errorf("Expected %d events, got %d", len(expectedEventTypes), len(observer.Events))
		for i, event := range observer.Events {
			t.Logf("Event %d: %s", i, event.Type)
		}
		return
	}

	for i, expectedType := range expectedEventTypes {
		if observer.Events[i].Type != expectedType {
			t.Errorf("Event %d: Expected %s, got %s", i, expectedType, observer.Events[i].Type)
		}
	}

	// Both events belong to the same statement.
	stmtID := observer.Events[0].StatementID
	if stmtID == "" {
		t.Error("Expected a non-empty statement ID")
	}
	for i, event := range observer.Events {
		if event.StatementID != stmtID {
			t.Errorf("Event %d: StatementID mismatch. Expected %s, got %s", i, stmtID, event.StatementID)
		}
	}

	// Timestamps are in chronological order.
	for i := 1; i < len(observer.Events); i++ {
		if observer.Events[i].Timestamp.Before(observer.Events[i-1].Timestamp) {
			t.Errorf("Event %d timestamp is before event %d", i, i-1)
		}
	}
}

// TestEventDataContent verifies that event data contains expected values
func TestEventDataContent(t *testing.T) {
	eng := newUsersDB(t)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	mustRun(t, eng, "SELECT * FROM users")

	startEvent := observer.Events[0]
	if kind, ok := startEvent.Data.(string); !ok || kind != "SELECT" {
		t.Errorf("Expected start event data 'SELECT', got %v", startEvent.Data)
	}

	endEvent := observer.Events[len(observer.Events)-1]
	if endEvent.Type != engine.EventStatementEnd {
		t.Fatalf("Last event should be EventStatementEnd")
	}
	resultData, ok := endEvent.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("End event data should be a map. Got: %T", endEvent.Data)
	}
	if returned, ok := resultData["rows_returned"]; !ok || returned != 3 {
		t.Errorf("Expected rows_returned 3, got %v", returned)
	}
	if _, ok := resultData["rows_affected"]; !ok {
		t.Error("End event data should contain rows_affected")
	}
}

// TestMultipleStatements verifies that each statement gets its own ID
func TestMultipleStatements(t *testing.T) {
	eng := newUsersDB(t)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	mustRun(t, eng, "SELECT * FROM users")
	firstCount := len(observer.Events)
	firstID := observer.Events[0].StatementID

	mustRun(t, eng, "SELECT id FROM users")

	if len(observer.Events) != firstCount*2 {
		t.Errorf("Expected %d total events, got %d", firstCount*2, len(observer.Events))
	}

	secondID := observer.Events[firstCount].StatementID
	if firstID == secondID {
		t.Error("Different statements should have different IDs")
	}
}

// TestFailedStatementEvents verifies the error event carries the failure.
func TestFailedStatementEvents(t *testing.T) {
	eng := newUsersDB(t)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	if _, err := run(t, eng, "SELECT * FROM nonexistent"); err == nil {
		t.Fatal("Expected error for unknown table, got nil")
	}

	if len(observer.Events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(observer.Events))
	}
	errEvent := observer.Events[1]
	if errEvent.Type != engine.EventStatementError {
		t.Errorf("Expected %s, got %s", engine.EventStatementError, errEvent.Type)
	}
	msg, ok := errEvent.Data.(string)
	if !ok || !strings.Contains(msg, "doesn't exist") {
		t.Errorf("Expected error event data to carry the failure, got %v", errEvent.Data)
	}
}
