package engine

import "time"

// EventType represents different lifecycle phases in statement execution
type EventType string

const (
	EventStatementStart EventType = "statement_start"
	EventStatementEnd   EventType = "statement_end"
	EventStatementError EventType = "statement_error"
)

// Event represents a lifecycle event in statement execution
type Event struct {
	Type        EventType   // Type of event
	StatementID string      // Statement ID for tracing
	Timestamp   time.Time   // When the event occurred
	Data        interface{} // Phase-specific data (e.g., statement kind, row counts, error)
}

// Observer interface for event subscribers
// Observers receive events at major execution phases
type Observer interface {
	OnEvent(event Event)
}
