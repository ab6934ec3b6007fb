package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// User events
	EventUserRegistered = "user.registered"
	EventUserUpdated    = "user.updated"

	// Task events
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"

	// Import events
	EventImportCompleted = "import.completed"
)

// Exchange names
const (
	ExchangeUserEvents   = "user.events"
	ExchangeTaskEvents   = "task.events"
	ExchangeImportEvents = "import.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID attaches a correlation ID to the context for publishing.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func getCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// UserRegisteredEvent is published when a new user registers.
type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// TaskEvent is published on task lifecycle changes.
type TaskEvent struct {
	TaskID    string `json:"task_id"`
	UserID    string `json:"user_id"`
	CreatedBy string `json:"created_by"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
}

// ImportCompletedEvent is published when a document import finishes.
type ImportCompletedEvent struct {
	RecordID    string  `json:"record_id"`
	Filename    string  `json:"filename"`
	UserID      *string `json:"user_id,omitempty"`
	FieldsFound int     `json:"fields_found"`
}
