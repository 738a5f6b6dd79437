package ports

import (
	"context"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
)

// CategoryGateway defines the interface for reading categories from the backend
type CategoryGateway interface {
	// ListCategories fetches the category selection list
	ListCategories(ctx context.Context) (*CategoryListResponse, error)
}

// EventGateway defines the interface for writing and reading events
type EventGateway interface {
	// CreateEvent sends a draft as a create request
	CreateEvent(ctx context.Context, draft event.Draft) (*CreateEventResponse, error)

	// ListEvents fetches the admin event listing
	ListEvents(ctx context.Context) (*EventListResponse, error)
}

// CategoryListResponse is the body of the category listing endpoint
type CategoryListResponse struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message,omitempty"`
	Category []category.Category `json:"category"`
}

// CreateEventResponse is the body of the create endpoint
type CreateEventResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Event   *event.Record `json:"event,omitempty"`
}

// EventListResponse is the body of the event listing endpoint
type EventListResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Events  []event.Record `json:"events"`
}

// Notifier shows transient messages to the user
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Navigator moves the user to another screen after a successful action
type Navigator interface {
	Navigate(route string)
}

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})

	// SetLogLevel sets the logging level
	SetLogLevel(level LogLevel)

	// GetLogLevel returns the current logging level
	GetLogLevel() LogLevel

	// ConfigureLogging configures logging settings
	ConfigureLogging(config *LoggingConfig) error
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ParseLogLevel converts a configured level name
func ParseLogLevel(value string) (LogLevel, bool) {
	switch LogLevel(value) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return LogLevel(value), true
	default:
		return "", false
	}
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	Level  LogLevel `json:"level"`
	Format string   `json:"format"` // "json" or "text"
	Output string   `json:"output"` // "stdout", "stderr", "discard", or file path
}
