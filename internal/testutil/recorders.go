package testutil

import (
	"sync"
	"time"

	"eventhub.dev/cli/internal/core/event"
)

// RecordingNotifier keeps every notification for assertions
type RecordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *RecordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *RecordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

// Successes returns the success notifications in order
func (n *RecordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

// Errors returns the error notifications in order
func (n *RecordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

// RecordingNavigator keeps every navigation for assertions
type RecordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *RecordingNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

// Routes returns the navigations in order
func (n *RecordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.routes...)
}

// ValidDraft returns a draft that passes validation
func ValidDraft() event.Draft {
	return event.Draft{
		Name:        "Code Sprint",
		Description: "Twenty four hour hackathon",
		Price:       "250",
		Category:    "66f1c0ffee0000000000abcd",
		TeamSize:    "4",
		Venue:       "Main Hall",
		EventDate:   "2026-11-02",
		Contact:     "events@example.com",
	}
}

// PNGHeader is the smallest byte sequence sniffed as image/png
var PNGHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// FixedTime is a stable timestamp for fixtures
var FixedTime = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
