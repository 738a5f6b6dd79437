package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
)

const (
	categoryListPath = "/api/v1/category/get-category"
	createEventPath  = "/api/v1/event/create-event"
	eventListPath    = "/api/v1/event/get-events"
)

// MockAPIServer is an httptest backend speaking the category and event endpoints
type MockAPIServer struct {
	*httptest.Server
	Config     MockAPIConfig
	RequestLog []RequestInfo
	mu         sync.Mutex
}

// MockAPIConfig contains all configuration options for the mock server
type MockAPIConfig struct {
	// Category endpoint
	Categories      []category.Category
	CategorySuccess bool
	CategoryStatus  int

	// Create endpoint
	CreateSuccess bool
	CreateMessage string
	CreateStatus  int
	CreateGate    chan struct{} // when set, create requests wait for a receive

	// Listing endpoint
	Events []event.Record

	// Behavior settings
	RequiredToken string
	ResponseDelay time.Duration

	// Custom handlers for specific endpoints
	CustomHandlers map[string]http.HandlerFunc
}

// RequestInfo captures information about each request for test assertions
type RequestInfo struct {
	Method    string
	Path      string
	Headers   http.Header
	Body      []byte
	Form      map[string][]string
	File      *FileInfo
	Timestamp time.Time
}

// FileInfo describes an uploaded multipart file
type FileInfo struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
}

// MockAPIServerBuilder provides a fluent interface for configuring the mock server
type MockAPIServerBuilder struct {
	t      *testing.T
	config MockAPIConfig
}

// NewMockAPIServer creates a new mock API server builder
func NewMockAPIServer(t *testing.T) *MockAPIServerBuilder {
	return &MockAPIServerBuilder{
		t: t,
		config: MockAPIConfig{
			Categories: []category.Category{
				{ID: "66f1c0ffee0000000000abcd", Name: "Hackathon"},
				{ID: "66f1c0ffee0000000000abce", Name: "Workshop"},
			},
			CategorySuccess: true,
			CategoryStatus:  http.StatusOK,
			CreateSuccess:   true,
			CreateMessage:   "Event Created Successfully",
			CreateStatus:    http.StatusCreated,
			CustomHandlers:  make(map[string]http.HandlerFunc),
		},
	}
}

// WithCategories sets the categories returned by the listing endpoint
func (b *MockAPIServerBuilder) WithCategories(categories []category.Category) *MockAPIServerBuilder {
	b.config.Categories = categories
	return b
}

// WithCategoryFailure makes the category endpoint answer {success:false}
func (b *MockAPIServerBuilder) WithCategoryFailure(status int) *MockAPIServerBuilder {
	b.config.CategorySuccess = false
	b.config.CategoryStatus = status
	return b
}

// WithCreateRejection makes the create endpoint answer {success:false, message}
func (b *MockAPIServerBuilder) WithCreateRejection(status int, message string) *MockAPIServerBuilder {
	b.config.CreateSuccess = false
	b.config.CreateStatus = status
	b.config.CreateMessage = message
	return b
}

// WithCreateGate holds create requests until the test sends on gate
func (b *MockAPIServerBuilder) WithCreateGate(gate chan struct{}) *MockAPIServerBuilder {
	b.config.CreateGate = gate
	return b
}

// WithEvents sets the events returned by the listing endpoint
func (b *MockAPIServerBuilder) WithEvents(events []event.Record) *MockAPIServerBuilder {
	b.config.Events = events
	return b
}

// WithRequiredToken rejects requests whose Authorization header differs
func (b *MockAPIServerBuilder) WithRequiredToken(token string) *MockAPIServerBuilder {
	b.config.RequiredToken = token
	return b
}

// WithResponseDelay adds artificial delay to responses
func (b *MockAPIServerBuilder) WithResponseDelay(delay time.Duration) *MockAPIServerBuilder {
	b.config.ResponseDelay = delay
	return b
}

// WithCustomHandler adds a custom handler for a specific path
func (b *MockAPIServerBuilder) WithCustomHandler(path string, handler http.HandlerFunc) *MockAPIServerBuilder {
	b.config.CustomHandlers[path] = handler
	return b
}

// Build creates the configured mock API server; it is closed with the test
func (b *MockAPIServerBuilder) Build() *MockAPIServer {
	mock := &MockAPIServer{
		Config:     b.config,
		RequestLog: []RequestInfo{},
	}

	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.logRequest(r)

		if b.config.ResponseDelay > 0 {
			time.Sleep(b.config.ResponseDelay)
		}

		if handler, exists := b.config.CustomHandlers[r.URL.Path]; exists {
			handler(w, r)
			return
		}

		if b.config.RequiredToken != "" && r.Header.Get("Authorization") != b.config.RequiredToken {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"message": "Unauthorized Access",
			})
			return
		}

		switch {
		case r.URL.Path == categoryListPath && r.Method == http.MethodGet:
			mock.handleCategories(w)
		case r.URL.Path == createEventPath && r.Method == http.MethodPost:
			mock.handleCreate(w)
		case r.URL.Path == eventListPath && r.Method == http.MethodGet:
			mock.handleEvents(w)
		default:
			http.NotFound(w, r)
		}
	}))

	if b.t != nil {
		b.t.Cleanup(mock.Close)
	}
	return mock
}

func (m *MockAPIServer) handleCategories(w http.ResponseWriter) {
	if !m.Config.CategorySuccess {
		writeJSON(w, m.Config.CategoryStatus, map[string]interface{}{
			"success": false,
			"message": "Error while getting all categories",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "All Categories List",
		"category": m.Config.Categories,
	})
}

func (m *MockAPIServer) handleCreate(w http.ResponseWriter) {
	if m.Config.CreateGate != nil {
		<-m.Config.CreateGate
	}

	if !m.Config.CreateSuccess {
		writeJSON(w, m.Config.CreateStatus, map[string]interface{}{
			"success": false,
			"message": m.Config.CreateMessage,
		})
		return
	}

	writeJSON(w, m.Config.CreateStatus, map[string]interface{}{
		"success": true,
		"message": m.Config.CreateMessage,
	})
}

func (m *MockAPIServer) handleEvents(w http.ResponseWriter) {
	events := m.Config.Events
	if events == nil {
		events = []event.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"events":  events,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (m *MockAPIServer) logRequest(r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	info := RequestInfo{
		Method:    r.Method,
		Path:      r.URL.Path,
		Headers:   r.Header.Clone(),
		Body:      body,
		Timestamp: time.Now(),
	}

	parsed := r.Clone(r.Context())
	parsed.Body = io.NopCloser(bytes.NewReader(body))
	if err := parsed.ParseMultipartForm(32 << 20); err == nil {
		info.Form = parsed.MultipartForm.Value
		for field, headers := range parsed.MultipartForm.File {
			if len(headers) > 0 {
				info.File = &FileInfo{
					Field:       field,
					Filename:    headers[0].Filename,
					ContentType: headers[0].Header.Get("Content-Type"),
					Size:        headers[0].Size,
				}
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestLog = append(m.RequestLog, info)
}

// Utility methods for test assertions

// GetRequestCount returns the number of requests made to a specific path
func (m *MockAPIServer) GetRequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, req := range m.RequestLog {
		if req.Path == path {
			count++
		}
	}
	return count
}

// GetLastRequest returns the most recent request to a specific path
func (m *MockAPIServer) GetLastRequest(path string) *RequestInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.RequestLog) - 1; i >= 0; i-- {
		if m.RequestLog[i].Path == path {
			req := m.RequestLog[i]
			return &req
		}
	}
	return nil
}

// ClearRequestLog clears the request log
func (m *MockAPIServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestLog = []RequestInfo{}
}
