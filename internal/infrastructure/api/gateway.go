package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/core/event"
)

const (
	CategoryListPath = "/api/v1/category/get-category"
	CreateEventPath  = "/api/v1/event/create-event"
	EventListPath    = "/api/v1/event/get-events"
)

// maxErrorBody bounds how much of an unexpected response is kept for errors
const maxErrorBody = 512

// StatusError is returned for non-2xx responses that carry no usable message
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Gateway implements CategoryGateway and EventGateway over HTTP
type Gateway struct {
	endpoint   string
	httpClient *http.Client
	logger     ports.LoggingGateway
	mutex      sync.RWMutex
}

// NewGateway creates a gateway for the backend rooted at endpoint
func NewGateway(endpoint string, httpClient *http.Client, logger ports.LoggingGateway) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Gateway{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// UpdateEndpoint safely updates the API endpoint at runtime
func (g *Gateway) UpdateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.logger.Log(ports.LogLevelInfo, "Updating API endpoint", map[string]interface{}{
		"old_endpoint": g.endpoint,
		"new_endpoint": endpoint,
	})
	g.endpoint = strings.TrimRight(endpoint, "/")
	return nil
}

// Endpoint returns the current API endpoint
func (g *Gateway) Endpoint() string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.endpoint
}

// ListCategories fetches the category selection list
func (g *Gateway) ListCategories(ctx context.Context) (*ports.CategoryListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint()+CategoryListPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out ports.CategoryListResponse
	if err := g.do(req, &out, func() (bool, string) { return out.Success, out.Message }); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEvent posts the draft as a multipart create request. The draft is
// sent as is; callers validate it first.
func (g *Gateway) CreateEvent(ctx context.Context, draft event.Draft) (*ports.CreateEventResponse, error) {
	body, contentType, err := EncodeDraft(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint()+CreateEventPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	g.logger.Log(ports.LogLevelDebug, "Sending create event request", map[string]interface{}{
		"name":       draft.Name,
		"category":   draft.Category,
		"photo_size": draft.Photo.Size(),
		"body_size":  body.Len(),
	})

	var out ports.CreateEventResponse
	if err := g.do(req, &out, func() (bool, string) { return out.Success, out.Message }); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListEvents fetches the admin event listing
func (g *Gateway) ListEvents(ctx context.Context) (*ports.EventListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.Endpoint()+EventListPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out ports.EventListResponse
	if err := g.do(req, &out, func() (bool, string) { return out.Success, out.Message }); err != nil {
		return nil, err
	}
	return &out, nil
}

// do executes req and decodes the JSON envelope into out. A non-2xx response
// is accepted only when its body decodes to an unsuccessful envelope with a
// message, so the backend's own explanation reaches the user.
func (g *Gateway) do(req *http.Request, out interface{}, envelope func() (bool, string)) error {
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	decodeErr := json.Unmarshal(data, out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil {
			if success, message := envelope(); !success && message != "" {
				return nil
			}
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return nil
}

// EncodeDraft writes the draft as a multipart body in the backend's field
// order. Without a photo the photo field is sent as an empty value.
func EncodeDraft(draft event.Draft) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, field := range event.FormFields {
		if field == event.FieldPhoto && draft.Photo != nil {
			if err := writePhoto(writer, draft.Photo); err != nil {
				return nil, "", err
			}
			continue
		}
		if err := writer.WriteField(field.FormKey(), draft.Get(field)); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.FormKey(), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

func writePhoto(writer *multipart.Writer, photo *event.Photo) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		event.FieldPhoto.FormKey(), escapeQuotes(photo.Name)))
	header.Set("Content-Type", photo.ContentType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return fmt.Errorf("failed to write photo: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}

var (
	_ ports.CategoryGateway = (*Gateway)(nil)
	_ ports.EventGateway    = (*Gateway)(nil)
)
