package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
	httpinfra "eventhub.dev/cli/internal/infrastructure/http"
	"eventhub.dev/cli/internal/infrastructure/logging"
	"eventhub.dev/cli/internal/testutil"
)

func newTestGateway(url string) *Gateway {
	return NewGateway(url, httpinfra.NewClient(0, "", nil, logging.NoopLogger{}), logging.NoopLogger{})
}

func TestListCategories_Success(t *testing.T) {
	categories := []category.Category{{ID: "a1", Name: "Quiz"}, {ID: "b2", Name: "Robotics"}}
	server := testutil.NewMockAPIServer(t).WithCategories(categories).Build()

	resp, err := newTestGateway(server.URL).ListCategories(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, categories, resp.Category)
	assert.Equal(t, 1, server.GetRequestCount(CategoryListPath))
}

func TestListCategories_FailureEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "OKStatus", status: http.StatusOK},
		{name: "ServerErrorWithMessage", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewMockAPIServer(t).WithCategoryFailure(tt.status).Build()

			resp, err := newTestGateway(server.URL).ListCategories(context.Background())

			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Empty(t, resp.Category)
		})
	}
}

func TestListCategories_NonJSONError(t *testing.T) {
	server := testutil.NewMockAPIServer(t).
		WithCustomHandler(CategoryListPath, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}).
		Build()

	_, err := newTestGateway(server.URL).ListCategories(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "bad gateway")
}

func TestListCategories_MalformedBody(t *testing.T) {
	server := testutil.NewMockAPIServer(t).
		WithCustomHandler(CategoryListPath, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}).
		Build()

	_, err := newTestGateway(server.URL).ListCategories(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestListCategories_Unreachable(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	url := server.URL
	server.Close()

	_, err := newTestGateway(url).ListCategories(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP request failed")
}

func TestCreateEvent_SendsMultipartFields(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	draft := testutil.ValidDraft()

	resp, err := newTestGateway(server.URL).CreateEvent(context.Background(), draft)

	require.NoError(t, err)
	assert.True(t, resp.Success)

	req := server.GetLastRequest(CreateEventPath)
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Contains(t, req.Headers.Get("Content-Type"), "multipart/form-data")
	assert.Equal(t, map[string][]string{
		"name":        {draft.Name},
		"description": {draft.Description},
		"price":       {draft.Price},
		"photo":       {""},
		"category":    {draft.Category},
		"team_size":   {draft.TeamSize},
		"venue":       {draft.Venue},
		"event_date":  {draft.EventDate},
		"contact":     {draft.Contact},
	}, req.Form)
	assert.Nil(t, req.File)
}

func TestCreateEvent_SendsPhotoAsFile(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	draft := testutil.ValidDraft().SetPhoto(&event.Photo{Name: "banner.png", Data: testutil.PNGHeader})

	_, err := newTestGateway(server.URL).CreateEvent(context.Background(), draft)
	require.NoError(t, err)

	req := server.GetLastRequest(CreateEventPath)
	require.NotNil(t, req)
	require.NotNil(t, req.File)
	assert.Equal(t, "photo", req.File.Field)
	assert.Equal(t, "banner.png", req.File.Filename)
	assert.Equal(t, "image/png", req.File.ContentType)
	assert.Equal(t, int64(len(testutil.PNGHeader)), req.File.Size)
	assert.NotContains(t, req.Form, "photo")
	assert.Equal(t, []string{draft.TeamSize}, req.Form["team_size"])
}

func TestCreateEvent_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "OKStatus", status: http.StatusOK},
		{name: "BadRequest", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewMockAPIServer(t).WithCreateRejection(tt.status, "Event already exists").Build()

			resp, err := newTestGateway(server.URL).CreateEvent(context.Background(), testutil.ValidDraft())

			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, "Event already exists", resp.Message)
		})
	}
}

func TestCreateEvent_ServerErrorIsNeverSuccess(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "SuccessTrueWithMessage", body: `{"success":true,"message":"oops"}`},
		{name: "SuccessFalseWithoutMessage", body: `{"success":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewMockAPIServer(t).
				WithCustomHandler(CreateEventPath, func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(tt.body))
				}).
				Build()

			resp, err := newTestGateway(server.URL).CreateEvent(context.Background(), testutil.ValidDraft())

			assert.Nil(t, resp)
			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		})
	}
}

func TestCreateEvent_SendsToken(t *testing.T) {
	server := testutil.NewMockAPIServer(t).WithRequiredToken("secret-token").Build()

	gateway := NewGateway(server.URL, httpinfra.NewClient(0, "secret-token", nil, logging.NoopLogger{}), logging.NoopLogger{})
	resp, err := gateway.CreateEvent(context.Background(), testutil.ValidDraft())
	require.NoError(t, err)
	assert.True(t, resp.Success)

	resp, err = newTestGateway(server.URL).CreateEvent(context.Background(), testutil.ValidDraft())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Unauthorized Access", resp.Message)
}

func TestListEvents(t *testing.T) {
	records := []event.Record{event.NewRecord("e1", testutil.ValidDraft(), testutil.FixedTime)}
	server := testutil.NewMockAPIServer(t).WithEvents(records).Build()

	resp, err := newTestGateway(server.URL).ListEvents(context.Background())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Code Sprint", resp.Events[0].Name)
	assert.Equal(t, "4", resp.Events[0].TeamSize)
	assert.True(t, testutil.FixedTime.Equal(resp.Events[0].CreatedAt))
}

func TestUpdateEndpoint(t *testing.T) {
	tests := []struct {
		name          string
		initialURL    string
		newURL        string
		expectError   bool
		expectedError string
		expectedURL   string
	}{
		{name: "valid URL update", initialURL: "https://api.eventhub.dev", newURL: "http://localhost:8080", expectedURL: "http://localhost:8080"},
		{name: "trailing slash trimmed", initialURL: "https://api.eventhub.dev", newURL: "http://localhost:8080/", expectedURL: "http://localhost:8080"},
		{name: "empty URL should fail", initialURL: "https://api.eventhub.dev", newURL: "", expectError: true, expectedError: "endpoint cannot be empty", expectedURL: "https://api.eventhub.dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newTestGateway(tt.initialURL)

			err := gateway.UpdateEndpoint(tt.newURL)

			if tt.expectError {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError, err.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedURL, gateway.Endpoint())
		})
	}
}

func TestUpdateEndpointConcurrency(t *testing.T) {
	gateway := newTestGateway("https://api.eventhub.dev")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = gateway.UpdateEndpoint("http://localhost:8080")
		}()
		go func() {
			defer wg.Done()
			_ = gateway.Endpoint()
		}()
	}
	wg.Wait()

	assert.Equal(t, "http://localhost:8080", gateway.Endpoint())
}
