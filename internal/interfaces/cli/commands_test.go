package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub.dev/cli/internal/application/services"
	"eventhub.dev/cli/internal/config"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/infrastructure/api"
	"eventhub.dev/cli/internal/infrastructure/logging"
	"eventhub.dev/cli/internal/testutil"
)

func newTestContainer(url string) *CLIContainer {
	cfg := config.Default()
	cfg.APIURL = url
	return &CLIContainer{
		Config:  cfg,
		Logger:  logging.NoopLogger{},
		Gateway: api.NewGateway(url, nil, logging.NoopLogger{}),
	}
}

func runCommand(t *testing.T, container *CLIContainer, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(container)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func createArgs(extra ...string) []string {
	d := testutil.ValidDraft()
	args := []string{
		"create-event",
		"--name", d.Name,
		"--description", d.Description,
		"--price", d.Price,
		"--category", "hackathon",
		"--team-size", d.TeamSize,
		"--venue", d.Venue,
		"--event-date", d.EventDate,
		"--contact", d.Contact,
	}
	return append(args, extra...)
}

func TestCreateEventCommand_Success(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()

	stdout, stderr, err := runCommand(t, newTestContainer(server.URL), createArgs()...)

	require.NoError(t, err)
	assert.Contains(t, stdout, services.DefaultListingRoute)
	assert.Contains(t, stderr, services.CreatedMessage)

	req := server.GetLastRequest(api.CreateEventPath)
	require.NotNil(t, req)
	assert.Equal(t, []string{"66f1c0ffee0000000000abcd"}, req.Form["category"], "Category name resolves to its id")
	assert.Equal(t, []string{"4"}, req.Form["team_size"])
}

func TestCreateEventCommand_ValidationFailure(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	args := createArgs()
	args[2] = ""

	_, stderr, err := runCommand(t, newTestContainer(server.URL), args...)

	require.ErrorIs(t, err, errEventNotCreated)
	assert.NotContains(t, err.Error(), "Name is Required", "The message is printed once, by the notifier")
	assert.Contains(t, stderr, "Name is Required")
	assert.Equal(t, 0, server.GetRequestCount(api.CreateEventPath))
}

func TestCreateEventCommand_MissingFieldReportedBeforePhoto(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	args := createArgs("--photo", filepath.Join(t.TempDir(), "missing.png"))
	args[2] = ""

	_, stderr, err := runCommand(t, newTestContainer(server.URL), args...)

	require.ErrorIs(t, err, errEventNotCreated)
	assert.Contains(t, stderr, "Name is Required")
	assert.NotContains(t, stderr, "Photo could not be read")
	assert.Equal(t, 0, server.GetRequestCount(api.CreateEventPath))
}

func TestCreateEventCommand_CategoryID(t *testing.T) {
	server := testutil.NewMockAPIServer(t).WithCategoryFailure(http.StatusInternalServerError).Build()
	args := createArgs()
	args[8] = "66f1c0ffee0000000000abce"

	_, stderr, err := runCommand(t, newTestContainer(server.URL), args...)

	require.NoError(t, err)
	assert.Equal(t, 0, server.GetRequestCount(api.CategoryListPath), "Ids need no category lookup")
	assert.NotContains(t, stderr, services.CategoriesFailedMessage)

	req := server.GetLastRequest(api.CreateEventPath)
	require.NotNil(t, req)
	assert.Equal(t, []string{"66f1c0ffee0000000000abce"}, req.Form["category"])
}

func TestCreateEventCommand_Rejected(t *testing.T) {
	server := testutil.NewMockAPIServer(t).
		WithCreateRejection(http.StatusConflict, "Event already exists").
		Build()

	stdout, stderr, err := runCommand(t, newTestContainer(server.URL), createArgs()...)

	require.ErrorIs(t, err, errEventNotCreated)
	assert.Contains(t, stderr, "Event already exists")
	assert.NotContains(t, err.Error(), "Event already exists")
	assert.NotContains(t, stdout, services.DefaultListingRoute)
}

func TestCreateEventCommand_Photo(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "banner.png")
	require.NoError(t, os.WriteFile(imagePath, testutil.PNGHeader, 0o600))
	textPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("plain notes"), 0o600))

	t.Run("Image", func(t *testing.T) {
		server := testutil.NewMockAPIServer(t).Build()
		_, _, err := runCommand(t, newTestContainer(server.URL), createArgs("--photo", imagePath)...)
		require.NoError(t, err)

		req := server.GetLastRequest(api.CreateEventPath)
		require.NotNil(t, req)
		require.NotNil(t, req.File)
		assert.Equal(t, "image/png", req.File.ContentType)
	})

	t.Run("NotAnImage", func(t *testing.T) {
		server := testutil.NewMockAPIServer(t).Build()
		_, stderr, err := runCommand(t, newTestContainer(server.URL), createArgs("--photo", textPath)...)
		assert.ErrorIs(t, err, event.ErrNotImage)
		assert.ErrorIs(t, err, errEventNotCreated)
		assert.Contains(t, stderr, "Photo must be an image")
		assert.Equal(t, 0, server.GetRequestCount(api.CreateEventPath))
	})
}

func TestCategoriesCommand(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	container := newTestContainer(server.URL)

	stdout, _, err := runCommand(t, container, "categories")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Hackathon")
	assert.Contains(t, stdout, "Workshop")

	stdout, _, err = runCommand(t, container, "categories", "--filter", "WORK")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Workshop")
	assert.NotContains(t, stdout, "Hackathon")
}

func TestCategoriesCommand_Failure(t *testing.T) {
	server := testutil.NewMockAPIServer(t).WithCategoryFailure(http.StatusInternalServerError).Build()

	_, stderr, err := runCommand(t, newTestContainer(server.URL), "categories")

	require.Error(t, err)
	assert.Contains(t, stderr, services.CategoriesFailedMessage)
}

func TestEventsCommand(t *testing.T) {
	record := event.NewRecord("6710c0ffee0000000000beef", testutil.ValidDraft(), testutil.FixedTime)
	record.HasPhoto = true
	server := testutil.NewMockAPIServer(t).WithEvents([]event.Record{record}).Build()

	stdout, _, err := runCommand(t, newTestContainer(server.URL), "events")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Code Sprint")
	assert.Contains(t, stdout, "Hackathon", "Category ids are shown by name")
	assert.Contains(t, stdout, "yes")
}

func TestConfigCommands(t *testing.T) {
	container := newTestContainer("http://localhost:9999")
	container.Config.Token = "secret-token-1234"

	stdout, _, err := runCommand(t, container, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "http://localhost:9999")
	assert.Contains(t, stdout, "1234")
	assert.NotContains(t, stdout, "secret-token")

	path := filepath.Join(t.TempDir(), "config.json")
	stdout, _, err = runCommand(t, container, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	assert.FileExists(t, path)

	_, _, err = runCommand(t, container, "config", "init", "--path", path)
	assert.Error(t, err, "Existing file is not overwritten without --force")

	_, _, err = runCommand(t, container, "config", "init", "--path", path, "--force")
	assert.NoError(t, err)
}

func TestExecute_ReturnsErrorToCaller(t *testing.T) {
	server := testutil.NewMockAPIServer(t).Build()
	container := newTestContainer(server.URL)

	err := executeArgs(context.Background(), container, []string{"no-such-command"})
	assert.Error(t, err)

	args := createArgs()
	args[2] = ""
	err = executeArgs(context.Background(), container, args)
	assert.ErrorIs(t, err, errEventNotCreated)

	assert.NoError(t, executeArgs(context.Background(), container, []string{"categories", "--json"}))
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{input: "short", max: 10, expected: "short"},
		{input: "exactly10!", max: 10, expected: "exactly10!"},
		{input: "much longer name", max: 10, expected: "much lo..."},
		{input: "abcdef", max: 2, expected: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateString(tt.input, tt.max))
		})
	}
}
