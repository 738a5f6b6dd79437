package integration_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"eventhub.dev/cli/internal/application/services"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/testutil"
)

func createEventArgs(extra ...string) []string {
	d := testutil.ValidDraft()
	args := []string{
		"create-event",
		"--name", d.Name,
		"--description", d.Description,
		"--price", d.Price,
		"--category", "Workshop",
		"--team-size", d.TeamSize,
		"--venue", d.Venue,
		"--event-date", d.EventDate,
		"--contact", d.Contact,
	}
	return append(args, extra...)
}

// TestCLI_CompleteCreateEventSession_WorksCorrectly runs the admin workflow against the mock backend
func TestCLI_CompleteCreateEventSession_WorksCorrectly(t *testing.T) {
	env := createTestEnvironment(t)

	photoPath := filepath.Join(t.TempDir(), "banner.png")
	if err := os.WriteFile(photoPath, testutil.PNGHeader, 0o600); err != nil {
		t.Fatalf("Failed to write photo: %v", err)
	}

	t.Run("config_show_uses_environment", func(t *testing.T) {
		stdout, _, err := env.run(t, "config", "show")
		if err != nil {
			t.Fatalf("Config show failed: %v", err)
		}
		if !strings.Contains(stdout, env.Server.URL) {
			t.Errorf("Config should show the backend URL %s, got: %s", env.Server.URL, stdout)
		}
	})

	t.Run("categories_lists_seeded_categories", func(t *testing.T) {
		stdout, _, err := env.run(t, "categories")
		if err != nil {
			t.Fatalf("Categories failed: %v", err)
		}
		for _, name := range []string{"Hackathon", "Workshop", "Conference", "Meetup"} {
			if !strings.Contains(stdout, name) {
				t.Errorf("Expected %s in output, got: %s", name, stdout)
			}
		}
	})

	t.Run("create_without_token_is_rejected", func(t *testing.T) {
		_, stderr, err := env.run(t, createEventArgs()...)
		if err == nil {
			t.Fatal("Expected create-event to fail without a token")
		}
		if !strings.Contains(stderr, "Missing Authorization header") {
			t.Errorf("Expected the backend message as a toast, got: %s", stderr)
		}
	})

	t.Run("create_with_missing_field_never_reaches_backend", func(t *testing.T) {
		args := createEventArgs("--token", env.AdminToken)
		args[2] = ""
		_, stderr, err := env.run(t, args...)
		if err == nil {
			t.Fatal("Expected create-event to fail without a name")
		}
		if !strings.Contains(stderr, "Name is Required") {
			t.Errorf("Expected validation message, got: %s", stderr)
		}
	})

	t.Run("create_with_token_navigates_to_listing", func(t *testing.T) {
		stdout, stderr, err := env.run(t, createEventArgs("--token", env.AdminToken, "--photo", photoPath, "--json")...)
		if err != nil {
			t.Fatalf("Create event failed: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, services.DefaultListingRoute) {
			t.Errorf("Expected navigation to %s, got: %s", services.DefaultListingRoute, stdout)
		}
		if !strings.Contains(stderr, services.CreatedMessage) {
			t.Errorf("Expected success toast, got: %s", stderr)
		}
	})

	t.Run("events_lists_the_created_event", func(t *testing.T) {
		stdout, _, err := env.run(t, "events", "--json")
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}

		var records []event.Record
		if err := json.Unmarshal([]byte(stdout), &records); err != nil {
			t.Fatalf("Events output is not JSON: %v\n%s", err, stdout)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(records))
		}
		if !records[0].HasPhoto {
			t.Error("Created event should carry its photo")
		}

		workshop, err := env.Store.ListCategories(context.Background())
		if err != nil {
			t.Fatalf("Failed to list categories: %v", err)
		}
		if records[0].Category != workshop[1].ID {
			t.Errorf("Category name should resolve to id %s, got %s", workshop[1].ID, records[0].Category)
		}
	})
}
