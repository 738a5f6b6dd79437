package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/application/services"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/infrastructure/notify"
)

// CreateEventFlags holds command-line flags for the create-event command
type CreateEventFlags struct {
	Name        string
	Description string
	Price       string
	Category    string
	TeamSize    string
	Venue       string
	EventDate   string
	Contact     string
	Photo       string
	JSON        bool
}

// NewCreateEventCommand creates the one-shot create-event command
func NewCreateEventCommand(container *CLIContainer) *cobra.Command {
	flags := &CreateEventFlags{}

	cmd := &cobra.Command{
		Use:   "create-event",
		Short: "Create an event without the interactive form",
		Long: `Validate and submit a single event.

The same checks as the form apply: the first missing field is reported and
photos must be images no larger than 1MB. --category accepts a category id
or its name.

Examples:
  ehub create-event --name "Code Sprint" --description "24h hackathon" \
    --price 250 --category Hackathon --team-size 4 --venue "Main Hall" \
    --event-date 2026-11-02 --contact events@example.com --photo banner.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateEvent(cmd, container, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Name, "name", "", "Event name")
	cmd.Flags().StringVar(&flags.Description, "description", "", "Event description")
	cmd.Flags().StringVar(&flags.Price, "price", "", "Event price")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Category id or name")
	cmd.Flags().StringVar(&flags.TeamSize, "team-size", "", "Team size")
	cmd.Flags().StringVar(&flags.Venue, "venue", "", "Venue")
	cmd.Flags().StringVar(&flags.EventDate, "event-date", "", "Event date")
	cmd.Flags().StringVar(&flags.Contact, "contact", "", "Contact information")
	cmd.Flags().StringVar(&flags.Photo, "photo", "", "Path to an image file")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print the created event as JSON")

	return cmd
}

// errEventNotCreated is returned after the failure has already been reported
// through the notifier
var errEventNotCreated = errors.New("event was not created")

func runCreateEvent(cmd *cobra.Command, container *CLIContainer, flags *CreateEventFlags) error {
	ctx := cmd.Context()
	notifier := notify.NewConsoleNotifier(cmd.ErrOrStderr())
	service := container.NewEventFormService(notifier, notify.NewConsoleNavigator(cmd.OutOrStdout()))

	draft := event.Draft{
		Name:        flags.Name,
		Description: flags.Description,
		Price:       flags.Price,
		Category:    resolveCategory(ctx, service, flags.Category),
		TeamSize:    flags.TeamSize,
		Venue:       flags.Venue,
		EventDate:   flags.EventDate,
		Contact:     flags.Contact,
	}

	// The photo is checked last, after every required field.
	if flags.Photo != "" && event.Validate(draft) == nil {
		photo, err := event.LoadPhoto(flags.Photo)
		if err != nil {
			container.Logger.LogError(err, "Failed to load photo", map[string]interface{}{"path": flags.Photo})
			notifier.Error(photoErrorMessage(err))
			return fmt.Errorf("%w: %w", errEventNotCreated, err)
		}
		draft = draft.SetPhoto(photo)
	}

	outcome := service.Submit(ctx, draft)
	if !outcome.Created() {
		return errEventNotCreated
	}

	if flags.JSON && outcome.Event != nil {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(outcome.Event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func photoErrorMessage(err error) string {
	if errors.Is(err, event.ErrNotImage) {
		return event.ErrNotImage.Error()
	}
	return "Photo could not be read"
}

// resolveCategory maps a category name to its id. Well-formed ids are used
// as is; unknown names are passed through so the backend can judge them.
func resolveCategory(ctx context.Context, service *services.EventFormService, value string) string {
	if value == "" || primitive.IsValidObjectID(value) {
		return value
	}

	list := service.LoadCategories(ctx)
	if list.IndexOf(value) != -1 {
		return value
	}
	for _, c := range list {
		if strings.EqualFold(c.Name, value) {
			return c.ID
		}
	}
	return value
}

// failureNotifier remembers whether an error was reported
type failureNotifier struct {
	ports.Notifier
	failed bool
}

func (n *failureNotifier) Error(message string) {
	n.failed = true
	n.Notifier.Error(message)
}
