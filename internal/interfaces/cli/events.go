package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
)

// EventsFlags holds command-line flags for the events command
type EventsFlags struct {
	JSON bool
}

// NewEventsCommand creates the events command
func NewEventsCommand(container *CLIContainer) *cobra.Command {
	flags := &EventsFlags{}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List created events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resp, err := container.Gateway.ListEvents(ctx)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}
			if !resp.Success {
				return fmt.Errorf("failed to list events: %s", resp.Message)
			}

			if flags.JSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(resp.Events)
			}

			// Names are a nicety; ids are shown when the lookup fails
			var names category.List
			if cats, err := container.Gateway.ListCategories(ctx); err == nil && cats.Success {
				names = cats.Category
			} else {
				container.Logger.Log(ports.LogLevelDebug, "Category names unavailable", nil)
			}

			printEvents(cmd.OutOrStdout(), resp.Events, names)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print as JSON")

	return cmd
}

func printEvents(out io.Writer, events []event.Record, names category.List) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found")
		return
	}

	const row = "%-24s  %-24s  %-16s  %-12s  %8s  %4s  %s"
	fmt.Fprintln(out, tableHeaderStyle.Render(fmt.Sprintf(row, "ID", "NAME", "CATEGORY", "DATE", "PRICE", "TEAM", "PHOTO")))
	for _, e := range events {
		categoryName := e.Category
		if c, err := names.Find(e.Category); err == nil {
			categoryName = c.Name
		}
		photo := "no"
		if e.HasPhoto {
			photo = "yes"
		}
		fmt.Fprintf(out, row+"\n",
			e.ID,
			truncateString(e.Name, 24),
			truncateString(categoryName, 16),
			e.EventDate,
			e.Price,
			e.TeamSize,
			photo,
		)
	}
}

// truncateString shortens s to max runes with an ellipsis
func truncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
