package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/infrastructure/notify"
)

// CategoriesFlags holds command-line flags for the categories command
type CategoriesFlags struct {
	Filter string
	JSON   bool
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand(container *CLIContainer) *cobra.Command {
	flags := &CategoriesFlags{}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories an event can belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifier := &failureNotifier{Notifier: notify.NewConsoleNotifier(cmd.ErrOrStderr())}
			service := container.NewEventFormService(notifier, notify.NewConsoleNavigator(io.Discard))

			list := service.LoadCategories(cmd.Context()).Filter(flags.Filter)
			if notifier.failed {
				return fmt.Errorf("category listing failed")
			}

			if flags.JSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(list)
			}
			printCategories(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Filter, "filter", "", "Only show categories whose name contains this text")
	cmd.Flags().BoolVar(&flags.JSON, "json", false, "Print as JSON")

	return cmd
}

func printCategories(out io.Writer, list category.List) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No categories found")
		return
	}

	fmt.Fprintln(out, tableHeaderStyle.Render(fmt.Sprintf("%-24s  %s", "ID", "NAME")))
	for _, c := range list {
		fmt.Fprintf(out, "%-24s  %s\n", c.ID, c.Name)
	}
}
