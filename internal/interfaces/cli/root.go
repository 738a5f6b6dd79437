package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/application/services"
	"eventhub.dev/cli/internal/config"
	"eventhub.dev/cli/internal/infrastructure/api"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Config        *config.Config
	Logger        ports.LoggingGateway
	Gateway       *api.Gateway
	MainContainer interface{} // Will be set to *di.Container, avoiding circular import
}

// NewEventFormService creates a form service wired to the container's gateway
func (c *CLIContainer) NewEventFormService(notifier ports.Notifier, navigator ports.Navigator) *services.EventFormService {
	return services.NewEventFormService(c.Gateway, c.Gateway, notifier, navigator, c.Logger, c.Config.ListingRoute)
}

// Overrides carries persistent flag values that take precedence over the
// loaded configuration. Empty fields are not applied.
type Overrides struct {
	ConfigPath string
	APIURL     string
	Token      string
	LogLevel   string
	LogFile    string
	Debug      bool
}

// NewRootCommand RootCommand represents the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "ehub",
		Short: "EventHub admin client - create and browse events",
		Long: `ehub is the admin client for the EventHub backend.

It loads the category list, validates new events and submits them with an
optional photo, either through an interactive form or one-shot commands.
A local mock backend is included for development.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigurationOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.ehub/config.json)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL")
	rootCmd.PersistentFlags().String("token", "", "Admin auth token sent in the Authorization header")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(NewFormCommand(container))
	rootCmd.AddCommand(NewCreateEventCommand(container))
	rootCmd.AddCommand(NewCategoriesCommand(container))
	rootCmd.AddCommand(NewEventsCommand(container))
	rootCmd.AddCommand(NewMockAPICommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// applyConfigurationOverrides hands explicitly set persistent flags to the
// main container, which reloads and rewires its components
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(interface {
		ApplyOverrides(Overrides) error
	})
	if !ok {
		return nil
	}

	flags := cmd.Flags()
	overrides := Overrides{}
	changed := false
	for name, target := range map[string]*string{
		"config":    &overrides.ConfigPath,
		"api-url":   &overrides.APIURL,
		"token":     &overrides.Token,
		"log-level": &overrides.LogLevel,
		"log-file":  &overrides.LogFile,
	} {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
			changed = true
		}
	}
	if flags.Changed("debug") {
		overrides.Debug, _ = flags.GetBool("debug")
		changed = true
	}

	if !changed {
		return nil
	}
	return mainContainer.ApplyOverrides(overrides)
}

// Execute adds all child commands to the root command and runs it with the
// process arguments. The caller reports the error and picks the exit code.
func Execute(ctx context.Context, container *CLIContainer) error {
	return executeArgs(ctx, container, os.Args[1:])
}

func executeArgs(ctx context.Context, container *CLIContainer, args []string) error {
	rootCmd := NewRootCommand(container)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
