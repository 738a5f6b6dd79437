package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage configuration settings for ehub.

Settings come from $HOME/.ehub/config.json (or EHUB_CONFIG_PATH), a .env
file, EHUB_* environment variables and the persistent flags, in increasing
priority.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigInitCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				masked := *container.Config
				masked.Token = container.Config.MaskedToken()
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(masked)
			}
			printConfig(cmd.OutOrStdout(), container.Config)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func printConfig(out io.Writer, cfg *config.Config) {
	source := cfg.Source
	if source == "" {
		source = "(defaults and environment)"
	}
	token := cfg.MaskedToken()
	if token == "" {
		token = "(not set)"
	}
	timeout := "none"
	if cfg.Timeout() > 0 {
		timeout = cfg.Timeout().String()
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintf(out, "Config File: %s\n", source)
	fmt.Fprintf(out, "API URL: %s\n", cfg.APIURL)
	fmt.Fprintf(out, "Token: %s\n", token)
	fmt.Fprintf(out, "Listing Route: %s\n", cfg.ListingRoute)
	fmt.Fprintf(out, "Log Level: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	if cfg.LogFile != "" {
		fmt.Fprintf(out, "Log File: %s\n", cfg.LogFile)
	}
	fmt.Fprintf(out, "Request Timeout: %s\n", timeout)
	fmt.Fprintf(out, "Debug: %t\n", cfg.Debug)
	if len(cfg.Headers) > 0 {
		names := make([]string, 0, len(cfg.Headers))
		for name := range cfg.Headers {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(out, "Extra Headers: %s\n", strings.Join(names, ", "))
	}
}

// NewConfigInitCommand creates the init subcommand
func NewConfigInitCommand(container *CLIContainer) *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				target = container.Config.Source
			}
			if target == "" {
				target = config.DefaultPath()
			}

			if _, err := os.Stat(target); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", target)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check config file: %w", err)
			}

			if err := config.Save(container.Config, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination file (default is the loaded file or $HOME/.ehub/config.json)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
