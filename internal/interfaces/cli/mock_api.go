package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/mockapi"
)

// MockAPIFlags holds command-line flags for the mock-api command
type MockAPIFlags struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	PrintToken  bool
	TokenTTL    time.Duration
	NoSeed      bool
}

// NewMockAPICommand creates the mock-api command
func NewMockAPICommand(container *CLIContainer) *cobra.Command {
	flags := &MockAPIFlags{}

	cmd := &cobra.Command{
		Use:   "mock-api",
		Short: "Run a local backend serving the category and event endpoints",
		Long: `Run a local stand-in for the event backend.

Data is kept in memory unless --database-url points at PostgreSQL. When a
JWT secret is set, creating events and categories requires an admin token;
--print-token prints one signed with that secret.

Examples:
  ehub mock-api
  ehub mock-api --addr :9090 --jwt-secret dev-secret --print-token
  ehub mock-api --database-url "host=localhost user=ehub password=ehub dbname=ehub sslmode=disable"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockAPI(cmd, container, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&flags.DatabaseURL, "database-url", os.Getenv("EHUB_DATABASE_URL"), "PostgreSQL DSN; in-memory when empty")
	cmd.Flags().StringVar(&flags.JWTSecret, "jwt-secret", os.Getenv("EHUB_JWT_SECRET"), "Require admin tokens signed with this secret")
	cmd.Flags().BoolVar(&flags.PrintToken, "print-token", false, "Print an admin token for --jwt-secret")
	cmd.Flags().DurationVar(&flags.TokenTTL, "token-ttl", 24*time.Hour, "Lifetime of the printed token")
	cmd.Flags().BoolVar(&flags.NoSeed, "no-seed", false, "Do not seed default categories")

	return cmd
}

func runMockAPI(cmd *cobra.Command, container *CLIContainer, flags *MockAPIFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if flags.PrintToken {
		if flags.JWTSecret == "" {
			return fmt.Errorf("--print-token requires --jwt-secret")
		}
		token, err := mockapi.GenerateToken(flags.JWTSecret, "admin", mockapi.AdminRole, flags.TokenTTL)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintf(out, "Admin token: %s\n", token)
	}

	var store mockapi.Store = mockapi.NewMemoryStore()
	if flags.DatabaseURL != "" {
		gormStore, err := mockapi.OpenGormStore(flags.DatabaseURL)
		if err != nil {
			return err
		}
		store = gormStore
	}

	if !flags.NoSeed {
		seeded, err := mockapi.Seed(ctx, store, mockapi.DefaultCategories)
		if err != nil {
			return err
		}
		container.Logger.Log(ports.LogLevelInfo, "Seeded categories", map[string]interface{}{
			"count": seeded,
		})
	}

	if !container.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	server := mockapi.NewServer(mockapi.Options{
		Store:     store,
		JWTSecret: flags.JWTSecret,
		Logger:    container.Logger,
	})

	fmt.Fprintf(out, "Mock API listening on %s\n", flags.Addr)
	return server.ListenAndServe(ctx, flags.Addr)
}
