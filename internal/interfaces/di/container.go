package di

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/config"
	"eventhub.dev/cli/internal/infrastructure/api"
	httpinfra "eventhub.dev/cli/internal/infrastructure/http"
	"eventhub.dev/cli/internal/infrastructure/logging"
	"eventhub.dev/cli/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Config      *config.Config
	loadOptions config.LoadOptions

	// Infrastructure
	Logger     *logging.ConsoleLogger
	HTTPClient *http.Client
	APIGateway *api.Gateway

	// CLI
	CLIContainer *cli.CLIContainer

	mu sync.Mutex
}

// NewContainer creates and configures the dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithOptions(config.LoadOptions{})
}

// NewContainerWithOptions creates a container loading configuration with opts
func NewContainerWithOptions(opts config.LoadOptions) (*Container, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	container := &Container{loadOptions: opts}
	if err := container.initializeComponents(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	container.Logger.Log(ports.LogLevelDebug, "Dependency injection container initialized", map[string]interface{}{
		"api_url": cfg.APIURL,
		"source":  cfg.Source,
	})
	return container, nil
}

// initializeComponents wires every component from cfg. It runs again when
// flags override the configuration.
func (c *Container) initializeComponents(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// 1. Logger
	if c.Logger == nil {
		logger, err := logging.NewLogger(cfg.LoggingConfig())
		if err != nil {
			return err
		}
		c.Logger = logger
	} else if err := c.Logger.ConfigureLogging(cfg.LoggingConfig()); err != nil {
		return err
	}

	// 2. HTTP client and gateway
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
	headers := httpinfra.MergeHeaders(httpinfra.DefaultHeaders(cli.Version), cfg.Headers)
	c.HTTPClient = httpinfra.NewClient(cfg.Timeout(), cfg.Token, headers, c.Logger)
	c.APIGateway = api.NewGateway(cfg.APIURL, c.HTTPClient, c.Logger)
	c.Config = cfg

	// 3. CLI container
	if c.CLIContainer == nil {
		c.CLIContainer = &cli.CLIContainer{MainContainer: c}
	}
	c.CLIContainer.Config = cfg
	c.CLIContainer.Logger = c.Logger
	c.CLIContainer.Gateway = c.APIGateway

	return nil
}

// ApplyOverrides applies persistent flag values and rewires the components.
// A config path reloads the file layers first.
func (c *Container) ApplyOverrides(overrides cli.Overrides) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cfg *config.Config
	if overrides.ConfigPath != "" {
		opts := c.loadOptions
		opts.Path = overrides.ConfigPath
		loaded, err := config.Load(opts)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	} else {
		copied := *c.Config
		cfg = &copied
	}

	if overrides.APIURL != "" {
		cfg.APIURL = overrides.APIURL
	}
	if overrides.Token != "" {
		cfg.Token = overrides.Token
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.LogFile != "" {
		cfg.LogFile = overrides.LogFile
	}
	if overrides.Debug {
		cfg.Debug = true
	}

	if endpointOnly(overrides) {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if err := c.APIGateway.UpdateEndpoint(cfg.APIURL); err != nil {
			return err
		}
		c.Config = cfg
		c.CLIContainer.Config = cfg
		return nil
	}

	if err := c.initializeComponents(cfg); err != nil {
		return err
	}

	c.Logger.Log(ports.LogLevelDebug, "Applied configuration overrides", map[string]interface{}{
		"api_url": cfg.APIURL,
		"token":   cfg.MaskedToken(),
	})
	return nil
}

// endpointOnly reports whether the API URL is the only override, in which
// case the existing gateway is repointed instead of rebuilt
func endpointOnly(o cli.Overrides) bool {
	return o.APIURL != "" && o.ConfigPath == "" && o.Token == "" &&
		o.LogLevel == "" && o.LogFile == "" && !o.Debug
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Log(ports.LogLevelDebug, "Shutting down application", nil)

	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
	return c.Logger.Close()
}
