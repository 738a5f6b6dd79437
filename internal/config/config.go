package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"eventhub.dev/cli/internal/application/ports"
)

const (
	DefaultAPIURL       = "http://localhost:8080"
	DefaultListingRoute = "/dashboard/admin/products"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config is the effective client configuration
type Config struct {
	APIURL         string   `json:"api_url"`
	Token          string   `json:"token,omitempty"`
	ListingRoute   string   `json:"listing_route"`
	LogLevel       string   `json:"log_level"`
	LogFormat      string   `json:"log_format"`
	LogFile        string   `json:"log_file,omitempty"`
	RequestTimeout Duration `json:"request_timeout,omitempty"`
	Debug          bool     `json:"debug,omitempty"`

	// Headers are added to every request, overriding the defaults
	Headers map[string]string `json:"headers,omitempty"`

	// Source records where the file layer was read from, empty when none
	Source string `json:"-"`
}

// Duration is a time.Duration written as a Go duration string in JSON
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("invalid duration: %s", string(data))
	}
	*d = Duration(time.Duration(seconds * float64(time.Second)))
	return nil
}

// LoadOptions controls which layers Load reads
type LoadOptions struct {
	// Path of the JSON config file; empty uses EHUB_CONFIG_PATH or DefaultPath
	Path string
	// EnvFiles are dotenv files loaded before the environment is read;
	// missing files are skipped
	EnvFiles []string
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		APIURL:       DefaultAPIURL,
		ListingRoute: DefaultListingRoute,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// DefaultPath returns $HOME/.ehub/config.json
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ehub-config.json"
	}
	return filepath.Join(home, ".ehub", "config.json")
}

// Load builds the configuration from defaults, the JSON file, dotenv files
// and the environment, in increasing priority.
func Load(opts LoadOptions) (*Config, error) {
	cfg := Default()

	path := opts.Path
	if path == "" {
		path = os.Getenv("EHUB_CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, os.ErrNotExist):
		if opts.Path != "" {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays EHUB_* variables. VITE_API_URL is honored so a web
// client's .env can be reused as is.
func (c *Config) applyEnv() error {
	if v := firstEnv("EHUB_API_URL", "VITE_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("EHUB_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("EHUB_LISTING_ROUTE"); v != "" {
		c.ListingRoute = v
	}
	if v := os.Getenv("EHUB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("EHUB_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("EHUB_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("EHUB_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid EHUB_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = Duration(d)
	}
	if v := os.Getenv("EHUB_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EHUB_DEBUG: %w", err)
		}
		c.Debug = b
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks that the configuration can be used
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL cannot be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API URL must use http or https, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API URL must include a host, got %q", c.APIURL)
	}

	if !strings.HasPrefix(c.ListingRoute, "/") {
		return fmt.Errorf("listing route must start with '/', got %q", c.ListingRoute)
	}

	if _, ok := ports.ParseLogLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	for name := range c.Headers {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " :\r\n") {
			return fmt.Errorf("invalid header name: %q", name)
		}
		if strings.EqualFold(name, "Authorization") {
			return fmt.Errorf("set the Authorization header with token")
		}
	}
	return nil
}

// Timeout returns the request timeout as a time.Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout)
}

// LoggingConfig derives the logger settings. Debug forces the debug level.
func (c *Config) LoggingConfig() *ports.LoggingConfig {
	level := ports.LogLevel(c.LogLevel)
	if c.Debug {
		level = ports.LogLevelDebug
	}
	output := c.LogFile
	if output == "" {
		output = "stderr"
	}
	return &ports.LoggingConfig{Level: level, Format: c.LogFormat, Output: output}
}

// MaskedToken returns the token with all but the last four characters hidden
func (c *Config) MaskedToken() string {
	if c.Token == "" {
		return ""
	}
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", len(c.Token)-4) + c.Token[len(c.Token)-4:]
}
