package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"eventhub.dev/cli/internal/application/ports"
)

// ConsoleLogger implements the LoggingGateway interface on top of logrus
type ConsoleLogger struct {
	mu     sync.Mutex
	logger *logrus.Logger
	level  ports.LogLevel
	closer io.Closer
}

// NewConsoleLogger creates a logger writing text to stderr at the given level
func NewConsoleLogger(level ports.LogLevel) *ConsoleLogger {
	l := &ConsoleLogger{logger: logrus.New()}
	l.logger.SetOutput(os.Stderr)
	l.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLogLevel(level)
	return l
}

// NewLogger creates a logger from a logging configuration
func NewLogger(config *ports.LoggingConfig) (*ConsoleLogger, error) {
	l := NewConsoleLogger(ports.LogLevelInfo)
	if err := l.ConfigureLogging(config); err != nil {
		return nil, err
	}
	return l, nil
}

// Log logs a message with the specified level
func (l *ConsoleLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	entry := l.logger.WithFields(logrus.Fields(fields))

	switch level {
	case ports.LogLevelDebug:
		entry.Debug(message)
	case ports.LogLevelWarn:
		entry.Warn(message)
	case ports.LogLevelError:
		entry.Error(message)
	default:
		entry.Info(message)
	}
}

// LogError logs an error
func (l *ConsoleLogger) LogError(err error, message string, fields map[string]interface{}) {
	l.logger.WithFields(logrus.Fields(fields)).WithError(err).Error(message)
}

// SetLogLevel sets the logging level
func (l *ConsoleLogger) SetLogLevel(level ports.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()

	parsed, err := logrus.ParseLevel(string(level))
	if err != nil {
		parsed = logrus.InfoLevel
		level = ports.LogLevelInfo
	}
	l.logger.SetLevel(parsed)
	l.level = level
}

// GetLogLevel returns the current logging level
func (l *ConsoleLogger) GetLogLevel() ports.LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// ConfigureLogging configures logging settings
func (l *ConsoleLogger) ConfigureLogging(config *ports.LoggingConfig) error {
	if config == nil {
		return nil
	}

	if config.Level != "" {
		if _, ok := ports.ParseLogLevel(string(config.Level)); !ok {
			return fmt.Errorf("invalid log level: %s", config.Level)
		}
		l.SetLogLevel(config.Level)
	}

	switch config.Format {
	case "", "text":
		l.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format: %s", config.Format)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer != nil {
		l.closer.Close()
		l.closer = nil
	}

	switch config.Output {
	case "", "stderr":
		l.logger.SetOutput(os.Stderr)
	case "stdout":
		l.logger.SetOutput(os.Stdout)
	case "discard":
		l.logger.SetOutput(io.Discard)
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		l.logger.SetOutput(f)
		l.closer = f
	}

	return nil
}

// SetOutput redirects log output
func (l *ConsoleLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// Close releases a log file opened by ConfigureLogging
func (l *ConsoleLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

var _ ports.LoggingGateway = (*ConsoleLogger)(nil)

// NoopLogger discards everything
type NoopLogger struct{}

func (NoopLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {}
func (NoopLogger) LogError(err error, message string, fields map[string]interface{})       {}
func (NoopLogger) SetLogLevel(level ports.LogLevel)                                        {}
func (NoopLogger) GetLogLevel() ports.LogLevel                                             { return ports.LogLevelError }
func (NoopLogger) ConfigureLogging(config *ports.LoggingConfig) error                      { return nil }

var _ ports.LoggingGateway = NoopLogger{}
