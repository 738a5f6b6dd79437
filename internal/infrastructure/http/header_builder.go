package httpinfra

import (
	"fmt"
	"net/http"
	"time"

	"eventhub.dev/cli/internal/application/ports"
)

// MergeHeaders returns base overlaid with extra
func MergeHeaders(base map[string]string, extra map[string]string) map[string]string {
	out := map[string]string{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// DefaultHeaders returns the headers sent with every request
func DefaultHeaders(version string) map[string]string {
	return map[string]string{
		"User-Agent": fmt.Sprintf("ehub/%s", version),
		"Accept":     "application/json",
	}
}

// NewClient builds the HTTP client used by the API gateway. A zero timeout
// leaves requests unbounded, matching the default http.Client.
func NewClient(timeout time.Duration, token string, headers map[string]string, logger ports.LoggingGateway) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewRoundTripperWithAuth(http.DefaultTransport, token, headers, logger),
	}
}
