package httpinfra

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"eventhub.dev/cli/internal/application/ports"
)

// RequestIDHeader carries a per-request id so client and backend logs can be joined
const RequestIDHeader = "X-Request-ID"

// RoundTripperWithAuth decorates every outgoing request with the admin token,
// a request id and fixed headers, and logs the exchange.
type RoundTripperWithAuth struct {
	base    http.RoundTripper
	token   string
	headers map[string]string
	logger  ports.LoggingGateway
}

// NewRoundTripperWithAuth wraps base; a nil base uses http.DefaultTransport
func NewRoundTripperWithAuth(base http.RoundTripper, token string, headers map[string]string, logger ports.LoggingGateway) *RoundTripperWithAuth {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RoundTripperWithAuth{base: base, token: token, headers: headers, logger: logger}
}

func (t *RoundTripperWithAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	newReq := req.Clone(req.Context())

	for k, v := range t.headers {
		newReq.Header.Set(k, v)
	}
	// The backend reads the raw token from Authorization, no scheme prefix.
	if t.token != "" && newReq.Header.Get("Authorization") == "" {
		newReq.Header.Set("Authorization", t.token)
	}
	requestID := newReq.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		newReq.Header.Set(RequestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(newReq)
	fields := map[string]interface{}{
		"method":     newReq.Method,
		"url":        newReq.URL.String(),
		"request_id": requestID,
		"latency":    time.Since(start).String(),
	}
	if err != nil {
		t.logger.LogError(err, "HTTP request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	t.logger.Log(ports.LogLevelDebug, "HTTP request completed", fields)
	return resp, nil
}
