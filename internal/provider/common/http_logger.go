package common

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/johanforsgren/stashreview/internal/logger"
)

const (
	RequestIDHeader = "X-Request-Id"
	maxLoggedBody   = 10000
)

// LoggingTransport wraps an http.RoundTripper to log all requests and responses
type LoggingTransport struct {
	Transport http.RoundTripper
}

// NewLoggingTransport creates a new logging transport wrapper
func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

// RoundTrip tags the request with a request id and logs both directions.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	req = req.Clone(req.Context())
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(RequestIDHeader, requestID)
	}

	entry := logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     req.Method,
		"url":        req.URL.String(),
	})

	t.logRequest(entry, req)

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		entry.WithError(err).WithField("duration", duration).Warn("HTTP request failed")
		return nil, err
	}

	if err := t.logResponse(entry, resp, duration); err != nil {
		entry.WithError(err).Warn("HTTP response body unreadable")
		return nil, err
	}

	return resp, nil
}

func (t *LoggingTransport) logRequest(entry *logrus.Entry, req *http.Request) {
	fields := logrus.Fields{"headers": redactHeaders(req.Header)}

	if req.Body != nil && req.GetBody != nil && req.ContentLength > 0 && req.ContentLength < maxLoggedBody {
		// GetBody hands out a fresh reader so the outgoing body stays untouched.
		if body, err := req.GetBody(); err == nil {
			bodyBytes, readErr := io.ReadAll(body)
			_ = body.Close()
			if readErr == nil {
				fields["body"] = string(bodyBytes)
			}
		}
	} else if req.ContentLength > 0 {
		fields["body_bytes"] = req.ContentLength
	}

	entry.WithFields(fields).Debug("HTTP request")
}

func (t *LoggingTransport) logResponse(entry *logrus.Entry, resp *http.Response, duration time.Duration) error {
	fields := logrus.Fields{
		"status":   resp.StatusCode,
		"duration": duration,
		"headers":  redactHeaders(resp.Header),
	}

	if resp.Body != nil && resp.ContentLength != 0 {
		bodyBytes, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return err
		}
		// Restore the body for the caller
		resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		if len(bodyBytes) > 0 && len(bodyBytes) < maxLoggedBody {
			fields["body"] = string(bodyBytes)
		} else if len(bodyBytes) > 0 {
			fields["body_bytes"] = len(bodyBytes)
		}
	}

	entry.WithFields(fields).Debug("HTTP response")
	return nil
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isSensitiveHeader(name) {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func isSensitiveHeader(name string) bool {
	lowerName := strings.ToLower(name)
	sensitiveHeaders := []string{
		"authorization",
		"x-api-key",
		"api-key",
		"x-auth-token",
		"cookie",
		"set-cookie",
	}

	for _, sensitive := range sensitiveHeaders {
		if lowerName == sensitive {
			return true
		}
	}

	return false
}
