package common

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "client error with server messages",
			err: &ClientError{
				Kind:       KindUnexpectedStatus,
				StatusCode: 409,
				Messages: []ServerMessage{
					{Message: "The pull request has been updated", ExceptionName: "StaleVersionException"},
				},
			},
			expected: "HTTP 409: The pull request has been updated (StaleVersionException)",
		},
		{
			name: "wrapped client error with several messages",
			err: fmt.Errorf("approve: %w", &ClientError{
				Kind:     KindUnexpectedStatus,
				Messages: []ServerMessage{{Message: "first"}, {Message: "second"}},
			}),
			expected: "first; second",
		},
		{
			name:     "Simple error message",
			err:      errors.New("connection timeout"),
			expected: "connection timeout",
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractErrorMessage(tt.err)
			if result != tt.expected {
				t.Errorf("ExtractErrorMessage() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{
		Kind:       KindUnexpectedStatus,
		Operation:  "post comment",
		StatusCode: 501,
		Messages: []ServerMessage{
			{Message: "A detailed error message.", ExceptionName: "seriousException"},
		},
	}

	msg := err.Error()
	for _, want := range []string{"post comment", "501", "A detailed error message.", "seriousException"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want it to contain %q", msg, want)
		}
	}
}

func TestClientErrorUnwrapsTransportError(t *testing.T) {
	transport := &TransportError{Kind: TransportTimeout, Method: "GET", URL: "http://x", Err: context.DeadlineExceeded}
	err := fmt.Errorf("get user: %w", &ClientError{Kind: KindTransport, Err: transport})

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatal("errors.As should find the TransportError")
	}
	if !te.Timeout() {
		t.Error("Timeout() = false, want true")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should reach the root cause")
	}
	var ce *ClientError
	if !errors.As(err, &ce) || ce.Kind != KindTransport {
		t.Errorf("errors.As ClientError = %v", ce)
	}
}

func TestReportExtractionError(t *testing.T) {
	err := NewExtractionError("comment", "missing author")
	if got := err.Error(); got != "cannot extract comment: missing author" {
		t.Errorf("Error() = %q", got)
	}

	var ce *ClientError
	if errors.As(error(err), &ce) {
		t.Error("a ReportExtractionError must not be a ClientError")
	}
}
