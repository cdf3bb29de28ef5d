package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentifierFormat = errors.New("invalid PR identifier format")
	ErrInvalidConfig           = errors.New("invalid client configuration")
)

type TransportErrorKind string

const (
	TransportTimeout    TransportErrorKind = "timeout"
	TransportConnection TransportErrorKind = "connection"
)

// TransportError is a failure below HTTP semantics: the request never
// produced a response.
type TransportError struct {
	Kind   TransportErrorKind
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s failure: %v", e.Method, e.URL, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Timeout() bool {
	return e.Kind == TransportTimeout
}

type ClientErrorKind string

const (
	KindUnexpectedStatus      ClientErrorKind = "unexpected status"
	KindUnexpectedContentType ClientErrorKind = "unexpected content type"
	KindTransport             ClientErrorKind = "transport"
	KindRequest               ClientErrorKind = "request"
)

// ServerMessage is one entry of the server's {"errors": [...]} payload.
type ServerMessage struct {
	Context       *string `json:"context"`
	Message       string  `json:"message"`
	ExceptionName string  `json:"exceptionName"`
}

// ClientError reports that the server rejected a request or answered in a
// form the client cannot accept. Transport failures reach callers as a
// ClientError of KindTransport wrapping the *TransportError.
type ClientError struct {
	Kind        ClientErrorKind
	Operation   string
	StatusCode  int
	ContentType string
	Messages    []ServerMessage
	Err         error
}

func (e *ClientError) Error() string {
	var b strings.Builder
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString(": ")
	}
	switch e.Kind {
	case KindUnexpectedStatus:
		fmt.Fprintf(&b, "unexpected HTTP status %d", e.StatusCode)
	case KindUnexpectedContentType:
		fmt.Fprintf(&b, "unexpected content type %q (HTTP %d)", e.ContentType, e.StatusCode)
	default:
		b.WriteString(string(e.Kind))
		b.WriteString(" error")
	}
	for _, m := range e.Messages {
		fmt.Fprintf(&b, "; %s (%s)", m.Message, m.ExceptionName)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// ReportExtractionError reports a success response whose payload does not
// have the expected shape.
type ReportExtractionError struct {
	Entity string
	Reason string
	Err    error
}

func (e *ReportExtractionError) Error() string {
	msg := fmt.Sprintf("cannot extract %s: %s", e.Entity, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReportExtractionError) Unwrap() error {
	return e.Err
}

func NewExtractionError(entity, reason string) *ReportExtractionError {
	return &ReportExtractionError{Entity: entity, Reason: reason}
}

// ExtractErrorMessage returns the most useful text to show a user for err:
// the status code and server supplied messages when present, the full
// error otherwise.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClientError
	if errors.As(err, &ce) && len(ce.Messages) > 0 {
		parts := make([]string, 0, len(ce.Messages))
		for _, m := range ce.Messages {
			if m.ExceptionName != "" {
				parts = append(parts, fmt.Sprintf("%s (%s)", m.Message, m.ExceptionName))
				continue
			}
			parts = append(parts, m.Message)
		}
		msg := strings.Join(parts, "; ")
		if ce.StatusCode != 0 {
			msg = fmt.Sprintf("HTTP %d: %s", ce.StatusCode, msg)
		}
		return msg
	}
	return err.Error()
}
