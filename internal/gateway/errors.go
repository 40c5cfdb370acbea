package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is returned when a GitHub response cannot be decoded or
// does not satisfy the expected schema.
var ErrMalformedResponse = errors.New("malformed GitHub response")

// ErrorKind classifies an UpstreamError.
type ErrorKind int

const (
	// KindTransport means GitHub answered with a non-success HTTP status.
	KindTransport ErrorKind = iota + 1
	// KindProtocol means the HTTP call succeeded but the GraphQL body carried errors.
	KindProtocol
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	Path      []any  `json:"path,omitempty"`
	Locations []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations,omitempty"`
}

// UpstreamError describes a failed call to GitHub.
type UpstreamError struct {
	Operation  string
	Kind       ErrorKind
	StatusCode int
	// Body is the raw response body of a transport failure.
	Body string
	// Errors are the GraphQL errors of a protocol failure.
	Errors []GraphQLError
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s: GitHub returned HTTP %d", e.Operation, e.StatusCode)
	case KindProtocol:
		msgs := make([]string, 0, len(e.Errors))
		for _, ge := range e.Errors {
			msgs = append(msgs, ge.Message)
		}
		return fmt.Sprintf("%s: GitHub GraphQL errors: %s", e.Operation, strings.Join(msgs, "; "))
	default:
		return e.Operation + ": upstream error"
	}
}
