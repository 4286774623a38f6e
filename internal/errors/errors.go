// Package errors defines domain-level errors used throughout the application.
// These errors describe failures talking to the ReliefWeb API and are translated into tool results
// (or placeholder documents) at the MCP boundary, never surfaced as protocol errors.
//
// NOTE: Important for developers
// When adding a new error here, consider how the search orchestrator and the MCP tool handlers
// should represent it to the caller (internal/reliefweb/client.go and internal/tools/search.go).
package errors

import (
	"errors"
)

var (
	// ErrRequestFailed indicates that an outbound HTTP request could not be completed.
	// This covers connection failures, timeouts, TLS errors and failures reading the response body.
	// A non-2xx status code is NOT a request failure, the body is still returned as data.
	ErrRequestFailed = errors.New("request failed")

	// ErrMalformedResponse indicates that a search response body was not valid JSON,
	// or did not have the expected top-level object shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnknownEndpoint indicates that a search was requested against an endpoint the adapter
	// does not expose.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)
