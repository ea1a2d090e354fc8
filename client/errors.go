package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates malformed input (not a video ID/url).
	ErrInvalidInput = errors.New("invalid input")
	// ErrAuthExtraction indicates the landing page payload was missing or
	// its structure changed upstream.
	ErrAuthExtraction = errors.New("auth extraction failed")
	// ErrNoDownloadURL indicates the service reported success but returned
	// no download URL.
	ErrNoDownloadURL = errors.New("download url not found")
)

// UpstreamError is a service-reported error code or string. It is distinct
// from transport and decode failures: the request round-tripped, the service
// refused it.
type UpstreamError struct {
	Op   string
	Code string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream error code %s", e.Op, e.Code)
}

// HTTPStatusError reports a non-2xx response from the service.
type HTTPStatusError struct {
	Op         string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s request failed: status=%d", e.Op, e.StatusCode)
}

// DecodeError reports a response body that did not decode into the expected
// wire shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
