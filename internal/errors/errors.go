// Package errors provides custom error types for the jewelchat client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the client distinguishes
var (
	ErrTransport       = errors.New("transport failure")
	ErrEncoding        = errors.New("attachment encoding failed")
	ErrReset           = errors.New("reset failed")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrDownload        = errors.New("image download failed")
)

// APIError represents a non-success HTTP status from the assistant service
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string // first bytes of the response body, for diagnostics
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// Is matches ErrTransport
func (e *APIError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorWithBody creates a new APIError carrying the response body
func NewAPIErrorWithBody(statusCode int, endpoint, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NetworkError represents a failure to complete the HTTP exchange
type NetworkError struct {
	Operation string
	Endpoint  string
	Err       error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Operation, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport
func (e *NetworkError) Is(target error) bool {
	if target == ErrTransport {
		return true
	}
	_, ok := target.(*NetworkError)
	return ok
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(operation string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Err: err}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError for a specific endpoint
func NewNetworkErrorWithEndpoint(operation, endpoint string, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: endpoint, Err: err}
}

// ParseError represents a response body that could not be decoded
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors.
// An unreadable reply is a transport failure as far as the conversation is concerned.
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse || target == ErrTransport {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// EncodingError represents an attachment that could not be turned into a data URI
type EncodingError struct {
	Path    string
	Message string
	Err     error
}

func (e *EncodingError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("cannot attach %s: %s", e.Path, msg)
	}
	return fmt.Sprintf("cannot attach image: %s", msg)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is matches ErrEncoding
func (e *EncodingError) Is(target error) bool {
	if target == ErrEncoding {
		return true
	}
	_, ok := target.(*EncodingError)
	return ok
}

// NewEncodingError creates a new EncodingError
func NewEncodingError(path, message string, err error) *EncodingError {
	return &EncodingError{Path: path, Message: message, Err: err}
}

// ResetError wraps a failed POST /reset. It is logged, never shown.
type ResetError struct {
	ThreadID string
	Err      error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("reset of thread %s failed: %v", e.ThreadID, e.Err)
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// Is matches ErrReset
func (e *ResetError) Is(target error) bool {
	return target == ErrReset
}

// NewResetError creates a new ResetError
func NewResetError(threadID string, err error) *ResetError {
	return &ResetError{ThreadID: threadID, Err: err}
}

// DownloadError represents a failure to save an image from a reply
type DownloadError struct {
	Source     string
	StatusCode int
	Message    string
}

func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("download failed [%d] for %s: %s", e.StatusCode, e.Source, e.Message)
	}
	return fmt.Sprintf("download failed for %s: %s", e.Source, e.Message)
}

// Is matches ErrDownload
func (e *DownloadError) Is(target error) bool {
	return target == ErrDownload
}

// NewDownloadError creates a new DownloadError
func NewDownloadError(message, source string) *DownloadError {
	return &DownloadError{Message: message, Source: truncateSource(source)}
}

// NewDownloadErrorWithStatus creates a DownloadError for a non-success status
func NewDownloadErrorWithStatus(source string, statusCode int) *DownloadError {
	return &DownloadError{
		Source:     truncateSource(source),
		StatusCode: statusCode,
		Message:    "unexpected status",
	}
}

// data URIs are far too long to print
func truncateSource(source string) string {
	if len(source) > 64 {
		return source[:61] + "..."
	}
	return source
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var dlErr *DownloadError
	if errors.As(err, &dlErr) {
		return dlErr.StatusCode
	}
	return 0
}

// IsTransportError reports whether err is a failed /chat exchange
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNetworkError reports whether err happened before any HTTP status was received
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsEncodingError reports whether err is an attachment encoding failure
func IsEncodingError(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsResetError reports whether err is a failed remote reset
func IsResetError(err error) bool {
	return errors.Is(err, ErrReset)
}
