package fatsecret

import (
	"errors"
	"fmt"
)

// UpstreamError reports a failed call to the FatSecret API: a transport
// error, a non-2xx status or an error envelope in the response body.
type UpstreamError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fatsecret %s: status %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fatsecret %s: %v", e.Method, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// APIError is the {"error": {"code", "message"}} envelope FatSecret returns
// with a 200 status when a call is rejected.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// IsUpstreamError reports whether err is, or wraps, an *UpstreamError.
func IsUpstreamError(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
