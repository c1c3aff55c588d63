package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeNavigation       = "NAVIGATION_FAILED"
	ErrCodeSelectorNotFound = "SELECTOR_NOT_FOUND"
	ErrCodeBrowserCrash     = "BROWSER_CRASH"
	ErrCodeCapture          = "CAPTURE_FAILED"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in JSON API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CaptureError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type CaptureError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

// NewCaptureError creates a new CaptureError.
func NewCaptureError(code, message string, err error) *CaptureError {
	return &CaptureError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *CaptureError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
