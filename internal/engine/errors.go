// internal/engine/errors.go
package engine

import (
	"context"
	"errors"
	"fmt"
)

// Common engine errors
var (
	ErrBrowserNotFound = errors.New("chrome browser not found")
	ErrSessionLost     = errors.New("browser session lost")
	ErrTimeout         = errors.New("timed out")
	ErrFieldNotFound   = errors.New("field not found")
	ErrUnknownStore    = errors.New("unknown store")
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	ErrCodeNavigation    ErrorCode = "NAVIGATION"
	ErrCodeTimeout       ErrorCode = "TIMEOUT"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeChallenge     ErrorCode = "CHALLENGE"
	ErrCodeBrowserLaunch ErrorCode = "BROWSER_LAUNCH"
	ErrCodeSessionLost   ErrorCode = "SESSION_LOST"
	ErrCodeUnknownStore  ErrorCode = "UNKNOWN_STORE"
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retry      bool
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	if target == ErrSessionLost && e.Code == ErrCodeSessionLost {
		return true
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Retry:      false,
		Details:    make(map[string]interface{}),
	}
}

// WithRetry marks the error as retryable
func (e *EngineError) WithRetry() *EngineError {
	e.Retry = true
	return e
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first EngineError in err's chain, or "" if none
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsFatal reports errors that end the whole batch rather than one target
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSessionLost) || errors.Is(err, context.Canceled) {
		return true
	}
	code := CodeOf(err)
	return code == ErrCodeBrowserLaunch || code == ErrCodeSessionLost
}
