// Package reqctx tags a batch run with an ID that follows it through logs and errors.
package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type key int

const runKey key = 0

// RunContext identifies one batch run
type RunContext struct {
	RunID     string
	StartTime time.Time
}

// WithRun attaches a fresh RunContext to ctx
func WithRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// FromContext returns the run attached to ctx, or a placeholder
func FromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// Elapsed returns the time since the run started
func (rc *RunContext) Elapsed() time.Duration {
	return time.Since(rc.StartTime)
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RunError wraps an error with the run that produced it
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[run %s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError tags err with the run in ctx. A nil err stays nil.
func NewRunError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: FromContext(ctx).RunID,
		Err:   err,
	}
}
