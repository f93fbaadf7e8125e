// Package testagent provides a Go client for the mock driver TestAgentService.
package testagent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error represents a failed call with the gRPC status code and the
// server's message.
type Error struct {
	Code    codes.Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("testagent: %s: %s", e.Code, e.Message)
}

// wrapError converts a gRPC error into *Error. Context errors raised before
// the call reached the transport keep their identity under errors.Is.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if s, ok := status.FromError(err); ok {
		return &Error{Code: s.Code(), Message: s.Message()}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &Error{Code: codes.Canceled, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: codes.DeadlineExceeded, Message: err.Error()}
	}
	return &Error{Code: codes.Unknown, Message: err.Error()}
}

func hasCode(err error, code codes.Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsUnavailable returns true if the server could not be reached.
func IsUnavailable(err error) bool { return hasCode(err, codes.Unavailable) }

// IsCanceled returns true if the call was cancelled by the caller.
func IsCanceled(err error) bool { return hasCode(err, codes.Canceled) }

// IsDeadlineExceeded returns true if the call ran out of time.
func IsDeadlineExceeded(err error) bool { return hasCode(err, codes.DeadlineExceeded) }

// IsRateLimited returns true if the server rejected the call with
// ResourceExhausted.
func IsRateLimited(err error) bool { return hasCode(err, codes.ResourceExhausted) }
