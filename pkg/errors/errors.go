package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is reports a match when target is an *AppError carrying the same code, so
// sentinels such as ErrForbidden can be compared with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Constructors
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) error {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Forbidden(msg string) error {
	return New(CodeForbidden, msg)
}

func InvalidTransition(from, to string) error {
	return Newf(CodeInvalidTransition, "cannot move from %s to %s", from, to)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf returns the code of the first AppError in err's chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	var rl *RateLimitedError
	if stderrors.As(err, &rl) {
		return CodeRateLimited
	}
	return CodeUnknown
}

// RateLimitedError is returned when a user has no pack tokens left.
type RateLimitedError struct {
	NextAllowedAt time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.NextAllowedAt.UTC().Format(time.RFC3339))
}

func (e *RateLimitedError) Is(target error) bool {
	var t *AppError
	if stderrors.As(target, &t) {
		return t.Code == CodeRateLimited
	}
	_, ok := target.(*RateLimitedError)
	return ok
}

func RateLimited(next time.Time) error {
	return &RateLimitedError{NextAllowedAt: next}
}
