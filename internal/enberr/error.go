// Package enberr defines the sentinel error kinds the platform core
// surfaces wrapped in a single Error type that preserves the
// underlying cause for errors.Unwrap/errors.As chains.
package enberr

import "fmt"

// Code names one of the platform's defined error kinds.
type Code string

const (
	ConfigDirNotFound  Code = "ConfigDirNotFound"
	MakefileNotFound   Code = "MakefileNotFound"
	RuleEvaluationErr  Code = "RuleEvaluationError"
	TargetNotFound     Code = "TargetNotFound"
	NodeInitError      Code = "NodeInitError"
	NodeBuildError     Code = "NodeBuildError"
	NodeCleanError     Code = "NodeCleanError"
	TaskNotFound       Code = "TaskNotFound"
	PlatformDestructed Code = "PlatformDestructed"
)

// Error wraps a cause with a stable code and optional structured details.
type Error struct {
	Message string
	Code    Code
	Details map[string]any
	cause   error
}

func New(cause error, code Code, details map[string]any) *Error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Message: msg, Code: code, Details: details, cause: cause}
}

func Newf(code Code, details map[string]any, format string, args ...any) *Error {
	return New(fmt.Errorf(format, args...), code, details)
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is reports whether target carries the same Code, so callers can do
// errors.Is(err, &enberr.Error{Code: enberr.TargetNotFound}).
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return e.Code == other.Code
}
