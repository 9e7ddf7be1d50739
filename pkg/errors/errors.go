package errors

import (
	"errors"
	"fmt"
)

// Code represents a unique error code for stable testing and for
// dispatch by callers that need to branch on error kind (e.g. the
// Deployer deciding whether to abort the batch or continue).
type Code string

// Error codes, grouped by the severity scale of the error handling design:
// FatalConfig aborts the whole invocation, FatalTarget/ConflictDetected/
// BackupConflict/SourceUnreadable abort only the current module,
// TransientIO aborts the current operation, and Warning never aborts.
const (
	// General errors
	ErrUnknown        Code = "UNKNOWN"
	ErrInternal       Code = "INTERNAL"
	ErrInvalidInput   Code = "INVALID_INPUT"
	ErrNotFound       Code = "NOT_FOUND"
	ErrAlreadyExists  Code = "ALREADY_EXISTS"
	ErrPermission     Code = "PERMISSION"
	ErrNotImplemented Code = "NOT_IMPLEMENTED"

	// FatalConfig: unreadable or invalid configuration, missing HOME.
	// Abort the whole invocation.
	FatalConfig      Code = "FATAL_CONFIG"
	NoHomeDirectory  Code = "NO_HOME_DIRECTORY"
	ErrConfigLoad    Code = "CONFIG_LOAD"
	ErrConfigParse   Code = "CONFIG_PARSE"
	ErrConfigInvalid Code = "CONFIG_INVALID"

	// FatalTarget: target root does not exist, is not a directory, or is
	// not writable. Abort the current module; in deploy mode, continue
	// with the others.
	FatalTarget Code = "FATAL_TARGET"

	// ConflictDetected: Fail policy saw a conflict. Per-module abort.
	ConflictDetected Code = "CONFLICT_DETECTED"

	// BackupConflict: existing backup and user declined (or force-no) to
	// overwrite. Per-module abort; leaves target unchanged.
	BackupConflict Code = "BACKUP_CONFLICT"

	// SourceUnreadable: cannot open source subtree. Per-module abort.
	SourceUnreadable Code = "SOURCE_UNREADABLE"

	// TransientIO: an otherwise-unexpected errno during a syscall.
	// Per-operation abort; logged.
	TransientIO Code = "TRANSIENT_IO"

	// Warning: non-fatal anomaly (e.g. unreadable symlink during
	// unlink); operation continues.
	Warning Code = "WARNING"

	// Module / scanner errors
	ErrModuleNotFound Code = "MODULE_NOT_FOUND"
	ErrModuleInvalid  Code = "MODULE_INVALID"
	ErrModuleAccess   Code = "MODULE_ACCESS"

	// Matcher errors
	ErrPatternInvalid Code = "PATTERN_INVALID"

	// VCS collaborator errors
	ErrVCSNotRepo   Code = "VCS_NOT_REPO"
	ErrVCSRemote    Code = "VCS_REMOTE"
	ErrVCSConflict  Code = "VCS_CONFLICT"
	ErrVCSOperation Code = "VCS_OPERATION"

	// FileSystem errors
	ErrFileNotFound  Code = "FILE_NOT_FOUND"
	ErrFileAccess    Code = "FILE_ACCESS"
	ErrFileCreate    Code = "FILE_CREATE"
	ErrFileWrite     Code = "FILE_WRITE"
	ErrSymlinkCreate Code = "SYMLINK_CREATE"
	ErrSymlinkExists Code = "SYMLINK_EXISTS"
	ErrDirCreate     Code = "DIR_CREATE"
)

// Error is a structured error carrying a stable Code, a human message,
// arbitrary key/value Details for diagnostics, and an optional wrapped
// cause. Callers branch on Code rather than string-matching messages.
type Error struct {
	Code    Code
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is by comparing codes, so errors.Is(err,
// errors.New(FatalConfig, "")) matches any *Error with that code
// regardless of message or details.
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a code and message. Returns a nil
// *Error if err is nil; a nil *Error returned through an `error`
// interface compares non-nil, so every call site checks err != nil first.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code Code, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail attaches a diagnostic key/value pair and returns the
// receiver for chaining.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given details into the error's Details map.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsCode reports whether err is (or wraps) an *Error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of err, or ErrUnknown if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetDetails returns the Details map of err, or nil if err is not an *Error.
func GetDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// IsFatal reports whether code terminates the whole invocation rather
// than just the current module or operation.
func IsFatal(code Code) bool {
	return code == FatalConfig
}

// AbortsModule reports whether code terminates processing of the
// current module but allows the batch to continue with the others.
func AbortsModule(code Code) bool {
	switch code {
	case FatalTarget, ConflictDetected, BackupConflict, SourceUnreadable:
		return true
	default:
		return false
	}
}
