package errors

import "maps"

// ErrorCategory groups errors by the part of a run that produced them. The
// category alone decides the process exit code.
type ErrorCategory string

const (
	// CategoryConfig covers missing or invalid configuration, including
	// required directories and target files that do not exist.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryAuth       ErrorCategory = "auth"

	// CategoryMarker covers target files that do not conform to the
	// anchored-section format (marker missing or ambiguous).
	CategoryMarker ErrorCategory = "marker"
	CategoryPath   ErrorCategory = "path"
	// CategoryDrift reports generated files that are out of date.
	CategoryDrift ErrorCategory = "drift"

	// CategoryExternal covers the binding generator subprocess.
	CategoryExternal ErrorCategory = "external"
	CategoryGit      ErrorCategory = "git"

	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity says whether a run can continue past the error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// RetryStrategy hints whether repeating the operation can succeed.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// Well-known context keys.
const (
	ContextStep        = "step"
	ContextPath        = "path"
	ContextRemediation = "remediation"
)

// ErrorContext carries structured details rendered after the message.
type ErrorContext map[string]any

// Set stores value under key, allocating the map when needed.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext, 1)
	}
	c[key] = value
	return c
}

// GetString returns the value for key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func (c ErrorContext) with(key string, value any) ErrorContext {
	out := make(ErrorContext, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}
