// Package errors provides the classified errors returned by glueregen
// commands and the adapter that maps them to exit codes.
//
// Every failure that reaches the command line carries a category (config,
// marker, path, external, ...) which selects the exit code, a severity
// which decides whether a run stops, and context rendered after the
// message:
//
//	err := errors.MarkerError("marker not found").
//		WithCause(rewrite.ErrMarkerNotFound).
//		WithContext(errors.ContextPath, target.Path).
//		WithContext("pattern", "// Include source files").
//		Build()
package errors
