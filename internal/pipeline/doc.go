// Package pipeline runs one regeneration: refresh the vendored source,
// verify it exists, rewrite every configured target in order and finally
// invoke the binding generator.
//
// The refresh and generator steps are best-effort; their failures are
// reported as warnings and the run still completes. Any other failure halts
// the run at that step and is returned as a ClassifiedError carrying the
// step name and the offending path or marker pattern.
package pipeline
