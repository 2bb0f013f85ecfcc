package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyTarget     = "target"
	KeyKind       = "kind"
	KeyPlatform   = "platform"
	KeyCategory   = "category"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyPattern    = "pattern"
	KeyCount      = "count"
	KeyChanged    = "changed"
	KeyCommand    = "command"
	KeyBranch     = "branch"
	KeyCommit     = "commit"
	KeyURL        = "url"
	KeyName       = "name"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Target(name string) slog.Attr    { return slog.String(KeyTarget, name) }
func Kind(k string) slog.Attr         { return slog.String(KeyKind, k) }
func Platform(p string) slog.Attr     { return slog.String(KeyPlatform, p) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Changed(c bool) slog.Attr        { return slog.Bool(KeyChanged, c) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
