// Package tag provides standardized tag functions for structured logging.
//
// All tag keys use kebab-case naming convention for consistency.
package tag

import (
	"log/slog"
	"time"
)

// Error creates a tag for error objects.
func Error(err any) slog.Attr {
	return slog.Any("err", err)
}

// File creates a tag for file paths.
func File(path string) slog.Attr {
	return slog.String("file", path)
}

// Capacity creates a tag for a buffer capacity.
func Capacity(n int) slog.Attr {
	return slog.Int("capacity", n)
}

// Size creates a tag for the number of live elements.
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}

// Count creates a tag for generic counts (lines read, items pushed).
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Offset creates a tag for byte offsets within a file.
func Offset(n int64) slog.Attr {
	return slog.Int64("offset", n)
}

// Encoding creates a tag for character encoding names.
func Encoding(name string) slog.Attr {
	return slog.String("encoding", name)
}

// Format creates a tag for output format names.
func Format(name string) slog.Attr {
	return slog.String("format", name)
}

// Command creates a tag for CLI command names.
func Command(name string) slog.Attr {
	return slog.String("command", name)
}

// RunID creates a tag for a CLI invocation ID.
func RunID(id string) slog.Attr {
	return slog.String("run-id", id)
}

// Interval creates a tag for polling intervals.
func Interval(d time.Duration) slog.Attr {
	return slog.Duration("interval", d)
}

// Line creates a tag for a 1-based line number.
func Line(n int) slog.Attr {
	return slog.Int("line", n)
}

// MaxBytes creates a tag for a byte limit.
func MaxBytes(n int) slog.Attr {
	return slog.Int("max-bytes", n)
}
