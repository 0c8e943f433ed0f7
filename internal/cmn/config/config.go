package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dagucloud/ringbuf/internal/errors"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	// AppSlug is used for the config directory and the environment prefix.
	AppSlug = "ringbuf"

	// DefaultCapacity is the window size used when none is configured.
	DefaultCapacity = 10

	// DefaultMaxLineSize is the longest line kept, in bytes.
	DefaultMaxLineSize = 1 << 20
)

// Version is set by the main package at build time.
var Version = "0.0.0"

// Format selects how windows are printed.
type Format string

const (
	FormatPlain Format = "plain"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formats lists every supported output format.
var Formats = []Format{FormatPlain, FormatJSON, FormatYAML, FormatTable}

// UnmarshalText implements encoding.TextUnmarshaler so that config values are
// matched case-insensitively.
func (f *Format) UnmarshalText(text []byte) error {
	*f = Format(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

func (f Format) valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Config holds the resolved settings for the CLI.
type Config struct {
	// Capacity is the number of elements kept in a window.
	Capacity int

	// Format is the output format for printed windows.
	Format Format

	// Encoding is the character set of input text, resolved with the WHATWG
	// encoding index (e.g. "utf-8", "shift_jis", "iso-8859-1").
	Encoding string

	// LogFormat is "text" or "json".
	LogFormat string

	Debug bool

	// FollowPoll, when positive, re-reads followed files on this interval in
	// addition to file system notifications.
	FollowPoll time.Duration

	// MaxLineSize is the longest line kept, in bytes. Longer lines are
	// truncated with a warning.
	MaxLineSize int

	// ConfigFileUsed is the config file that was read, if any.
	ConfigFileUsed string

	// Warnings collected while loading.
	Warnings []string
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var list errors.ErrorList
	if c.Capacity < 2 {
		list.Add(fmt.Errorf("capacity must be at least 2, got %d", c.Capacity))
	}
	if !c.Format.valid() {
		list.Add(fmt.Errorf("unsupported format %q", c.Format))
	}
	if _, err := htmlindex.Get(c.Encoding); err != nil {
		list.Add(fmt.Errorf("unsupported encoding %q: %w", c.Encoding, err))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		list.Add(fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if c.MaxLineSize < 1 {
		list.Add(fmt.Errorf("max_line_size must be positive, got %d", c.MaxLineSize))
	}
	if c.FollowPoll < 0 {
		list.Add(fmt.Errorf("follow_poll must not be negative, got %s", c.FollowPoll))
	}
	return list.ErrorOrNil()
}
