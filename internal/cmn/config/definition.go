package config

import "time"

// Definition mirrors the keys accepted in config files and environment
// variables. Each field maps to a key through its mapstructure tag.
type Definition struct {
	Capacity    int           `mapstructure:"capacity"`
	Format      Format        `mapstructure:"format"`
	Encoding    string        `mapstructure:"encoding"`
	LogFormat   string        `mapstructure:"log_format"`
	Debug       bool          `mapstructure:"debug"`
	FollowPoll  time.Duration `mapstructure:"follow_poll"`
	MaxLineSize int           `mapstructure:"max_line_size"`
}

// defaults holds the value of every known key before any source is applied.
var defaults = map[string]any{
	"capacity":      DefaultCapacity,
	"format":        string(FormatPlain),
	"encoding":      "utf-8",
	"log_format":    "text",
	"debug":         false,
	"follow_poll":   "0s",
	"max_line_size": DefaultMaxLineSize,
}
