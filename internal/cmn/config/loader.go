package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ConfigLoader reads and merges configuration from defaults, a config file,
// environment variables and flags bound to its viper instance.
type ConfigLoader struct {
	v          *viper.Viper
	configFile string
	envFiles   []string
	configDir  string
	warnings   []string
}

// ConfigLoaderOption defines a functional option for configuring a ConfigLoader.
type ConfigLoaderOption func(*ConfigLoader)

// WithConfigFile sets an explicit configuration file. A missing explicit
// file is an error.
func WithConfigFile(configFile string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configFile = configFile
	}
}

// WithEnvFile loads dotenv files into the process environment before the
// configuration is read. Variables already set are not overridden.
func WithEnvFile(files ...string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.envFiles = append(l.envFiles, files...)
	}
}

// WithConfigDir overrides the directory searched for config.yaml, which
// defaults to $XDG_CONFIG_HOME/ringbuf.
func WithConfigDir(dir string) ConfigLoaderOption {
	return func(l *ConfigLoader) {
		l.configDir = dir
	}
}

// NewConfigLoader creates a ConfigLoader with the given viper instance and options.
// Flags should be bound to v before Load is called.
func NewConfigLoader(v *viper.Viper, options ...ConfigLoaderOption) *ConfigLoader {
	loader := &ConfigLoader{v: v}
	for _, opt := range options {
		opt(loader)
	}
	return loader
}

// Load is a shorthand for NewConfigLoader(viper.New(), opts...).Load().
func Load(opts ...ConfigLoaderOption) (*Config, error) {
	return NewConfigLoader(viper.New(), opts...).Load()
}

// Load reads configuration sources and returns a validated Config.
func (l *ConfigLoader) Load() (*Config, error) {
	if len(l.envFiles) > 0 {
		if err := godotenv.Load(l.envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	l.checkUnknownKeys()

	var def Definition
	err := l.v.Unmarshal(&def, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg := &Config{
		Capacity:       def.Capacity,
		Format:         def.Format,
		Encoding:       strings.ToLower(strings.TrimSpace(def.Encoding)),
		LogFormat:      strings.ToLower(def.LogFormat),
		Debug:          def.Debug,
		FollowPoll:     def.FollowPoll,
		MaxLineSize:    def.MaxLineSize,
		ConfigFileUsed: l.v.ConfigFileUsed(),
		Warnings:       l.warnings,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (l *ConfigLoader) setupViper() {
	for key, value := range defaults {
		l.v.SetDefault(key, value)
	}

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		dir := l.configDir
		if dir == "" {
			dir = filepath.Join(xdg.ConfigHome, AppSlug)
		}
		l.v.AddConfigPath(dir)
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
	}

	l.v.SetEnvPrefix(strings.ToUpper(AppSlug))
	l.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	l.v.AutomaticEnv()
}

// checkUnknownKeys records a warning for every key read from the config file
// that this version does not understand.
func (l *ConfigLoader) checkUnknownKeys() {
	known := make([]string, 0, len(defaults))
	for key := range defaults {
		known = append(known, key)
	}
	for _, key := range l.v.AllKeys() {
		if !slices.Contains(known, key) {
			l.warnings = append(l.warnings, fmt.Sprintf("Unknown configuration key: %s", key))
		}
	}
	slices.Sort(l.warnings)
}
