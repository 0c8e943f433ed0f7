// Package test provides helpers shared by command tests.
package test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dagucloud/ringbuf/internal/cmn/logger"
	"github.com/stretchr/testify/require"
)

// HelperOption configures Setup.
type HelperOption func(*Options)

type Options struct {
	CaptureLoggingOutput bool   // CaptureLoggingOutput enables capturing of logging output
	ConfigContent        string // ConfigContent is written to the generated config file
}

// WithCaptureLoggingOutput creates a logging capture option
func WithCaptureLoggingOutput() HelperOption {
	return func(opts *Options) {
		opts.CaptureLoggingOutput = true
	}
}

// WithConfig sets the YAML written to the test config file.
func WithConfig(content string) HelperOption {
	return func(opts *Options) {
		opts.ConfigContent = content
	}
}

// Helper carries the context and files of a single test.
type Helper struct {
	Context       context.Context
	Cancel        context.CancelFunc
	ConfigFile    string
	LoggingOutput *SyncBuffer
	TmpDir        string
}

// Setup creates a temporary directory with a config file and a context
// whose logger writes to LoggingOutput when capturing is enabled.
func Setup(t *testing.T, opts ...HelperOption) Helper {
	t.Helper()

	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	// Keep the developer's environment out of the tests.
	for _, key := range []string{"CAPACITY", "FORMAT", "ENCODING", "LOG_FORMAT", "DEBUG", "FOLLOW_POLL", "MAX_LINE_SIZE", "ENV_FILE"} {
		t.Setenv("RINGBUF_"+key, "")
		require.NoError(t, os.Unsetenv("RINGBUF_"+key))
	}

	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(options.ConfigContent), 0600))

	helper := Helper{
		Context:       createDefaultContext(),
		ConfigFile:    configFile,
		LoggingOutput: &SyncBuffer{buf: new(bytes.Buffer)},
		TmpDir:        tmpDir,
	}

	if options.CaptureLoggingOutput {
		loggerInstance := logger.NewLogger(
			logger.WithDebug(),
			logger.WithFormat("text"),
			logger.WithWriter(helper.LoggingOutput),
			logger.WithQuiet(),
		)
		helper.Context = logger.WithFixedLogger(helper.Context, loggerInstance)
	}

	ctx, cancel := context.WithCancel(helper.Context)
	helper.Context = ctx
	helper.Cancel = cancel
	t.Cleanup(cancel)

	return helper
}

// WriteFile writes content to name inside the helper's temporary directory
// and returns its path.
func (h Helper) WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.TmpDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// SyncBuffer provides thread-safe buffer operations
type SyncBuffer struct {
	buf  *bytes.Buffer
	lock sync.Mutex
}

func (b *SyncBuffer) Write(p []byte) (n int, err error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.buf.String()
}

// createDefaultContext creates a context with default logger settings
func createDefaultContext() context.Context {
	ctx := context.Background()
	return logger.WithLogger(ctx, logger.NewLogger(
		logger.WithDebug(),
		logger.WithFormat("text"),
		logger.WithQuiet(),
	))
}
