package test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// CmdTest is a helper struct to test commands.
type CmdTest struct {
	Name        string    // Name of the test.
	Args        []string  // Arguments to pass to the command.
	Stdin       io.Reader // Stdin is the command's standard input, if any.
	ExpectedOut []string  // Expected output to be present in the standard output.
}

// Command is a helper struct to test commands.
type Command struct {
	Helper
}

// RunCommand runs cmd under a throwaway root command and returns its
// standard output. The test fails if the command fails.
func (th Command) RunCommand(t *testing.T, cmd *cobra.Command, testCase CmdTest) string {
	t.Helper()

	out, err := th.run(cmd, testCase)
	require.NoError(t, err, "logs:\n%s", th.LoggingOutput.String())

	// Check if the expected output is present in the standard output.
	for _, expectedOutput := range testCase.ExpectedOut {
		require.Contains(t, out, expectedOutput)
	}
	return out
}

// RunCommandWithError runs a command and returns the error (if any) without failing the test.
func (th Command) RunCommandWithError(t *testing.T, cmd *cobra.Command, testCase CmdTest) error {
	t.Helper()

	out, err := th.run(cmd, testCase)
	if err == nil {
		for _, expectedOutput := range testCase.ExpectedOut {
			if len(expectedOutput) > 0 {
				require.Contains(t, out, expectedOutput)
			}
		}
	}
	return err
}

func (th Command) run(cmd *cobra.Command, testCase CmdTest) (string, error) {
	cmdRoot := &cobra.Command{Use: "root"}
	cmdRoot.AddCommand(cmd)

	var stdout bytes.Buffer
	cmdRoot.SetOut(&stdout)
	if testCase.Stdin != nil {
		cmdRoot.SetIn(testCase.Stdin)
	} else {
		cmdRoot.SetIn(strings.NewReader(""))
	}

	// Set arguments.
	cmdRoot.SetArgs(withConfigFlag(testCase.Args, th.ConfigFile))

	// Run the command
	err := cmdRoot.ExecuteContext(th.Context)
	return stdout.String(), err
}

func SetupCommand(t *testing.T, opts ...HelperOption) Command {
	t.Helper()

	opts = append(opts, WithCaptureLoggingOutput())
	return Command{Helper: Setup(t, opts...)}
}

// withConfigFlag appends --config <file> unless already present.
func withConfigFlag(args []string, configFile string) []string {
	if configFile == "" {
		return args
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--config" || arg == "-c" || hasConfigInline(arg) {
			return args
		}
		if arg == "--" {
			withFlag := append([]string{}, args[:i]...)
			withFlag = append(withFlag, "--config", configFile)
			withFlag = append(withFlag, args[i:]...)
			return withFlag
		}
	}
	return append(args, "--config", configFile)
}

func hasConfigInline(arg string) bool {
	return strings.HasPrefix(arg, "--config=") || strings.HasPrefix(arg, "-c=")
}
