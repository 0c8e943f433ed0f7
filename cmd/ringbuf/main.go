package main

import (
	"fmt"
	"os"

	"github.com/dagucloud/ringbuf/internal/cmd"
	"github.com/dagucloud/ringbuf/internal/cmn/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   config.AppSlug,
	Short: "ringbuf keeps the most recent values of a stream in a fixed-size buffer",
	Long: `ringbuf keeps the most recent values of a stream in a fixed-size circular
buffer, overwriting the oldest value once the buffer is full.

It can print the last lines of a file or standard input, follow a growing
file, and show how values are laid out in the buffer's storage.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(cmd.Tail())
	rootCmd.AddCommand(cmd.Window())
	rootCmd.AddCommand(cmd.Version())

	config.Version = version
}

var version = "0.0.0"
