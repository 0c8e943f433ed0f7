package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dagucloud/ringbuf/internal/cmn/config"
	"github.com/dagucloud/ringbuf/internal/cmn/logger"
	"github.com/dagucloud/ringbuf/internal/cmn/logger/tag"
	"github.com/dagucloud/ringbuf/internal/window"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var errFollowStdin = errors.New("--follow requires a file argument")

func Tail() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "tail [flags] [file]",
			Short: "Print the last lines of a file or standard input",
			Long: `Read a file (or standard input when no file or "-" is given) and print
its last lines. Only the configured number of lines is ever held in memory.

With --follow, keep printing lines as they are appended to the file until
interrupted or until the file is removed.

Example:
  ringbuf tail -n 20 /var/log/app.log
  ringbuf tail -f --encoding shift_jis app.log
  cat app.log | ringbuf tail --format json`,
			Args: cobra.MaximumNArgs(1),
		},
		[]commandLineFlag{linesFlag, followFlag, encodingFlag, formatFlag},
		runTail,
	)
}

type lineRecord struct {
	Index int    `json:"index" yaml:"index"`
	Line  string `json:"line" yaml:"line"`
}

func runTail(ctx *Context, args []string) error {
	follow, err := ctx.Command.Flags().GetBool("follow")
	if err != nil {
		return fmt.Errorf("failed to get follow flag: %w", err)
	}

	cfg := ctx.Config
	path := ""
	if len(args) == 1 && args[0] != "-" {
		path = args[0]
	}
	if follow {
		if path == "" {
			return errFollowStdin
		}
		if cfg.Format != config.FormatPlain {
			return fmt.Errorf("--follow supports only the %s format, got %q", config.FormatPlain, cfg.Format)
		}
	}

	w, err := window.New(cfg.Capacity,
		window.WithEncoding(cfg.Encoding),
		window.WithPollInterval(cfg.FollowPoll),
		window.WithMaxLineSize(cfg.MaxLineSize),
	)
	if err != nil {
		return err
	}

	if follow {
		return followFile(ctx, w, path)
	}

	input := ctx.In()
	if path != "" {
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() {
			_ = f.Close()
		}()
		input = f
	}

	n, err := w.Consume(ctx, input)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Read input", tag.File(path), tag.Count(n), tag.Capacity(cfg.Capacity))

	return printLines(ctx, w.Lines())
}

func followFile(ctx *Context, w *window.Window, path string) error {
	signalCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fl, err := w.Follow(signalCtx, path)
	if err != nil {
		return err
	}
	defer func() {
		_ = fl.Close()
	}()

	out := ctx.Out()
	for _, line := range w.Lines() {
		_, _ = fmt.Fprintln(out, line)
	}

	logger.Info(ctx, "Following file", tag.File(path))
	return fl.Run(signalCtx, func(line string) {
		_, _ = fmt.Fprintln(out, line)
	})
}

func printLines(ctx *Context, lines []string) error {
	records := lo.Map(lines, func(line string, i int) lineRecord {
		return lineRecord{Index: i, Line: line}
	})
	var rows []table.Row
	if ctx.Config.Format == config.FormatTable {
		rows = lo.Map(records, func(r lineRecord, _ int) table.Row {
			return table.Row{r.Index, r.Line}
		})
	} else {
		rows = lo.Map(lines, func(line string, _ int) table.Row {
			return table.Row{line}
		})
	}
	return render(ctx.Out(), ctx.Config.Format, records, section{
		header: table.Row{"#", "Line"},
		rows:   rows,
	})
}
