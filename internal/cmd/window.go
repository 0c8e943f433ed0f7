package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dagucloud/ringbuf/internal/cmn/logger"
	"github.com/dagucloud/ringbuf/internal/cmn/logger/tag"
	"github.com/dagucloud/ringbuf/internal/metrics"
	"github.com/dagucloud/ringbuf/pkg/ringbuf"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Window() *cobra.Command {
	return NewCommand(
		&cobra.Command{
			Use:   "window [flags] [values...]",
			Short: "Push values through a circular buffer and show its contents",
			Long: `Push each value (or each line of standard input when no values are given)
into a circular buffer, overwriting the oldest value once it is full. Then
pop --pop values from the front and print what remains, oldest first,
together with the storage slot each value occupies.

Example:
  ringbuf window --capacity 3 a b c d e
  seq 1 100 | ringbuf window --capacity 5 --pop 2 --metrics --format table`,
		},
		[]commandLineFlag{capacityFlag, popFlag, formatFlag, metricsFlag},
		runWindow,
	)
}

type slotRecord struct {
	Index int    `json:"index" yaml:"index"`
	Slot  int    `json:"slot" yaml:"slot"`
	Value string `json:"value" yaml:"value"`
}

type windowReport struct {
	Capacity int              `json:"capacity" yaml:"capacity"`
	Size     int              `json:"size" yaml:"size"`
	Evicted  []string         `json:"evicted,omitempty" yaml:"evicted,omitempty"`
	Popped   []string         `json:"popped,omitempty" yaml:"popped,omitempty"`
	Entries  []slotRecord     `json:"entries" yaml:"entries"`
	Metrics  []metrics.Sample `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func runWindow(ctx *Context, args []string) error {
	pop, err := intFlag(ctx.Command, popFlag.name)
	if err != nil {
		return err
	}
	if pop < 0 {
		return fmt.Errorf("--pop must not be negative, got %d", pop)
	}
	withMetrics, err := ctx.Command.Flags().GetBool(metricsFlag.name)
	if err != nil {
		return fmt.Errorf("failed to get metrics flag: %w", err)
	}

	values := args
	if len(values) == 0 {
		values, err = readValues(ctx)
		if err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg, "window")
	if err != nil {
		return err
	}

	report := windowReport{Entries: []slotRecord{}}
	buf, err := ringbuf.New(ctx.Config.Capacity,
		ringbuf.WithObserver[string](rec),
		ringbuf.WithEvictFunc[string](func(v string) {
			report.Evicted = append(report.Evicted, v)
		}),
	)
	if err != nil {
		return err
	}

	for _, v := range values {
		buf.PushBack(v)
	}
	for range pop {
		v, err := buf.PopFront()
		if err != nil {
			return fmt.Errorf("failed to pop after %d of %d: %w", len(report.Popped), pop, err)
		}
		report.Popped = append(report.Popped, v)
	}
	logger.Debug(ctx, "Window built",
		tag.Capacity(buf.Capacity()),
		tag.Size(buf.Size()),
		tag.Count(len(values)),
	)

	report.Capacity = buf.Capacity()
	report.Size = buf.Size()
	for i, v := range buf.All() {
		slot, err := buf.Slot(i)
		if err != nil {
			return err
		}
		report.Entries = append(report.Entries, slotRecord{Index: i, Slot: slot, Value: v})
	}

	sections := []section{{
		header: table.Row{"#", "Slot", "Value"},
		rows: lo.Map(report.Entries, func(e slotRecord, _ int) table.Row {
			return table.Row{e.Index, e.Slot, e.Value}
		}),
	}}

	if withMetrics {
		report.Metrics, err = metrics.Snapshot(reg)
		if err != nil {
			return err
		}
		sections = append(sections, section{
			header: table.Row{"Metric", "Labels", "Value"},
			rows: lo.Map(report.Metrics, func(s metrics.Sample, _ int) table.Row {
				return table.Row{s.Name, s.Labels, s.Value}
			}),
		})
	}

	return render(ctx.Out(), ctx.Config.Format, report, sections...)
}

func readValues(ctx *Context) ([]string, error) {
	var values []string
	scanner := bufio.NewScanner(ctx.In())
	for scanner.Scan() {
		values = append(values, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return values, nil
}
